package api

import (
	"context"
	"errors"

	"github.com/rpupo63/personal-blog-backend/services"
)

type keyType string

const (
	adminClaimsKey keyType = "adminClaims"
)

// ctxWithAdminClaims adds verified admin claims to the context
func ctxWithAdminClaims(ctx context.Context, claims *services.AdminClaims) context.Context {
	return context.WithValue(ctx, adminClaimsKey, claims)
}

// ctxGetAdminClaims retrieves admin claims set by the auth middleware
func ctxGetAdminClaims(ctx context.Context) (*services.AdminClaims, error) {
	if ctxValue := ctx.Value(adminClaimsKey); ctxValue == nil {
		return nil, errors.New("key not found in context")
	} else if claims, ok := ctxValue.(*services.AdminClaims); !ok {
		return nil, errors.New("value is not of type `*services.AdminClaims`")
	} else {
		return claims, nil
	}
}

// actor names who made a request, for audit logs
func actor(ctx context.Context) string {
	claims, err := ctxGetAdminClaims(ctx)
	if err != nil {
		return "anonymous"
	}
	return claims.Subject
}
