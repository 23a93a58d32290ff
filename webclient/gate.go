package webclient

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
)

// ErrIncorrectPassword is returned by an AdminGate that rejects the password.
var ErrIncorrectPassword = errors.New("incorrect password")

// AdminGate decides whether the admin-only views may be opened. Client-side gating is
// cosmetic; the server only enforces writes when it runs with admin enforcement.
type AdminGate interface {
	// Unlock checks the password and returns the credential to persist.
	Unlock(ctx context.Context, password string) (string, error)
	// Restore re-applies a persisted credential and reports whether it is usable.
	Restore(credential string) bool
	// Lock drops any credential held in memory.
	Lock()
}

const localGateCredential = "authenticated"

// LocalGate compares against a password compiled into the client.
type LocalGate struct {
	password string
}

func NewLocalGate(password string) *LocalGate {
	return &LocalGate{password: password}
}

func (g *LocalGate) Unlock(_ context.Context, password string) (string, error) {
	if g.password == "" || subtle.ConstantTimeCompare([]byte(g.password), []byte(password)) != 1 {
		return "", ErrIncorrectPassword
	}
	return localGateCredential, nil
}

func (g *LocalGate) Restore(credential string) bool {
	return credential == localGateCredential
}

func (g *LocalGate) Lock() {}

// ServerGate asks the API for a session token and attaches it to the client.
type ServerGate struct {
	client *Client
}

func NewServerGate(client *Client) *ServerGate {
	return &ServerGate{client: client}
}

func (g *ServerGate) Unlock(ctx context.Context, password string) (string, error) {
	token, _, err := g.client.AdminSession(ctx, password)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return "", ErrIncorrectPassword
		}
		return "", err
	}
	g.client.SetToken(token)
	return token, nil
}

func (g *ServerGate) Restore(credential string) bool {
	if credential == "" || credential == localGateCredential {
		return false
	}
	g.client.SetToken(credential)
	return true
}

func (g *ServerGate) Lock() {
	g.client.SetToken("")
}
