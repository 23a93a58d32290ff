package services

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminSubject    = "admin"
	adminIssuer     = "personal-blog"
	defaultTokenTTL = 12 * time.Hour
)

// AdminClaims are carried by admin session tokens.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminService checks the shared admin password and issues session tokens.
type AdminService struct {
	password     []byte
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

type AdminOptions struct {
	Password     string
	PasswordHash string // bcrypt; preferred over Password when both are set
	Secret       string
	TTL          time.Duration
}

func NewAdminService(opts AdminOptions) *AdminService {
	s := &AdminService{
		password:     []byte(opts.Password),
		passwordHash: []byte(opts.PasswordHash),
		secret:       []byte(opts.Secret),
		ttl:          opts.TTL,
		now:          time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = defaultTokenTTL
	}
	if len(s.secret) == 0 {
		// tokens will not survive a restart
		s.secret = make([]byte, 32)
		if _, err := rand.Read(s.secret); err != nil {
			log.Fatal().Err(err).Msg("Failed to generate admin token secret")
		}
		if s.Enabled() {
			log.Warn().Msg("ADMIN_JWT_SECRET not set, using a random secret for this process")
		}
	}
	return s
}

// NewAdminServiceFromConfig reads ADMIN_PASSWORD, ADMIN_PASSWORD_HASH, ADMIN_JWT_SECRET and ADMIN_TOKEN_TTL.
func NewAdminServiceFromConfig(cfg map[string]string) *AdminService {
	return NewAdminService(AdminOptions{
		Password:     config.GetString(cfg, "ADMIN_PASSWORD", ""),
		PasswordHash: config.GetString(cfg, "ADMIN_PASSWORD_HASH", ""),
		Secret:       config.GetString(cfg, "ADMIN_JWT_SECRET", ""),
		TTL:          config.GetDuration(cfg, "ADMIN_TOKEN_TTL", defaultTokenTTL),
	})
}

func (s *AdminService) WithClock(now func() time.Time) *AdminService {
	s.now = now
	return s
}

// Enabled reports whether an admin password has been configured.
func (s *AdminService) Enabled() bool {
	return len(s.password) > 0 || len(s.passwordHash) > 0
}

func (s *AdminService) checkPassword(candidate string) bool {
	if len(s.passwordHash) > 0 {
		return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare(s.password, []byte(candidate)) == 1
}

// Login exchanges the admin password for a signed token and its expiry.
func (s *AdminService) Login(password string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, errs.NewAdminDisabledError()
	}
	if password == "" {
		return "", time.Time{}, errs.NewMissingRequiredFieldError("password")
	}
	if !s.checkPassword(password) {
		return "", time.Time{}, errs.NewIncorrectPasswordError()
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := AdminClaims{
		Role: adminSubject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			Issuer:    adminIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errs.NewInternalError("failed to sign admin token")
	}
	return token, expiresAt.UTC(), nil
}

// Verify parses a token issued by Login.
func (s *AdminService) Verify(tokenString string) (*AdminClaims, error) {
	if tokenString == "" {
		return nil, errs.NewMissingTokenError()
	}

	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(adminIssuer),
		jwt.WithSubject(adminSubject),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid || claims.Role != adminSubject {
		return nil, errs.NewInvalidTokenError(errors.New("invalid token"))
	}
	return claims, nil
}
