package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/yanqian/opsdash/pkg/errors"
)

// Authorizer admits or rejects an API caller from its bearer token, which may be
// empty.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (Claims, error)
}

// New returns the authorizer selected by cfg.Mode.
func New(cfg Config, logger *slog.Logger) (Authorizer, error) {
	switch cfg.Mode {
	case "", ModeNone:
		logger.Info("api authorization disabled", "mode", ModeNone)
		return NoopAuthorizer{}, nil
	case ModeJWT:
		if cfg.Secret == "" {
			return nil, fmt.Errorf("auth mode %s requires a secret", ModeJWT)
		}
		logger.Info("api authorization enabled", "mode", ModeJWT)
		return NewJWTAuthorizer(cfg.Secret), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// NoopAuthorizer admits every caller.
type NoopAuthorizer struct{}

func (NoopAuthorizer) Authorize(context.Context, string) (Claims, error) {
	return Claims{Subject: "anonymous", Anonymous: true}, nil
}

// JWTAuthorizer accepts HS256 tokens signed with a shared secret.
type JWTAuthorizer struct {
	secret []byte
	now    func() time.Time
}

// NewJWTAuthorizer constructs the authorizer.
func NewJWTAuthorizer(secret string) *JWTAuthorizer {
	return &JWTAuthorizer{secret: []byte(secret), now: time.Now}
}

func (a *JWTAuthorizer) Authorize(_ context.Context, token string) (Claims, error) {
	if token == "" {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "missing bearer token", nil)
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token invalid", nil)
	}
	return Claims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

var (
	_ Authorizer = NoopAuthorizer{}
	_ Authorizer = (*JWTAuthorizer)(nil)
)
