package jwtverify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption-hub/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("jwt verifier: secret not configured")
	ErrTokenEmpty    = errors.New("jwt verifier: token is empty")
	ErrInvalidToken  = errors.New("jwt verifier: invalid token")
)

// identityClaims: subject = uid del identity provider.
type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Verifier valida tokens HS256 emitidos por el identity provider.
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

func New(secret, issuer string) (*Verifier, error) {
	if len(strings.TrimSpace(secret)) == 0 {
		return nil, ErrNotConfigured
	}
	return &Verifier{secret: []byte(secret), issuer: strings.TrimSpace(issuer), leeway: 30 * time.Second}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &identityClaims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*identityClaims)
	if !ok || !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}
	uid := strings.TrimSpace(claims.Subject)
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return auth.Claims{UserID: uid, Email: strings.TrimSpace(claims.Email)}, nil
}

// Sign emite un token para uid. Lo usan los tests y el tooling de desarrollo.
func Sign(secret, issuer, uid, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
