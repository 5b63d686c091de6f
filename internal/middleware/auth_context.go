package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const (
	debugUserHeader  = "X-Debug-User-ID"
	debugEmailHeader = "X-Debug-User-Email"
)

// AuthContext resuelve la identidad del request.
//   - verifier != nil: Bearer token => Verify() => claims.
//   - verifier == nil: modo dev, X-Debug-User-ID (+ X-Debug-User-Email).
//
// Sin identidad el request sigue; cada handler decide si exige auth.
func AuthContext(verifier auth.AuthVerifier, log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				uid := strings.TrimSpace(r.Header.Get(debugUserHeader))
				if uid == "" {
					next.ServeHTTP(w, r)
					return
				}
				email := strings.TrimSpace(r.Header.Get(debugEmailHeader))
				if email == "" {
					email = uid + "@dev.local"
				}
				next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), auth.Claims{UserID: uid, Email: email})))
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Debug("token rejected", map[string]any{"err": err.Error(), "path": r.URL.Path})
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	if !ok || !c.Authenticated() {
		return auth.Claims{}, false
	}
	return c, true
}

func bearerToken(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
