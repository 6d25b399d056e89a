package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quanganhtapcode/store/api/responses"
	"github.com/quanganhtapcode/store/pkg/config"
	pkgerrors "github.com/quanganhtapcode/store/pkg/errors"
	"github.com/quanganhtapcode/store/pkg/logger"
)

// Auth verifies the bearer token on destructive order endpoints. Token
// issuance lives in the external login service; this side only checks the
// HMAC signature, expiry, and issuer.
func Auth(cfg config.AuthConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims := jwt.MapClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(cfg.JWTSecret), nil
			}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
			if err != nil || !parsed.Valid {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := r.Context()
			if logg != nil {
				if sub, err := claims.GetSubject(); err == nil && sub != "" {
					ctx = logg.WithField(ctx, "subject", sub)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
