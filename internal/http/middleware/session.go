package middleware

import (
	"context"
	"net/http"

	"github.com/homeservices/exchange-api/internal/http/response"
	"github.com/homeservices/exchange-api/internal/platform/auth"
	"github.com/homeservices/exchange-api/pkg/logger"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// RequireSession authenticates the request from the token cookie and
// attaches the verified claims to the context. It does not authorize: each
// handler decides which claim fields must match its resources.
func RequireSession(tokens *auth.TokenService, denylist auth.Denylist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(tokens.CookieName())
			if err != nil || cookie.Value == "" {
				response.Unauthorized(w, "unauthorized access")
				return
			}

			claims, err := tokens.Parse(cookie.Value)
			if err != nil {
				response.Unauthorized(w, "unauthorized access")
				return
			}

			if denylist != nil {
				revoked, err := denylist.IsRevoked(r.Context(), cookie.Value)
				if err != nil {
					logger.ErrorContext(r.Context(), "denylist lookup failed", "error", err)
					response.InternalError(w, "internal error")
					return
				}
				if revoked {
					response.Unauthorized(w, "unauthorized access")
					return
				}
			}

			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			ctx = context.WithValue(ctx, logger.EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func Claims(r *http.Request) *auth.Claims {
	if v := r.Context().Value(CtxClaims); v != nil {
		if c, ok := v.(*auth.Claims); ok {
			return c
		}
	}
	return nil
}
