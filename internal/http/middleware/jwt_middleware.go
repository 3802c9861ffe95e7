package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/weddingwise/weddingwise-bookings/internal/http/response"
	"github.com/weddingwise/weddingwise-bookings/pkg/auth"
	"github.com/weddingwise/weddingwise-bookings/pkg/logger"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// Auth validates Bearer tokens and stashes the claims in the request
// context. Expired and malformed tokens are reported with distinct
// codes so clients know when to hit the refresh endpoint.
type Auth struct {
	Secret string
}

func NewAuth(secret string) *Auth {
	return &Auth{Secret: secret}
}

func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			response.WriteError(w, http.StatusUnauthorized, "Access Denied. No token provided.", response.CodeUnauthorized)
			return
		}
		raw := strings.TrimPrefix(authz, "Bearer ")
		claims, err := auth.Parse(raw, a.Secret)
		if err != nil {
			if errors.Is(err, auth.ErrExpired) {
				response.WriteError(w, http.StatusUnauthorized, "Access Denied. Token has expired.", response.CodeExpiredToken)
				return
			}
			response.WriteError(w, http.StatusUnauthorized, "Access Denied. Invalid token.", response.CodeInvalidToken)
			return
		}
		ctx := context.WithValue(r.Context(), CtxClaims, claims)
		ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after RequireAuth on the same route.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := Claims(r)
		if claims == nil {
			response.Unauthorized(w, "Access Denied. No token provided.")
			return
		}
		if claims.Role != "admin" {
			response.Forbidden(w, "Access Denied. Admin privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OptionalAuth attaches claims when a valid token is present but lets
// anonymous requests through. Used on the public booking shortcuts so
// logged-in users get their bookings linked.
func (a *Auth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if strings.HasPrefix(authz, "Bearer ") {
			raw := strings.TrimPrefix(authz, "Bearer ")
			if claims, err := auth.Parse(raw, a.Secret); err == nil {
				ctx := context.WithValue(r.Context(), CtxClaims, claims)
				ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
