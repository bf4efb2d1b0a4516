package handler

import (
	"context"
	"net/http"
	"strings"

	"toyexchange/internal/domain"
	"toyexchange/internal/service"
)

// ctxKey is the private type for request context keys.
type ctxKey int

const userCtxKey ctxKey = iota

// authenticate is middleware that resolves the caller's identity from the
// "Authorization: TOKEN <api_key>" header and stores the user in the
// request context. Requests without a valid key are rejected with 401.
func authenticate(userSvc *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, key, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "TOKEN") {
				WriteDomainError(w, domain.ErrUnauthorized)
				return
			}

			user, err := userSvc.Authenticate(strings.TrimSpace(key))
			if err != nil {
				WriteDomainError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAdmin is middleware that rejects non-admin callers with 403.
// It must run after authenticate.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil || !user.IsAdmin() {
			WriteDomainError(w, domain.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the authenticated user from the request context, or
// nil when the request did not pass the authenticate middleware.
func CurrentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userCtxKey).(*domain.User)
	return user
}
