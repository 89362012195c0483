package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/cdazamolina/ProjectsManager/internal/auth"
	"github.com/cdazamolina/ProjectsManager/internal/logger"
)

// Authenticate verifies the bearer token and puts the Principal on the
// request context. No token, no entry.
func Authenticate(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := issuer.ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn("HTTP: rejected bearer token",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err))

				unauthorized(w)
				return
			}

			r = r.WithContext(auth.WithPrincipal(r.Context(), principal))
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles gates a route on the caller holding at least one of the
// given roles.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.FromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}

			if !principal.HasAnyRole(roles...) {
				logger.Warn("HTTP: role check failed",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("username", principal.Username),
					zap.Strings("required", roles))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{
					"Result": false,
					"Errors": []string{"Forbidden"},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"Result": false,
		"Errors": []string{"Unauthorized"},
	})
}
