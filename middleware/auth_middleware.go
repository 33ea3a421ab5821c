package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cardfolio/cardfolio-api/auth"
)

// RequireIdentity verifies the bearer credential on every request and
// attaches the resulting identity to the request context. The resolver is
// injected once at process start; handlers never talk to the identity
// provider themselves.
func RequireIdentity(resolver auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, map[string]any{"error": "Unauthorized"})
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			identity, err := resolver.Verify(r.Context(), token)
			if err != nil {
				slog.Warn("token verification failed",
					"requestID", RequestIDFrom(r.Context()),
					"error", err.Error(),
				)
				writeAuthError(w, map[string]any{"error": "Invalid token", "verified": false})
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(body)
}
