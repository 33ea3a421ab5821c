package middleware

import (
	"context"
	"net/http"

	"github.com/cardfolio/cardfolio-api/auth"
	"github.com/cardfolio/cardfolio-api/models"
)

type contextKey string

const (
	identityKey  contextKey = "identity"
	userKey      contextKey = "user"
	requestIDKey contextKey = "requestID"
)

// IdentityFrom returns the verified external identity attached by
// RequireIdentity.
func IdentityFrom(r *http.Request) (*auth.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(*auth.Identity)
	return identity, ok
}

// UserFrom returns the database user attached by SyncUser.
func UserFrom(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userKey).(*models.User)
	return user, ok
}

// RequestIDFrom returns the correlation id attached by RequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
