package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cardfolio/cardfolio-api/config"
	"github.com/cardfolio/cardfolio-api/models"
	"github.com/cardfolio/cardfolio-api/utils"
	"gorm.io/gorm"
)

// SyncUser ensures the verified identity exists as a database user and
// attaches the record to the request context. First sign-in creates the
// user and seeds the default public collections into their library.
func SyncUser(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r)
			if !ok || identity.UID == "" {
				writeAuthError(w, map[string]any{"error": "Unauthorized"})
				return
			}

			var user models.User
			result := db.Where("external_id = ?", identity.UID).First(&user)
			if result.Error != nil {
				created, err := createUser(db, identity.UID, identity.DisplayName, identity.Email)
				if err != nil {
					slog.Error("failed to create user",
						"requestID", RequestIDFrom(r.Context()),
						"externalID", identity.UID,
						"error", err.Error(),
					)
					http.Error(w, "Failed to create user", http.StatusInternalServerError)
					return
				}
				user = *created
				slog.Info("created new user", "externalID", user.ExternalID)
			}

			ctx := context.WithValue(r.Context(), userKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func createUser(db *gorm.DB, externalID, displayName, email string) (*models.User, error) {
	user := models.User{
		ExternalID:  externalID,
		DisplayName: utils.SanitizeText(displayName),
		Email:       utils.NormalizeEmail(email),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	// Seed the default public collections into the new user's library.
	// Lookup is by name; missing or non-public defaults are simply skipped.
	if len(config.Env.DefaultCollections) > 0 {
		var defaults []models.Collection
		if err := db.Where("is_public = ? AND name IN ?", true, config.Env.DefaultCollections).
			Find(&defaults).Error; err != nil {
			return nil, err
		}
		if len(defaults) > 0 {
			if err := db.Model(&user).Association("AddedCollections").Append(&defaults); err != nil {
				return nil, err
			}
		}
	}

	return &user, nil
}
