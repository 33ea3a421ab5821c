package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cardfolio/cardfolio-api/middleware"
	"github.com/cardfolio/cardfolio-api/models"
	"github.com/cardfolio/cardfolio-api/utils"
)

// POST /users
//
// Ensure-user endpoint. The user sync middleware has already materialized
// the record for the verified identity, so this is idempotent: it replies
// 201 with the existing-or-created user either way, applying any profile
// fields supplied in the body.
func (db *DBHandler) EnsureUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		UID         string `json:"uid"`
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
		// No body; the verified identity alone is enough.
	case err != nil:
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	case req.UID == "":
		writeError(w, http.StatusBadRequest, "uid is required")
		return
	}

	changed := false
	if req.DisplayName != "" {
		if name := utils.SanitizeText(req.DisplayName); name != user.DisplayName {
			user.DisplayName = name
			changed = true
		}
	}
	if req.Email != "" {
		if email := utils.NormalizeEmail(req.Email); email != user.Email {
			user.Email = email
			changed = true
		}
	}
	if changed {
		if err := db.Save(user).Error; err != nil {
			writeInternalError(w, "Failed to update user", err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, user)
}

// PUT /users/collections/{collectionID}
//
// Toggles library membership: removes the collection when present, adds it
// otherwise. Adding requires the collection to exist.
func (db *DBHandler) ToggleAddedCollection(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	collectionID := r.PathValue("collectionID")
	var collection models.Collection
	if err := db.Where("public_id = ?", collectionID).First(&collection).Error; err != nil {
		writeError(w, http.StatusNotFound, "Collection not found")
		return
	}

	var present int64
	if err := db.Table("user_added_collections").
		Where("user_id = ? AND collection_id = ?", user.ID, collection.ID).
		Count(&present).Error; err != nil {
		writeInternalError(w, "Failed to check library membership", err)
		return
	}

	var message string
	if present > 0 {
		if err := db.Model(user).Association("AddedCollections").Delete(&collection); err != nil {
			writeInternalError(w, "Failed to remove collection from library", err)
			return
		}
		message = "Collection removed from your library"
	} else {
		// The join table append is duplicate-safe.
		if err := db.Model(user).Association("AddedCollections").Append(&collection); err != nil {
			writeInternalError(w, "Failed to add collection to library", err)
			return
		}
		message = "Collection added to your library"
	}

	var added []models.Collection
	if err := db.Model(user).Association("AddedCollections").Find(&added); err != nil {
		writeInternalError(w, "Failed to fetch library", err)
		return
	}

	addedIDs := make([]string, 0, len(added))
	for _, c := range added {
		addedIDs = append(addedIDs, c.PublicID)
	}

	slog.Info("library membership toggled",
		"userID", user.ExternalID,
		"collectionID", collection.PublicID,
		"added", present == 0,
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":              message,
		"userAddedCollections": addedIDs,
	})
}
