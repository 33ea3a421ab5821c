package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/cardfolio/cardfolio-api/middleware"
	"github.com/cardfolio/cardfolio-api/models"
	"github.com/cardfolio/cardfolio-api/utils"
)

type DBHandler struct {
	*gorm.DB
}

// loadCollection fetches the collection named by the route parameter and
// applies the read policy. Denial is a hard stop, rendered as a 404 so
// private collections never leak their existence or fields.
func (db *DBHandler) loadCollection(w http.ResponseWriter, r *http.Request) (*models.Collection, *models.User, bool) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, nil, false
	}

	collectionID := r.PathValue("collectionID")
	var collection models.Collection
	if err := db.Where("public_id = ?", collectionID).First(&collection).Error; err != nil {
		writeError(w, http.StatusNotFound, "Collection not found")
		return nil, nil, false
	}

	if !collection.CanRead(user.ID) {
		writeError(w, http.StatusNotFound, "Collection not found")
		return nil, nil, false
	}

	return &collection, user, true
}

// loadOwnedCollection is the loader for mutating routes: only the creator
// gets through, everyone else sees a 404.
func (db *DBHandler) loadOwnedCollection(w http.ResponseWriter, r *http.Request) (*models.Collection, *models.User, bool) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, nil, false
	}

	collectionID := r.PathValue("collectionID")
	var collection models.Collection
	if err := db.Where("public_id = ?", collectionID).First(&collection).Error; err != nil {
		writeError(w, http.StatusNotFound, "Collection not found")
		return nil, nil, false
	}

	if !collection.IsOwnedBy(user.ID) {
		writeError(w, http.StatusNotFound, "Collection not found")
		return nil, nil, false
	}

	return &collection, user, true
}

// POST /collections
func (db *DBHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Name        string `json:"name" validate:"required,min=1,max=50"`
		Description string `json:"description" validate:"max=500"`
		IsPublic    bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = utils.SanitizeText(req.Name)
	req.Description = utils.SanitizeText(req.Description)

	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		writeInternalError(w, "Failed to generate collection ID", err)
		return
	}

	collection := models.Collection{
		PublicID:    publicID,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		CreatorID:   user.ID,
	}

	if err := db.Create(&collection).Error; err != nil {
		slog.Error("failed to create collection", "userID", user.ExternalID, "error", err.Error())
		writeInternalError(w, "Failed to create collection", err)
		return
	}

	slog.Info("collection created",
		"collectionID", collection.PublicID,
		"userID", user.ExternalID,
	)
	writeJSON(w, http.StatusCreated, collection)
}

// GET /collections/{collectionID}
func (db *DBHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collection, _, ok := db.loadCollection(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, collection)
}

// GET /collections
//
// A user's own view: private collections they created plus everything in
// their library. Own public collections show up only when added.
func (db *DBHandler) ListMyCollections(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	added := db.Table("user_added_collections").
		Select("collection_id").
		Where("user_id = ?", user.ID)

	var collections []models.Collection
	if err := db.Where("(creator_id = ? AND is_public = ?) OR id IN (?)", user.ID, false, added).
		Find(&collections).Error; err != nil {
		writeInternalError(w, "Failed to fetch collections", err)
		return
	}

	if len(collections) == 0 {
		collections = []models.Collection{}
	}

	writeJSON(w, http.StatusOK, collections)
}

// GET /collections/public
func (db *DBHandler) ListPublicCollections(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var collections []models.Collection
	if err := db.Preload("Creator").Where("is_public = ?", true).Find(&collections).Error; err != nil {
		writeInternalError(w, "Failed to fetch public collections", err)
		return
	}

	var addedIDs []uint
	if err := db.Table("user_added_collections").
		Where("user_id = ?", user.ID).
		Pluck("collection_id", &addedIDs).Error; err != nil {
		writeInternalError(w, "Failed to fetch library membership", err)
		return
	}
	addedSet := make(map[uint]bool, len(addedIDs))
	for _, id := range addedIDs {
		addedSet[id] = true
	}

	type publicCollection struct {
		models.Collection
		CreatorName    string             `json:"creatorName"`
		PreviewCards   []models.Flashcard `json:"previewCards"`
		FlashcardCount int64              `json:"flashcardCount"`
		IsAddedByUser  bool               `json:"isAddedByUser"`
	}

	response := make([]publicCollection, 0, len(collections))
	for i := range collections {
		c := collections[i]

		var count int64
		if err := db.Model(&models.Flashcard{}).
			Where("collection_id = ?", c.ID).
			Count(&count).Error; err != nil {
			writeInternalError(w, "Failed to count flashcards", err)
			return
		}

		// Preview cards are sampled fresh on every call.
		var preview []models.Flashcard
		if err := db.Where("collection_id = ?", c.ID).
			Order("RANDOM()").
			Limit(5).
			Find(&preview).Error; err != nil {
			writeInternalError(w, "Failed to fetch preview cards", err)
			return
		}
		if len(preview) == 0 {
			preview = []models.Flashcard{}
		}

		response = append(response, publicCollection{
			Collection:     c,
			CreatorName:    c.Creator.DisplayName,
			PreviewCards:   preview,
			FlashcardCount: count,
			IsAddedByUser:  addedSet[c.ID],
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// PATCH /collections/{collectionID}
func (db *DBHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	collection, user, ok := db.loadOwnedCollection(w, r)
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
		Description *string `json:"description" validate:"omitempty,max=500"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		sanitized := utils.SanitizeText(*req.Name)
		req.Name = &sanitized
	}
	if req.Description != nil {
		sanitized := utils.SanitizeText(*req.Description)
		req.Description = &sanitized
	}

	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if req.Name != nil {
		collection.Name = *req.Name
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}

	if err := db.Save(collection).Error; err != nil {
		writeInternalError(w, "Failed to update collection", err)
		return
	}

	slog.Info("collection updated",
		"collectionID", collection.PublicID,
		"userID", user.ExternalID,
	)
	writeJSON(w, http.StatusOK, collection)
}

// DELETE /collections/{collectionID}
//
// The cascade runs inside one transaction so an interrupted delete cannot
// strand orphaned flashcards.
func (db *DBHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	collection, user, ok := db.loadOwnedCollection(w, r)
	if !ok {
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", collection.ID).
			Delete(&models.Flashcard{}).Error; err != nil {
			return err
		}
		return tx.Delete(collection).Error
	})
	if err != nil {
		slog.Error("failed to delete collection",
			"collectionID", collection.PublicID,
			"error", err.Error(),
		)
		writeInternalError(w, "Failed to delete collection", err)
		return
	}

	slog.Info("collection deleted",
		"collectionID", collection.PublicID,
		"userID", user.ExternalID,
	)
	w.WriteHeader(http.StatusNoContent)
}

// POST /collections/{collectionID}/submit
func (db *DBHandler) SubmitCollection(w http.ResponseWriter, r *http.Request) {
	collection, user, ok := db.loadOwnedCollection(w, r)
	if !ok {
		return
	}

	if collection.Submitted {
		writeError(w, http.StatusBadRequest, "Collection has already been submitted for review")
		return
	}

	collection.Submitted = true
	if err := db.Save(collection).Error; err != nil {
		writeInternalError(w, "Failed to submit collection", err)
		return
	}

	var cardCount int64
	if err := db.Model(&models.Flashcard{}).
		Where("collection_id = ?", collection.ID).
		Count(&cardCount).Error; err != nil {
		cardCount = -1
	}

	// Audit trail for the review queue.
	slog.Info("collection submitted for review",
		"collectionID", collection.PublicID,
		"name", collection.Name,
		"creatorID", user.ExternalID,
		"flashcardCount", cardCount,
	)

	writeJSON(w, http.StatusOK, collection)
}
