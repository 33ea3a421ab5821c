package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/cardfolio/cardfolio-api/middleware"
	"github.com/cardfolio/cardfolio-api/models"
	"github.com/cardfolio/cardfolio-api/utils"
)

// loadFlashcard fetches the flashcard named by the route parameter and
// applies the parent collection's read policy. Mutating routes reuse this
// loader; there is no second ownership check at mutation time.
func (db *DBHandler) loadFlashcard(w http.ResponseWriter, r *http.Request) (*models.Flashcard, *models.User, bool) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, nil, false
	}

	flashcardID := r.PathValue("flashcardID")
	var flashcard models.Flashcard
	if err := db.Where("public_id = ?", flashcardID).First(&flashcard).Error; err != nil {
		writeError(w, http.StatusNotFound, "Flashcard not found")
		return nil, nil, false
	}

	var collection models.Collection
	if err := db.Where("id = ?", flashcard.CollectionID).First(&collection).Error; err != nil {
		writeError(w, http.StatusNotFound, "Associated collection not found")
		return nil, nil, false
	}

	if !collection.CanRead(user.ID) {
		writeError(w, http.StatusForbidden, "Access denied to this flashcard")
		return nil, nil, false
	}

	return &flashcard, user, true
}

// POST /flashcards
func (db *DBHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Question     string `json:"question" validate:"required,min=3,max=500"`
		Answer       string `json:"answer" validate:"required,min=1,max=1000"`
		CollectionID string `json:"collectionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var collection models.Collection
	if err := db.Where("public_id = ?", req.CollectionID).First(&collection).Error; err != nil {
		writeError(w, http.StatusNotFound, "Collection not found")
		return
	}

	if !collection.IsOwnedBy(user.ID) {
		writeError(w, http.StatusForbidden, "You can't create flashcards in collections that are not created by you")
		return
	}

	req.Question = utils.SanitizeText(req.Question)
	req.Answer = utils.SanitizeText(req.Answer)

	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		writeInternalError(w, "Failed to generate flashcard ID", err)
		return
	}

	flashcard := models.Flashcard{
		PublicID:     publicID,
		Question:     req.Question,
		Answer:       req.Answer,
		CollectionID: collection.ID,
		CreatorID:    user.ID,
	}

	if err := db.Create(&flashcard).Error; err != nil {
		slog.Error("failed to create flashcard",
			"collectionID", collection.PublicID,
			"error", err.Error(),
		)
		writeInternalError(w, "Failed to create flashcard", err)
		return
	}

	slog.Info("flashcard created",
		"flashcardID", flashcard.PublicID,
		"collectionID", collection.PublicID,
	)
	writeJSON(w, http.StatusCreated, flashcard)
}

// GET /flashcards/{flashcardID}
func (db *DBHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	flashcard, _, ok := db.loadFlashcard(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, flashcard)
}

// PATCH /flashcards/{flashcardID}
func (db *DBHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	flashcard, _, ok := db.loadFlashcard(w, r)
	if !ok {
		return
	}

	var req struct {
		Question *string `json:"question" validate:"omitempty,min=3,max=500"`
		Answer   *string `json:"answer" validate:"omitempty,min=1,max=1000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question != nil {
		sanitized := utils.SanitizeText(*req.Question)
		req.Question = &sanitized
	}
	if req.Answer != nil {
		sanitized := utils.SanitizeText(*req.Answer)
		req.Answer = &sanitized
	}

	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if req.Question != nil {
		flashcard.Question = *req.Question
	}
	if req.Answer != nil {
		flashcard.Answer = *req.Answer
	}

	if err := db.Save(flashcard).Error; err != nil {
		writeInternalError(w, "Failed to update flashcard", err)
		return
	}

	slog.Info("flashcard updated", "flashcardID", flashcard.PublicID)
	writeJSON(w, http.StatusOK, flashcard)
}

// DELETE /flashcards/{flashcardID}
func (db *DBHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	flashcard, _, ok := db.loadFlashcard(w, r)
	if !ok {
		return
	}

	if err := db.Delete(flashcard).Error; err != nil {
		writeInternalError(w, "Failed to delete flashcard", err)
		return
	}

	slog.Info("flashcard deleted", "flashcardID", flashcard.PublicID)
	w.WriteHeader(http.StatusNoContent)
}

// GET /flashcards/collections/{collectionID}
func (db *DBHandler) ListFlashcardsByCollection(w http.ResponseWriter, r *http.Request) {
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

	if !collection.CanRead(user.ID) {
		writeError(w, http.StatusNotFound, "Collection not found")
		return
	}

	var flashcards []models.Flashcard
	if err := db.Where("collection_id = ?", collection.ID).Find(&flashcards).Error; err != nil {
		writeInternalError(w, "Failed to fetch flashcards", err)
		return
	}

	if len(flashcards) == 0 {
		flashcards = []models.Flashcard{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"flashcards": flashcards})
}
