package handlers

import "net/http"

// Routes wires every endpoint onto a mux. The auth and user-sync
// middleware wrap the whole mux, so handlers can assume a verified user.
func (db *DBHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Users
	mux.HandleFunc("POST /users", db.EnsureUser)
	mux.HandleFunc("PUT /users/collections/{collectionID}", db.ToggleAddedCollection)

	// Collections
	mux.HandleFunc("GET /collections", db.ListMyCollections)
	mux.HandleFunc("POST /collections", db.CreateCollection)
	mux.HandleFunc("GET /collections/public", db.ListPublicCollections)
	mux.HandleFunc("GET /collections/{collectionID}", db.GetCollection)
	mux.HandleFunc("PATCH /collections/{collectionID}", db.UpdateCollection)
	mux.HandleFunc("DELETE /collections/{collectionID}", db.DeleteCollection)
	mux.HandleFunc("POST /collections/{collectionID}/submit", db.SubmitCollection)

	// Flashcards
	mux.HandleFunc("POST /flashcards", db.CreateFlashcard)
	mux.HandleFunc("GET /flashcards/{flashcardID}", db.GetFlashcard)
	mux.HandleFunc("PATCH /flashcards/{flashcardID}", db.UpdateFlashcard)
	mux.HandleFunc("DELETE /flashcards/{flashcardID}", db.DeleteFlashcard)
	mux.HandleFunc("GET /flashcards/collections/{collectionID}", db.ListFlashcardsByCollection)

	return mux
}
