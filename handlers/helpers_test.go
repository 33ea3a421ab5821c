package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cardfolio/cardfolio-api/auth"
	"github.com/cardfolio/cardfolio-api/config"
	"github.com/cardfolio/cardfolio-api/middleware"
	"github.com/cardfolio/cardfolio-api/models"
)

type testEnv struct {
	db       *gorm.DB
	handler  http.Handler
	resolver *auth.LocalResolver
}

// setupTestEnv builds the full request pipeline from main, backed by an
// in-memory database and the local HS256 resolver.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	config.Env = config.Environment{
		IsDevelopment:      true,
		DefaultCollections: []string{"AI Prompt Engineering", "Programming Tips"},
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Collection{}, &models.Flashcard{}))

	resolver := auth.NewLocalResolver([]byte("test-secret"))

	dbHandler := &DBHandler{DB: db}
	var handler http.Handler = dbHandler.Routes()
	handler = middleware.SyncUser(db)(handler)
	handler = middleware.RequireIdentity(resolver)(handler)
	handler = middleware.RequestLogger(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.SecureHeaders(handler)

	return &testEnv{db: db, handler: handler, resolver: resolver}
}

// createTestUser inserts a user directly and mints a token for them.
func createTestUser(t *testing.T, env *testEnv, uid, displayName string) (*models.User, string) {
	t.Helper()

	user := models.User{
		ExternalID:  uid,
		DisplayName: displayName,
		Email:       strings.ToLower(displayName) + "@example.com",
	}
	require.NoError(t, env.db.Create(&user).Error)

	token, err := env.resolver.CreateToken(auth.Identity{
		UID:         uid,
		DisplayName: displayName,
		Email:       user.Email,
	})
	require.NoError(t, err)

	return &user, token
}

func createTestCollection(t *testing.T, env *testEnv, creator *models.User, name string, isPublic bool) *models.Collection {
	t.Helper()

	publicID, err := gonanoid.New()
	require.NoError(t, err)

	collection := models.Collection{
		PublicID:  publicID,
		Name:      name,
		IsPublic:  isPublic,
		CreatorID: creator.ID,
	}
	require.NoError(t, env.db.Create(&collection).Error)

	return &collection
}

func createTestFlashcard(t *testing.T, env *testEnv, collection *models.Collection, question, answer string) *models.Flashcard {
	t.Helper()

	publicID, err := gonanoid.New()
	require.NoError(t, err)

	flashcard := models.Flashcard{
		PublicID:     publicID,
		Question:     question,
		Answer:       answer,
		CollectionID: collection.ID,
		CreatorID:    collection.CreatorID,
	}
	require.NoError(t, env.db.Create(&flashcard).Error)

	return &flashcard
}

func performRequest(t *testing.T, env *testEnv, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()

	var body []any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
