package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
	"github.com/trackboard/trackboard/internal/storage"
	"github.com/trackboard/trackboard/pkg/auth"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *database.Database, *auth.JWTManager) {
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(t.TempDir())
	require.NoError(t, err)

	fileStorage, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	router := SetupRouter(db, jwtManager, Handlers{
		Core:      NewHandler(db, fileStorage),
		Auth:      NewAuthHandler(db, jwtManager),
		Org:       NewOrgHandler(db),
		Agile:     NewAgileHandler(db),
		Dashboard: NewDashboardHandler(db),
		Search:    NewSearchHandler(db),
		Token:     NewTokenHandler(db),
		Webhook:   NewWebhookHandler(db),
	})
	return router, db, jwtManager
}

func TestInfoEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/info", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Name      string            `json:"name"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Trackboard", body.Name)
	assert.NotEmpty(t, body.Version)
	assert.Equal(t, "/api", body.Endpoints["api"])
	assert.Equal(t, "/auth", body.Endpoints["auth"])
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCurrentUserEndpoint(t *testing.T) {
	router, db, jwtManager := setupTestRouter(t)

	user := &models.User{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "irrelevant",
		Role:     models.UserRoleMember,
		IsActive: true,
	}
	require.NoError(t, db.CreateUser(user))

	token, err := jwtManager.Generate(user.ID, user.Email, user.Username, "", string(user.Role))
	require.NoError(t, err)

	// Without a token the session endpoint rejects
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool        `json:"success"`
		Data    models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "alice", body.Data.Username)
}
