package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trackboard/trackboard/internal/auth"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
)

type TokenHandler struct {
	db *database.Database
}

func NewTokenHandler(db *database.Database) *TokenHandler {
	return &TokenHandler{db: db}
}

type createAPITokenRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Scopes      string `json:"scopes"`
	ExpiresIn   int    `json:"expires_in_days"`
}

type apiTokenResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Token       string     `json:"token,omitempty"` // Only returned on creation
	Description string     `json:"description"`
	Scopes      string     `json:"scopes"`
	CreatedBy   string     `json:"created_by"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastUsed    *time.Time `json:"last_used,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

func tokenResponse(t *models.APIToken) apiTokenResponse {
	return apiTokenResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Scopes:      t.Scopes,
		CreatedBy:   t.CreatedBy,
		ExpiresAt:   t.ExpiresAt,
		LastUsed:    t.LastUsed,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
	}
}

// CreateAPIToken creates a new API token (admin only). The plaintext token
// is returned exactly once; only the hash is stored.
func (h *TokenHandler) CreateAPIToken(c *gin.Context) {
	var req createAPITokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := models.GenerateToken()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	apiToken := &models.APIToken{
		Name:        req.Name,
		Description: req.Description,
		TokenHash:   auth.HashToken(token),
		Scopes:      req.Scopes,
		IsActive:    true,
	}
	if id, ok := currentUserID(c); ok {
		apiToken.CreatedBy = strconv.FormatUint(uint64(id), 10)
	} else {
		apiToken.CreatedBy = "admin"
	}
	if req.ExpiresIn > 0 {
		expiresAt := time.Now().AddDate(0, 0, req.ExpiresIn)
		apiToken.ExpiresAt = &expiresAt
	}
	if apiToken.Scopes == "" {
		apiToken.Scopes = "read,write"
	}

	if err := h.db.Create(apiToken).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create token")
		return
	}

	resp := tokenResponse(apiToken)
	resp.Token = token
	respondOK(c, http.StatusCreated, resp)
}

// ListAPITokens lists all API tokens without their values (admin only)
func (h *TokenHandler) ListAPITokens(c *gin.Context) {
	var tokens []models.APIToken
	if err := h.db.Order("created_at DESC").Find(&tokens).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch tokens")
		return
	}

	response := make([]apiTokenResponse, len(tokens))
	for i := range tokens {
		response[i] = tokenResponse(&tokens[i])
	}
	respondOK(c, http.StatusOK, response)
}

func (h *TokenHandler) GetAPIToken(c *gin.Context) {
	var token models.APIToken
	if err := h.db.First(&token, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Token not found")
		return
	}
	respondOK(c, http.StatusOK, tokenResponse(&token))
}

// RevokeAPIToken deactivates a token without deleting its audit trail
func (h *TokenHandler) RevokeAPIToken(c *gin.Context) {
	var token models.APIToken
	if err := h.db.First(&token, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Token not found")
		return
	}

	token.IsActive = false
	if err := h.db.Save(&token).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to revoke token")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Token revoked"})
}
