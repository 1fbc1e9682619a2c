package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
	"github.com/trackboard/trackboard/pkg/auth"
	"gorm.io/gorm"
)

// AuthHandler issues and refreshes session tokens. The server is the only
// source of session state; clients hold just the opaque JWT pair.
type AuthHandler struct {
	db         *database.Database
	jwtManager *auth.JWTManager
}

func NewAuthHandler(db *database.Database, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{db: db, jwtManager: jwtManager}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=3"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type sessionResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.db.GetUserByUsername(req.Username); err == nil {
		respondError(c, http.StatusConflict, "Username already taken")
		return
	}
	if _, err := h.db.GetUserByEmail(req.Email); err == nil {
		respondError(c, http.StatusConflict, "Email already registered")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.UserRoleMember,
		IsActive:  true,
	}
	if err := h.db.CreateUser(user); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.issueSession(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.db.GetUserByUsername(req.Username)
	if err != nil {
		// Allow login by email as well
		user, err = h.db.GetUserByEmail(req.Username)
	}
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		respondError(c, http.StatusForbidden, "Account is disabled")
		return
	}

	user.LastLogin = time.Now()
	if err := h.db.UpdateUser(user); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	h.issueSession(c, http.StatusOK, user)
}

// Refresh exchanges a stored refresh token for a new session pair. The old
// refresh token is rotated out in the same transaction.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var stored models.RefreshToken
	err := h.db.Where("token = ?", req.RefreshToken).First(&stored).Error
	if err != nil || time.Now().After(stored.ExpiresAt) {
		respondError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	user, err := h.db.GetUser(stored.UserID)
	if err != nil || !user.IsActive {
		respondError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&stored).Error
	}); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to rotate refresh token")
		return
	}

	h.issueSession(c, http.StatusOK, user)
}

// Me returns the authenticated user. This is the single current-user
// provider: every page asks the server, nothing is read back from local
// browser state.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "No user session")
		return
	}

	user, err := h.db.GetUser(userID)
	if err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	respondOK(c, http.StatusOK, user)
}

func (h *AuthHandler) issueSession(c *gin.Context, status int, user *models.User) {
	token, err := h.jwtManager.Generate(user.ID, user.Email, user.Username,
		user.FirstName+" "+user.LastName, string(user.Role))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	refresh, err := h.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate refresh token")
		return
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := h.db.Create(record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to store refresh token")
		return
	}

	respondOK(c, status, sessionResponse{
		Token:        token,
		RefreshToken: refresh,
		User:         user,
	})
}
