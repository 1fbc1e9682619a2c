package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
)

type WebhookHandler struct {
	db *database.Database
}

func NewWebhookHandler(db *database.Database) *WebhookHandler {
	return &WebhookHandler{db: db}
}

type createWebhookRequest struct {
	URL       string `json:"url" binding:"required,url"`
	Events    string `json:"events"`
	ProjectID *uint  `json:"project_id"`
}

func (h *WebhookHandler) CreateWebhook(c *gin.Context) {
	var req createWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	webhook := &models.Webhook{
		URL:       req.URL,
		Events:    req.Events,
		ProjectID: req.ProjectID,
		Secret:    uuid.NewString(),
		IsActive:  true,
	}
	if err := h.db.CreateWebhook(webhook); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create webhook")
		return
	}

	// Secret is included here so the receiver can be configured; list and
	// get responses omit it.
	respondOK(c, http.StatusCreated, webhook)
}

func (h *WebhookHandler) ListWebhooks(c *gin.Context) {
	webhooks, err := h.db.ListWebhooks()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch webhooks")
		return
	}
	for i := range webhooks {
		webhooks[i].Secret = ""
	}
	respondOK(c, http.StatusOK, webhooks)
}

func (h *WebhookHandler) GetWebhook(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid webhook ID")
		return
	}
	webhook, err := h.db.GetWebhook(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "Webhook not found")
		return
	}
	webhook.Secret = ""
	respondOK(c, http.StatusOK, webhook)
}

func (h *WebhookHandler) UpdateWebhook(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid webhook ID")
		return
	}
	webhook, err := h.db.GetWebhook(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "Webhook not found")
		return
	}

	var req struct {
		URL      *string `json:"url"`
		Events   *string `json:"events"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.URL != nil {
		webhook.URL = *req.URL
	}
	if req.Events != nil {
		webhook.Events = *req.Events
	}
	if req.IsActive != nil {
		webhook.IsActive = *req.IsActive
	}

	if err := h.db.UpdateWebhook(webhook); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update webhook")
		return
	}
	webhook.Secret = ""
	respondOK(c, http.StatusOK, webhook)
}

func (h *WebhookHandler) DeleteWebhook(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid webhook ID")
		return
	}
	if err := h.db.DeleteWebhook(id); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete webhook")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Webhook deleted"})
}
