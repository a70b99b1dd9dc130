package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nodehq/node-admin-api/internal/dto"
	apierrors "github.com/nodehq/node-admin-api/internal/errors"
	"github.com/nodehq/node-admin-api/internal/middleware"
	"github.com/nodehq/node-admin-api/internal/services"
	"github.com/nodehq/node-admin-api/internal/utils"
)

// IntegrationHandler coordinates tenant integration HTTP handlers:
// webhooks, API keys and the audit log read path.
type IntegrationHandler struct {
	webhooks *services.WebhookService
	apiKeys  *services.APIKeyService
	audit    *services.AuditLogService
}

// NewIntegrationHandler creates a new IntegrationHandler.
func NewIntegrationHandler(webhooks *services.WebhookService, apiKeys *services.APIKeyService, audit *services.AuditLogService) *IntegrationHandler {
	return &IntegrationHandler{
		webhooks: webhooks,
		apiKeys:  apiKeys,
		audit:    audit,
	}
}

type webhookRequest struct {
	Description string   `json:"description" binding:"omitempty,max=255"`
	URL         string   `json:"url" binding:"required,max=2048"`
	EventTypes  []string `json:"event_types"`
}

// CreateWebhook registers a webhook endpoint
func (h *IntegrationHandler) CreateWebhook(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	webhook, err := h.webhooks.CreateWebhook(member.NodeID, member.UserID, services.WebhookInput{
		Description: req.Description,
		URL:         req.URL,
		EventTypes:  req.EventTypes,
	})
	if err != nil {
		respondIntegrationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.ToWebhookDTO(*webhook)})
}

// ListWebhooks returns the node's webhook endpoints
func (h *IntegrationHandler) ListWebhooks(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	webhooks, err := h.webhooks.ListWebhooks(member.NodeID)
	if err != nil {
		respondIntegrationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToWebhookDTOs(webhooks)})
}

// UpdateWebhook replaces a webhook endpoint's configuration
func (h *IntegrationHandler) UpdateWebhook(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	webhook, err := h.webhooks.UpdateWebhook(member.NodeID, member.UserID, c.Param("id"), services.WebhookInput{
		Description: req.Description,
		URL:         req.URL,
		EventTypes:  req.EventTypes,
	})
	if err != nil {
		respondIntegrationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToWebhookDTO(*webhook)})
}

// DeleteWebhook removes a webhook endpoint
func (h *IntegrationHandler) DeleteWebhook(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	if err := h.webhooks.DeleteWebhook(member.NodeID, member.UserID, c.Param("id")); err != nil {
		respondIntegrationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{}})
}

// CreateAPIKey creates an API key; the plaintext is only in this response
func (h *IntegrationHandler) CreateAPIKey(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	type CreateAPIKeyRequest struct {
		Name string `json:"name" binding:"required,max=255"`
	}

	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	key, plaintext, err := h.apiKeys.CreateAPIKey(member.NodeID, member.UserID, req.Name)
	if err != nil {
		respondIntegrationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.ToAPIKeyDTO(*key, plaintext)})
}

// ListAPIKeys returns the node's API keys
func (h *IntegrationHandler) ListAPIKeys(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	keys, err := h.apiKeys.ListAPIKeys(member.NodeID)
	if err != nil {
		respondIntegrationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToAPIKeyDTOs(keys)})
}

// DeleteAPIKey revokes an API key
func (h *IntegrationHandler) DeleteAPIKey(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	if err := h.apiKeys.DeleteAPIKey(member.NodeID, member.UserID, c.Param("id")); err != nil {
		respondIntegrationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{}})
}

// ListAuditLogs returns the node's audit trail, newest first
func (h *IntegrationHandler) ListAuditLogs(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	params := utils.GetPaginationParams(c)

	entries, total, err := h.audit.ListAuditLogs(member.NodeID, params)
	if err != nil {
		respondIntegrationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": dto.ToAuditLogDTOs(entries),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func respondIntegrationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidWebhookURL),
		errors.Is(err, services.ErrInvalidAPIKeyName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrWebhookNotFound),
		errors.Is(err, services.ErrAPIKeyNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
