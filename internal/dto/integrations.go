package dto

import (
	"encoding/json"
	"time"

	"github.com/nodehq/node-admin-api/internal/models"
)

// WebhookDTO represents a webhook endpoint configuration in API responses
type WebhookDTO struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	EventTypes  []string  `json:"event_types"`
	CreatedAt   time.Time `json:"created_at"`
}

// APIKeyDTO represents an API key in API responses. Key is only set on
// creation responses.
type APIKeyDTO struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Key        string     `json:"key,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AuditLogDTO represents an audit log entry in API responses
type AuditLogDTO struct {
	ID        uint64    `json:"id"`
	Action    string    `json:"action"`
	Crud      string    `json:"crud"`
	Actor     UserDTO   `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// ToWebhookDTO converts a NodeWebhook model to WebhookDTO
func ToWebhookDTO(webhook models.NodeWebhook) WebhookDTO {
	var eventTypes []string
	if len(webhook.EventTypes) > 0 {
		// Stored as a JSON array; a decode failure just leaves it empty.
		_ = json.Unmarshal(webhook.EventTypes, &eventTypes)
	}

	return WebhookDTO{
		ID:          webhook.ID,
		Description: webhook.Description,
		URL:         webhook.URL,
		EventTypes:  eventTypes,
		CreatedAt:   webhook.CreatedAt,
	}
}

// ToWebhookDTOs converts a webhook list
func ToWebhookDTOs(webhooks []models.NodeWebhook) []WebhookDTO {
	dtos := make([]WebhookDTO, len(webhooks))
	for i, webhook := range webhooks {
		dtos[i] = ToWebhookDTO(webhook)
	}
	return dtos
}

// ToAPIKeyDTO converts a NodeAPIKey model to APIKeyDTO
func ToAPIKeyDTO(key models.NodeAPIKey, plaintext string) APIKeyDTO {
	return APIKeyDTO{
		ID:         key.ID,
		Name:       key.Name,
		Key:        plaintext,
		LastUsedAt: key.LastUsedAt,
		ExpiresAt:  key.ExpiresAt,
		CreatedAt:  key.CreatedAt,
	}
}

// ToAPIKeyDTOs converts an API key list without plaintext keys
func ToAPIKeyDTOs(keys []models.NodeAPIKey) []APIKeyDTO {
	dtos := make([]APIKeyDTO, len(keys))
	for i, key := range keys {
		dtos[i] = ToAPIKeyDTO(key, "")
	}
	return dtos
}

// ToAuditLogDTO converts an AuditLog model to AuditLogDTO
func ToAuditLogDTO(entry models.AuditLog) AuditLogDTO {
	return AuditLogDTO{
		ID:        entry.ID,
		Action:    entry.Action,
		Crud:      entry.Crud,
		Actor:     ToUserDTO(entry.Actor),
		CreatedAt: entry.CreatedAt,
	}
}

// ToAuditLogDTOs converts an audit log list
func ToAuditLogDTOs(entries []models.AuditLog) []AuditLogDTO {
	dtos := make([]AuditLogDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = ToAuditLogDTO(entry)
	}
	return dtos
}
