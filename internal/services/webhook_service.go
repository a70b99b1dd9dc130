package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrWebhookNotFound   = errors.New("webhook not found")
	ErrInvalidWebhookURL = errors.New("webhook URL must be a valid http(s) URL")
)

// WebhookService manages per-node webhook endpoint configurations.
// Delivery is performed by an external system; only configuration lives
// here.
type WebhookService struct {
	webhookRepo repository.WebhookRepository
	audit       AuditRecorder
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(webhookRepo repository.WebhookRepository, audit AuditRecorder) *WebhookService {
	return &WebhookService{
		webhookRepo: webhookRepo,
		audit:       audit,
	}
}

// WebhookInput represents a webhook endpoint configuration.
type WebhookInput struct {
	Description string
	URL         string
	EventTypes  []string
}

func validateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidWebhookURL
	}
	return nil
}

// CreateWebhook registers a webhook endpoint for a node.
func (s *WebhookService) CreateWebhook(nodeID, actorID uint64, input WebhookInput) (*models.NodeWebhook, error) {
	if err := validateWebhookURL(input.URL); err != nil {
		return nil, err
	}

	eventTypes, err := json.Marshal(input.EventTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event types: %w", err)
	}

	webhook := &models.NodeWebhook{
		NodeID:      nodeID,
		Description: strings.TrimSpace(input.Description),
		URL:         input.URL,
		EventTypes:  eventTypes,
	}

	if err := s.webhookRepo.Create(webhook); err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: nodeID, ActorID: actorID, Action: "webhook.create", Crud: "c"})

	return webhook, nil
}

// ListWebhooks returns a node's webhook endpoints.
func (s *WebhookService) ListWebhooks(nodeID uint64) ([]models.NodeWebhook, error) {
	webhooks, err := s.webhookRepo.ListByNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	return webhooks, nil
}

// UpdateWebhook replaces a webhook endpoint's configuration.
func (s *WebhookService) UpdateWebhook(nodeID, actorID uint64, id string, input WebhookInput) (*models.NodeWebhook, error) {
	webhook, err := s.webhookRepo.FindByID(nodeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWebhookNotFound
		}
		return nil, fmt.Errorf("failed to find webhook: %w", err)
	}

	if err := validateWebhookURL(input.URL); err != nil {
		return nil, err
	}

	eventTypes, err := json.Marshal(input.EventTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event types: %w", err)
	}

	webhook.Description = strings.TrimSpace(input.Description)
	webhook.URL = input.URL
	webhook.EventTypes = eventTypes

	if err := s.webhookRepo.Update(webhook); err != nil {
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: nodeID, ActorID: actorID, Action: "webhook.update", Crud: "u"})

	return webhook, nil
}

// DeleteWebhook removes a webhook endpoint.
func (s *WebhookService) DeleteWebhook(nodeID, actorID uint64, id string) error {
	if _, err := s.webhookRepo.FindByID(nodeID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWebhookNotFound
		}
		return fmt.Errorf("failed to find webhook: %w", err)
	}

	if err := s.webhookRepo.Delete(nodeID, id); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: nodeID, ActorID: actorID, Action: "webhook.delete", Crud: "d"})

	return nil
}
