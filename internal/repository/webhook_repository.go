package repository

import (
	"github.com/nodehq/node-admin-api/internal/models"
	"gorm.io/gorm"
)

// GormWebhookRepository is a GORM implementation of WebhookRepository
type GormWebhookRepository struct {
	db *gorm.DB
}

// NewWebhookRepository creates a new WebhookRepository
func NewWebhookRepository(db *gorm.DB) WebhookRepository {
	return &GormWebhookRepository{db: db}
}

// Create creates a new webhook configuration
func (r *GormWebhookRepository) Create(webhook *models.NodeWebhook) error {
	return r.db.Create(webhook).Error
}

// FindByID finds a webhook scoped to a node
func (r *GormWebhookRepository) FindByID(nodeID uint64, id string) (*models.NodeWebhook, error) {
	var webhook models.NodeWebhook
	if err := r.db.Where("node_id = ? AND id = ?", nodeID, id).
		First(&webhook).Error; err != nil {
		return nil, err
	}
	return &webhook, nil
}

// ListByNode lists a node's webhooks
func (r *GormWebhookRepository) ListByNode(nodeID uint64) ([]models.NodeWebhook, error) {
	var webhooks []models.NodeWebhook
	if err := r.db.Where("node_id = ?", nodeID).
		Order("created_at DESC").
		Find(&webhooks).Error; err != nil {
		return nil, err
	}
	return webhooks, nil
}

// Update updates a webhook configuration
func (r *GormWebhookRepository) Update(webhook *models.NodeWebhook) error {
	return r.db.Save(webhook).Error
}

// Delete deletes a webhook scoped to a node
func (r *GormWebhookRepository) Delete(nodeID uint64, id string) error {
	return r.db.Where("node_id = ? AND id = ?", nodeID, id).
		Delete(&models.NodeWebhook{}).Error
}
