package repository

import (
	"github.com/nodehq/node-admin-api/internal/models"
	"gorm.io/gorm"
)

// GormAPIKeyRepository is a GORM implementation of APIKeyRepository
type GormAPIKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &GormAPIKeyRepository{db: db}
}

// Create creates a new API key
func (r *GormAPIKeyRepository) Create(key *models.NodeAPIKey) error {
	return r.db.Create(key).Error
}

// FindByID finds an API key scoped to a node
func (r *GormAPIKeyRepository) FindByID(nodeID uint64, id string) (*models.NodeAPIKey, error) {
	var key models.NodeAPIKey
	if err := r.db.Where("node_id = ? AND id = ?", nodeID, id).
		First(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

// ListByNode lists a node's API keys
func (r *GormAPIKeyRepository) ListByNode(nodeID uint64) ([]models.NodeAPIKey, error) {
	var keys []models.NodeAPIKey
	if err := r.db.Where("node_id = ?", nodeID).
		Order("created_at DESC").
		Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// Delete deletes an API key scoped to a node
func (r *GormAPIKeyRepository) Delete(nodeID uint64, id string) error {
	return r.db.Where("node_id = ? AND id = ?", nodeID, id).
		Delete(&models.NodeAPIKey{}).Error
}
