package repository

import (
	"github.com/nodehq/node-admin-api/internal/database"
	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/utils"
	"gorm.io/gorm"
)

// GormAuditLogRepository is a GORM implementation of AuditLogRepository
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Create appends an audit log entry
func (r *GormAuditLogRepository) Create(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

// ListByNode lists a node's audit log entries, newest first
func (r *GormAuditLogRepository) ListByNode(nodeID uint64, params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog

	query := r.db.Model(&models.AuditLog{}).Where("node_id = ?", nodeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Actor").
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
