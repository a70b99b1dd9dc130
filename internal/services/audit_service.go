package services

import (
	"fmt"

	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/repository"
	"github.com/nodehq/node-admin-api/internal/utils"
)

// AuditLogService serves the audit trail read path.
type AuditLogService struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditLogService creates a new AuditLogService.
func NewAuditLogService(auditRepo repository.AuditLogRepository) *AuditLogService {
	return &AuditLogService{auditRepo: auditRepo}
}

// ListAuditLogs returns a node's audit log entries, newest first.
func (s *AuditLogService) ListAuditLogs(nodeID uint64, params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	entries, total, err := s.auditRepo.ListByNode(nodeID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return entries, total, nil
}
