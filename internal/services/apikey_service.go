package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/repository"
	"github.com/nodehq/node-admin-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrAPIKeyNotFound    = errors.New("API key not found")
	ErrInvalidAPIKeyName = errors.New("API key name cannot be empty")
	ErrKeyGeneration     = errors.New("failed to generate API key")
)

// APIKeyService manages per-node API keys. The plaintext key is returned
// once at creation; only its SHA-256 hash is stored.
type APIKeyService struct {
	apiKeyRepo repository.APIKeyRepository
	audit      AuditRecorder
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(apiKeyRepo repository.APIKeyRepository, audit AuditRecorder) *APIKeyService {
	return &APIKeyService{
		apiKeyRepo: apiKeyRepo,
		audit:      audit,
	}
}

// CreateAPIKey creates a key and returns it with the one-time plaintext.
func (s *APIKeyService) CreateAPIKey(nodeID, actorID uint64, name string) (*models.NodeAPIKey, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", ErrInvalidAPIKeyName
	}

	plaintext, hashed, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, "", ErrKeyGeneration
	}

	key := &models.NodeAPIKey{
		NodeID:    nodeID,
		Name:      name,
		HashedKey: hashed,
	}

	if err := s.apiKeyRepo.Create(key); err != nil {
		return nil, "", fmt.Errorf("failed to create API key: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: nodeID, ActorID: actorID, Action: "api_key.create", Crud: "c"})

	return key, plaintext, nil
}

// ListAPIKeys returns a node's API keys (hashes excluded from serialization).
func (s *APIKeyService) ListAPIKeys(nodeID uint64) ([]models.NodeAPIKey, error) {
	keys, err := s.apiKeyRepo.ListByNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	return keys, nil
}

// DeleteAPIKey revokes an API key.
func (s *APIKeyService) DeleteAPIKey(nodeID, actorID uint64, id string) error {
	if _, err := s.apiKeyRepo.FindByID(nodeID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAPIKeyNotFound
		}
		return fmt.Errorf("failed to find API key: %w", err)
	}

	if err := s.apiKeyRepo.Delete(nodeID, id); err != nil {
		return fmt.Errorf("failed to delete API key: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: nodeID, ActorID: actorID, Action: "api_key.delete", Crud: "d"})

	return nil
}
