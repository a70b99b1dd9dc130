package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NodeAPIKey stores only a SHA-256 hash of the key; the plaintext is
// returned once at creation and never persisted.
type NodeAPIKey struct {
	ID         string     `gorm:"type:varchar(36);primarykey" json:"id"`
	NodeID     uint64     `gorm:"not null;index" json:"node_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	HashedKey  string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Relations
	Node Node `gorm:"foreignKey:NodeID" json:"node,omitempty"`
}

func (k *NodeAPIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}
