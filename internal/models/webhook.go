package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NodeWebhook is a per-node webhook endpoint configuration. Delivery is
// handled by an external collaborator; only the configuration lives here.
type NodeWebhook struct {
	ID          string         `gorm:"type:varchar(36);primarykey" json:"id"`
	NodeID      uint64         `gorm:"not null;index" json:"node_id"`
	Description string         `gorm:"type:varchar(255)" json:"description"`
	URL         string         `gorm:"type:varchar(2048);not null" json:"url"`
	EventTypes  datatypes.JSON `json:"event_types"`
	Secret      string         `gorm:"type:varchar(255)" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Relations
	Node Node `gorm:"foreignKey:NodeID" json:"node,omitempty"`
}

func (w *NodeWebhook) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
