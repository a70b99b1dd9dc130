package models

import "time"

// AuditLog is an append-only record of a tenant-scoped action. Rows are
// written fire-and-forget after the authorizing mutation commits.
type AuditLog struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	NodeID    uint64    `gorm:"not null;index" json:"node_id"`
	ActorID   uint64    `gorm:"not null" json:"actor_id"`
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	Crud      string    `gorm:"type:varchar(1);not null" json:"crud"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Relations
	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
