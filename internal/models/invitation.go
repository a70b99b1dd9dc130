package models

import "time"

// Invitation is a pending offer to join a node with a predetermined role.
// Expiry is computed from ExpiresAt at use time; expired rows are rejected,
// never auto-deleted. Redemption and revocation both delete the row.
type Invitation struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	NodeID    uint64    `gorm:"not null;uniqueIndex:idx_invitations_node_email,priority:1" json:"node_id"`
	InvitedBy uint64    `gorm:"not null" json:"invited_by"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_invitations_node_email,priority:2" json:"email"`
	Role      Role      `gorm:"type:varchar(20);not null" json:"role"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Node Node `gorm:"foreignKey:NodeID" json:"node,omitempty"`
}

// Expired reports whether the invitation is past its deadline at the given
// instant. Pure check; the row is never mutated by a failed redemption.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
