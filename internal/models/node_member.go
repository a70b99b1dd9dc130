package models

import "time"

type Role string

const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
	RoleOwner  Role = "OWNER"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

type NodeMember struct {
	NodeID   uint64    `gorm:"primarykey" json:"node_id"`
	UserID   uint64    `gorm:"primarykey" json:"user_id"`
	Role     Role      `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	Node Node `gorm:"foreignKey:NodeID" json:"node,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
