package models

import (
	"time"
)

type Node struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Domain    string    `gorm:"type:varchar(255)" json:"domain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Members     []NodeMember `gorm:"foreignKey:NodeID" json:"members,omitempty"`
	Invitations []Invitation `gorm:"foreignKey:NodeID" json:"invitations,omitempty"`
}
