package dto

import (
	"time"

	"github.com/nodehq/node-admin-api/internal/models"
)

// InvitationDTO represents a pending invitation in API responses. The token
// is included so the inviting UI can build the invite link.
type InvitationDTO struct {
	ID        uint64      `json:"id"`
	NodeID    uint64      `json:"node_id"`
	InvitedBy uint64      `json:"invited_by"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	CreatedAt time.Time   `json:"created_at"`
}

// ToInvitationDTO converts an Invitation model to InvitationDTO
func ToInvitationDTO(invitation models.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:        invitation.ID,
		NodeID:    invitation.NodeID,
		InvitedBy: invitation.InvitedBy,
		Email:     invitation.Email,
		Role:      invitation.Role,
		Token:     invitation.Token,
		ExpiresAt: invitation.ExpiresAt,
		CreatedAt: invitation.CreatedAt,
	}
}

// ToInvitationDTOs converts an invitation list
func ToInvitationDTOs(invitations []models.Invitation) []InvitationDTO {
	dtos := make([]InvitationDTO, len(invitations))
	for i, invitation := range invitations {
		dtos[i] = ToInvitationDTO(invitation)
	}
	return dtos
}
