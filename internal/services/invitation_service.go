package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/permissions"
	"github.com/nodehq/node-admin-api/internal/repository"
	"github.com/nodehq/node-admin-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvitationNotFound     = errors.New("invitation not found")
	ErrInvitationExpired      = errors.New("invitation expired, please request a new one")
	ErrAlreadyMember          = errors.New("this user is already a member of the node")
	ErrInvitationExists       = errors.New("an invitation already exists for this email")
	ErrInvitationEmail        = errors.New("you must be logged in with the email address you were invited with")
	ErrInvitationNotDeletable = errors.New("you don't have permission to delete this invitation")
	ErrTokenGeneration        = errors.New("failed to generate invitation token")
)

// InvitationService provides business logic for the invitation lifecycle:
// pending invitations expire by time, and are removed by redemption or
// revocation.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	nodeRepo       repository.NodeRepository
	validity       time.Duration
	audit          AuditRecorder
	events         EventSink
	mailer         Mailer
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	nodeRepo repository.NodeRepository,
	validity time.Duration,
	audit AuditRecorder,
	events EventSink,
	mailer Mailer,
) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		nodeRepo:       nodeRepo,
		validity:       validity,
		audit:          audit,
		events:         events,
		mailer:         mailer,
	}
}

// CreateInvitationInput represents parameters to invite a user to a node.
type CreateInvitationInput struct {
	NodeID    uint64
	InvitedBy uint64
	Email     string
	Role      models.Role
}

// CreateInvitation issues a time-bounded invitation. At most one outstanding
// invitation may exist per (node, email); emails of existing members are
// rejected.
func (s *InvitationService) CreateInvitation(input CreateInvitationInput) (*models.Invitation, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	memberCount, err := s.nodeRepo.CountMembersByEmail(input.NodeID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if memberCount > 0 {
		return nil, ErrAlreadyMember
	}

	exists, err := s.invitationRepo.ExistsPending(input.NodeID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if exists {
		return nil, ErrInvitationExists
	}

	token, err := utils.GenerateInvitationToken()
	if err != nil {
		return nil, ErrTokenGeneration
	}

	invitation := &models.Invitation{
		NodeID:    input.NodeID,
		InvitedBy: input.InvitedBy,
		Email:     email,
		Role:      input.Role,
		Token:     token,
		ExpiresAt: time.Now().Add(s.validity),
	}

	if err := s.invitationRepo.Create(invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	node, err := s.nodeRepo.FindByID(input.NodeID)
	if err == nil {
		s.mailer.SendInvitation(InvitationMail{
			Email:    email,
			NodeName: node.Name,
			Token:    token,
			Role:     invitation.Role,
		})
	}

	s.audit.Record(AuditEntry{NodeID: input.NodeID, ActorID: input.InvitedBy, Action: "member.invitation.create", Crud: "c"})
	s.events.Send(Event{NodeID: input.NodeID, Type: "invitation.created", Payload: invitation})

	return invitation, nil
}

// ListInvitations returns a node's outstanding invitations.
func (s *InvitationService) ListInvitations(nodeID uint64) ([]models.Invitation, error) {
	invitations, err := s.invitationRepo.ListByNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}

// RedeemInvitation turns a valid token into a membership at the invited
// role. Redemption is bound to the invited email, not the caller's choice of
// account. Token consumption and membership creation are one transaction;
// of N concurrent redeemers exactly one wins and the rest see not-found.
func (s *InvitationService) RedeemInvitation(token string, callerID uint64, callerEmail string) (*models.NodeMember, error) {
	invitation, err := s.invitationRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.Expired(time.Now()) {
		return nil, ErrInvitationExpired
	}

	if !strings.EqualFold(callerEmail, invitation.Email) {
		return nil, ErrInvitationEmail
	}

	member := &models.NodeMember{
		NodeID:   invitation.NodeID,
		UserID:   callerID,
		Role:     invitation.Role,
		JoinedAt: time.Now(),
	}

	if err := s.invitationRepo.Redeem(token, member); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to redeem invitation: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: invitation.NodeID, ActorID: callerID, Action: "member.create", Crud: "c"})
	s.events.Send(Event{NodeID: invitation.NodeID, Type: "member.created", Payload: member})

	return member, nil
}

// DeleteInvitation revokes a pending invitation. The caller must be the
// original inviter or hold node_invitation:delete for the node.
func (s *InvitationService) DeleteInvitation(id uint64, caller *models.NodeMember) error {
	invitation, err := s.invitationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.NodeID != caller.NodeID {
		return ErrInvitationNotFound
	}

	if invitation.InvitedBy != caller.UserID {
		if err := permissions.Check(caller, permissions.ResourceNodeInvitation, permissions.ActionDelete); err != nil {
			return ErrInvitationNotDeletable
		}
	}

	if err := s.invitationRepo.Delete(invitation.ID); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: caller.NodeID, ActorID: caller.UserID, Action: "member.invitation.delete", Crud: "d"})
	s.events.Send(Event{NodeID: caller.NodeID, Type: "invitation.removed", Payload: invitation})

	return nil
}
