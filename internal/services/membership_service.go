package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/repository"
	"github.com/nodehq/node-admin-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrNodeAlreadyExists  = errors.New("a node with this name already exists")
	ErrInvalidNodeName    = errors.New("node name cannot be empty")
	ErrInvalidDomain      = errors.New("invalid domain name")
	ErrInvalidRole        = errors.New("invalid role")
	ErrMembershipNotFound = errors.New("you do not have access to this node")
	ErrMemberNotFound     = errors.New("node member not found")
	ErrLastOwner          = errors.New("a node should have at least one owner")
)

// MembershipService provides business logic for nodes and their members.
type MembershipService struct {
	nodeRepo repository.NodeRepository
	audit    AuditRecorder
	events   EventSink
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(nodeRepo repository.NodeRepository, audit AuditRecorder, events EventSink) *MembershipService {
	return &MembershipService{
		nodeRepo: nodeRepo,
		audit:    audit,
		events:   events,
	}
}

// CreateNodeInput represents parameters to create a new node.
type CreateNodeInput struct {
	Name    string
	OwnerID uint64
}

// CreateNode creates a node and makes the creator its owner, atomically.
// The slug is derived from the name; name and slug collisions both fail.
func (s *MembershipService) CreateNode(input CreateNodeInput) (*models.Node, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidNodeName
	}

	slug := utils.Slugify(name)
	if slug == "" {
		return nil, ErrInvalidNodeName
	}

	if err := s.EnsureNodeAvailable(name); err != nil {
		return nil, err
	}

	node := &models.Node{
		Name: name,
		Slug: slug,
	}

	owner := &models.NodeMember{
		UserID:   input.OwnerID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.nodeRepo.Create(node, owner); err != nil {
		return nil, fmt.Errorf("failed to create node: %w", err)
	}

	s.events.Send(Event{NodeID: node.ID, Type: "node.created", Payload: node})

	return node, nil
}

// EnsureNodeAvailable fails when a node with the name (or its slug) exists.
func (s *MembershipService) EnsureNodeAvailable(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidNodeName
	}

	exists, err := s.nodeRepo.ExistsByNameOrSlug(name, utils.Slugify(name), 0)
	if err != nil {
		return fmt.Errorf("failed to check node availability: %w", err)
	}
	if exists {
		return ErrNodeAlreadyExists
	}
	return nil
}

// GetMembership resolves the caller's membership for a node slug. This is
// the access gate for every tenant-scoped operation.
func (s *MembershipService) GetMembership(userID uint64, slug string) (*models.NodeMember, error) {
	member, err := s.nodeRepo.FindMembershipBySlug(userID, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return member, nil
}

// ListNodesForUser returns the user's memberships with nodes embedded.
func (s *MembershipService) ListNodesForUser(userID uint64) ([]models.NodeMember, error) {
	memberships, err := s.nodeRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	return memberships, nil
}

// ListMembers returns all members of a node.
func (s *MembershipService) ListMembers(nodeID uint64) ([]models.NodeMember, error) {
	members, err := s.nodeRepo.ListMembers(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list node members: %w", err)
	}
	return members, nil
}

// UpdateNodeInput represents updatable node settings.
type UpdateNodeInput struct {
	Name   string
	Slug   string
	Domain string
}

// UpdateNode updates a node's settings.
func (s *MembershipService) UpdateNode(nodeID, actorID uint64, input UpdateNodeInput) (*models.Node, error) {
	node, err := s.nodeRepo.FindByID(nodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNodeNotFound
		}
		return nil, fmt.Errorf("failed to find node: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	slug := utils.Slugify(input.Slug)

	if name != "" {
		node.Name = name
	}
	if slug != "" {
		node.Slug = slug
	}
	if name != "" || slug != "" {
		// Renaming onto another node's name or slug is a conflict, not a
		// constraint blowup at save time
		taken, err := s.nodeRepo.ExistsByNameOrSlug(node.Name, node.Slug, node.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check node availability: %w", err)
		}
		if taken {
			return nil, ErrNodeAlreadyExists
		}
	}
	if input.Domain != "" {
		if !utils.ValidateDomain(input.Domain) {
			return nil, ErrInvalidDomain
		}
		node.Domain = input.Domain
	}

	if err := s.nodeRepo.Update(node); err != nil {
		return nil, fmt.Errorf("failed to update node: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: node.ID, ActorID: actorID, Action: "node.update", Crud: "u"})
	s.events.Send(Event{NodeID: node.ID, Type: "node.updated", Payload: node})

	return node, nil
}

// DeleteNode removes a node with all of its members and invitations.
func (s *MembershipService) DeleteNode(nodeID, actorID uint64) error {
	if _, err := s.nodeRepo.FindByID(nodeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNodeNotFound
		}
		return fmt.Errorf("failed to find node: %w", err)
	}

	if err := s.nodeRepo.Delete(nodeID); err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: nodeID, ActorID: actorID, Action: "node.delete", Crud: "d"})
	s.events.Send(Event{NodeID: nodeID, Type: "node.deleted"})

	return nil
}

// AddMember upserts a membership: a new (node, user) pair is inserted, an
// existing one gets its role updated. Safe to retry.
func (s *MembershipService) AddMember(nodeID, userID uint64, role models.Role) (*models.NodeMember, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	member := &models.NodeMember{
		NodeID:   nodeID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}

	if err := s.nodeRepo.UpsertMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: nodeID, ActorID: userID, Action: "member.create", Crud: "c"})
	s.events.Send(Event{NodeID: nodeID, Type: "member.created", Payload: member})

	return member, nil
}

// RemoveMember removes a member from a node. Removing the last remaining
// owner fails; the owner count is re-read inside the repository transaction.
func (s *MembershipService) RemoveMember(nodeID, actorID, targetID uint64) (*models.NodeMember, error) {
	removed, err := s.nodeRepo.RemoveMember(nodeID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrMemberNotFound
		case errors.Is(err, repository.ErrLastOwner):
			return nil, ErrLastOwner
		}
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: nodeID, ActorID: actorID, Action: "member.remove", Crud: "d"})
	s.events.Send(Event{NodeID: nodeID, Type: "member.removed", Payload: removed})

	return removed, nil
}

// LeaveNode is self-removal through the same guarded path as RemoveMember.
func (s *MembershipService) LeaveNode(nodeID, callerID uint64) error {
	_, err := s.RemoveMember(nodeID, callerID, callerID)
	return err
}

// UpdateMemberRole changes a member's role. Demoting the only remaining
// owner fails with ErrLastOwner.
func (s *MembershipService) UpdateMemberRole(nodeID, actorID, targetID uint64, role models.Role) (*models.NodeMember, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	member, err := s.nodeRepo.UpdateMemberRole(nodeID, targetID, role)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrMemberNotFound
		case errors.Is(err, repository.ErrLastOwner):
			return nil, ErrLastOwner
		}
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	s.audit.Record(AuditEntry{NodeID: nodeID, ActorID: actorID, Action: "member.update", Crud: "u"})
	s.events.Send(Event{NodeID: nodeID, Type: "member.updated", Payload: member})

	return member, nil
}
