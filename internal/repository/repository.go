package repository

import (
	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/utils"
)

// NodeRepository defines the interface for node and membership data access
type NodeRepository interface {
	// Create creates a node and its first OWNER member in one transaction
	Create(node *models.Node, owner *models.NodeMember) error

	// FindByID finds a node by ID
	FindByID(id uint64) (*models.Node, error)

	// FindBySlug finds a node by slug
	FindBySlug(slug string) (*models.Node, error)

	// ExistsByNameOrSlug reports whether a node other than excludeID (zero
	// for none) holds the name or slug
	ExistsByNameOrSlug(name, slug string, excludeID uint64) (bool, error)

	// Update updates a node
	Update(node *models.Node) error

	// Delete deletes a node and all dependent rows in one transaction
	Delete(id uint64) error

	// UpsertMember inserts a membership or updates its role if the
	// (node, user) pair already exists
	UpsertMember(member *models.NodeMember) error

	// RemoveMember deletes a membership; fails with ErrLastOwner when the
	// target is the node's only remaining owner
	RemoveMember(nodeID, userID uint64) (*models.NodeMember, error)

	// UpdateMemberRole changes a member's role; demoting the only remaining
	// owner fails with ErrLastOwner
	UpdateMemberRole(nodeID, userID uint64, role models.Role) (*models.NodeMember, error)

	// FindMember finds a specific node member
	FindMember(nodeID, userID uint64) (*models.NodeMember, error)

	// FindMembershipBySlug resolves a user's membership via the node slug,
	// with the node embedded
	FindMembershipBySlug(userID uint64, slug string) (*models.NodeMember, error)

	// ListMembers lists all members of a node
	ListMembers(nodeID uint64) ([]models.NodeMember, error)

	// ListMembershipsByUserID lists all nodes a user is a member of
	ListMembershipsByUserID(userID uint64) ([]models.NodeMember, error)

	// CountMembersByEmail counts node members whose user has the given email
	CountMembersByEmail(nodeID uint64, email string) (int64, error)

	// CountOwners counts the node's OWNER members
	CountOwners(nodeID uint64) (int64, error)
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(invitation *models.Invitation) error

	// FindByID finds an invitation by ID
	FindByID(id uint64) (*models.Invitation, error)

	// FindByToken finds an invitation by token, with the node embedded
	FindByToken(token string) (*models.Invitation, error)

	// ExistsPending reports whether an invitation for (node, email) exists
	ExistsPending(nodeID uint64, email string) (bool, error)

	// ListByNode lists a node's outstanding invitations
	ListByNode(nodeID uint64) ([]models.Invitation, error)

	// Delete deletes an invitation by ID
	Delete(id uint64) error

	// Redeem consumes the invitation token and upserts the membership in a
	// single transaction; exactly one concurrent redeemer succeeds, the rest
	// get gorm.ErrRecordNotFound
	Redeem(token string, member *models.NodeMember) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// WebhookRepository defines the interface for webhook configuration access
type WebhookRepository interface {
	Create(webhook *models.NodeWebhook) error
	FindByID(nodeID uint64, id string) (*models.NodeWebhook, error)
	ListByNode(nodeID uint64) ([]models.NodeWebhook, error)
	Update(webhook *models.NodeWebhook) error
	Delete(nodeID uint64, id string) error
}

// APIKeyRepository defines the interface for API key access
type APIKeyRepository interface {
	Create(key *models.NodeAPIKey) error
	FindByID(nodeID uint64, id string) (*models.NodeAPIKey, error)
	ListByNode(nodeID uint64) ([]models.NodeAPIKey, error)
	Delete(nodeID uint64, id string) error
}

// AuditLogRepository defines the interface for audit log access
type AuditLogRepository interface {
	Create(entry *models.AuditLog) error
	ListByNode(nodeID uint64, params utils.PaginationParams) ([]models.AuditLog, int64, error)
}
