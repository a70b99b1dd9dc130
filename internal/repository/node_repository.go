package repository

import (
	"errors"

	"github.com/nodehq/node-admin-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLastOwner is returned when an operation would leave a node without any
// OWNER member.
var ErrLastOwner = errors.New("node repository: node must retain at least one owner")

// GormNodeRepository is a GORM implementation of NodeRepository
type GormNodeRepository struct {
	db *gorm.DB
}

// NewNodeRepository creates a new NodeRepository
func NewNodeRepository(db *gorm.DB) NodeRepository {
	return &GormNodeRepository{db: db}
}

// lockForUpdate adds FOR UPDATE where the engine supports it. sqlite rejects
// the clause and serializes writers anyway, so it is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Create creates a node and its first OWNER member atomically
func (r *GormNodeRepository) Create(node *models.Node, owner *models.NodeMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(node).Error; err != nil {
			return err
		}

		owner.NodeID = node.ID
		return tx.Create(owner).Error
	})
}

// FindByID finds a node by ID
func (r *GormNodeRepository) FindByID(id uint64) (*models.Node, error) {
	var node models.Node
	if err := r.db.First(&node, id).Error; err != nil {
		return nil, err
	}
	return &node, nil
}

// FindBySlug finds a node by slug
func (r *GormNodeRepository) FindBySlug(slug string) (*models.Node, error) {
	var node models.Node
	if err := r.db.Where("slug = ?", slug).First(&node).Error; err != nil {
		return nil, err
	}
	return &node, nil
}

// ExistsByNameOrSlug reports whether a node other than excludeID (zero for
// none) holds the name or slug
func (r *GormNodeRepository) ExistsByNameOrSlug(name, slug string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.Node{}).
		Where("name = ? OR slug = ?", name, slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Update updates a node
func (r *GormNodeRepository) Update(node *models.Node) error {
	return r.db.Save(node).Error
}

// Delete deletes a node and all dependent rows in a transaction
func (r *GormNodeRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("node_id = ?", id).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}

		if err := tx.Where("node_id = ?", id).Delete(&models.NodeWebhook{}).Error; err != nil {
			return err
		}

		if err := tx.Where("node_id = ?", id).Delete(&models.NodeAPIKey{}).Error; err != nil {
			return err
		}

		if err := tx.Where("node_id = ?", id).Delete(&models.NodeMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Node{}, id).Error
	})
}

// UpsertMember inserts a membership or updates its role on conflict
func (r *GormNodeRepository) UpsertMember(member *models.NodeMember) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "node_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"role": member.Role}),
		}).
		Create(member).Error
}

// RemoveMember deletes a membership after re-checking the owner count inside
// the same transaction. The owner rows are locked first so two concurrent
// removals cannot both observe two owners.
func (r *GormNodeRepository) RemoveMember(nodeID, userID uint64) (*models.NodeMember, error) {
	var removed models.NodeMember

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("node_id = ? AND user_id = ?", nodeID, userID).
			First(&removed).Error; err != nil {
			return err
		}

		if removed.Role == models.RoleOwner {
			var owners int64
			if err := lockForUpdate(tx).
				Model(&models.NodeMember{}).
				Where("node_id = ? AND role = ?", nodeID, models.RoleOwner).
				Count(&owners).Error; err != nil {
				return err
			}
			if owners <= 1 {
				return ErrLastOwner
			}
		}

		return tx.Where("node_id = ? AND user_id = ?", nodeID, userID).
			Delete(&models.NodeMember{}).Error
	})
	if err != nil {
		return nil, err
	}

	return &removed, nil
}

// UpdateMemberRole changes a member's role with the same owner-count guard
// as RemoveMember: demoting the only remaining owner fails.
func (r *GormNodeRepository) UpdateMemberRole(nodeID, userID uint64, role models.Role) (*models.NodeMember, error) {
	var member models.NodeMember

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("node_id = ? AND user_id = ?", nodeID, userID).
			First(&member).Error; err != nil {
			return err
		}

		if member.Role == models.RoleOwner && role != models.RoleOwner {
			var owners int64
			if err := lockForUpdate(tx).
				Model(&models.NodeMember{}).
				Where("node_id = ? AND role = ?", nodeID, models.RoleOwner).
				Count(&owners).Error; err != nil {
				return err
			}
			if owners <= 1 {
				return ErrLastOwner
			}
		}

		member.Role = role
		return tx.Model(&models.NodeMember{}).
			Where("node_id = ? AND user_id = ?", nodeID, userID).
			Update("role", role).Error
	})
	if err != nil {
		return nil, err
	}

	return &member, nil
}

// FindMember finds a specific node member
func (r *GormNodeRepository) FindMember(nodeID, userID uint64) (*models.NodeMember, error) {
	var member models.NodeMember
	if err := r.db.Where("node_id = ? AND user_id = ?", nodeID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindMembershipBySlug resolves a user's membership via the node slug
func (r *GormNodeRepository) FindMembershipBySlug(userID uint64, slug string) (*models.NodeMember, error) {
	var member models.NodeMember
	if err := r.db.Preload("Node").
		Joins("JOIN nodes ON nodes.id = node_members.node_id").
		Where("node_members.user_id = ? AND nodes.slug = ?", userID, slug).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a node
func (r *GormNodeRepository) ListMembers(nodeID uint64) ([]models.NodeMember, error) {
	var members []models.NodeMember
	if err := r.db.Preload("User").
		Where("node_id = ?", nodeID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsByUserID lists all nodes a user is a member of
func (r *GormNodeRepository) ListMembershipsByUserID(userID uint64) ([]models.NodeMember, error) {
	var memberships []models.NodeMember
	if err := r.db.Preload("Node").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountMembersByEmail counts node members whose user has the given email
func (r *GormNodeRepository) CountMembersByEmail(nodeID uint64, email string) (int64, error) {
	var count int64
	err := r.db.Model(&models.NodeMember{}).
		Joins("JOIN users ON users.id = node_members.user_id").
		Where("node_members.node_id = ? AND users.email = ?", nodeID, email).
		Count(&count).Error
	return count, err
}

// CountOwners counts the node's OWNER members
func (r *GormNodeRepository) CountOwners(nodeID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.NodeMember{}).
		Where("node_id = ? AND role = ?", nodeID, models.RoleOwner).
		Count(&count).Error
	return count, err
}
