package repository

import (
	"github.com/nodehq/node-admin-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// FindByID finds an invitation by ID
func (r *GormInvitationRepository) FindByID(id uint64) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.First(&invitation, id).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByToken finds an invitation by token with the node embedded
func (r *GormInvitationRepository) FindByToken(token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Preload("Node").
		Where("token = ?", token).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ExistsPending reports whether an invitation for (node, email) exists
func (r *GormInvitationRepository) ExistsPending(nodeID uint64, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Invitation{}).
		Where("node_id = ? AND email = ?", nodeID, email).
		Count(&count).Error
	return count > 0, err
}

// ListByNode lists a node's outstanding invitations
func (r *GormInvitationRepository) ListByNode(nodeID uint64) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := r.db.Where("node_id = ?", nodeID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// Delete deletes an invitation by ID
func (r *GormInvitationRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Invitation{}, id).Error
}

// Redeem consumes the token and upserts the membership atomically. The
// delete runs first; a zero rows-affected result means another redemption
// already consumed the token, so the caller gets ErrRecordNotFound instead
// of a duplicate membership.
func (r *GormInvitationRepository) Redeem(token string, member *models.NodeMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("token = ?", token).Delete(&models.Invitation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "node_id"}, {Name: "user_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"role": member.Role}),
			}).
			Create(member).Error
	})
}
