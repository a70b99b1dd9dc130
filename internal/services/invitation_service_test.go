package services

import (
	"sync"
	"testing"
	"time"

	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type invitationTestEnv struct {
	db          *gorm.DB
	membership  *MembershipService
	invitations *InvitationService
	nodeRepo    repository.NodeRepository
}

func setupInvitationTestEnv(t *testing.T) invitationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Node{},
		&models.NodeMember{},
		&models.Invitation{},
		&models.NodeWebhook{},
		&models.NodeAPIKey{},
		&models.AuditLog{},
	)
	require.NoError(t, err)

	nodeRepo := repository.NewNodeRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	audit := NewDBAuditRecorder(repository.NewAuditLogRepository(db))

	membership := NewMembershipService(nodeRepo, audit, LogEventSink{})
	invitations := NewInvitationService(invitationRepo, nodeRepo, 7*24*time.Hour, audit, LogEventSink{}, LogMailer{})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return invitationTestEnv{
		db:          db,
		membership:  membership,
		invitations: invitations,
		nodeRepo:    nodeRepo,
	}
}

func (env invitationTestEnv) createNodeWithOwner(t *testing.T, name string) (*models.Node, *models.User) {
	t.Helper()

	owner := createTestUser(t, env.db, "owner-"+name, "owner-"+name+"@example.com")
	node, err := env.membership.CreateNode(CreateNodeInput{Name: name, OwnerID: owner.ID})
	require.NoError(t, err)
	return node, owner
}

func TestInvitationService_CreateInvitation(t *testing.T) {
	env := setupInvitationTestEnv(t)

	node, owner := env.createNodeWithOwner(t, "Acme Corp")

	invitation, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "Invited@Example.com",
		Role:      models.RoleMember,
	})
	require.NoError(t, err)
	require.Equal(t, "invited@example.com", invitation.Email)
	require.Equal(t, models.RoleMember, invitation.Role)
	require.NotEmpty(t, invitation.Token)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), invitation.ExpiresAt, time.Minute)
}

func TestInvitationService_CreateInvitation_Duplicate(t *testing.T) {
	env := setupInvitationTestEnv(t)

	node, owner := env.createNodeWithOwner(t, "Acme Corp")

	_, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "invited@example.com",
		Role:      models.RoleMember,
	})
	require.NoError(t, err)

	_, err = env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "invited@example.com",
		Role:      models.RoleAdmin,
	})
	require.ErrorIs(t, err, ErrInvitationExists)

	invitations, err := env.invitations.ListInvitations(node.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 1)
}

func TestInvitationService_CreateInvitation_ExistingMember(t *testing.T) {
	env := setupInvitationTestEnv(t)

	node, owner := env.createNodeWithOwner(t, "Acme Corp")

	_, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     owner.Email,
		Role:      models.RoleMember,
	})
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestInvitationService_CreateInvitation_InvalidRole(t *testing.T) {
	env := setupInvitationTestEnv(t)

	node, owner := env.createNodeWithOwner(t, "Acme Corp")

	_, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "invited@example.com",
		Role:      models.Role("SUPERUSER"),
	})
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestInvitationService_RedeemInvitation(t *testing.T) {
	env := setupInvitationTestEnv(t)

	node, owner := env.createNodeWithOwner(t, "Acme Corp")
	invited := createTestUser(t, env.db, "invited", "invited@example.com")

	invitation, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     invited.Email,
		Role:      models.RoleAdmin,
	})
	require.NoError(t, err)

	member, err := env.invitations.RedeemInvitation(invitation.Token, invited.ID, invited.Email)
	require.NoError(t, err)
	require.Equal(t, node.ID, member.NodeID)
	require.Equal(t, models.RoleAdmin, member.Role)

	// The token is consumed with the membership in one step
	invitations, err := env.invitations.ListInvitations(node.ID)
	require.NoError(t, err)
	require.Empty(t, invitations)

	// A second redemption of the same token loses
	_, err = env.invitations.RedeemInvitation(invitation.Token, invited.ID, invited.Email)
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestInvitationService_RedeemInvitation_EmailMismatch(t *testing.T) {
	env := setupInvitationTestEnv(t)

	node, owner := env.createNodeWithOwner(t, "Acme Corp")
	other := createTestUser(t, env.db, "other", "other@example.com")

	invitation, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "invited@example.com",
		Role:      models.RoleMember,
	})
	require.NoError(t, err)

	_, err = env.invitations.RedeemInvitation(invitation.Token, other.ID, other.Email)
	require.ErrorIs(t, err, ErrInvitationEmail)

	// Email comparison ignores case
	member, err := env.invitations.RedeemInvitation(invitation.Token, other.ID, "Invited@Example.COM")
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, member.Role)
}

func TestInvitationService_RedeemInvitation_Expired(t *testing.T) {
	env := setupInvitationTestEnv(t)

	node, owner := env.createNodeWithOwner(t, "Acme Corp")
	invited := createTestUser(t, env.db, "invited", "invited@example.com")

	invitation, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     invited.Email,
		Role:      models.RoleMember,
	})
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.Invitation{}).
		Where("id = ?", invitation.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = env.invitations.RedeemInvitation(invitation.Token, invited.ID, invited.Email)
	require.ErrorIs(t, err, ErrInvitationExpired)

	// The expired row stays; no membership was created
	invitations, err := env.invitations.ListInvitations(node.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 1)

	_, err = env.nodeRepo.FindMember(node.ID, invited.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInvitationService_RedeemInvitation_ConcurrentRedeemers(t *testing.T) {
	env := setupInvitationTestEnv(t)

	// One shared connection so the redeem transactions serialize instead of
	// tripping over sqlite's single-writer lock
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	node, owner := env.createNodeWithOwner(t, "Acme Corp")
	invited := createTestUser(t, env.db, "invited", "invited@example.com")

	invitation, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     invited.Email,
		Role:      models.RoleMember,
	})
	require.NoError(t, err)

	const redeemers = 8
	results := make(chan error, redeemers)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < redeemers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := env.invitations.RedeemInvitation(invitation.Token, invited.ID, invited.Email)
			results <- err
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	// Exactly one redeemer wins; every loser sees not-found
	var wins int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrInvitationNotFound)
	}
	require.Equal(t, 1, wins)

	var memberCount int64
	require.NoError(t, env.db.Model(&models.NodeMember{}).
		Where("node_id = ? AND user_id = ?", node.ID, invited.ID).
		Count(&memberCount).Error)
	require.EqualValues(t, 1, memberCount)

	invitations, err := env.invitations.ListInvitations(node.ID)
	require.NoError(t, err)
	require.Empty(t, invitations)
}

func TestInvitationService_RedeemInvitation_UnknownToken(t *testing.T) {
	env := setupInvitationTestEnv(t)

	_, err := env.invitations.RedeemInvitation("no-such-token", 1, "someone@example.com")
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestInvitationService_DeleteInvitation(t *testing.T) {
	env := setupInvitationTestEnv(t)

	node, owner := env.createNodeWithOwner(t, "Acme Corp")

	invitation, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "invited@example.com",
		Role:      models.RoleMember,
	})
	require.NoError(t, err)

	caller := &models.NodeMember{NodeID: node.ID, UserID: owner.ID, Role: models.RoleOwner}
	require.NoError(t, env.invitations.DeleteInvitation(invitation.ID, caller))

	invitations, err := env.invitations.ListInvitations(node.ID)
	require.NoError(t, err)
	require.Empty(t, invitations)

	require.ErrorIs(t, env.invitations.DeleteInvitation(invitation.ID, caller), ErrInvitationNotFound)
}

func TestInvitationService_DeleteInvitation_Authorization(t *testing.T) {
	env := setupInvitationTestEnv(t)

	node, owner := env.createNodeWithOwner(t, "Acme Corp")
	admin := createTestUser(t, env.db, "admin", "admin@example.com")
	plain := createTestUser(t, env.db, "plain", "plain@example.com")

	invitation, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "invited@example.com",
		Role:      models.RoleMember,
	})
	require.NoError(t, err)

	// A plain MEMBER who is not the inviter cannot revoke
	memberCaller := &models.NodeMember{NodeID: node.ID, UserID: plain.ID, Role: models.RoleMember}
	require.ErrorIs(t, env.invitations.DeleteInvitation(invitation.ID, memberCaller),
		ErrInvitationNotDeletable)

	// A caller from another node never sees the invitation
	foreignCaller := &models.NodeMember{NodeID: node.ID + 1, UserID: owner.ID, Role: models.RoleOwner}
	require.ErrorIs(t, env.invitations.DeleteInvitation(invitation.ID, foreignCaller),
		ErrInvitationNotFound)

	// An ADMIN who is not the inviter may revoke
	adminCaller := &models.NodeMember{NodeID: node.ID, UserID: admin.ID, Role: models.RoleAdmin}
	require.NoError(t, env.invitations.DeleteInvitation(invitation.ID, adminCaller))
}
