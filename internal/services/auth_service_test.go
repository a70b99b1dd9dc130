package services

import (
	"testing"
	"time"

	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	auth        *AuthService
	membership  *MembershipService
	invitations *InvitationService
	nodeRepo    repository.NodeRepository
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
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
	userRepo := repository.NewUserRepository(db)
	audit := NewDBAuditRecorder(repository.NewAuditLogRepository(db))

	membership := NewMembershipService(nodeRepo, audit, LogEventSink{})
	invitations := NewInvitationService(invitationRepo, nodeRepo, 7*24*time.Hour, audit, LogEventSink{}, LogMailer{})
	auth := NewAuthService(userRepo, membership, invitations)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		auth:        auth,
		membership:  membership,
		invitations: invitations,
		nodeRepo:    nodeRepo,
	}
}

func TestAuthService_Signup_NewNode(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.auth.Signup(SignupInput{
		Name:     "Founder",
		Email:    "Founder@Example.com",
		Password: "supersecret",
		NodeName: "Acme Corp",
	})
	require.NoError(t, err)
	require.Equal(t, "founder@example.com", user.Email)

	memberships, err := env.membership.ListNodesForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	require.Equal(t, models.RoleOwner, memberships[0].Role)
	require.Equal(t, "Acme Corp", memberships[0].Node.Name)
}

func TestAuthService_Signup_WithInvitation(t *testing.T) {
	env := setupAuthTestEnv(t)

	owner, err := env.auth.Signup(SignupInput{
		Name:     "Founder",
		Email:    "founder@example.com",
		Password: "supersecret",
		NodeName: "Acme Corp",
	})
	require.NoError(t, err)

	memberships, err := env.membership.ListNodesForUser(owner.ID)
	require.NoError(t, err)
	node := memberships[0].Node

	invitation, err := env.invitations.CreateInvitation(CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "hire@example.com",
		Role:      models.RoleAdmin,
	})
	require.NoError(t, err)

	// The account email comes from the invitation, not the request
	user, err := env.auth.Signup(SignupInput{
		Name:        "Hire",
		Email:       "other@example.com",
		Password:    "supersecret",
		InviteToken: invitation.Token,
	})
	require.NoError(t, err)
	require.Equal(t, "hire@example.com", user.Email)

	member, err := env.nodeRepo.FindMember(node.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, member.Role)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.auth.Signup(SignupInput{
		Name:     "User",
		Email:    "user@example.com",
		Password: "short",
		NodeName: "Acme Corp",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = env.auth.Signup(SignupInput{
		Name:     "User",
		Email:    "user@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrNodeNameRequired)

	_, err = env.auth.Signup(SignupInput{
		Name:        "User",
		Email:       "user@example.com",
		Password:    "supersecret",
		InviteToken: "no-such-token",
	})
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestAuthService_Signup_NodeNameTakenBeforeUserCreated(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.auth.Signup(SignupInput{
		Name:     "Founder",
		Email:    "founder@example.com",
		Password: "supersecret",
		NodeName: "Acme Corp",
	})
	require.NoError(t, err)

	_, err = env.auth.Signup(SignupInput{
		Name:     "Second",
		Email:    "second@example.com",
		Password: "supersecret",
		NodeName: "Acme Corp",
	})
	require.ErrorIs(t, err, ErrNodeAlreadyExists)

	// The failed signup must not leave an orphan account behind
	var count int64
	require.NoError(t, env.db.Model(&models.User{}).
		Where("email = ?", "second@example.com").
		Count(&count).Error)
	require.Zero(t, count)
}

func TestAuthService_Signup_EmailTaken(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.auth.Signup(SignupInput{
		Name:     "Founder",
		Email:    "founder@example.com",
		Password: "supersecret",
		NodeName: "Acme Corp",
	})
	require.NoError(t, err)

	_, err = env.auth.Signup(SignupInput{
		Name:     "Clone",
		Email:    "founder@example.com",
		Password: "supersecret",
		NodeName: "Other Corp",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.auth.Signup(SignupInput{
		Name:     "Founder",
		Email:    "founder@example.com",
		Password: "supersecret",
		NodeName: "Acme Corp",
	})
	require.NoError(t, err)

	loggedIn, err := env.auth.Login(LoginInput{Email: "Founder@Example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	_, err = env.auth.Login(LoginInput{Email: "founder@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
