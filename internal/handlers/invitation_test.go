package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nodehq/node-admin-api/internal/dto"
	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/repository"
	"github.com/nodehq/node-admin-api/internal/services"
	"github.com/stretchr/testify/require"
)

type invitationHandlerTestEnv struct {
	nodeTestEnv
	handler     *InvitationHandler
	invitations *services.InvitationService
	authService *services.AuthService
}

func setupInvitationHandlerTestEnv(t *testing.T) invitationHandlerTestEnv {
	t.Helper()

	env := setupNodeTestEnv(t, allFeaturesEnabled)

	nodeRepo := repository.NewNodeRepository(env.db)
	invitationRepo := repository.NewInvitationRepository(env.db)
	userRepo := repository.NewUserRepository(env.db)
	audit := services.NewDBAuditRecorder(repository.NewAuditLogRepository(env.db))

	invitations := services.NewInvitationService(invitationRepo, nodeRepo, 7*24*time.Hour, audit, services.LogEventSink{}, services.LogMailer{})
	authService := services.NewAuthService(userRepo, env.membership, invitations)
	handler := NewInvitationHandler(invitations, authService)

	return invitationHandlerTestEnv{
		nodeTestEnv: env,
		handler:     handler,
		invitations: invitations,
		authService: authService,
	}
}

func TestInvitationHandler_CreateInvitation(t *testing.T) {
	env := setupInvitationHandlerTestEnv(t)

	owner := createNodeTestUser(t, env.db, "owner", "owner@example.com")

	node, err := env.membership.CreateNode(services.CreateNodeInput{Name: "Acme Corp", OwnerID: owner.ID})
	require.NoError(t, err)

	member, err := env.membership.GetMembership(owner.ID, node.Slug)
	require.NoError(t, err)

	payload := map[string]string{
		"email": "invited@example.com",
		"role":  "MEMBER",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := nodeTestContext(http.MethodPost, "/api/nodes/acme-corp/invitations", body, owner.ID)
	setNodeScope(c, node, member)

	env.handler.CreateInvitation(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Data dto.InvitationDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "invited@example.com", response.Data.Email)
	require.NotEmpty(t, response.Data.Token)
}

func TestInvitationHandler_CreateInvitation_Duplicate(t *testing.T) {
	env := setupInvitationHandlerTestEnv(t)

	owner := createNodeTestUser(t, env.db, "owner", "owner@example.com")

	node, err := env.membership.CreateNode(services.CreateNodeInput{Name: "Acme Corp", OwnerID: owner.ID})
	require.NoError(t, err)

	member, err := env.membership.GetMembership(owner.ID, node.Slug)
	require.NoError(t, err)

	_, err = env.invitations.CreateInvitation(services.CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "invited@example.com",
		Role:      models.RoleMember,
	})
	require.NoError(t, err)

	payload := map[string]string{
		"email": "invited@example.com",
		"role":  "MEMBER",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := nodeTestContext(http.MethodPost, "/api/nodes/acme-corp/invitations", body, owner.ID)
	setNodeScope(c, node, member)

	env.handler.CreateInvitation(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestInvitationHandler_ListInvitations(t *testing.T) {
	env := setupInvitationHandlerTestEnv(t)

	owner := createNodeTestUser(t, env.db, "owner", "owner@example.com")

	node, err := env.membership.CreateNode(services.CreateNodeInput{Name: "Acme Corp", OwnerID: owner.ID})
	require.NoError(t, err)

	member, err := env.membership.GetMembership(owner.ID, node.Slug)
	require.NoError(t, err)

	_, err = env.invitations.CreateInvitation(services.CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "invited@example.com",
		Role:      models.RoleMember,
	})
	require.NoError(t, err)

	c, w := nodeTestContext(http.MethodGet, "/api/nodes/acme-corp/invitations", nil, owner.ID)
	setNodeScope(c, node, member)

	env.handler.ListInvitations(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []dto.InvitationDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 1)
}

func TestInvitationHandler_DeleteInvitation(t *testing.T) {
	env := setupInvitationHandlerTestEnv(t)

	owner := createNodeTestUser(t, env.db, "owner", "owner@example.com")

	node, err := env.membership.CreateNode(services.CreateNodeInput{Name: "Acme Corp", OwnerID: owner.ID})
	require.NoError(t, err)

	member, err := env.membership.GetMembership(owner.ID, node.Slug)
	require.NoError(t, err)

	invitation, err := env.invitations.CreateInvitation(services.CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "invited@example.com",
		Role:      models.RoleMember,
	})
	require.NoError(t, err)

	c, w := nodeTestContext(http.MethodDelete, "/api/nodes/acme-corp/invitations/"+strconv.FormatUint(invitation.ID, 10), nil, owner.ID)
	setNodeScope(c, node, member)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(invitation.ID, 10)}}

	env.handler.DeleteInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)

	invitations, err := env.invitations.ListInvitations(node.ID)
	require.NoError(t, err)
	require.Empty(t, invitations)
}

func TestInvitationHandler_AcceptInvitation(t *testing.T) {
	env := setupInvitationHandlerTestEnv(t)

	owner := createNodeTestUser(t, env.db, "owner", "owner@example.com")

	node, err := env.membership.CreateNode(services.CreateNodeInput{Name: "Acme Corp", OwnerID: owner.ID})
	require.NoError(t, err)

	invited, err := env.authService.Signup(services.SignupInput{
		Name:     "Invited",
		Email:    "invited@example.com",
		Password: "supersecret",
		NodeName: "Invited Corp",
	})
	require.NoError(t, err)

	invitation, err := env.invitations.CreateInvitation(services.CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     invited.Email,
		Role:      models.RoleAdmin,
	})
	require.NoError(t, err)

	payload := map[string]string{"invite_token": invitation.Token}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := nodeTestContext(http.MethodPost, "/api/invitations/accept", body, invited.ID)

	env.handler.AcceptInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)

	member, err := env.membership.GetMembership(invited.ID, node.Slug)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, member.Role)
}

func TestInvitationHandler_AcceptInvitation_WrongAccount(t *testing.T) {
	env := setupInvitationHandlerTestEnv(t)

	owner := createNodeTestUser(t, env.db, "owner", "owner@example.com")

	node, err := env.membership.CreateNode(services.CreateNodeInput{Name: "Acme Corp", OwnerID: owner.ID})
	require.NoError(t, err)

	other, err := env.authService.Signup(services.SignupInput{
		Name:     "Other",
		Email:    "other@example.com",
		Password: "supersecret",
		NodeName: "Other Corp",
	})
	require.NoError(t, err)

	invitation, err := env.invitations.CreateInvitation(services.CreateInvitationInput{
		NodeID:    node.ID,
		InvitedBy: owner.ID,
		Email:     "invited@example.com",
		Role:      models.RoleMember,
	})
	require.NoError(t, err)

	payload := map[string]string{"invite_token": invitation.Token}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := nodeTestContext(http.MethodPost, "/api/invitations/accept", body, other.ID)

	env.handler.AcceptInvitation(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}
