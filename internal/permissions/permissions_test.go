package permissions

import (
	"testing"

	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestIsAllowed_MemberRole(t *testing.T) {
	require.True(t, IsAllowed(models.RoleMember, ResourceNode, ActionRead))
	require.True(t, IsAllowed(models.RoleMember, ResourceNode, ActionLeave))

	require.False(t, IsAllowed(models.RoleMember, ResourceNode, ActionUpdate))
	require.False(t, IsAllowed(models.RoleMember, ResourceNode, ActionDelete))
	require.False(t, IsAllowed(models.RoleMember, ResourceNodeMember, ActionRead))
	require.False(t, IsAllowed(models.RoleMember, ResourceNodeMember, ActionDelete))
	require.False(t, IsAllowed(models.RoleMember, ResourceNodeInvitation, ActionCreate))
	require.False(t, IsAllowed(models.RoleMember, ResourceNodeWebhook, ActionRead))
	require.False(t, IsAllowed(models.RoleMember, ResourceNodeAPIKey, ActionCreate))
	require.False(t, IsAllowed(models.RoleMember, ResourceNodeAuditLog, ActionRead))
}

func TestIsAllowed_AdminAndOwnerCoverEverything(t *testing.T) {
	resources := []Resource{
		ResourceNode,
		ResourceNodeMember,
		ResourceNodeInvitation,
		ResourceNodeSSO,
		ResourceNodeDSync,
		ResourceNodeAuditLog,
		ResourceNodeWebhook,
		ResourceNodeAPIKey,
	}
	actions := []Action{ActionCreate, ActionUpdate, ActionRead, ActionDelete, ActionLeave}

	for _, role := range []models.Role{models.RoleAdmin, models.RoleOwner} {
		for _, resource := range resources {
			for _, action := range actions {
				require.True(t, IsAllowed(role, resource, action),
					"%s should be allowed %s on %s", role, action, resource)
			}
		}
	}
}

func TestIsAllowed_UnknownRole(t *testing.T) {
	require.False(t, IsAllowed(models.Role("GUEST"), ResourceNode, ActionRead))
}

func TestForRole(t *testing.T) {
	owner := ForRole(models.RoleOwner)
	require.Len(t, owner, 8)
	for _, perm := range owner {
		require.True(t, perm.AllActions)
		require.Empty(t, perm.Actions)
	}

	member := ForRole(models.RoleMember)
	require.Len(t, member, 1)
	require.Equal(t, ResourceNode, member[0].Resource)
	require.False(t, member[0].AllActions)
	require.ElementsMatch(t, []Action{ActionRead, ActionLeave}, member[0].Actions)
}

func TestCheck(t *testing.T) {
	member := &models.NodeMember{NodeID: 1, UserID: 1, Role: models.RoleMember}

	require.NoError(t, Check(member, ResourceNode, ActionRead))
	require.ErrorIs(t, Check(member, ResourceNodeMember, ActionDelete), ErrNotAllowed)
	require.ErrorIs(t, Check(nil, ResourceNode, ActionRead), ErrNotAllowed)
}
