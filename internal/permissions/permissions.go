package permissions

import (
	"errors"

	"github.com/nodehq/node-admin-api/internal/models"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionRead   Action = "read"
	ActionDelete Action = "delete"
	ActionLeave  Action = "leave"
)

type Resource string

const (
	ResourceNode           Resource = "node"
	ResourceNodeMember     Resource = "node_member"
	ResourceNodeInvitation Resource = "node_invitation"
	ResourceNodeSSO        Resource = "node_sso"
	ResourceNodeDSync      Resource = "node_dsync"
	ResourceNodeAuditLog   Resource = "node_audit_log"
	ResourceNodeWebhook    Resource = "node_webhook"
	ResourceNodeAPIKey     Resource = "node_api_key"
)

// Permission grants either every action on a resource or an explicit list.
// AllActions and Actions are mutually exclusive.
type Permission struct {
	Resource   Resource `json:"resource"`
	AllActions bool     `json:"all_actions"`
	Actions    []Action `json:"actions,omitempty"`
}

// ErrNotAllowed is returned by Check when the role's permission entries do
// not cover the requested resource/action pair.
var ErrNotAllowed = errors.New("you are not allowed to perform this action")

func allResources() []Permission {
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

	perms := make([]Permission, len(resources))
	for i, r := range resources {
		perms[i] = Permission{Resource: r, AllActions: true}
	}
	return perms
}

// rolePermissions is the static policy table. It is not user-editable at
// runtime. ADMIN and OWNER are deliberately identical here; the last-owner
// guardrail lives in the membership service, not in this table.
var rolePermissions = map[models.Role][]Permission{
	models.RoleOwner: allResources(),
	models.RoleAdmin: allResources(),
	models.RoleMember: {
		{
			Resource: ResourceNode,
			Actions:  []Action{ActionRead, ActionLeave},
		},
	},
}

// ForRole returns the permission entries for a role. The returned slice must
// not be mutated.
func ForRole(role models.Role) []Permission {
	return rolePermissions[role]
}

// IsAllowed reports whether the role may perform action on resource.
func IsAllowed(role models.Role, resource Resource, action Action) bool {
	for _, perm := range rolePermissions[role] {
		if perm.Resource != resource {
			continue
		}
		if perm.AllActions {
			return true
		}
		for _, a := range perm.Actions {
			if a == action {
				return true
			}
		}
	}
	return false
}

// Check is the single enforcement point for tenant-scoped requests: every
// handler that reads or mutates tenant data goes through it (via the
// permission middleware) before touching the store.
func Check(member *models.NodeMember, resource Resource, action Action) error {
	if member == nil || !IsAllowed(member.Role, resource, action) {
		return ErrNotAllowed
	}
	return nil
}
