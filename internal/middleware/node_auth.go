package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nodehq/node-admin-api/internal/constants"
	apierrors "github.com/nodehq/node-admin-api/internal/errors"
	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/permissions"
	"github.com/nodehq/node-admin-api/internal/services"
)

// RequireNodeAccess resolves the caller's membership for the node in the
// URL. Requests from non-members get 404, not 403, to avoid leaking node
// existence.
func RequireNodeAccess(membership *services.MembershipService) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		if slug == "" {
			apierrors.BadRequest(c, "Invalid node slug")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		member, err := membership.GetMembership(userID, slug)
		if err != nil {
			apierrors.NotFound(c, "Node not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyNode, member.Node)
		c.Set(constants.ContextKeyMember, *member)
		c.Next()
	}
}

// RequirePermission enforces the permission table for the resolved
// membership. Must run after RequireNodeAccess.
func RequirePermission(resource permissions.Resource, action permissions.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetNodeMember(c)
		if !ok {
			apierrors.Forbidden(c, "Node access required")
			c.Abort()
			return
		}

		if err := permissions.Check(member, resource, action); err != nil {
			apierrors.Forbidden(c, err.Error())
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetNodeMember retrieves the resolved membership from context
func GetNodeMember(c *gin.Context) (*models.NodeMember, bool) {
	memberInterface, exists := c.Get(constants.ContextKeyMember)
	if !exists {
		return nil, false
	}

	member, ok := memberInterface.(models.NodeMember)
	if !ok {
		return nil, false
	}

	return &member, true
}

// GetNode retrieves the resolved node from context
func GetNode(c *gin.Context) (*models.Node, bool) {
	nodeInterface, exists := c.Get(constants.ContextKeyNode)
	if !exists {
		return nil, false
	}

	node, ok := nodeInterface.(models.Node)
	if !ok {
		return nil, false
	}

	return &node, true
}
