package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nodehq/node-admin-api/internal/config"
	"github.com/nodehq/node-admin-api/internal/dto"
	apierrors "github.com/nodehq/node-admin-api/internal/errors"
	"github.com/nodehq/node-admin-api/internal/middleware"
	"github.com/nodehq/node-admin-api/internal/permissions"
	"github.com/nodehq/node-admin-api/internal/services"
)

// NodeHandler coordinates node-level HTTP handlers.
type NodeHandler struct {
	membership *services.MembershipService
	features   config.NodeFeatures
}

// NewNodeHandler creates a new NodeHandler.
func NewNodeHandler(membership *services.MembershipService, features config.NodeFeatures) *NodeHandler {
	return &NodeHandler{
		membership: membership,
		features:   features,
	}
}

// CreateNode creates a new node owned by the caller
func (h *NodeHandler) CreateNode(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateNodeRequest struct {
		Name string `json:"name" binding:"required,max=255"`
	}

	var req CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	node, err := h.membership.CreateNode(services.CreateNodeInput{
		Name:    req.Name,
		OwnerID: userID,
	})
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.ToNodeDTO(*node)})
}

// ListNodes returns all nodes the caller is a member of
func (h *NodeHandler) ListNodes(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.membership.ListNodesForUser(userID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	nodes := make([]dto.NodeWithRoleDTO, len(memberships))
	for i, m := range memberships {
		nodes[i] = dto.ToNodeWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"data": nodes})
}

// GetNode returns node details for a member
func (h *NodeHandler) GetNode(c *gin.Context) {
	node, ok := middleware.GetNode(c)
	if !ok {
		apierrors.InternalError(c, "Node not found in context")
		return
	}

	member, _ := middleware.GetNodeMember(c)

	c.JSON(http.StatusOK, gin.H{"data": dto.NodeDetailDTO{
		NodeDTO:  dto.ToNodeDTO(*node),
		YourRole: member.Role,
	}})
}

// UpdateNode updates node settings
func (h *NodeHandler) UpdateNode(c *gin.Context) {
	node, ok := middleware.GetNode(c)
	if !ok {
		apierrors.InternalError(c, "Node not found in context")
		return
	}

	member, _ := middleware.GetNodeMember(c)

	type UpdateNodeRequest struct {
		Name   string `json:"name" binding:"omitempty,max=255"`
		Slug   string `json:"slug" binding:"omitempty,max=255"`
		Domain string `json:"domain" binding:"omitempty,max=255"`
	}

	var req UpdateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.membership.UpdateNode(node.ID, member.UserID, services.UpdateNodeInput{
		Name:   req.Name,
		Slug:   req.Slug,
		Domain: req.Domain,
	})
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToNodeDTO(*updated)})
}

// DeleteNode deletes a node. Hidden entirely when the feature is disabled.
func (h *NodeHandler) DeleteNode(c *gin.Context) {
	if !h.features.DeleteNode {
		apierrors.NotFound(c, "")
		return
	}

	node, ok := middleware.GetNode(c)
	if !ok {
		apierrors.InternalError(c, "Node not found in context")
		return
	}

	member, _ := middleware.GetNodeMember(c)

	if err := h.membership.DeleteNode(node.ID, member.UserID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{}})
}

// LeaveNode removes the caller's own membership
func (h *NodeHandler) LeaveNode(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	if err := h.membership.LeaveNode(member.NodeID, member.UserID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{}})
}

// GetPermissions returns the caller's permission entries for the node
func (h *NodeHandler) GetPermissions(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": permissions.ForRole(member.Role)})
}

func respondMembershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidNodeName),
		errors.Is(err, services.ErrInvalidDomain),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNodeAlreadyExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrLastOwner):
		apierrors.InvariantViolation(c, err.Error())
	case errors.Is(err, services.ErrNodeNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMembershipNotFound):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
