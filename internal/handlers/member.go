package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nodehq/node-admin-api/internal/dto"
	apierrors "github.com/nodehq/node-admin-api/internal/errors"
	"github.com/nodehq/node-admin-api/internal/middleware"
	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/services"
)

// MemberHandler coordinates node membership HTTP handlers.
type MemberHandler struct {
	membership *services.MembershipService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(membership *services.MembershipService) *MemberHandler {
	return &MemberHandler{
		membership: membership,
	}
}

// ListMembers returns all members of the node
func (h *MemberHandler) ListMembers(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	members, err := h.membership.ListMembers(member.NodeID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToNodeMemberDTOs(members)})
}

// RemoveMember removes a member from the node
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if _, err := h.membership.RemoveMember(member.NodeID, member.UserID, targetID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{}})
}

// UpdateMemberRole changes a member's role
func (h *MemberHandler) UpdateMemberRole(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	type UpdateMemberRequest struct {
		UserID uint64      `json:"user_id" binding:"required"`
		Role   models.Role `json:"role" binding:"required"`
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.membership.UpdateMemberRole(member.NodeID, member.UserID, req.UserID, req.Role)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}
