package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nodehq/node-admin-api/internal/dto"
	apierrors "github.com/nodehq/node-admin-api/internal/errors"
	"github.com/nodehq/node-admin-api/internal/middleware"
	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/services"
)

// InvitationHandler coordinates invitation HTTP handlers.
type InvitationHandler struct {
	invitations *services.InvitationService
	authService *services.AuthService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitations *services.InvitationService, authService *services.AuthService) *InvitationHandler {
	return &InvitationHandler{
		invitations: invitations,
		authService: authService,
	}
}

// CreateInvitation invites a user to the node by email
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	type CreateInvitationRequest struct {
		Email string      `json:"email" binding:"required,email"`
		Role  models.Role `json:"role" binding:"required"`
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.invitations.CreateInvitation(services.CreateInvitationInput{
		NodeID:    member.NodeID,
		InvitedBy: member.UserID,
		Email:     req.Email,
		Role:      req.Role,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.ToInvitationDTO(*invitation)})
}

// ListInvitations returns the node's outstanding invitations
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	invitations, err := h.invitations.ListInvitations(member.NodeID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToInvitationDTOs(invitations)})
}

// DeleteInvitation revokes a pending invitation
func (h *InvitationHandler) DeleteInvitation(c *gin.Context) {
	member, ok := middleware.GetNodeMember(c)
	if !ok {
		apierrors.Forbidden(c, "Node access required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid invitation ID")
		return
	}

	if err := h.invitations.DeleteInvitation(id, member); err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{}})
}

// AcceptInvitation redeems an invitation token for the logged-in user. The
// invited email must match the caller's account email.
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AcceptInvitationRequest struct {
		InviteToken string `json:"invite_token" binding:"required"`
	}

	var req AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	member, err := h.invitations.RedeemInvitation(req.InviteToken, user.ID, user.Email)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": member})
}

func respondInvitationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvitationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvitationExpired):
		apierrors.Expired(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrInvitationExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvitationEmail),
		errors.Is(err, services.ErrInvitationNotDeletable):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
