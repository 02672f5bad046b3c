package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/services"
	"github.com/hackmatch/hackmatch/pkg/response"
)

// InvitationHandler exposes the leader-initiated membership flow.
type InvitationHandler struct {
	invitations *services.InvitationService
	users       *services.UserService
}

func NewInvitationHandler(db *gorm.DB) (*InvitationHandler, error) {
	invitations, err := services.NewInvitationService(db)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	return &InvitationHandler{invitations: invitations, users: users}, nil
}

type inviteRequest struct {
	TeamID uint `json:"team_id" validate:"required"`
	UserID uint `json:"user_id_to_add" validate:"required"`
}

type respondInvitationRequest struct {
	InvitationID uint   `json:"invitation_id" validate:"required"`
	Action       string `json:"action" validate:"required,oneof=accept decline"`
}

// POST /api/teams/invite
func (h *InvitationHandler) Invite(c *gin.Context) {
	user, ok := resolveCurrentUser(c, h.users)
	if !ok {
		return
	}

	var body inviteRequest
	if !bindAndValidate(c, &body) {
		return
	}

	invitation, err := h.invitations.Invite(requestContext(c), user.ID, body.TeamID, body.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, invitation)
}

// GET /api/teams/invitations
func (h *InvitationHandler) ListPending(c *gin.Context) {
	user, ok := resolveCurrentUser(c, h.users)
	if !ok {
		return
	}

	invitations, err := h.invitations.ListPending(requestContext(c), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, invitations)
}

// POST /api/teams/invitations/respond
func (h *InvitationHandler) Respond(c *gin.Context) {
	user, ok := resolveCurrentUser(c, h.users)
	if !ok {
		return
	}

	var body respondInvitationRequest
	if !bindAndValidate(c, &body) {
		return
	}

	invitation, err := h.invitations.Respond(requestContext(c), user.ID, body.InvitationID, body.Action == "accept")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, invitation)
}
