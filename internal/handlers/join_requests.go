package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/services"
	"github.com/hackmatch/hackmatch/pkg/response"
)

// JoinRequestHandler exposes the user-initiated membership flow.
type JoinRequestHandler struct {
	requests *services.JoinRequestService
	users    *services.UserService
}

func NewJoinRequestHandler(db *gorm.DB) (*JoinRequestHandler, error) {
	requests, err := services.NewJoinRequestService(db)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	return &JoinRequestHandler{requests: requests, users: users}, nil
}

type joinTeamRequest struct {
	TeamID uint `json:"team_id" validate:"required"`
}

type respondJoinRequestRequest struct {
	RequestID uint   `json:"request_id" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=accept decline"`
}

// POST /api/teams/request-join
func (h *JoinRequestHandler) Request(c *gin.Context) {
	user, ok := resolveCurrentUser(c, h.users)
	if !ok {
		return
	}

	var body joinTeamRequest
	if !bindAndValidate(c, &body) {
		return
	}

	request, err := h.requests.Request(requestContext(c), user.ID, body.TeamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, request)
}

// GET /api/teams/pending-request
func (h *JoinRequestHandler) ListPending(c *gin.Context) {
	user, ok := resolveCurrentUser(c, h.users)
	if !ok {
		return
	}

	requests, err := h.requests.ListPendingForLeader(requestContext(c), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, requests)
}

// POST /api/teams/respond
func (h *JoinRequestHandler) Respond(c *gin.Context) {
	user, ok := resolveCurrentUser(c, h.users)
	if !ok {
		return
	}

	var body respondJoinRequestRequest
	if !bindAndValidate(c, &body) {
		return
	}

	request, err := h.requests.Respond(requestContext(c), user.ID, body.RequestID, body.Action == "accept")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, request)
}
