package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/models"
	"github.com/hackmatch/hackmatch/internal/services"
	"github.com/hackmatch/hackmatch/pkg/response"
)

// TeamHandler exposes team lifecycle and listing endpoints.
type TeamHandler struct {
	teams *services.TeamService
	users *services.UserService
}

func NewTeamHandler(db *gorm.DB) (*TeamHandler, error) {
	teams, err := services.NewTeamService(db)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	return &TeamHandler{teams: teams, users: users}, nil
}

type createTeamRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=2048"`
	EventID     *uint  `json:"event_id"`
	MaxUsers    int    `json:"max_users" validate:"gte=0"`
	Status      string `json:"status" validate:"omitempty,oneof=forming active inactive completed"`
}

type updateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2048"`
	MaxUsers    *int    `json:"max_users" validate:"omitempty,gte=0"`
	Status      *string `json:"status" validate:"omitempty,oneof=forming active inactive completed"`
}

// POST /api/teams/create
func (h *TeamHandler) Create(c *gin.Context) {
	user, ok := resolveCurrentUser(c, h.users)
	if !ok {
		return
	}

	var body createTeamRequest
	if !bindAndValidate(c, &body) {
		return
	}

	team, err := h.teams.Create(requestContext(c), user.ID, services.CreateTeamInput{
		Name:        body.Name,
		Description: body.Description,
		EventID:     body.EventID,
		MaxUsers:    body.MaxUsers,
		Status:      models.TeamStatus(body.Status),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, team)
}

// GET /api/teams/my
func (h *TeamHandler) ListMine(c *gin.Context) {
	user, ok := resolveCurrentUser(c, h.users)
	if !ok {
		return
	}

	teams, err := h.teams.ListMine(requestContext(c), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, teams)
}

// GET /api/teams/available
func (h *TeamHandler) ListAvailable(c *gin.Context) {
	teams, err := h.teams.ListAvailable(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, teams)
}

// GET /api/teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	team, err := h.teams.GetByID(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, team)
}

// PUT /api/teams/:id
func (h *TeamHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var body updateTeamRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.UpdateTeamInput{
		Name:        body.Name,
		Description: body.Description,
		MaxUsers:    body.MaxUsers,
	}
	if body.Status != nil {
		status := models.TeamStatus(*body.Status)
		input.Status = &status
	}

	team, err := h.teams.Update(requestContext(c), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, team)
}

// DELETE /api/teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.teams.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
