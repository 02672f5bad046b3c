package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/services"
	"github.com/hackmatch/hackmatch/pkg/errors"
	"github.com/hackmatch/hackmatch/pkg/response"
)

// EventHandler exposes the event catalogue.
type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(db *gorm.DB) (*EventHandler, error) {
	events, err := services.NewEventService(db)
	if err != nil {
		return nil, err
	}
	return &EventHandler{events: events}, nil
}

type createEventRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"omitempty,max=2048"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type updateEventRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=2048"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, events)
}

// GET /api/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	event, err := h.events.GetByID(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, event)
}

// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	var body createEventRequest
	if !bindAndValidate(c, &body) {
		return
	}

	event, err := h.events.Create(requestContext(c), services.CreateEventInput{
		Name:        body.Name,
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, event)
}

// PUT /api/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var body updateEventRequest
	if !bindAndValidate(c, &body) {
		return
	}

	event, err := h.events.Update(requestContext(c), id, services.UpdateEventInput{
		Name:        body.Name,
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, event)
}

// DELETE /api/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.events.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// parseID reads a numeric path parameter, writing a 400 response when it is
// not a positive integer.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.Error(c, errors.NewBadRequest(name+" must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
