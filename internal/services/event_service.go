package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/models"
	apperrors "github.com/hackmatch/hackmatch/pkg/errors"
)

// ErrEventNotFound indicates the requested event does not exist.
var ErrEventNotFound = apperrors.New("EVENT_NOT_FOUND", "Event not found", http.StatusNotFound)

// CreateEventInput captures new event metadata.
type CreateEventInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// UpdateEventInput describes mutable event fields.
type UpdateEventInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// EventService handles the event catalogue teams attach to.
type EventService struct {
	db *gorm.DB
}

// NewEventService constructs an EventService instance.
func NewEventService(db *gorm.DB) (*EventService, error) {
	if db == nil {
		return nil, errors.New("event service: db is required")
	}
	return &EventService{db: db}, nil
}

// List returns all events ordered by start date.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	ctx = ensureContext(ctx)

	var events []models.Event
	if err := s.db.WithContext(ctx).Order("start_date ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("event service: list events: %w", err)
	}
	return events, nil
}

// GetByID loads a single event.
func (s *EventService) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	ctx = ensureContext(ctx)

	var event models.Event
	err := s.db.WithContext(ctx).First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("event service: get event: %w", err)
	}
	return &event, nil
}

// Create registers a new event.
func (s *EventService) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("event name is required")
	}
	if !input.EndDate.IsZero() && input.EndDate.Before(input.StartDate) {
		return nil, apperrors.NewBadRequest("event end date must not precede its start date")
	}

	event := &models.Event{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("event service: create event: %w", err)
	}

	return event, nil
}

// Update modifies event metadata.
func (s *EventService) Update(ctx context.Context, id uint, input UpdateEventInput) (*models.Event, error) {
	ctx = ensureContext(ctx)

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			updates["name"] = name
		}
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = *input.EndDate
	}

	if len(updates) == 0 {
		return event, nil
	}

	if err := s.db.WithContext(ctx).Model(event).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("event service: update event: %w", err)
	}

	if err := s.db.WithContext(ctx).First(event, id).Error; err != nil {
		return nil, fmt.Errorf("event service: reload event: %w", err)
	}

	return event, nil
}

// Delete removes an event by identifier. Teams referencing it keep running
// with a cleared event association.
func (s *EventService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(event).Error; err != nil {
		return fmt.Errorf("event service: delete event: %w", err)
	}

	return nil
}
