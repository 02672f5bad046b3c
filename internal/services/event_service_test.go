package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventCreateAndGet(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	start := time.Date(2026, time.June, 5, 9, 0, 0, 0, time.UTC)
	event, err := svc.Create(t.Context(), CreateEventInput{
		Name:        "Spring Hack 2026",
		Description: "48h of building",
		StartDate:   start,
		EndDate:     start.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	require.NotZero(t, event.ID)

	got, err := svc.GetByID(t.Context(), event.ID)
	require.NoError(t, err)
	require.Equal(t, "Spring Hack 2026", got.Name)
}

func TestEventCreateRequiresName(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	_, err = svc.Create(t.Context(), CreateEventInput{Name: "  "})
	requireBadRequest(t, err)
}

func TestEventCreateRejectsEndBeforeStart(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	start := time.Date(2026, time.June, 5, 9, 0, 0, 0, time.UTC)
	_, err = svc.Create(t.Context(), CreateEventInput{
		Name:      "Backwards",
		StartDate: start,
		EndDate:   start.Add(-time.Hour),
	})
	requireBadRequest(t, err)
}

func TestEventListOrdersByStartDate(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	later := seedEvent(t, db, "Later", time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	earlier := seedEvent(t, db, "Earlier", time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))

	events, err := svc.List(t.Context())
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, earlier.ID, events[0].ID)
	require.Equal(t, later.ID, events[1].ID)
}

func TestEventUpdateChangesFields(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	event := seedEvent(t, db, "Original", time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC))

	name := "Renamed"
	description := "new blurb"
	updated, err := svc.Update(t.Context(), event.ID, UpdateEventInput{Name: &name, Description: &description})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "new blurb", updated.Description)
}

func TestEventUpdateUnknownID(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	name := "x"
	_, err = svc.Update(t.Context(), 9999, UpdateEventInput{Name: &name})
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventDelete(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewEventService(db)
	require.NoError(t, err)

	event := seedEvent(t, db, "Gone", time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, svc.Delete(t.Context(), event.ID))

	_, err = svc.GetByID(t.Context(), event.ID)
	require.ErrorIs(t, err, ErrEventNotFound)
}
