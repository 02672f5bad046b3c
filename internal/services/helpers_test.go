package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/database/testutil"
	"github.com/hackmatch/hackmatch/internal/models"
	apperrors "github.com/hackmatch/hackmatch/pkg/errors"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t)
}

func fixedClock() time.Time {
	return time.Date(2026, time.March, 14, 15, 9, 26, 0, time.UTC)
}

func seedUser(t *testing.T, db *gorm.DB, externalID string) *models.User {
	t.Helper()
	user := &models.User{ExternalID: externalID}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedEvent(t *testing.T, db *gorm.DB, name string, start time.Time) *models.Event {
	t.Helper()
	event := &models.Event{Name: name, StartDate: start, EndDate: start.Add(48 * time.Hour)}
	require.NoError(t, db.Create(event).Error)
	return event
}

// seedTeam goes through the team service so the leader membership invariant
// holds for every fixture.
func seedTeam(t *testing.T, db *gorm.DB, leader *models.User, name string, maxUsers int) *models.Team {
	t.Helper()
	svc, err := NewTeamService(db, WithTeamClock(fixedClock))
	require.NoError(t, err)
	team, err := svc.Create(t.Context(), leader.ID, CreateTeamInput{Name: name, MaxUsers: maxUsers})
	require.NoError(t, err)
	return team
}

func countMembers(t *testing.T, db *gorm.DB, teamID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error)
	return count
}

func requireBadRequest(t *testing.T, err error) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}
