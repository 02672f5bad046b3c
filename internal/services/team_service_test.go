package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hackmatch/hackmatch/internal/models"
)

func TestTeamCreateInsertsLeaderMembership(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	svc, err := NewTeamService(db, WithTeamClock(fixedClock))
	require.NoError(t, err)

	team, err := svc.Create(t.Context(), leader.ID, CreateTeamInput{Name: "Night Owls", MaxUsers: 4})
	require.NoError(t, err)
	require.Equal(t, leader.ID, team.LeaderID)
	require.Equal(t, models.TeamStatusForming, team.Status)

	var member models.TeamMember
	require.NoError(t, db.First(&member, "team_id = ? AND user_id = ?", team.ID, leader.ID).Error)
	require.Equal(t, "2026-03-14", time.Time(member.JoinedAt).Format("2006-01-02"))
}

func TestTeamCreateRequiresName(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	svc, err := NewTeamService(db)
	require.NoError(t, err)

	_, err = svc.Create(t.Context(), leader.ID, CreateTeamInput{Name: "   "})
	requireBadRequest(t, err)
}

func TestTeamCreateRejectsUnknownStatus(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	svc, err := NewTeamService(db)
	require.NoError(t, err)

	_, err = svc.Create(t.Context(), leader.ID, CreateTeamInput{Name: "Bad", Status: "disbanded"})
	requireBadRequest(t, err)
}

func TestTeamCreateRejectsUnknownEvent(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	svc, err := NewTeamService(db)
	require.NoError(t, err)

	missing := uint(4242)
	_, err = svc.Create(t.Context(), leader.ID, CreateTeamInput{Name: "Orphans", EventID: &missing})
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestTeamCreateAttachesEvent(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	event := seedEvent(t, db, "Spring Hack", time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC))
	svc, err := NewTeamService(db)
	require.NoError(t, err)

	team, err := svc.Create(t.Context(), leader.ID, CreateTeamInput{Name: "With Event", EventID: &event.ID})
	require.NoError(t, err)

	got, err := svc.GetByID(t.Context(), team.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Event)
	require.Equal(t, event.ID, got.Event.ID)
	require.Equal(t, int64(1), got.Members)
}

func TestTeamListMineFlagsLeadership(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	other := seedUser(t, db, "other")

	led := seedTeam(t, db, leader, "Led", 0)
	joined := seedTeam(t, db, other, "Joined", 0)
	require.NoError(t, db.Create(&models.TeamMember{TeamID: joined.ID, UserID: leader.ID, JoinedAt: today(fixedClock)}).Error)

	svc, err := NewTeamService(db)
	require.NoError(t, err)

	teams, err := svc.ListMine(t.Context(), leader.ID)
	require.NoError(t, err)
	require.Len(t, teams, 2)

	byID := map[uint]TeamSummary{}
	for _, summary := range teams {
		byID[summary.ID] = summary
	}
	require.True(t, byID[led.ID].IsLeader)
	require.False(t, byID[joined.ID].IsLeader)
	require.Equal(t, int64(1), byID[led.ID].Members)
	require.Equal(t, int64(2), byID[joined.ID].Members)
}

func TestTeamListAvailableReturnsFormingOnly(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")

	forming := seedTeam(t, db, leader, "Forming", 0)
	active := seedTeam(t, db, leader, "Active", 0)
	require.NoError(t, db.Model(&models.Team{}).Where("id = ?", active.ID).Update("status", models.TeamStatusActive).Error)

	svc, err := NewTeamService(db)
	require.NoError(t, err)

	teams, err := svc.ListAvailable(t.Context())
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, forming.ID, teams[0].ID)
	require.Equal(t, int64(1), teams[0].Members)
}

func TestTeamListAvailableKeepsFullTeams(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")

	full := seedTeam(t, db, leader, "Solo", 1)

	svc, err := NewTeamService(db)
	require.NoError(t, err)

	teams, err := svc.ListAvailable(t.Context())
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, full.ID, teams[0].ID)
}

func TestTeamGetByIDUnknown(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewTeamService(db)
	require.NoError(t, err)

	_, err = svc.GetByID(t.Context(), 9999)
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamUpdateChangesFields(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	team := seedTeam(t, db, leader, "Before", 2)

	svc, err := NewTeamService(db)
	require.NoError(t, err)

	name := "After"
	maxUsers := 6
	status := models.TeamStatusActive
	updated, err := svc.Update(t.Context(), team.ID, UpdateTeamInput{Name: &name, MaxUsers: &maxUsers, Status: &status})
	require.NoError(t, err)
	require.Equal(t, "After", updated.Name)
	require.Equal(t, 6, updated.MaxUsers)
	require.Equal(t, models.TeamStatusActive, updated.Status)
}

func TestTeamUpdateRejectsNegativeCapacity(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	team := seedTeam(t, db, leader, "Capped", 2)

	svc, err := NewTeamService(db)
	require.NoError(t, err)

	maxUsers := -1
	_, err = svc.Update(t.Context(), team.ID, UpdateTeamInput{MaxUsers: &maxUsers})
	requireBadRequest(t, err)
}

func TestTeamDeleteRemovesMemberships(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	team := seedTeam(t, db, leader, "Doomed", 0)

	svc, err := NewTeamService(db)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(t.Context(), team.ID))

	_, err = svc.GetByID(t.Context(), team.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)
	require.Zero(t, countMembers(t, db, team.ID))
}

// Team mutations are keyed by id only; the service does not verify that the
// caller leads the team. Access decisions live with the HTTP layer.
func TestTeamUpdateDoesNotCheckOwnership(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	team := seedTeam(t, db, leader, "Anyone", 0)

	svc, err := NewTeamService(db)
	require.NoError(t, err)

	name := "Renamed by a stranger"
	updated, err := svc.Update(t.Context(), team.ID, UpdateTeamInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
}
