package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hackmatch/hackmatch/internal/models"
)

func TestInviteCreatesPendingInvitation(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	invitee := seedUser(t, db, "invitee")
	team := seedTeam(t, db, leader, "Owls", 4)

	svc, err := NewInvitationService(db, WithInvitationClock(fixedClock))
	require.NoError(t, err)

	invitation, err := svc.Invite(t.Context(), leader.ID, team.ID, invitee.ID)
	require.NoError(t, err)
	require.Equal(t, models.ResponsePending, invitation.Status)
	require.Equal(t, leader.ID, invitation.InvitedByUserID)
	require.Equal(t, invitee.ID, invitation.InvitedUserID)
	require.Nil(t, invitation.RespondedAt)

	// Inviting grants nothing until the invitee accepts.
	require.Equal(t, int64(1), countMembers(t, db, team.ID))
}

func TestInviteRequiresTeamLeader(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	stranger := seedUser(t, db, "stranger")
	invitee := seedUser(t, db, "invitee")
	team := seedTeam(t, db, leader, "Owls", 4)

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	_, err = svc.Invite(t.Context(), stranger.ID, team.ID, invitee.ID)
	require.ErrorIs(t, err, ErrNotTeamLeader)
}

func TestInviteUnknownTeam(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	invitee := seedUser(t, db, "invitee")

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	_, err = svc.Invite(t.Context(), leader.ID, 9999, invitee.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestInviteUnknownUser(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	team := seedTeam(t, db, leader, "Owls", 4)

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	_, err = svc.Invite(t.Context(), leader.ID, team.ID, 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestInviteFullTeam(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	invitee := seedUser(t, db, "invitee")
	team := seedTeam(t, db, leader, "Solo", 1)

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	_, err = svc.Invite(t.Context(), leader.ID, team.ID, invitee.ID)
	require.ErrorIs(t, err, ErrTeamFull)
}

func TestInviteExistingMember(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	member := seedUser(t, db, "member")
	team := seedTeam(t, db, leader, "Owls", 4)
	require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: member.ID, JoinedAt: today(fixedClock)}).Error)

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	_, err = svc.Invite(t.Context(), leader.ID, team.ID, member.ID)
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestInviteDuplicatePending(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	invitee := seedUser(t, db, "invitee")
	team := seedTeam(t, db, leader, "Owls", 4)

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	_, err = svc.Invite(t.Context(), leader.ID, team.ID, invitee.ID)
	require.NoError(t, err)

	_, err = svc.Invite(t.Context(), leader.ID, team.ID, invitee.ID)
	require.ErrorIs(t, err, ErrInvitationPending)
}

func TestInvitationListPending(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	invitee := seedUser(t, db, "invitee")
	teamA := seedTeam(t, db, leader, "Alpha", 4)
	teamB := seedTeam(t, db, leader, "Beta", 4)

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	_, err = svc.Invite(t.Context(), leader.ID, teamA.ID, invitee.ID)
	require.NoError(t, err)
	_, err = svc.Invite(t.Context(), leader.ID, teamB.ID, invitee.ID)
	require.NoError(t, err)

	invitations, err := svc.ListPending(t.Context(), invitee.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 2)
	for _, invitation := range invitations {
		require.NotNil(t, invitation.Team)
		require.Equal(t, models.ResponsePending, invitation.Status)
	}

	none, err := svc.ListPending(t.Context(), leader.ID)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestInvitationAcceptGrantsMembership(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	invitee := seedUser(t, db, "invitee")
	team := seedTeam(t, db, leader, "Owls", 4)

	svc, err := NewInvitationService(db, WithInvitationClock(fixedClock))
	require.NoError(t, err)

	invitation, err := svc.Invite(t.Context(), leader.ID, team.ID, invitee.ID)
	require.NoError(t, err)

	responded, err := svc.Respond(t.Context(), invitee.ID, invitation.ID, true)
	require.NoError(t, err)
	require.Equal(t, models.ResponseAccepted, responded.Status)
	require.NotNil(t, responded.RespondedAt)

	var member models.TeamMember
	require.NoError(t, db.First(&member, "team_id = ? AND user_id = ?", team.ID, invitee.ID).Error)
	require.Equal(t, "2026-03-14", time.Time(member.JoinedAt).Format("2006-01-02"))
	require.Equal(t, int64(2), countMembers(t, db, team.ID))
}

func TestInvitationDeclineLeavesMembershipUntouched(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	invitee := seedUser(t, db, "invitee")
	team := seedTeam(t, db, leader, "Owls", 4)

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	invitation, err := svc.Invite(t.Context(), leader.ID, team.ID, invitee.ID)
	require.NoError(t, err)

	responded, err := svc.Respond(t.Context(), invitee.ID, invitation.ID, false)
	require.NoError(t, err)
	require.Equal(t, models.ResponseDeclined, responded.Status)
	require.Equal(t, int64(1), countMembers(t, db, team.ID))
}

func TestInvitationRespondOnlyByInvitee(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	invitee := seedUser(t, db, "invitee")
	stranger := seedUser(t, db, "stranger")
	team := seedTeam(t, db, leader, "Owls", 4)

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	invitation, err := svc.Invite(t.Context(), leader.ID, team.ID, invitee.ID)
	require.NoError(t, err)

	_, err = svc.Respond(t.Context(), stranger.ID, invitation.ID, true)
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestInvitationRespondTwice(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	invitee := seedUser(t, db, "invitee")
	team := seedTeam(t, db, leader, "Owls", 4)

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	invitation, err := svc.Invite(t.Context(), leader.ID, team.ID, invitee.ID)
	require.NoError(t, err)

	_, err = svc.Respond(t.Context(), invitee.ID, invitation.ID, false)
	require.NoError(t, err)

	_, err = svc.Respond(t.Context(), invitee.ID, invitation.ID, true)
	require.ErrorIs(t, err, ErrAlreadyResponded)
	require.Equal(t, int64(1), countMembers(t, db, team.ID))
}

// The capacity check runs again at acceptance time, so an invitation issued
// while a seat was free cannot overfill a team that filled up since.
func TestInvitationAcceptAtCapacityFails(t *testing.T) {
	db := openServiceTestDB(t)
	leader := seedUser(t, db, "leader")
	first := seedUser(t, db, "first")
	second := seedUser(t, db, "second")
	team := seedTeam(t, db, leader, "Duo", 2)

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	invFirst, err := svc.Invite(t.Context(), leader.ID, team.ID, first.ID)
	require.NoError(t, err)
	invSecond, err := svc.Invite(t.Context(), leader.ID, team.ID, second.ID)
	require.NoError(t, err)

	_, err = svc.Respond(t.Context(), first.ID, invFirst.ID, true)
	require.NoError(t, err)

	_, err = svc.Respond(t.Context(), second.ID, invSecond.ID, true)
	require.ErrorIs(t, err, ErrTeamFull)

	// The failed acceptance leaves the invitation pending and the roster intact.
	var pending models.TeamInvitation
	require.NoError(t, db.First(&pending, invSecond.ID).Error)
	require.Equal(t, models.ResponsePending, pending.Status)
	require.Equal(t, int64(2), countMembers(t, db, team.ID))
}
