package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/models"
	apperrors "github.com/hackmatch/hackmatch/pkg/errors"
	"github.com/hackmatch/hackmatch/pkg/metrics"
)

var (
	// ErrInvitationNotFound indicates no invitation the caller may act on.
	ErrInvitationNotFound = apperrors.New("INVITATION_NOT_FOUND", "Invitation not found", http.StatusNotFound)
	// ErrAlreadyResponded rejects a second decision on a settled invitation or join request.
	ErrAlreadyResponded = apperrors.New("ALREADY_RESPONDED", "This request has already been responded to", http.StatusBadRequest)
	// ErrInvitationPending signals a pending invitation for the same user and team already exists.
	ErrInvitationPending = apperrors.New("INVITATION_PENDING", "An invitation for this user is already pending", http.StatusConflict)
)

// InvitationService runs the leader-initiated membership flow. An invitation
// grants nothing by itself; membership is written only when the invited user
// accepts, and capacity is re-checked at that moment.
type InvitationService struct {
	db  *gorm.DB
	now func() time.Time
}

// InvitationOption customises an InvitationService.
type InvitationOption func(*InvitationService)

// WithInvitationClock overrides the clock used for response and membership timestamps.
func WithInvitationClock(now func() time.Time) InvitationOption {
	return func(s *InvitationService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewInvitationService constructs an InvitationService instance.
func NewInvitationService(db *gorm.DB, opts ...InvitationOption) (*InvitationService, error) {
	if db == nil {
		return nil, errors.New("invitation service: db is required")
	}
	svc := &InvitationService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Invite records a pending invitation from the team leader to another user.
// Only the leader may invite, the invited user must exist, and the team must
// still have room under its cap.
func (s *InvitationService) Invite(ctx context.Context, leaderID uint, teamID uint, invitedUserID uint) (*models.TeamInvitation, error) {
	ctx = ensureContext(ctx)

	var team models.Team
	err := s.db.WithContext(ctx).First(&team, teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invitation service: load team: %w", err)
	}

	if team.LeaderID != leaderID {
		return nil, ErrNotTeamLeader
	}

	var invited models.User
	err = s.db.WithContext(ctx).First(&invited, invitedUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invitation service: load invited user: %w", err)
	}

	if err := ensureCapacity(s.db.WithContext(ctx), team.ID, team.MaxUsers); err != nil {
		return nil, err
	}

	var existing int64
	err = s.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", team.ID, invited.ID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("invitation service: check membership: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyMember
	}

	err = s.db.WithContext(ctx).Model(&models.TeamInvitation{}).
		Where("team_id = ? AND invited_user_id = ? AND status = ?", team.ID, invited.ID, models.ResponsePending).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("invitation service: check pending invitation: %w", err)
	}
	if existing > 0 {
		return nil, ErrInvitationPending
	}

	invitation := &models.TeamInvitation{
		TeamID:          team.ID,
		InvitedByUserID: leaderID,
		InvitedUserID:   invited.ID,
		Status:          models.ResponsePending,
	}
	if err := s.db.WithContext(ctx).Create(invitation).Error; err != nil {
		return nil, fmt.Errorf("invitation service: create invitation: %w", err)
	}

	return invitation, nil
}

// ListPending returns the user's open invitations, newest first, with the
// inviting team attached.
func (s *InvitationService) ListPending(ctx context.Context, userID uint) ([]models.TeamInvitation, error) {
	ctx = ensureContext(ctx)

	var invitations []models.TeamInvitation
	err := s.db.WithContext(ctx).
		Where("invited_user_id = ? AND status = ?", userID, models.ResponsePending).
		Preload("Team").
		Preload("Team.Event").
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, fmt.Errorf("invitation service: list pending invitations: %w", err)
	}
	return invitations, nil
}

// Respond settles an invitation. Only the invited user may respond, and only
// once; to anyone else the invitation does not exist. Accepting writes the
// membership in the same transaction after the capacity is checked again, so
// a team that filled up in the meantime rejects the acceptance.
func (s *InvitationService) Respond(ctx context.Context, userID uint, invitationID uint, accept bool) (*models.TeamInvitation, error) {
	ctx = ensureContext(ctx)

	var invitation models.TeamInvitation
	err := s.db.WithContext(ctx).Preload("Team").First(&invitation, invitationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invitation service: load invitation: %w", err)
	}

	if invitation.InvitedUserID != userID {
		return nil, ErrInvitationNotFound
	}
	if invitation.Status != models.ResponsePending {
		return nil, ErrAlreadyResponded
	}
	if invitation.Team == nil {
		return nil, ErrTeamNotFound
	}

	status := models.ResponseDeclined
	if accept {
		status = models.ResponseAccepted
	}
	respondedAt := s.now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if accept {
			if err := ensureCapacity(tx, invitation.TeamID, invitation.Team.MaxUsers); err != nil {
				return err
			}
			member := &models.TeamMember{
				TeamID:   invitation.TeamID,
				UserID:   userID,
				JoinedAt: today(s.now),
			}
			if err := tx.Create(member).Error; err != nil {
				if isUniqueConstraintError(err) {
					return ErrAlreadyMember
				}
				return fmt.Errorf("invitation service: create membership: %w", err)
			}
		}

		res := tx.Model(&models.TeamInvitation{}).
			Where("id = ? AND status = ?", invitation.ID, models.ResponsePending).
			Updates(map[string]any{"status": status, "responded_at": respondedAt})
		if res.Error != nil {
			return fmt.Errorf("invitation service: update invitation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyResponded
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if accept {
		metrics.MembershipGrants.WithLabelValues("invitation").Inc()
	}

	invitation.Status = status
	invitation.RespondedAt = &respondedAt
	return &invitation, nil
}
