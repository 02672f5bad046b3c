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
	// ErrJoinRequestNotFound indicates the join request does not exist.
	ErrJoinRequestNotFound = apperrors.New("JOIN_REQUEST_NOT_FOUND", "Join request not found", http.StatusNotFound)
	// ErrJoinRequestPending signals the user already has an open request for the team.
	ErrJoinRequestPending = apperrors.New("JOIN_REQUEST_PENDING", "A join request for this team is already pending", http.StatusConflict)
)

// JoinRequestService runs the user-initiated membership flow. A request
// grants nothing by itself; membership is written only when the team leader
// approves, with capacity re-checked at that moment.
type JoinRequestService struct {
	db  *gorm.DB
	now func() time.Time
}

// JoinRequestOption customises a JoinRequestService.
type JoinRequestOption func(*JoinRequestService)

// WithJoinRequestClock overrides the clock used for response and membership timestamps.
func WithJoinRequestClock(now func() time.Time) JoinRequestOption {
	return func(s *JoinRequestService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewJoinRequestService constructs a JoinRequestService instance.
func NewJoinRequestService(db *gorm.DB, opts ...JoinRequestOption) (*JoinRequestService, error) {
	if db == nil {
		return nil, errors.New("join request service: db is required")
	}
	svc := &JoinRequestService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Request records a pending join request from the user to the team. Existing
// members and users with an open request for the same team are rejected.
func (s *JoinRequestService) Request(ctx context.Context, userID uint, teamID uint) (*models.TeamJoinRequest, error) {
	ctx = ensureContext(ctx)

	var team models.Team
	err := s.db.WithContext(ctx).First(&team, teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("join request service: load team: %w", err)
	}

	var existing int64
	err = s.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", team.ID, userID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("join request service: check membership: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyMember
	}

	err = s.db.WithContext(ctx).Model(&models.TeamJoinRequest{}).
		Where("team_id = ? AND user_id = ? AND status = ?", team.ID, userID, models.ResponsePending).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("join request service: check pending request: %w", err)
	}
	if existing > 0 {
		return nil, ErrJoinRequestPending
	}

	request := &models.TeamJoinRequest{
		TeamID: team.ID,
		UserID: userID,
		Status: models.ResponsePending,
	}
	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, fmt.Errorf("join request service: create request: %w", err)
	}

	return request, nil
}

// ListPendingForLeader returns the open requests against every team the
// caller leads, newest first, with requester and team attached. A caller who
// leads no teams simply gets an empty list.
func (s *JoinRequestService) ListPendingForLeader(ctx context.Context, leaderID uint) ([]models.TeamJoinRequest, error) {
	ctx = ensureContext(ctx)

	var requests []models.TeamJoinRequest
	err := s.db.WithContext(ctx).
		Joins("JOIN teams ON teams.id = team_join_requests.team_id").
		Where("teams.leader_id = ? AND team_join_requests.status = ?", leaderID, models.ResponsePending).
		Preload("User").
		Preload("Team").
		Order("team_join_requests.created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("join request service: list pending requests: %w", err)
	}
	return requests, nil
}

// Respond settles a join request. Only the team leader may decide, and only
// once. Approval writes the membership in the same transaction after the
// capacity is checked again.
func (s *JoinRequestService) Respond(ctx context.Context, leaderID uint, requestID uint, accept bool) (*models.TeamJoinRequest, error) {
	ctx = ensureContext(ctx)

	var request models.TeamJoinRequest
	err := s.db.WithContext(ctx).Preload("Team").First(&request, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJoinRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("join request service: load request: %w", err)
	}

	if request.Team == nil {
		return nil, ErrTeamNotFound
	}
	if request.Team.LeaderID != leaderID {
		return nil, ErrNotTeamLeader
	}
	if request.Status != models.ResponsePending {
		return nil, ErrAlreadyResponded
	}

	status := models.ResponseDeclined
	if accept {
		status = models.ResponseAccepted
	}
	respondedAt := s.now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if accept {
			if err := ensureCapacity(tx, request.TeamID, request.Team.MaxUsers); err != nil {
				return err
			}
			member := &models.TeamMember{
				TeamID:   request.TeamID,
				UserID:   request.UserID,
				JoinedAt: today(s.now),
			}
			if err := tx.Create(member).Error; err != nil {
				if isUniqueConstraintError(err) {
					return ErrAlreadyMember
				}
				return fmt.Errorf("join request service: create membership: %w", err)
			}
		}

		res := tx.Model(&models.TeamJoinRequest{}).
			Where("id = ? AND status = ?", request.ID, models.ResponsePending).
			Updates(map[string]any{"status": status, "responded_at": respondedAt})
		if res.Error != nil {
			return fmt.Errorf("join request service: update request: %w", res.Error)
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
		metrics.MembershipGrants.WithLabelValues("join_request").Inc()
	}

	request.Status = status
	request.RespondedAt = &respondedAt
	return &request, nil
}
