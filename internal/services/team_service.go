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
	"github.com/hackmatch/hackmatch/pkg/metrics"
)

var (
	// ErrTeamNotFound indicates the requested team does not exist.
	ErrTeamNotFound = apperrors.New("TEAM_NOT_FOUND", "Team not found", http.StatusNotFound)
	// ErrTeamFull signals the team has reached its configured capacity.
	ErrTeamFull = apperrors.New("TEAM_FULL", "Team is full", http.StatusBadRequest)
	// ErrNotTeamLeader rejects membership decisions from anyone but the leader.
	ErrNotTeamLeader = apperrors.New("NOT_TEAM_LEADER", "Only the team leader can perform this action", http.StatusForbidden)
	// ErrAlreadyMember signals the user already holds a membership in the team.
	ErrAlreadyMember = apperrors.New("TEAM_MEMBER_EXISTS", "User is already a member of the team", http.StatusConflict)
)

// CreateTeamInput captures new team metadata.
type CreateTeamInput struct {
	Name        string
	Description string
	EventID     *uint
	MaxUsers    int
	Status      models.TeamStatus
}

// UpdateTeamInput describes mutable team fields.
type UpdateTeamInput struct {
	Name        *string
	Description *string
	MaxUsers    *int
	Status      *models.TeamStatus
}

// TeamSummary is a team annotated with its member count and, where a caller
// is known, whether that caller leads it.
type TeamSummary struct {
	models.Team
	Members  int64 `json:"members"`
	IsLeader bool  `json:"is_leader"`
}

// TeamService handles team lifecycle and listings. Membership decisions flow
// through the invitation and join-request services; identity arrives as a
// resolved internal user id, never from ambient state.
type TeamService struct {
	db  *gorm.DB
	now func() time.Time
}

// TeamOption customises a TeamService.
type TeamOption func(*TeamService)

// WithTeamClock overrides the clock used to stamp membership dates.
func WithTeamClock(now func() time.Time) TeamOption {
	return func(s *TeamService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTeamService constructs a TeamService instance.
func NewTeamService(db *gorm.DB, opts ...TeamOption) (*TeamService, error) {
	if db == nil {
		return nil, errors.New("team service: db is required")
	}
	svc := &TeamService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create registers a new team led by the given user. The team row and the
// leader's membership row are written in one transaction; if either fails the
// whole operation fails.
func (s *TeamService) Create(ctx context.Context, leaderID uint, input CreateTeamInput) (*models.Team, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("team name is required")
	}
	if input.MaxUsers < 0 {
		return nil, apperrors.NewBadRequest("max users must not be negative")
	}

	status := input.Status
	if status == "" {
		status = models.TeamStatusForming
	}
	if !status.Valid() {
		return nil, apperrors.NewBadRequest("unknown team status")
	}

	if input.EventID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", *input.EventID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("team service: check event: %w", err)
		}
		if count == 0 {
			return nil, ErrEventNotFound
		}
	}

	team := &models.Team{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		EventID:     input.EventID,
		LeaderID:    leaderID,
		MaxUsers:    input.MaxUsers,
		Status:      status,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return fmt.Errorf("team service: create team: %w", err)
		}

		member := &models.TeamMember{
			TeamID:   team.ID,
			UserID:   leaderID,
			JoinedAt: today(s.now),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("team service: create leader membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MembershipGrants.WithLabelValues("create").Inc()

	return team, nil
}

// ListMine returns the teams the user belongs to, each with its event, member
// count, and a flag marking the teams the user leads.
func (s *TeamService) ListMine(ctx context.Context, userID uint) ([]TeamSummary, error) {
	ctx = ensureContext(ctx)

	var teams []models.Team
	err := s.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Preload("Event").
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("team service: list my teams: %w", err)
	}

	return s.summarise(ctx, teams, userID)
}

// ListAvailable returns all teams still forming, each with its member count.
// Teams already at capacity are not filtered out; callers decide what to show.
func (s *TeamService) ListAvailable(ctx context.Context) ([]TeamSummary, error) {
	ctx = ensureContext(ctx)

	var teams []models.Team
	err := s.db.WithContext(ctx).
		Where("status = ?", models.TeamStatusForming).
		Preload("Event").
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("team service: list available teams: %w", err)
	}

	return s.summarise(ctx, teams, 0)
}

// GetByID loads a team with its event and member count. There is no
// ownership check on reads.
func (s *TeamService) GetByID(ctx context.Context, id uint) (*TeamSummary, error) {
	ctx = ensureContext(ctx)

	var team models.Team
	err := s.db.WithContext(ctx).Preload("Event").First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("team service: get team: %w", err)
	}

	count, err := memberCount(s.db.WithContext(ctx), team.ID)
	if err != nil {
		return nil, err
	}

	return &TeamSummary{Team: team, Members: count}, nil
}

// Update modifies team metadata by primary key.
func (s *TeamService) Update(ctx context.Context, id uint, input UpdateTeamInput) (*models.Team, error) {
	ctx = ensureContext(ctx)

	var team models.Team
	err := s.db.WithContext(ctx).First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("team service: load team: %w", err)
	}

	updates := map[string]any{}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" && name != team.Name {
			updates["name"] = name
		}
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.MaxUsers != nil {
		if *input.MaxUsers < 0 {
			return nil, apperrors.NewBadRequest("max users must not be negative")
		}
		updates["max_users"] = *input.MaxUsers
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewBadRequest("unknown team status")
		}
		updates["status"] = *input.Status
	}

	if len(updates) == 0 {
		return &team, nil
	}

	if err := s.db.WithContext(ctx).Model(&team).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("team service: update team: %w", err)
	}

	if err := s.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, fmt.Errorf("team service: reload team: %w", err)
	}

	return &team, nil
}

// Delete removes a team by identifier. Memberships, invitations, and join
// requests go with it through foreign-key cascades.
func (s *TeamService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	var team models.Team
	err := s.db.WithContext(ctx).First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTeamNotFound
	}
	if err != nil {
		return fmt.Errorf("team service: load team: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&team).Error; err != nil {
		return fmt.Errorf("team service: delete team: %w", err)
	}

	return nil
}

func (s *TeamService) summarise(ctx context.Context, teams []models.Team, callerID uint) ([]TeamSummary, error) {
	if len(teams) == 0 {
		return []TeamSummary{}, nil
	}

	ids := make([]uint, 0, len(teams))
	for _, team := range teams {
		ids = append(ids, team.ID)
	}

	type countRow struct {
		TeamID uint
		Count  int64
	}
	var rows []countRow
	err := s.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Select("team_id, COUNT(*) AS count").
		Where("team_id IN ?", ids).
		Group("team_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("team service: count members: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.TeamID] = row.Count
	}

	summaries := make([]TeamSummary, 0, len(teams))
	for _, team := range teams {
		summaries = append(summaries, TeamSummary{
			Team:     team,
			Members:  counts[team.ID],
			IsLeader: callerID != 0 && team.LeaderID == callerID,
		})
	}
	return summaries, nil
}

// memberCount reports the number of confirmed memberships for a team using
// the supplied handle, so callers inside a transaction count what they will
// commit against.
func memberCount(tx *gorm.DB, teamID uint) (int64, error) {
	var count int64
	if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count team members: %w", err)
	}
	return count, nil
}

// ensureCapacity fails with ErrTeamFull when the team has a cap and the
// current membership already meets it.
func ensureCapacity(tx *gorm.DB, teamID uint, maxUsers int) error {
	if maxUsers <= 0 {
		return nil
	}
	count, err := memberCount(tx, teamID)
	if err != nil {
		return err
	}
	if count >= int64(maxUsers) {
		return ErrTeamFull
	}
	return nil
}
