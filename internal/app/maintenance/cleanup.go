package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/models"
	"github.com/hackmatch/hackmatch/pkg/logger"
)

const (
	defaultRetention = 14 * 24 * time.Hour
	defaultSchedule  = "0 * * * *"
)

// Cleaner purges pending invitations and join requests that were never
// answered. Settled records are kept; they are the audit trail of how each
// membership came to be.
type Cleaner struct {
	db        *gorm.DB
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	retention time.Duration
	schedule  string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for cutoff comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithRetention adjusts how long pending records are kept before cleanup.
func WithRetention(retention time.Duration) Option {
	return func(cleaner *Cleaner) {
		if retention > 0 {
			cleaner.retention = retention
		}
	}
}

// WithSchedule overrides the cron specification for the cleanup job.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(db *gorm.DB, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:        db,
		now:       time.Now,
		retention: defaultRetention,
		schedule:  defaultSchedule,
		log:       logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.db == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		ctx := context.Background()
		stats, err := CleanupPending(ctx, c.db, c.now().Add(-c.retention))
		if err != nil {
			c.log.Warn("pending cleanup failed", zap.Error(err))
			return
		}
		if stats.Invitations > 0 || stats.JoinRequests > 0 {
			c.log.Info("purged stale pending records",
				zap.Int64("invitations", stats.Invitations),
				zap.Int64("join_requests", stats.JoinRequests),
			)
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes the cleanup immediately. Primarily used in tests and during
// graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.db == nil {
		return nil
	}

	var errs error
	if _, err := CleanupPending(ctx, c.db, c.now().Add(-c.retention)); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

// CleanupStats captures the number of records removed per table.
type CleanupStats struct {
	Invitations  int64
	JoinRequests int64
}

// CleanupPending removes pending invitations and join requests created before
// the cutoff.
func CleanupPending(ctx context.Context, db *gorm.DB, cutoff time.Time) (CleanupStats, error) {
	if db == nil {
		return CleanupStats{}, errors.New("cleanup pending: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	stats := CleanupStats{}

	result := db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.ResponsePending, cutoff).
		Delete(&models.TeamInvitation{})
	if result.Error != nil {
		return stats, fmt.Errorf("cleanup pending: invitations: %w", result.Error)
	}
	stats.Invitations = result.RowsAffected

	result = db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.ResponsePending, cutoff).
		Delete(&models.TeamJoinRequest{})
	if result.Error != nil {
		return stats, fmt.Errorf("cleanup pending: join requests: %w", result.Error)
	}
	stats.JoinRequests = result.RowsAffected

	return stats, nil
}
