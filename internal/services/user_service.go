package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/models"
	apperrors "github.com/hackmatch/hackmatch/pkg/errors"
)

// ErrUserNotFound indicates the authenticated subject has no local user record yet.
var ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)

// UserService mirrors identity-provider accounts into the local users table.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db}, nil
}

// Sync ensures a local user record exists for the identity-provider subject.
// It is idempotent; concurrent first requests for the same subject are
// resolved through the unique constraint on external_id.
func (s *UserService) Sync(ctx context.Context, subject string) (*models.User, error) {
	ctx = ensureContext(ctx)

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "external_id = ?", subject).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	user = models.User{ExternalID: subject}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Another request created the row first; re-read it.
			if err := s.db.WithContext(ctx).First(&user, "external_id = ?", subject).Error; err != nil {
				return nil, fmt.Errorf("user service: reload user: %w", err)
			}
			return &user, nil
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	return &user, nil
}

// ResolveSubject maps an identity-provider subject to its local user record.
func (s *UserService) ResolveSubject(ctx context.Context, subject string) (*models.User, error) {
	ctx = ensureContext(ctx)

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "external_id = ?", subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: resolve subject: %w", err)
	}

	return &user, nil
}
