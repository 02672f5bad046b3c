package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackmatch/hackmatch/internal/services"
	"github.com/hackmatch/hackmatch/pkg/errors"
	"github.com/hackmatch/hackmatch/pkg/response"
)

// UserHandler exposes the identity-sync endpoint.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(db *gorm.DB) (*UserHandler, error) {
	users, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	return &UserHandler{users: users}, nil
}

// POST /api/sync-user
//
// Mirrors the authenticated subject into the local users table. Called by the
// frontend right after sign-in; safe to call on every page load.
func (h *UserHandler) Sync(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	user, err := h.users.Sync(requestContext(c), subject)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
