package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hackmatch/hackmatch/internal/middleware"
	"github.com/hackmatch/hackmatch/internal/models"
	"github.com/hackmatch/hackmatch/internal/services"
	"github.com/hackmatch/hackmatch/pkg/errors"
	"github.com/hackmatch/hackmatch/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentSubject returns the identity-provider subject set by the auth middleware.
func currentSubject(c *gin.Context) (string, bool) {
	subject := c.GetString(middleware.CtxSubjectKey)
	return subject, subject != ""
}

// resolveCurrentUser maps the authenticated subject to its local user record,
// writing the error response itself when the caller cannot be resolved.
// Subjects that never called sync-user get a 404.
func resolveCurrentUser(c *gin.Context, users *services.UserService) (*models.User, bool) {
	subject, ok := currentSubject(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return nil, false
	}

	user, err := users.ResolveSubject(requestContext(c), subject)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return user, true
}
