package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hackmatch/hackmatch/internal/auth"
	"github.com/hackmatch/hackmatch/pkg/errors"
	"github.com/hackmatch/hackmatch/pkg/metrics"
	"github.com/hackmatch/hackmatch/pkg/response"
)

// CtxSubjectKey holds the identity-provider subject of the authenticated caller.
const CtxSubjectKey = "authSubject"

// Auth enforces bearer-token authentication using the supplied verifier.
func Auth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		subject, err := verifier.Verify(c.Request.Context(), token)
		if err != nil || subject == "" {
			// Normalise all verification failures to 401
			metrics.TokenVerifications.WithLabelValues("failure").Inc()
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		metrics.TokenVerifications.WithLabelValues("success").Inc()
		c.Set(CtxSubjectKey, subject)

		c.Next()
	}
}
