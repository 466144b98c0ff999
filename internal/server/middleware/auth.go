package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/service/identity"
)

const sessionKey = "identity.session"

// SessionResolver turns a bearer token into a session.
type SessionResolver interface {
	Resolve(ctx context.Context, accessToken string) (identity.Session, error)
}

// Authenticate requires a valid bearer token and stores the resolved session
// on the request context.
func Authenticate(resolver SessionResolver, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		session, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, identity.ErrInactiveUser) || errors.Is(err, identity.ErrProfileNotFound) {
				status = http.StatusForbidden
			}
			logger.Warn("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireRole allows the request when the session has one of roles. Admins always pass.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := identity.Authorize(SessionFrom(c), roles...); err != nil {
			status := http.StatusForbidden
			if errors.Is(err, identity.ErrUnauthenticated) {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session stored by Authenticate, or an anonymous one.
func SessionFrom(c *gin.Context) identity.Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(identity.Session); ok {
			return session
		}
	}
	return identity.Anonymous()
}

// WithSession stores a session on the context. Used by tests and trusted callers.
func WithSession(c *gin.Context, session identity.Session) {
	c.Set(sessionKey, session)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
