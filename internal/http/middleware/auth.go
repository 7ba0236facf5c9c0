package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"quiz_webapp/internal/domain"
	"quiz_webapp/internal/logger"
	"quiz_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

const sessionKey = "session"

// RevocationChecker tells whether a token was signed out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// UserSource supplies the current profile and role of a user.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// JWT authenticates the request from a Bearer token (or ?token= for
// websocket upgrades). Either argument may be nil: without revocations
// every valid token is live, without users the role comes from the token.
func JWT(revocations RevocationChecker, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			AuthRejected.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		sess, err := service.ParseJWT(raw)
		if err != nil {
			AuthRejected.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx := c.Request.Context()

		if revocations != nil {
			revoked, err := revocations.IsRevoked(ctx, sess.TokenID)
			if err != nil {
				logger.Warn("revocation check failed", "error", err, "user_id", sess.UserID)
			} else if revoked {
				AuthRejected.WithLabelValues("revoked").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session ended"})
				return
			}
		}

		if users != nil {
			u, err := users.GetByID(ctx, sess.UserID)
			switch {
			case errors.Is(err, pgx.ErrNoRows):
				AuthRejected.WithLabelValues("unknown_user").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
				return
			case err != nil:
				logger.Warn("user lookup failed, using token claims", "error", err, "user_id", sess.UserID)
			default:
				sess = u.Session(sess.TokenID)
			}
		}

		c.Set("user_id", sess.UserID)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session stored by JWT.
func SessionFrom(c *gin.Context) (domain.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	s, ok := v.(domain.Session)
	return s, ok
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("token")
}

// RequireAdmin lets only admin sessions through. It must run after JWT.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := SessionFrom(c)
		if !ok || !sess.IsAdmin() {
			AuthRejected.WithLabelValues("forbidden").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
