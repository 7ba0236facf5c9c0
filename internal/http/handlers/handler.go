package handlers

import (
	"context"
	"time"

	"quiz_webapp/internal/account"
	"quiz_webapp/internal/domain"
	"quiz_webapp/internal/flow"
	"quiz_webapp/internal/service"
	"quiz_webapp/internal/ws"

	"github.com/gin-gonic/gin"
)

// AnalyticsSource reads aggregated audit data for the admin view.
type AnalyticsSource interface {
	GetByCategory(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error)
	CountByAction(ctx context.Context, category string, since time.Time) (map[string]int64, error)
}

type Handler struct {
	Flows         *flow.Registry
	Hub           *ws.Hub
	Account       *account.Menu
	Audit         *service.AuditService
	Stats         AnalyticsSource
	AllowedOrigin string
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
