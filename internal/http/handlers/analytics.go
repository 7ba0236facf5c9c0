package handlers

import (
	"net/http"
	"strconv"
	"time"

	"quiz_webapp/internal/domain"
	"quiz_webapp/internal/logger"

	"github.com/gin-gonic/gin"
)

const analyticsWindow = 30 * 24 * time.Hour

// Analytics отдаёт статистику создания квизов (только admin)
func (h *Handler) Analytics(c *gin.Context) {
	if h.Stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics unavailable"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	ctx := c.Request.Context()
	since := time.Now().Add(-analyticsWindow)

	counts, err := h.Stats.CountByAction(ctx, domain.AuditCategoryQuiz, since)
	if err != nil {
		logger.Error("analytics counts failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analytics"})
		return
	}

	recent, err := h.Stats.GetByCategory(ctx, domain.AuditCategoryQuiz, limit)
	if err != nil {
		logger.Error("analytics recent failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"since":  since.UTC().Format(time.RFC3339),
		"counts": counts,
		"recent": recent,
	})
}
