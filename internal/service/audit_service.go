package service

import (
	"context"

	"quiz_webapp/internal/domain"
	"quiz_webapp/internal/logger"
)

// AuditStore persists audit entries.
type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// AuditService handles audit logging. With a nil store every call is a no-op.
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}

	log := &domain.AuditLog{
		UserID:   userID,
		Action:   action,
		Category: category,
		Details:  details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogQuizCreate records the outcome of a creation request.
func (s *AuditService) LogQuizCreate(ctx context.Context, userID int64, req domain.CreationRequest, gameID string, err error) {
	details := map[string]interface{}{
		"topic":  req.Topic,
		"amount": req.Amount,
		"type":   string(req.Type),
	}

	action := domain.AuditActionQuizCreated
	if err != nil {
		action = domain.AuditActionQuizCreateFail
		details["error"] = err.Error()
	} else {
		details["game_id"] = gameID
	}

	s.Log(ctx, userID, action, domain.AuditCategoryQuiz, details)
}

// LogLogout records a sign-out request.
func (s *AuditService) LogLogout(ctx context.Context, userID int64) {
	s.Log(ctx, userID, domain.AuditActionLogout, domain.AuditCategoryAuth, nil)
}
