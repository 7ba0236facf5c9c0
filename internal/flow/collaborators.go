package flow

import (
	"context"

	"quiz_webapp/internal/domain"
)

// Creator sends a validated request to the quiz creation service.
type Creator interface {
	Create(ctx context.Context, req domain.CreationRequest) (domain.CreationResult, error)
}

// Navigator moves the user's active view to path.
type Navigator interface {
	Navigate(path string)
}

// Handle identifies a loading notification so it can be dismissed.
type Handle uint64

// Notifier shows toast-style notifications to the user.
type Notifier interface {
	Loading() Handle
	Success(msg string)
	Error(msg string)
	Dismiss(h Handle)
}

// Sink is where a single flow delivers its user-facing effects.
type Sink interface {
	Navigator
	Notifier
}

// Outcome describes a finished submission.
type Outcome struct {
	FlowID  string
	Owner   int64
	Request domain.CreationRequest
	Result  domain.CreationResult
	Err     error
}
