package flow

import "quiz_webapp/internal/domain"

// Kind - тег состояния отправки
type Kind string

const (
	KindIdle      Kind = "idle"
	KindPending   Kind = "pending"
	KindSucceeded Kind = "succeeded"
	KindFailed    Kind = "failed"
)

// State is the submission state of one flow. Result and Destination are
// set only for KindSucceeded, Reason only for KindFailed.
type State struct {
	Kind        Kind                   `json:"kind"`
	Result      *domain.CreationResult `json:"result,omitempty"`
	Destination string                 `json:"destination,omitempty"`
	Reason      string                 `json:"reason,omitempty"`
}

func Idle() State    { return State{Kind: KindIdle} }
func Pending() State { return State{Kind: KindPending} }

func Succeeded(res domain.CreationResult, destination string) State {
	return State{Kind: KindSucceeded, Result: &res, Destination: destination}
}

func Failed(reason string) State {
	return State{Kind: KindFailed, Reason: reason}
}

// AcceptsSubmit reports whether a new submission may start from s.
func (s State) AcceptsSubmit() bool {
	return s.Kind != KindPending
}
