package ws

import "quiz_webapp/internal/flow"

const (
	// server - client
	MsgState        = "state"
	MsgToastLoading = "toast_loading"
	MsgToastSuccess = "toast_success"
	MsgToastError   = "toast_error"
	MsgToastDismiss = "toast_dismiss"
	MsgNavigate     = "navigate"
)

// Event is one message pushed to the browser of a flow.
type Event struct {
	Type    string      `json:"type"`
	ID      flow.Handle `json:"id,omitempty"`
	Message string      `json:"message,omitempty"`
	Path    string      `json:"path,omitempty"`
	State   *flow.State `json:"state,omitempty"`
}
