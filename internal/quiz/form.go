package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"quiz_webapp/internal/domain"
)

const (
	MinAmount     = 1
	MaxAmount     = 10
	DefaultAmount = 3
)

// Field error messages surfaced next to the offending input.
const (
	MsgTopicRequired = "topic required"
	MsgAmountNaN     = "amount must be a number"
	MsgAmountRange   = "amount must be between 1 and 10"
	MsgTypeInvalid   = "type must be mcq or open_ended"
)

// Amount keeps the raw text of the amount field so that a non-numeric
// value turns into a field error instead of a decode failure.
// Both JSON numbers and strings are accepted.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(b)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if n, err := strconv.Atoi(string(a)); err == nil {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(a))
}

// AmountOf is a shorthand for an amount field holding n.
func AmountOf(n int) Amount {
	return Amount(strconv.Itoa(n))
}

// Form is the raw user input of a creation flow.
type Form struct {
	Topic  string `json:"topic"`
	Amount Amount `json:"amount"`
	Type   string `json:"type"`
}

// DefaultForm returns the initial values of a new flow. The topic is taken
// from the hint the flow was opened with and may be empty.
func DefaultForm(topicHint string) Form {
	return Form{
		Topic:  topicHint,
		Amount: AmountOf(DefaultAmount),
		Type:   string(domain.QuizTypeOpenEnded),
	}
}

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

// ValidationError is returned when a form cannot be submitted.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Validate normalizes f and checks every field. The request is usable only
// when the returned FieldErrors is empty.
func Validate(f Form) (domain.CreationRequest, FieldErrors) {
	details := FieldErrors{}
	var req domain.CreationRequest

	req.Topic = strings.TrimSpace(f.Topic)
	if req.Topic == "" {
		details["topic"] = MsgTopicRequired
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(f.Amount)))
	switch {
	case errors.Is(err, strconv.ErrRange):
		details["amount"] = MsgAmountRange
	case err != nil:
		details["amount"] = MsgAmountNaN
	case n < MinAmount || n > MaxAmount:
		details["amount"] = MsgAmountRange
	default:
		req.Amount = n
	}

	qt := domain.QuizType(strings.TrimSpace(f.Type))
	if qt == "" {
		qt = domain.QuizTypeOpenEnded
	}
	if qt.Valid() {
		req.Type = qt
	} else {
		details["type"] = MsgTypeInvalid
	}

	return req, details
}

// Check is Validate with the field errors folded into a *ValidationError.
func Check(f Form) (domain.CreationRequest, error) {
	req, details := Validate(f)
	if len(details) > 0 {
		return domain.CreationRequest{}, &ValidationError{Fields: details}
	}
	return req, nil
}
