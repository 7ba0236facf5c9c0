package quiz

import (
	"encoding/json"
	"errors"
	"testing"

	"quiz_webapp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsWholeAmountRange(t *testing.T) {
	for n := MinAmount; n <= MaxAmount; n++ {
		req, details := Validate(Form{Topic: "Math", Amount: AmountOf(n), Type: "mcq"})
		require.Empty(t, details, "amount %d", n)
		assert.Equal(t, domain.CreationRequest{Amount: n, Topic: "Math", Type: domain.QuizTypeMCQ}, req)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	cases := []struct {
		name  string
		form  Form
		field string
		msg   string
	}{
		{"empty topic", Form{Topic: "", Amount: "5", Type: "mcq"}, "topic", MsgTopicRequired},
		{"blank topic", Form{Topic: "   ", Amount: "5", Type: "mcq"}, "topic", MsgTopicRequired},
		{"amount too big", Form{Topic: "Art", Amount: "15", Type: "mcq"}, "amount", MsgAmountRange},
		{"amount overflows int", Form{Topic: "Art", Amount: "99999999999999999999", Type: "mcq"}, "amount", MsgAmountRange},
		{"amount underflows int", Form{Topic: "Art", Amount: "-99999999999999999999", Type: "mcq"}, "amount", MsgAmountRange},
		{"amount zero", Form{Topic: "Art", Amount: "0", Type: "mcq"}, "amount", MsgAmountRange},
		{"amount negative", Form{Topic: "Art", Amount: "-2", Type: "mcq"}, "amount", MsgAmountRange},
		{"amount text", Form{Topic: "Art", Amount: "five", Type: "mcq"}, "amount", MsgAmountNaN},
		{"amount fraction", Form{Topic: "Art", Amount: "2.5", Type: "mcq"}, "amount", MsgAmountNaN},
		{"amount missing", Form{Topic: "Art", Type: "mcq"}, "amount", MsgAmountNaN},
		{"unknown type", Form{Topic: "Art", Amount: "2", Type: "essay"}, "type", MsgTypeInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, details := Validate(tc.form)
			require.Len(t, details, 1, "%v", details)
			assert.Equal(t, tc.msg, details[tc.field])
		})
	}
}

func TestValidate_DefaultsTypeAndTrims(t *testing.T) {
	req, details := Validate(Form{Topic: "  History ", Amount: " 3 "})
	require.Empty(t, details)
	assert.Equal(t, domain.QuizTypeOpenEnded, req.Type)
	assert.Equal(t, "History", req.Topic)
	assert.Equal(t, 3, req.Amount)
}

func TestCheck_ReturnsValidationError(t *testing.T) {
	_, err := Check(Form{Topic: "", Amount: "15", Type: "mcq"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Len(t, ve.Fields, 2)
	assert.Equal(t, "invalid form: amount: amount must be between 1 and 10; topic: topic required", ve.Error())
}

func TestDefaultForm(t *testing.T) {
	assert.Equal(t, Form{Topic: "Physics", Amount: "3", Type: "open_ended"}, DefaultForm("Physics"))
	assert.Empty(t, DefaultForm("").Topic)
}

func TestForm_DecodesNumericAndStringAmount(t *testing.T) {
	var a, b Form
	require.NoError(t, json.Unmarshal([]byte(`{"topic":"x","amount":7,"type":"mcq"}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"topic":"x","amount":"7","type":"mcq"}`), &b))
	assert.Equal(t, Amount("7"), a.Amount)
	assert.Equal(t, Amount("7"), b.Amount)

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"x","amount":7,"type":"mcq"}`, string(out))
}
