package domain

// QuizType - вид квиза, который создаёт сервис генерации
type QuizType string

const (
	QuizTypeMCQ       QuizType = "mcq"
	QuizTypeOpenEnded QuizType = "open_ended"
)

// Valid reports whether t is one of the known quiz types.
func (t QuizType) Valid() bool {
	return t == QuizTypeMCQ || t == QuizTypeOpenEnded
}

// CreationRequest is the validated body sent to the creation service.
type CreationRequest struct {
	Amount int      `json:"amount"`
	Topic  string   `json:"topic"`
	Type   QuizType `json:"type"`
}

// CreationResult is decoded from the creation service response only.
type CreationResult struct {
	GameID string `json:"gameId"`
}
