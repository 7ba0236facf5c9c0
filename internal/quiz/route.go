package quiz

import "quiz_webapp/internal/domain"

const HomePath = "/"

// Destination returns the view a created quiz is played in.
func Destination(t domain.QuizType, gameID string) string {
	switch t {
	case domain.QuizTypeMCQ:
		return "/play/mcq-test/" + gameID
	case domain.QuizTypeOpenEnded:
		return "/play/open-ended/" + gameID
	default:
		return HomePath
	}
}
