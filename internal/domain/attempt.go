package domain

import "time"

// Result holds the grading outcome for a single question.
type Result struct {
	QuestionIndex   int          `json:"question_index"`
	QuestionKey     string       `json:"question_key"`
	SubmittedAnswer interface{}  `json:"submitted_answer"`
	CorrectAnswer   interface{}  `json:"correct_answer"`
	IsCorrect       bool         `json:"is_correct"`
	QuestionText    string       `json:"question_text"`
	QuestionType    QuestionType `json:"question_type"`
}

// QuizAttempt stores one learner's graded submission against a quiz.
// Immutable once created.
type QuizAttempt struct {
	ID               string
	QuizID           string
	SubmittedAnswers map[string]interface{}
	Score            int
	TotalQuestions   int
	Percentage       int
	Results          []Result
	AttemptedAt      time.Time
}

// Validate validates the attempt
func (a *QuizAttempt) Validate() error {
	if a.QuizID == "" {
		return NewInvalidInputError("quiz ID is required")
	}
	if a.TotalQuestions == 0 {
		return NewInvalidInputError("attempt must cover at least one question")
	}
	return nil
}
