package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// QuestionKey returns the submission key for the question at the given
// 0-based index ("q1" for index 0).
func QuestionKey(index int) string {
	return fmt.Sprintf("q%d", index+1)
}

// GradeQuiz grades the submitted answers against the quiz's question list
// and returns a new, unpersisted QuizAttempt. Submission keys are "q<N>"
// with N 1-based; a missing or null submission is counted incorrect, never
// an error.
//
// Comparison policy by category:
//   - tf:   a string submission is coerced by case-insensitive comparison
//     to "true"; booleans are taken as-is; anything else is incorrect.
//   - fill: both sides stringified, trimmed, lower-cased, compared.
//   - mcq:  both sides stringified and compared exactly. The case
//     sensitivity asymmetry with fill is deliberate product behavior.
func GradeQuiz(quiz *Quiz, submitted map[string]interface{}) (*QuizAttempt, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return nil, NewEmptyQuizError(quiz.ID)
	}

	results := make([]Result, 0, total)
	score := 0

	for i, question := range quiz.Questions {
		key := QuestionKey(i)
		answer, ok := submitted[key]
		if !ok {
			answer = nil
		}

		isCorrect := false
		if answer != nil {
			isCorrect = compareAnswer(question, answer)
		}
		if isCorrect {
			score++
		}

		results = append(results, Result{
			QuestionIndex:   i,
			QuestionKey:     key,
			SubmittedAnswer: answer,
			CorrectAnswer:   question.CorrectAnswer(),
			IsCorrect:       isCorrect,
			QuestionText:    question.Text(),
			QuestionType:    question.Kind(),
		})
	}

	return &QuizAttempt{
		QuizID:           quiz.ID,
		SubmittedAnswers: submitted,
		Score:            score,
		TotalQuestions:   total,
		Percentage:       percentage(score, total),
		Results:          results,
		AttemptedAt:      time.Now(),
	}, nil
}

// compareAnswer applies the per-category comparison policy. The type switch
// is exhaustive over the Question variants.
func compareAnswer(question Question, submitted interface{}) bool {
	switch q := question.(type) {
	case TrueFalseQuestion:
		switch v := submitted.(type) {
		case bool:
			return v == q.Answer
		case string:
			return strings.EqualFold(v, "true") == q.Answer
		default:
			return false
		}
	case FillQuestion:
		return normalizeFill(stringify(submitted)) == normalizeFill(q.Answer)
	case MCQQuestion:
		return stringify(submitted) == q.Answer
	default:
		return false
	}
}

func normalizeFill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// stringify renders a submitted value the way it would read on the wire;
// JSON numbers arrive as float64 and print without a trailing ".0" for
// integral values.
func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// percentage computes round(score/total*100). Callers must reject empty
// quizzes first; the zero guard is kept so a malformed stored quiz can
// never divide by zero.
func percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
