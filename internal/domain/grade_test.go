package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuiz() *Quiz {
	return &Quiz{
		ID:           "01HQUIZ",
		Topic:        "Photosynthesis",
		Difficulty:   DifficultyMedium,
		QuestionType: QuestionTypeMixed,
		Explanation:  "Plants convert light into chemical energy.",
		Questions: Questions{
			MCQQuestion{
				QuestionText: "Which organelle performs photosynthesis?",
				Difficulty:   "Medium",
				Options:      []string{"Nucleus", "Ribosome", "Chloroplast", "Mitochondrion"},
				Answer:       "Chloroplast",
			},
			FillQuestion{
				QuestionText: "The green pigment in leaves is ____.",
				Difficulty:   "Medium",
				Answer:       "Chlorophyll",
			},
			TrueFalseQuestion{
				QuestionText: "Photosynthesis consumes oxygen.",
				Difficulty:   "Medium",
				Answer:       false,
			},
		},
	}
}

func TestGradeQuiz_AllCorrect(t *testing.T) {
	attempt, err := GradeQuiz(sampleQuiz(), map[string]interface{}{
		"q1": "Chloroplast",
		"q2": "  chlorophyll ",
		"q3": false,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, attempt.Score)
	assert.Equal(t, 3, attempt.TotalQuestions)
	assert.Equal(t, 100, attempt.Percentage)
	require.Len(t, attempt.Results, 3)
	for _, r := range attempt.Results {
		assert.True(t, r.IsCorrect)
	}
}

func TestGradeQuiz_MCQIsCaseSensitive(t *testing.T) {
	attempt, err := GradeQuiz(sampleQuiz(), map[string]interface{}{
		"q1": "chloroplast",
	})
	require.NoError(t, err)
	assert.False(t, attempt.Results[0].IsCorrect)
}

func TestGradeQuiz_FillIgnoresCaseAndWhitespace(t *testing.T) {
	attempt, err := GradeQuiz(sampleQuiz(), map[string]interface{}{
		"q2": "CHLOROPHYLL",
	})
	require.NoError(t, err)
	assert.True(t, attempt.Results[1].IsCorrect)
}

func TestGradeQuiz_TrueFalseStringCoercion(t *testing.T) {
	quiz := &Quiz{
		ID: "01HTF", Topic: "Sky", Difficulty: DifficultyEasy, QuestionType: QuestionTypeTF,
		Questions: Questions{
			TrueFalseQuestion{QuestionText: "The sky is blue.", Difficulty: "Easy", Answer: true},
			TrueFalseQuestion{QuestionText: "The sky is green.", Difficulty: "Easy", Answer: false},
		},
	}

	attempt, err := GradeQuiz(quiz, map[string]interface{}{
		"q1": "TRUE",
		"q2": "banana",
	})
	require.NoError(t, err)
	assert.True(t, attempt.Results[0].IsCorrect)
	// Any non-"true" string reads as false, which matches a false answer.
	assert.True(t, attempt.Results[1].IsCorrect)
	assert.Equal(t, 2, attempt.Score)
}

func TestGradeQuiz_TrueFalseNonStringNonBool(t *testing.T) {
	quiz := &Quiz{
		ID: "01HTF2", Topic: "Sky", Difficulty: DifficultyEasy, QuestionType: QuestionTypeTF,
		Questions: Questions{
			TrueFalseQuestion{QuestionText: "The sky is green.", Difficulty: "Easy", Answer: false},
		},
	}
	attempt, err := GradeQuiz(quiz, map[string]interface{}{"q1": float64(1)})
	require.NoError(t, err)
	assert.False(t, attempt.Results[0].IsCorrect)
}

func TestGradeQuiz_MissingAndNullSubmissionsAreIncorrect(t *testing.T) {
	attempt, err := GradeQuiz(sampleQuiz(), map[string]interface{}{
		"q1": nil,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, attempt.Score)
	assert.Equal(t, 0, attempt.Percentage)
	for _, r := range attempt.Results {
		assert.False(t, r.IsCorrect)
	}
}

func TestGradeQuiz_IgnoresUnknownKeys(t *testing.T) {
	attempt, err := GradeQuiz(sampleQuiz(), map[string]interface{}{
		"q1":   "Chloroplast",
		"q99":  "noise",
		"junk": true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.Score)
	assert.Len(t, attempt.Results, 3)
}

func TestGradeQuiz_PercentageRounds(t *testing.T) {
	attempt, err := GradeQuiz(sampleQuiz(), map[string]interface{}{
		"q1": "Chloroplast",
	})
	require.NoError(t, err)
	// 1 of 3 is 33.33..., rounded to 33.
	assert.Equal(t, 33, attempt.Percentage)

	attempt, err = GradeQuiz(sampleQuiz(), map[string]interface{}{
		"q1": "Chloroplast",
		"q3": false,
	})
	require.NoError(t, err)
	// 2 of 3 is 66.66..., rounded to 67.
	assert.Equal(t, 67, attempt.Percentage)
}

func TestGradeQuiz_EmptyQuiz(t *testing.T) {
	quiz := &Quiz{ID: "01HEMPTY", Topic: "Nothing", Difficulty: DifficultyEasy, QuestionType: QuestionTypeMCQ}
	_, err := GradeQuiz(quiz, map[string]interface{}{})
	require.Error(t, err)

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeEmptyQuiz, domainErr.Code)
}

func TestGradeQuiz_Idempotent(t *testing.T) {
	submitted := map[string]interface{}{"q1": "Chloroplast", "q2": "fern", "q3": true}
	first, err := GradeQuiz(sampleQuiz(), submitted)
	require.NoError(t, err)
	second, err := GradeQuiz(sampleQuiz(), submitted)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Percentage, second.Percentage)
	assert.Equal(t, first.Results, second.Results)
}

func TestQuestionKey(t *testing.T) {
	assert.Equal(t, "q1", QuestionKey(0))
	assert.Equal(t, "q10", QuestionKey(9))
}
