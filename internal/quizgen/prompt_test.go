package quizgen

import (
	"strings"
	"testing"

	"quizify/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_SingleType(t *testing.T) {
	prompt := BuildPrompt(&domain.GenerationRequest{
		Topic:        "Photosynthesis",
		Difficulty:   domain.DifficultyMedium,
		QuestionType: domain.QuestionTypeMCQ,
		NumQuestions: 5,
	})

	assert.Contains(t, prompt, `"Photosynthesis"`)
	assert.Contains(t, prompt, `"Medium"`)
	assert.Contains(t, prompt, "exactly 5 questions")
	assert.Contains(t, prompt, `"options"`)
	assert.Contains(t, prompt, "single, valid JSON object")
	assert.NotContains(t, prompt, `"fill"`)
}

func TestBuildPrompt_MixedIncludesOnlyRequestedTypes(t *testing.T) {
	prompt := BuildPrompt(&domain.GenerationRequest{
		Topic:        "Roman history",
		Difficulty:   domain.DifficultyHard,
		QuestionType: domain.QuestionTypeMixed,
		NumPerType: map[domain.QuestionType]int{
			domain.QuestionTypeMCQ: 2,
			domain.QuestionTypeTF:  3,
		},
	})

	assert.Contains(t, prompt, "exactly 5 questions in total")
	assert.Contains(t, prompt, `2 questions of type "mcq"`)
	assert.Contains(t, prompt, `3 questions of type "tf"`)
	assert.NotContains(t, prompt, `questions of type "fill"`)
	assert.Contains(t, prompt, "Example MCQ")
	assert.Contains(t, prompt, "Example T/F")
	assert.NotContains(t, prompt, "Example Fill")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := &domain.GenerationRequest{
		Topic:        "Tides",
		Difficulty:   domain.DifficultyEasy,
		QuestionType: domain.QuestionTypeMixed,
		NumPerType: map[domain.QuestionType]int{
			domain.QuestionTypeMCQ:  1,
			domain.QuestionTypeFill: 1,
			domain.QuestionTypeTF:   1,
		},
	}
	first := BuildPrompt(req)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildPrompt(req))
	}
	// Per-type clauses appear in a fixed order.
	assert.Less(t, strings.Index(first, `"mcq"`), strings.Index(first, `type "fill"`))
}
