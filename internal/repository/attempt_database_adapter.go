package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"quizify/internal/domain"
	"quizify/internal/repository/models"
	"quizify/internal/util"

	"github.com/jmoiron/sqlx"
)

// AttemptDatabaseAdapter implements domain.AttemptRepository using sqlx.DB
type AttemptDatabaseAdapter struct {
	db *sqlx.DB
}

// NewAttemptDatabaseAdapter creates a new instance of AttemptDatabaseAdapter
func NewAttemptDatabaseAdapter(db *sqlx.DB) domain.AttemptRepository {
	return &AttemptDatabaseAdapter{db: db}
}

// SaveAttempt implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) SaveAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	modelAttempt, err := toModelAttempt(attempt)
	if err != nil {
		return err
	}
	modelAttempt.ID = util.NewULID()
	modelAttempt.CreatedAt = time.Now()
	modelAttempt.UpdatedAt = modelAttempt.CreatedAt

	query := `INSERT INTO quiz_attempts (
		id, quiz_id, submitted_answers, score, total_questions,
		percentage, results, attempted_at, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10
	)`

	_, err = a.db.ExecContext(ctx, query,
		modelAttempt.ID,
		modelAttempt.QuizID,
		modelAttempt.SubmittedAnswers,
		modelAttempt.Score,
		modelAttempt.TotalQuestions,
		modelAttempt.Percentage,
		modelAttempt.Results,
		modelAttempt.AttemptedAt,
		modelAttempt.CreatedAt,
		modelAttempt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz attempt: %w", err)
	}

	attempt.ID = modelAttempt.ID
	return nil
}

// GetAttemptByID implements domain.AttemptRepository.
// It returns (nil, nil) when no attempt exists with the given ID.
func (a *AttemptDatabaseAdapter) GetAttemptByID(ctx context.Context, id string) (*domain.QuizAttempt, error) {
	var modelAttempt models.QuizAttempt
	query := `SELECT
		id "id",
		quiz_id "quiz_id",
		submitted_answers "submitted_answers",
		score "score",
		total_questions "total_questions",
		percentage "percentage",
		results "results",
		attempted_at "attempted_at",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"
	FROM quiz_attempts
	WHERE id = :1
	AND deleted_at IS NULL`

	err := a.db.GetContext(ctx, &modelAttempt, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz attempt by ID %s: %w", id, err)
	}
	return toDomainAttempt(&modelAttempt)
}

func toModelAttempt(attempt *domain.QuizAttempt) (*models.QuizAttempt, error) {
	if attempt == nil {
		return nil, fmt.Errorf("cannot map nil attempt")
	}
	submittedJSON, err := json.Marshal(attempt.SubmittedAnswers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submitted answers: %w", err)
	}
	resultsJSON, err := json.Marshal(attempt.Results)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grading results: %w", err)
	}
	return &models.QuizAttempt{
		ID:               attempt.ID,
		QuizID:           attempt.QuizID,
		SubmittedAnswers: models.JSONDoc(submittedJSON),
		Score:            attempt.Score,
		TotalQuestions:   attempt.TotalQuestions,
		Percentage:       attempt.Percentage,
		Results:          models.JSONDoc(resultsJSON),
		AttemptedAt:      attempt.AttemptedAt,
	}, nil
}

func toDomainAttempt(modelAttempt *models.QuizAttempt) (*domain.QuizAttempt, error) {
	var submitted map[string]interface{}
	if len(modelAttempt.SubmittedAnswers) > 0 {
		if err := json.Unmarshal(modelAttempt.SubmittedAnswers, &submitted); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submitted answers of attempt %s: %w", modelAttempt.ID, err)
		}
	}
	var results []domain.Result
	if len(modelAttempt.Results) > 0 {
		if err := json.Unmarshal(modelAttempt.Results, &results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal grading results of attempt %s: %w", modelAttempt.ID, err)
		}
	}

	return &domain.QuizAttempt{
		ID:               modelAttempt.ID,
		QuizID:           modelAttempt.QuizID,
		SubmittedAnswers: submitted,
		Score:            modelAttempt.Score,
		TotalQuestions:   modelAttempt.TotalQuestions,
		Percentage:       modelAttempt.Percentage,
		Results:          results,
		AttemptedAt:      modelAttempt.AttemptedAt,
	}, nil
}
