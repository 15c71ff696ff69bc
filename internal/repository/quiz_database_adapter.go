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

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// SaveQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	modelQuiz, err := toModelQuiz(quiz)
	if err != nil {
		return err
	}
	modelQuiz.ID = util.NewULID()
	modelQuiz.CreatedAt = time.Now()
	modelQuiz.UpdatedAt = modelQuiz.CreatedAt

	query := `INSERT INTO quizzes (
		id, topic, difficulty, question_type, explanation,
		questions, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8
	)`

	_, err = a.db.ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.Topic,
		modelQuiz.Difficulty,
		modelQuiz.QuestionType,
		modelQuiz.Explanation,
		modelQuiz.Questions,
		modelQuiz.CreatedAt,
		modelQuiz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}

	quiz.ID = modelQuiz.ID
	quiz.CreatedAt = modelQuiz.CreatedAt
	return nil
}

// GetQuizByID implements domain.QuizRepository.
// It returns (nil, nil) when no quiz exists with the given ID.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT
		id "id",
		topic "topic",
		difficulty "difficulty",
		question_type "question_type",
		explanation "explanation",
		questions "questions",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"
	FROM quizzes
	WHERE id = :1
	AND deleted_at IS NULL`

	err := a.db.GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz)
}

func toModelQuiz(quiz *domain.Quiz) (*models.Quiz, error) {
	if quiz == nil {
		return nil, fmt.Errorf("cannot map nil quiz")
	}
	questionsJSON, err := json.Marshal(quiz.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}
	return &models.Quiz{
		ID:           quiz.ID,
		Topic:        quiz.Topic,
		Difficulty:   string(quiz.Difficulty),
		QuestionType: string(quiz.QuestionType),
		Explanation:  quiz.Explanation,
		Questions:    models.JSONDoc(questionsJSON),
		CreatedAt:    quiz.CreatedAt,
	}, nil
}

func toDomainQuiz(modelQuiz *models.Quiz) (*domain.Quiz, error) {
	var questions domain.Questions
	if len(modelQuiz.Questions) > 0 {
		if err := json.Unmarshal(modelQuiz.Questions, &questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questions of quiz %s: %w", modelQuiz.ID, err)
		}
	}

	difficulty, ok := domain.ParseDifficulty(modelQuiz.Difficulty)
	if !ok {
		return nil, fmt.Errorf("quiz %s has unknown difficulty %q", modelQuiz.ID, modelQuiz.Difficulty)
	}
	questionType, ok := domain.ParseQuestionType(modelQuiz.QuestionType)
	if !ok {
		return nil, fmt.Errorf("quiz %s has unknown question type %q", modelQuiz.ID, modelQuiz.QuestionType)
	}

	return &domain.Quiz{
		ID:           modelQuiz.ID,
		Topic:        modelQuiz.Topic,
		Difficulty:   difficulty,
		QuestionType: questionType,
		Explanation:  modelQuiz.Explanation,
		Questions:    questions,
		CreatedAt:    modelQuiz.CreatedAt,
	}, nil
}
