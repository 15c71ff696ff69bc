package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONDoc stores an arbitrary JSON document in a CLOB column.
type JSONDoc json.RawMessage

// Value implements the driver.Valuer interface
func (d JSONDoc) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "null", nil
	}
	if !json.Valid(d) {
		return nil, fmt.Errorf("JSONDoc Value: invalid JSON document")
	}
	// Oracle CLOB binds want a string, not []byte
	return string(d), nil
}

// Scan implements the sql.Scanner interface
func (d *JSONDoc) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*d = append((*d)[:0], v...)
	case string:
		*d = JSONDoc(v)
	default:
		return fmt.Errorf("JSONDoc Scan: unsupported type %T", value)
	}
	return nil
}

// Quiz is the quizzes table row.
type Quiz struct {
	ID           string       `db:"id"`
	Topic        string       `db:"topic"`
	Difficulty   string       `db:"difficulty"`
	QuestionType string       `db:"question_type"`
	Explanation  string       `db:"explanation"`
	Questions    JSONDoc      `db:"questions"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	DeletedAt    sql.NullTime `db:"deleted_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizAttempt is the quiz_attempts table row.
type QuizAttempt struct {
	ID               string       `db:"id"`
	QuizID           string       `db:"quiz_id"`
	SubmittedAnswers JSONDoc      `db:"submitted_answers"`
	Score            int          `db:"score"`
	TotalQuestions   int          `db:"total_questions"`
	Percentage       int          `db:"percentage"`
	Results          JSONDoc      `db:"results"`
	AttemptedAt      time.Time    `db:"attempted_at"`
	CreatedAt        time.Time    `db:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at"`
	DeletedAt        sql.NullTime `db:"deleted_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
