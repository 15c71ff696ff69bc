package domain

import "context"

// QuizRepository defines the persistence port for quizzes.
type QuizRepository interface {
	SaveQuiz(ctx context.Context, quiz *Quiz) error
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
}

// AttemptRepository defines the persistence port for graded attempts.
type AttemptRepository interface {
	SaveAttempt(ctx context.Context, attempt *QuizAttempt) error
	GetAttemptByID(ctx context.Context, id string) (*QuizAttempt, error)
}

// TextGenerator produces free-form text from a prompt. The quiz service
// feeds it a generation prompt and binds the response into a Quiz.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Mailer delivers a message to a single recipient. Both a plain text and
// an HTML body are provided so clients can pick the richer one.
type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}
