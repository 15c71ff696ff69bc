package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"regexp"
	"strings"
	texttemplate "text/template"

	"quizify/internal/domain"
	"quizify/internal/dto"
	"quizify/internal/logger"

	"go.uber.org/zap"
)

// EmailService sends result summaries for stored quiz attempts.
type EmailService interface {
	SendResults(ctx context.Context, req *dto.EmailResultsRequest) (*dto.EmailResultsResponse, error)
}

type emailService struct {
	attemptRepo domain.AttemptRepository
	quizRepo    domain.QuizRepository
	mailer      domain.Mailer
	htmlTmpl    *htmltemplate.Template
	textTmpl    *texttemplate.Template
}

var emailAddressRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NewEmailService creates a new instance of emailService
func NewEmailService(attemptRepo domain.AttemptRepository, quizRepo domain.QuizRepository, mailer domain.Mailer) EmailService {
	return &emailService{
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
		mailer:      mailer,
		htmlTmpl:    htmltemplate.Must(htmltemplate.New("results").Parse(resultsEmailHTML)),
		textTmpl:    texttemplate.Must(texttemplate.New("results").Parse(resultsEmailText)),
	}
}

// resultsEmailData is the template context for both bodies.
type resultsEmailData struct {
	Topic          string
	Difficulty     string
	Explanation    string
	Score          int
	TotalQuestions int
	Percentage     int
	Results        []resultsEmailRow
}

type resultsEmailRow struct {
	Number          int
	QuestionText    string
	SubmittedAnswer string
	CorrectAnswer   string
	Status          string
}

// SendResults implements EmailService
func (s *emailService) SendResults(ctx context.Context, req *dto.EmailResultsRequest) (*dto.EmailResultsResponse, error) {
	if strings.TrimSpace(req.EmailAddress) == "" {
		return nil, domain.NewInvalidInputError("email address is required")
	}
	if !emailAddressRe.MatchString(req.EmailAddress) {
		return nil, domain.NewInvalidInputError("invalid email address format")
	}
	if strings.TrimSpace(req.AttemptID) == "" {
		return nil, domain.NewInvalidInputError("quiz attempt ID is required")
	}

	attempt, err := s.attemptRepo.GetAttemptByID(ctx, req.AttemptID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz attempt", err)
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(req.AttemptID)
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz for attempt", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(attempt.QuizID)
	}

	data := buildResultsEmailData(quiz, attempt)

	var htmlBody bytes.Buffer
	if err := s.htmlTmpl.Execute(&htmlBody, data); err != nil {
		return nil, domain.NewInternalError("Failed to render email content", err)
	}
	var textBody bytes.Buffer
	if err := s.textTmpl.Execute(&textBody, data); err != nil {
		return nil, domain.NewInternalError("Failed to render email content", err)
	}

	subject := fmt.Sprintf("Your Quiz Results: %s", quiz.Topic)
	if err := s.mailer.Send(ctx, req.EmailAddress, subject, textBody.String(), htmlBody.String()); err != nil {
		return nil, err
	}

	logger.Get().Info("Sent results email",
		zap.String("attemptID", attempt.ID),
		zap.String("to", req.EmailAddress))

	return &dto.EmailResultsResponse{
		Message: fmt.Sprintf("Quiz results sent to %s.", req.EmailAddress),
	}, nil
}

func buildResultsEmailData(quiz *domain.Quiz, attempt *domain.QuizAttempt) resultsEmailData {
	rows := make([]resultsEmailRow, 0, len(attempt.Results))
	for _, r := range attempt.Results {
		status := "Incorrect"
		if r.IsCorrect {
			status = "Correct"
		}
		rows = append(rows, resultsEmailRow{
			Number:          r.QuestionIndex + 1,
			QuestionText:    r.QuestionText,
			SubmittedAnswer: formatAnswer(r.SubmittedAnswer, "Not Answered"),
			CorrectAnswer:   formatAnswer(r.CorrectAnswer, ""),
			Status:          status,
		})
	}
	return resultsEmailData{
		Topic:          quiz.Topic,
		Difficulty:     string(quiz.Difficulty),
		Explanation:    quiz.Explanation,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     attempt.Percentage,
		Results:        rows,
	}
}

// formatAnswer renders an answer for prose. Booleans print as True/False.
func formatAnswer(v interface{}, ifNil string) string {
	switch a := v.(type) {
	case nil:
		return ifNil
	case bool:
		if a {
			return "True"
		}
		return "False"
	case string:
		return a
	default:
		return fmt.Sprintf("%v", a)
	}
}

const resultsEmailText = `Quiz Results for: {{.Topic}} (Difficulty: {{.Difficulty}})
Your Score: {{.Score}}/{{.TotalQuestions}} ({{.Percentage}}%)

Explanation:
{{.Explanation}}

--- Detailed Results ---
{{range .Results}}
Question {{.Number}}: {{.QuestionText}}
Your Answer: {{.SubmittedAnswer}}
Correct Answer: {{.CorrectAnswer}}
Status: {{.Status}}
---{{end}}

Thank you for using Quizify!
`

const resultsEmailHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Quiz Results: {{.Topic}}</h2>
  <p><strong>Difficulty:</strong> {{.Difficulty}}</p>
  <p><strong>Your Score:</strong> {{.Score}}/{{.TotalQuestions}} ({{.Percentage}}%)</p>
  <h3>Explanation</h3>
  <p>{{.Explanation}}</p>
  <h3>Detailed Results</h3>
  {{range .Results}}
  <div style="margin-bottom: 12px; padding: 8px; border-left: 4px solid {{if eq .Status "Correct"}}#4caf50{{else}}#f44336{{end}};">
    <p><strong>Question {{.Number}}:</strong> {{.QuestionText}}</p>
    <p>Your Answer: {{.SubmittedAnswer}}<br>
       Correct Answer: {{.CorrectAnswer}}<br>
       Status: {{.Status}}</p>
  </div>
  {{end}}
  <p>Thank you for using Quizify!</p>
</body>
</html>
`
