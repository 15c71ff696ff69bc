package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quizify/internal/cache"
	"quizify/internal/config"
	"quizify/internal/domain"
	"quizify/internal/dto"
	"quizify/internal/logger"
	"quizify/internal/quizgen"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error)
	CheckAnswers(ctx context.Context, req *dto.CheckAnswersRequest) (*dto.CheckAnswersResponse, error)
	GetAttempt(ctx context.Context, attemptID string) (*dto.CheckAnswersResponse, error)
}

// quizService implements QuizService
type quizService struct {
	quizRepo    domain.QuizRepository
	attemptRepo domain.AttemptRepository
	generator   domain.TextGenerator
	cache       domain.Cache
	cfg         *config.Config
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	quizRepo domain.QuizRepository,
	attemptRepo domain.AttemptRepository,
	generator domain.TextGenerator,
	quizCache domain.Cache,
	cfg *config.Config,
) QuizService {
	return &quizService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		generator:   generator,
		cache:       quizCache,
		cfg:         cfg,
	}
}

// GenerateQuiz implements QuizService. It runs the full generation
// pipeline synchronously: validate, prompt, call the LLM, extract and
// validate the response, persist, cache.
func (s *quizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	genReq, err := toGenerationRequest(req)
	if err != nil {
		return nil, err
	}
	if err := genReq.Validate(); err != nil {
		return nil, err
	}

	prompt := quizgen.BuildPrompt(genReq)
	rawText, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	obj, err := quizgen.ExtractJSON(rawText)
	if err != nil {
		// Raw LLM output stays in server logs, never in the response.
		logger.Get().Error("Failed to extract JSON from LLM response",
			zap.String("topic", genReq.Topic),
			zap.String("raw_response", rawText))
		return nil, err
	}

	explanation, questions, err := quizgen.ValidateContent(genReq, obj)
	if err != nil {
		logger.Get().Error("LLM response failed schema validation",
			zap.String("topic", genReq.Topic),
			zap.Error(err))
		return nil, err
	}

	quiz := domain.NewQuiz(genReq.Topic, genReq.Difficulty, genReq.QuestionType, explanation, questions)
	if err := s.quizRepo.SaveQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("Failed to save generated quiz", err)
	}

	s.cacheQuiz(ctx, quiz)

	logger.Get().Info("Generated quiz",
		zap.String("quizID", quiz.ID),
		zap.String("topic", quiz.Topic),
		zap.Int("questions", len(quiz.Questions)))

	return toQuizResponse(quiz), nil
}

// GetQuiz implements QuizService
func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return toQuizResponse(quiz), nil
}

// CheckAnswers implements QuizService. Grading is pure; the resulting
// attempt is persisted before the response is built.
func (s *quizService) CheckAnswers(ctx context.Context, req *dto.CheckAnswersRequest) (*dto.CheckAnswersResponse, error) {
	if strings.TrimSpace(req.QuizID) == "" {
		return nil, domain.NewInvalidInputError("quiz_id is required")
	}

	quiz, err := s.loadQuiz(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}

	submitted := req.Answers
	if submitted == nil {
		submitted = map[string]interface{}{}
	}

	attempt, err := domain.GradeQuiz(quiz, submitted)
	if err != nil {
		return nil, err
	}

	if err := s.attemptRepo.SaveAttempt(ctx, attempt); err != nil {
		return nil, domain.NewInternalError("Failed to save quiz attempt", err)
	}

	logger.Get().Info("Graded quiz attempt",
		zap.String("quizID", quiz.ID),
		zap.String("attemptID", attempt.ID),
		zap.Int("score", attempt.Score),
		zap.Int("total", attempt.TotalQuestions))

	return toCheckAnswersResponse(attempt, quiz), nil
}

// GetAttempt implements QuizService
func (s *quizService) GetAttempt(ctx context.Context, attemptID string) (*dto.CheckAnswersResponse, error) {
	if strings.TrimSpace(attemptID) == "" {
		return nil, domain.NewInvalidInputError("attempt ID is required")
	}

	attempt, err := s.attemptRepo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz attempt", err)
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}

	quiz, err := s.loadQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	return toCheckAnswersResponse(attempt, quiz), nil
}

// loadQuiz fetches a quiz by ID, consulting the cache first. A repository
// miss becomes QUIZ_NOT_FOUND.
func (s *quizService) loadQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	if strings.TrimSpace(quizID) == "" {
		return nil, domain.NewInvalidInputError("quiz ID is required")
	}

	cacheKey := quizCacheKey(quizID)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			var quiz domain.Quiz
			if errUnmarshal := json.Unmarshal([]byte(cached), &quiz); errUnmarshal == nil {
				return &quiz, nil
			}
			logger.Get().Warn("Discarding unreadable cached quiz", zap.String("quizID", quizID))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Quiz cache read failed", zap.String("quizID", quizID), zap.Error(err))
		}
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("Failed to load quiz %s", quizID), err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	s.cacheQuiz(ctx, quiz)
	return quiz, nil
}

// cacheQuiz stores the full quiz (answers included) for server-side
// grading. Cache failures are logged and swallowed.
func (s *quizService) cacheQuiz(ctx context.Context, quiz *domain.Quiz) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		logger.Get().Warn("Failed to marshal quiz for cache", zap.String("quizID", quiz.ID), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, quizCacheKey(quiz.ID), string(data), s.cfg.Cache.QuizTTL); err != nil {
		logger.Get().Warn("Failed to cache quiz", zap.String("quizID", quiz.ID), zap.Error(err))
	}
}

func quizCacheKey(quizID string) string {
	return cache.GenerateCacheKey("quiz", "quiz", quizID)
}

// toGenerationRequest binds the transport request onto the domain request.
// Literal parsing failures surface as field-level validation errors so the
// handler can return them alongside range failures from Validate.
func toGenerationRequest(req *dto.GenerateQuizRequest) (*domain.GenerationRequest, error) {
	var errs domain.ValidationErrors

	difficulty, ok := domain.ParseDifficulty(req.Difficulty)
	if !ok {
		errs = append(errs, domain.NewInvalidFormatError("difficulty", req.Difficulty))
	}
	questionType, ok := domain.ParseQuestionType(req.QuestionType)
	if !ok {
		errs = append(errs, domain.NewInvalidFormatError("question_type", req.QuestionType))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	genReq := &domain.GenerationRequest{
		Topic:        strings.TrimSpace(req.Topic),
		Difficulty:   difficulty,
		QuestionType: questionType,
		NumQuestions: req.NumQuestions,
	}
	if questionType == domain.QuestionTypeMixed {
		genReq.NumPerType = map[domain.QuestionType]int{
			domain.QuestionTypeMCQ:  req.NumMCQ,
			domain.QuestionTypeFill: req.NumFill,
			domain.QuestionTypeTF:   req.NumTF,
		}
	}
	return genReq, nil
}

func toQuizResponse(quiz *domain.Quiz) *dto.QuizResponse {
	questions := make([]dto.QuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		qr := dto.QuestionResponse{
			QuestionText: q.Text(),
			Type:         string(q.Kind()),
			Difficulty:   q.Level(),
		}
		if mcq, ok := q.(domain.MCQQuestion); ok {
			qr.Options = mcq.Options
		}
		questions = append(questions, qr)
	}
	return &dto.QuizResponse{
		QuizID:       quiz.ID,
		Topic:        quiz.Topic,
		Difficulty:   string(quiz.Difficulty),
		QuestionType: string(quiz.QuestionType),
		Explanation:  quiz.Explanation,
		Questions:    questions,
	}
}

func toCheckAnswersResponse(attempt *domain.QuizAttempt, quiz *domain.Quiz) *dto.CheckAnswersResponse {
	results := make([]dto.ResultResponse, 0, len(attempt.Results))
	for _, r := range attempt.Results {
		results = append(results, dto.ResultResponse{
			QuestionIndex:   r.QuestionIndex,
			QuestionKey:     r.QuestionKey,
			SubmittedAnswer: r.SubmittedAnswer,
			CorrectAnswer:   r.CorrectAnswer,
			IsCorrect:       r.IsCorrect,
			QuestionText:    r.QuestionText,
		})
	}
	return &dto.CheckAnswersResponse{
		AttemptID:      attempt.ID,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     attempt.Percentage,
		Results:        results,
		Topic:          quiz.Topic,
		Difficulty:     string(quiz.Difficulty),
	}
}
