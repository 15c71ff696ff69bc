package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"quizify/internal/config"
	"quizify/internal/domain"
	"quizify/internal/dto"
	"quizify/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestMain initializes the logger for all tests in this package
func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "debug"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}

	exitVal := m.Run()

	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- Mocks ---

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	if args.Error(0) == nil && quiz.ID == "" {
		quiz.ID = "01HQUIZGENERATED"
	}
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) SaveAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	if args.Error(0) == nil && attempt.ID == "" {
		attempt.ID = "01HATTEMPTGEN"
	}
	return args.Error(0)
}

func (m *MockAttemptRepository) GetAttemptByID(ctx context.Context, id string) (*domain.QuizAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizAttempt), args.Error(1)
}

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{QuizTTL: time.Hour},
	}
}

func storedQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:           "01HQUIZ",
		Topic:        "Photosynthesis",
		Difficulty:   domain.DifficultyMedium,
		QuestionType: domain.QuestionTypeMixed,
		Explanation:  "Plants convert light into chemical energy.",
		Questions: domain.Questions{
			domain.MCQQuestion{
				QuestionText: "Which organelle performs photosynthesis?",
				Difficulty:   "Medium",
				Options:      []string{"Nucleus", "Ribosome", "Chloroplast", "Mitochondrion"},
				Answer:       "Chloroplast",
			},
			domain.FillQuestion{
				QuestionText: "The green pigment in leaves is ____.",
				Difficulty:   "Medium",
				Answer:       "Chlorophyll",
			},
			domain.TrueFalseQuestion{
				QuestionText: "Photosynthesis consumes oxygen.",
				Difficulty:   "Medium",
				Answer:       false,
			},
		},
		CreatedAt: time.Now(),
	}
}

const photosynthesisLLMResponse = "Here is your quiz:\n```json\n" + `{
	"explanation": "Photosynthesis is the process by which plants convert light into chemical energy.",
	"questions": [
		{"question_text": "Which organelle performs photosynthesis?", "type": "mcq", "difficulty": "Medium",
		 "options": ["Nucleus", "Ribosome", "Chloroplast", "Mitochondrion"], "answer": "Chloroplast"},
		{"question_text": "The green pigment in leaves is ____.", "type": "fill", "difficulty": "Medium", "answer": "Chlorophyll"},
		{"question_text": "Photosynthesis consumes oxygen.", "type": "tf", "difficulty": "Medium", "answer": false}
	]
}` + "\n```"

func newServiceForTest() (*quizService, *MockQuizRepository, *MockAttemptRepository, *MockTextGenerator, *MockCache) {
	quizRepo := new(MockQuizRepository)
	attemptRepo := new(MockAttemptRepository)
	generator := new(MockTextGenerator)
	quizCache := new(MockCache)
	svc := NewQuizService(quizRepo, attemptRepo, generator, quizCache, testConfig()).(*quizService)
	return svc, quizRepo, attemptRepo, generator, quizCache
}

// --- GenerateQuiz ---

func TestGenerateQuiz_EndToEnd(t *testing.T) {
	svc, quizRepo, _, generator, quizCache := newServiceForTest()
	ctx := context.Background()

	generator.On("Generate", mock.Anything, mock.AnythingOfType("string")).Return(photosynthesisLLMResponse, nil)
	quizRepo.On("SaveQuiz", mock.Anything, mock.AnythingOfType("*domain.Quiz")).Return(nil)
	quizCache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), time.Hour).Return(nil)

	resp, err := svc.GenerateQuiz(ctx, &dto.GenerateQuizRequest{
		Topic:        "Photosynthesis",
		Difficulty:   "medium",
		QuestionType: "mixed",
		NumMCQ:       1,
		NumFill:      1,
		NumTF:        1,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "Photosynthesis", resp.Topic)
	assert.Equal(t, "Medium", resp.Difficulty)
	assert.Equal(t, "mixed", resp.QuestionType)
	assert.NotEmpty(t, resp.QuizID)
	require.Len(t, resp.Questions, 3)

	// Correct answers are never exposed in the generation response.
	assert.Equal(t, "mcq", resp.Questions[0].Type)
	assert.Len(t, resp.Questions[0].Options, 4)
	assert.Empty(t, resp.Questions[1].Options)

	generator.AssertExpectations(t)
	quizRepo.AssertExpectations(t)
	quizCache.AssertExpectations(t)
}

func TestGenerateQuiz_ValidationFailure(t *testing.T) {
	svc, _, _, generator, _ := newServiceForTest()

	_, err := svc.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{
		Topic:        "   ",
		Difficulty:   "Medium",
		QuestionType: "mcq",
		NumQuestions: 5,
	})
	require.Error(t, err)

	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "topic", verrs[0].Field)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGenerateQuiz_UnknownDifficulty(t *testing.T) {
	svc, _, _, _, _ := newServiceForTest()

	_, err := svc.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{
		Topic:        "Photosynthesis",
		Difficulty:   "Impossible",
		QuestionType: "mcq",
		NumQuestions: 5,
	})
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "difficulty", verrs[0].Field)
}

func TestGenerateQuiz_LLMFailure(t *testing.T) {
	svc, quizRepo, _, generator, _ := newServiceForTest()

	generator.On("Generate", mock.Anything, mock.Anything).
		Return("", domain.NewLLMServiceError(errors.New("connection refused")))

	_, err := svc.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{
		Topic: "Photosynthesis", Difficulty: "Medium", QuestionType: "mcq", NumQuestions: 5,
	})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
	quizRepo.AssertNotCalled(t, "SaveQuiz", mock.Anything, mock.Anything)
}

func TestGenerateQuiz_UnparseableLLMResponse(t *testing.T) {
	svc, quizRepo, _, generator, _ := newServiceForTest()

	generator.On("Generate", mock.Anything, mock.Anything).
		Return("I'm sorry, I can't produce a quiz right now.", nil)

	_, err := svc.GenerateQuiz(context.Background(), &dto.GenerateQuizRequest{
		Topic: "Photosynthesis", Difficulty: "Medium", QuestionType: "mcq", NumQuestions: 5,
	})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeExtractionFailed, domainErr.Code)
	quizRepo.AssertNotCalled(t, "SaveQuiz", mock.Anything, mock.Anything)
}

// --- CheckAnswers ---

func TestCheckAnswers_GradesAndPersists(t *testing.T) {
	svc, quizRepo, attemptRepo, _, quizCache := newServiceForTest()
	ctx := context.Background()
	quiz := storedQuiz()

	quizCache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return("", domain.ErrCacheMiss)
	quizCache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), time.Hour).Return(nil)
	quizRepo.On("GetQuizByID", mock.Anything, "01HQUIZ").Return(quiz, nil)
	attemptRepo.On("SaveAttempt", mock.Anything, mock.AnythingOfType("*domain.QuizAttempt")).Return(nil)

	resp, err := svc.CheckAnswers(ctx, &dto.CheckAnswersRequest{
		QuizID: "01HQUIZ",
		Answers: map[string]interface{}{
			"q1": "Chloroplast",
			"q2": "chlorophyll",
			"q3": true,
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AttemptID)
	assert.Equal(t, 2, resp.Score)
	assert.Equal(t, 3, resp.TotalQuestions)
	assert.Equal(t, 67, resp.Percentage)
	assert.Equal(t, "Photosynthesis", resp.Topic)
	assert.Equal(t, "Medium", resp.Difficulty)
	require.Len(t, resp.Results, 3)
	assert.True(t, resp.Results[0].IsCorrect)
	assert.True(t, resp.Results[1].IsCorrect)
	assert.False(t, resp.Results[2].IsCorrect)

	attemptRepo.AssertExpectations(t)
}

func TestCheckAnswers_QuizNotFound(t *testing.T) {
	svc, quizRepo, _, _, quizCache := newServiceForTest()

	quizCache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return("", domain.ErrCacheMiss)
	quizRepo.On("GetQuizByID", mock.Anything, "missing").Return(nil, nil)

	_, err := svc.CheckAnswers(context.Background(), &dto.CheckAnswersRequest{
		QuizID:  "missing",
		Answers: map[string]interface{}{},
	})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
}

func TestCheckAnswers_EmptyQuizRejected(t *testing.T) {
	svc, quizRepo, attemptRepo, _, quizCache := newServiceForTest()
	quiz := &domain.Quiz{ID: "01HEMPTY", Topic: "Nothing", Difficulty: domain.DifficultyEasy, QuestionType: domain.QuestionTypeMCQ}

	quizCache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return("", domain.ErrCacheMiss)
	quizCache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), time.Hour).Return(nil)
	quizRepo.On("GetQuizByID", mock.Anything, "01HEMPTY").Return(quiz, nil)

	_, err := svc.CheckAnswers(context.Background(), &dto.CheckAnswersRequest{
		QuizID:  "01HEMPTY",
		Answers: map[string]interface{}{},
	})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeEmptyQuiz, domainErr.Code)
	attemptRepo.AssertNotCalled(t, "SaveAttempt", mock.Anything, mock.Anything)
}

func TestCheckAnswers_MissingQuizID(t *testing.T) {
	svc, _, _, _, _ := newServiceForTest()

	_, err := svc.CheckAnswers(context.Background(), &dto.CheckAnswersRequest{})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
}

func TestCheckAnswers_UsesCachedQuiz(t *testing.T) {
	svc, quizRepo, attemptRepo, _, quizCache := newServiceForTest()
	quiz := storedQuiz()

	cached, err := json.Marshal(quiz)
	require.NoError(t, err)
	quizCache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(string(cached), nil)
	attemptRepo.On("SaveAttempt", mock.Anything, mock.AnythingOfType("*domain.QuizAttempt")).Return(nil)

	resp, err := svc.CheckAnswers(context.Background(), &dto.CheckAnswersRequest{
		QuizID:  "01HQUIZ",
		Answers: map[string]interface{}{"q1": "Chloroplast"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Score)
	quizRepo.AssertNotCalled(t, "GetQuizByID", mock.Anything, mock.Anything)
}

// --- GetQuiz / GetAttempt ---

func TestGetQuiz_WithholdsAnswers(t *testing.T) {
	svc, quizRepo, _, _, quizCache := newServiceForTest()

	quizCache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return("", domain.ErrCacheMiss)
	quizCache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), time.Hour).Return(nil)
	quizRepo.On("GetQuizByID", mock.Anything, "01HQUIZ").Return(storedQuiz(), nil)

	resp, err := svc.GetQuiz(context.Background(), "01HQUIZ")
	require.NoError(t, err)
	require.Len(t, resp.Questions, 3)
	for _, q := range resp.Questions {
		assert.NotEmpty(t, q.QuestionText)
	}
}

func TestGetAttempt(t *testing.T) {
	svc, quizRepo, attemptRepo, _, quizCache := newServiceForTest()
	quiz := storedQuiz()

	graded, err := domain.GradeQuiz(quiz, map[string]interface{}{"q1": "Chloroplast"})
	require.NoError(t, err)
	graded.ID = "01HATTEMPT"

	attemptRepo.On("GetAttemptByID", mock.Anything, "01HATTEMPT").Return(graded, nil)
	quizCache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return("", domain.ErrCacheMiss)
	quizCache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), time.Hour).Return(nil)
	quizRepo.On("GetQuizByID", mock.Anything, "01HQUIZ").Return(quiz, nil)

	resp, err := svc.GetAttempt(context.Background(), "01HATTEMPT")
	require.NoError(t, err)
	assert.Equal(t, "01HATTEMPT", resp.AttemptID)
	assert.Equal(t, 1, resp.Score)
	assert.Equal(t, "Photosynthesis", resp.Topic)
}

func TestGetAttempt_NotFound(t *testing.T) {
	svc, _, attemptRepo, _, _ := newServiceForTest()

	attemptRepo.On("GetAttemptByID", mock.Anything, "missing").Return(nil, nil)

	_, err := svc.GetAttempt(context.Background(), "missing")
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeAttemptNotFound, domainErr.Code)
}
