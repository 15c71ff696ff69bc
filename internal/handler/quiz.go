package handler

import (
	"quizify/internal/domain"
	"quizify/internal/dto"
	"quizify/internal/logger"
	"quizify/internal/service"
	"quizify/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	quizService  service.QuizService
	emailService service.EmailService
	validator    *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(quizService service.QuizService, emailService service.EmailService) *QuizHandler {
	return &QuizHandler{
		quizService:  quizService,
		emailService: emailService,
		validator:    validation.NewValidator(),
	}
}

// RegisterRoutes wires the quiz endpoints onto the router.
func (h *QuizHandler) RegisterRoutes(api fiber.Router) {
	api.Post("/quizzes", h.GenerateQuiz)
	api.Post("/quizzes/check", h.CheckAnswers)
	api.Post("/quizzes/email", h.EmailResults)
	api.Get("/quizzes/:id", h.GetQuiz)
	api.Get("/attempts/:id", h.GetAttempt)
}

// GenerateQuiz godoc
// @Summary Generate a new quiz
// @Description Generates explanation and questions for a topic via the LLM and persists the quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Generation Request"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid JSON data.")
	}

	resp, err := h.quizService.GenerateQuiz(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetQuiz godoc
// @Summary Fetch a quiz
// @Description Returns a stored quiz with correct answers withheld
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if errs := h.validator.ValidateQuizID(quizID); len(errs) > 0 {
		return errs
	}

	resp, err := h.quizService.GetQuiz(c.UserContext(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CheckAnswers godoc
// @Summary Grade submitted answers
// @Description Grades a submission against the stored quiz and persists the attempt
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.CheckAnswersRequest true "Submission"
// @Success 200 {object} dto.CheckAnswersResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/check [post]
func (h *QuizHandler) CheckAnswers(c *fiber.Ctx) error {
	var req dto.CheckAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid JSON data.")
	}
	if errs := h.validator.ValidateQuizID(req.QuizID); len(errs) > 0 {
		return errs
	}

	resp, err := h.quizService.CheckAnswers(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetAttempt godoc
// @Summary Fetch a graded attempt
// @Description Returns a stored attempt in the same shape as the grading response
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.CheckAnswersResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts/{id} [get]
func (h *QuizHandler) GetAttempt(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	resp, err := h.quizService.GetAttempt(c.UserContext(), attemptID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// EmailResults godoc
// @Summary Email quiz results
// @Description Sends a results summary for a stored attempt to the given address
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.EmailResultsRequest true "Email Request"
// @Success 200 {object} dto.EmailResultsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /quizzes/email [post]
func (h *QuizHandler) EmailResults(c *fiber.Ctx) error {
	var req dto.EmailResultsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid JSON data.")
	}

	resp, err := h.emailService.SendResults(c.UserContext(), &req)
	if err != nil {
		return err
	}

	logger.Get().Info("Results email requested",
		zap.String("attemptID", req.AttemptID))
	return c.JSON(resp)
}
