package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"portal/backend/models"
	"portal/backend/quiz"
	"portal/backend/session"
	"portal/backend/utils"
)

type QuizController struct {
	Manager *session.Manager
	Engine  *quiz.Engine
	Logger  *log.Logger
}

func NewQuizController(m *session.Manager, engine *quiz.Engine, logger *log.Logger) *QuizController {
	return &QuizController{Manager: m, Engine: engine, Logger: logger}
}

// GetQuestions serves the quiz bank. Correct answers never leave the process;
// the Question JSON tags strip them.
func (qc *QuizController) GetQuestions(c *fiber.Ctx) error {
	questions := qc.Engine.Questions()
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"questions": questions,
		"total":     len(questions),
	})
}

// Submit godoc
// @Summary Submit a quiz attempt
// @Description Scores the answers and appends the attempt to the log
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Router /quiz/submit [post]
func (qc *QuizController) Submit(c *fiber.Ctx) error {
	var input struct {
		Answers map[int]string `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	total := len(qc.Engine.Questions())
	if len(input.Answers) != total {
		return utils.BadRequest(c, "All questions must be answered")
	}

	attempt, err := qc.Engine.Submit(c.UserContext(), qc.Manager.UserID(), models.AnswerMap(input.Answers))
	payload := fiber.Map{
		"score":           attempt.Score,
		"correct_answers": attempt.CorrectAnswers,
		"total_questions": attempt.TotalQuestions,
		"saved":           err == nil,
	}
	if err != nil {
		// The score stands even though the write was lost; the UI shows a
		// non-blocking notice.
		payload["notice"] = "Your score could not be saved"
	}
	return utils.Success(c, fiber.StatusOK, payload)
}

// GetResult reports the derived standing: last attempt, highest score and
// pass/fail against the configured threshold.
func (qc *QuizController) GetResult(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := qc.Manager.UserID()

	last, err := qc.Engine.LastAttempt(ctx, userID)
	if err != nil {
		qc.Logger.Printf("quiz result fetch for user %d failed: %v", userID, err)
		return utils.InternalServerError(c, "Could not fetch quiz results")
	}
	highest, err := qc.Engine.HighestScore(ctx, userID)
	if err != nil {
		qc.Logger.Printf("quiz result fetch for user %d failed: %v", userID, err)
		return utils.InternalServerError(c, "Could not fetch quiz results")
	}
	passed, err := qc.Engine.Passed(ctx, userID)
	if err != nil {
		qc.Logger.Printf("quiz result fetch for user %d failed: %v", userID, err)
		return utils.InternalServerError(c, "Could not fetch quiz results")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"last_attempt":  last,
		"highest_score": highest,
		"passed":        passed,
	})
}
