package quiz

import (
	"context"
	"log"
	"math"
	"time"

	"portal/backend/models"
	"portal/backend/store"
)

// Score grades an answer mapping against a question bank. The score is the
// rounded (half-up) percentage of correct answers; unanswered questions count
// as wrong.
func Score(answers models.AnswerMap, bank []models.Question) (score, correct int) {
	if len(bank) == 0 {
		return 0, 0
	}
	for _, q := range bank {
		if answers[q.ID] == q.CorrectAnswer {
			correct++
		}
	}
	score = int(math.Round(float64(correct) / float64(len(bank)) * 100))
	return score, correct
}

// Engine scores quiz attempts and maintains the append-only attempt log.
// Highest score and last attempt are always recomputed from the log, never
// stored where they could drift from it.
type Engine struct {
	attempts  store.AttemptStore
	bank      []models.Question
	threshold int
	now       func() time.Time
	logger    *log.Logger
}

// Option configures Engine behavior.
type Option func(*Engine)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) {
		if fn != nil {
			e.now = fn
		}
	}
}

// NewEngine builds an engine over the given bank. threshold is the pass mark
// compared against the highest score.
func NewEngine(attempts store.AttemptStore, bank []models.Question, threshold int, logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		attempts:  attempts,
		bank:      bank,
		threshold: threshold,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Questions returns the bank with correct answers intact; callers strip them
// before anything leaves the process.
func (e *Engine) Questions() []models.Question {
	return e.bank
}

// Submit scores the answers and appends the attempt to the log. If the insert
// fails the error is returned alongside a still-valid attempt: the user sees
// their score even when the write was lost. The trade-off is deliberate — UX
// continuity over strict durability.
func (e *Engine) Submit(ctx context.Context, userID uint, answers models.AnswerMap) (models.QuizAttempt, error) {
	score, correct := Score(answers, e.bank)
	attempt := models.QuizAttempt{
		UserID:         userID,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(e.bank),
		Answers:        answers,
		CreatedAt:      e.now().UTC(),
	}

	if err := e.attempts.Insert(ctx, &attempt); err != nil {
		e.logger.Printf("quiz: could not persist attempt for user %d: %v", userID, err)
		return attempt, err
	}
	return attempt, nil
}

// HighestScore scans the full attempt log and returns the maximum score, or
// nil when the user has no attempts.
func (e *Engine) HighestScore(ctx context.Context, userID uint) (*int, error) {
	attempts, err := e.attempts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, nil
	}
	highest := attempts[0].Score
	for _, a := range attempts[1:] {
		if a.Score > highest {
			highest = a.Score
		}
	}
	return &highest, nil
}

// LastAttempt returns the most recent attempt, or nil when none exist.
func (e *Engine) LastAttempt(ctx context.Context, userID uint) (*models.QuizAttempt, error) {
	attempts, err := e.attempts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, nil
	}
	last := attempts[0]
	for _, a := range attempts[1:] {
		if !a.CreatedAt.Before(last.CreatedAt) {
			last = a
		}
	}
	return &last, nil
}

// Passed compares the pass threshold against the highest score, not the
// latest attempt: retaking can only raise the standing, and a later low score
// never revokes a pass.
func (e *Engine) Passed(ctx context.Context, userID uint) (bool, error) {
	highest, err := e.HighestScore(ctx, userID)
	if err != nil {
		return false, err
	}
	return highest != nil && *highest >= e.threshold, nil
}
