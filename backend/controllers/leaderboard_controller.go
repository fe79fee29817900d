package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"portal/backend/leaderboard"
	"portal/backend/session"
	"portal/backend/utils"
)

type LeaderboardController struct {
	Manager    *session.Manager
	Aggregator *leaderboard.Aggregator
	Logger     *log.Logger
}

func NewLeaderboardController(m *session.Manager, agg *leaderboard.Aggregator, logger *log.Logger) *LeaderboardController {
	return &LeaderboardController{Manager: m, Aggregator: agg, Logger: logger}
}

// GetRankings godoc
// @Summary Monthly earnings rankings
// @Tags leaderboard
// @Produce json
// @Security ApiKeyAuth
// @Router /leaderboard [get]
func (lc *LeaderboardController) GetRankings(c *fiber.Ctx) error {
	month := c.Query("month", lc.Aggregator.MonthKeyForNow())

	entries, err := lc.Aggregator.Rankings(c.UserContext(), month)
	if err != nil {
		lc.Logger.Printf("leaderboard fetch for %s failed: %v", month, err)
		return utils.InternalServerError(c, "Could not fetch leaderboard")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"month":   month,
		"entries": entries,
	})
}

// SetAmount writes an absolute earnings amount for a user and month.
func (lc *LeaderboardController) SetAmount(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("userId"))
	if err != nil || userID <= 0 {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input struct {
		Amount float64 `json:"amount"`
		Month  string  `json:"month"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	month := input.Month
	if month == "" {
		month = lc.Aggregator.MonthKeyForNow()
	}

	err = lc.Aggregator.SetAmount(c.UserContext(), uint(userID), month, input.Amount, lc.Manager.UserID())
	if errors.Is(err, leaderboard.ErrNegativeAmount) {
		return utils.BadRequest(c, "Amount must not be negative")
	}
	if err != nil {
		lc.Logger.Printf("earnings set for user %d failed: %v", userID, err)
		return utils.InternalServerError(c, "Could not save earnings")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"user_id": userID,
		"month":   month,
		"amount":  input.Amount,
	})
}

// AddAmount increments a user's earnings for a month.
func (lc *LeaderboardController) AddAmount(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("userId"))
	if err != nil || userID <= 0 {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input struct {
		Delta float64 `json:"delta"`
		Month string  `json:"month"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	month := input.Month
	if month == "" {
		month = lc.Aggregator.MonthKeyForNow()
	}

	total, err := lc.Aggregator.AddAmount(c.UserContext(), uint(userID), month, input.Delta, lc.Manager.UserID())
	if errors.Is(err, leaderboard.ErrNonPositiveDelta) {
		return utils.BadRequest(c, "Delta must be positive")
	}
	if err != nil {
		lc.Logger.Printf("earnings add for user %d failed: %v", userID, err)
		return utils.InternalServerError(c, "Could not save earnings")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"user_id": userID,
		"month":   month,
		"amount":  total,
	})
}
