package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"portal/backend/models"
	"portal/backend/quiz"
	"portal/backend/session"
	"portal/backend/store"
	"portal/backend/utils"
)

// Video is a training library entry. The catalog is static for now.
type Video struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func VideoLibrary() []Video {
	return []Video{
		{ID: "IVNK5gkVq2Q", Title: "Sales Video"},
		{ID: "zXLGnIpa2vA", Title: "Inspection"},
		{ID: "SeGxoy2bazc", Title: "Repair Attempt"},
		{ID: "bx48qPlaGvE", Title: "How to Sell"},
	}
}

type DashboardController struct {
	Manager *session.Manager
	Engine  *quiz.Engine
	Store   store.Store
	Logger  *log.Logger
}

func NewDashboardController(m *session.Manager, engine *quiz.Engine, st store.Store, logger *log.Logger) *DashboardController {
	return &DashboardController{Manager: m, Engine: engine, Store: st, Logger: logger}
}

// GetVideos serves the training video catalog.
func (dc *DashboardController) GetVideos(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, fiber.Map{"videos": VideoLibrary()})
}

// GetDashboard godoc
// @Summary Role-gated dashboard
// @Description Returns the trainee or admin dashboard depending on the resolved role
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Router /dashboard [get]
func (dc *DashboardController) GetDashboard(c *fiber.Ctx) error {
	if dc.Manager.RoleState() != session.RoleResolved {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"role_status": "pending",
		})
	}
	if dc.Manager.IsAdmin() {
		return dc.adminDashboard(c)
	}
	return dc.traineeDashboard(c)
}

func (dc *DashboardController) traineeDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := dc.Manager.UserID()

	last, err := dc.Engine.LastAttempt(ctx, userID)
	if err != nil {
		dc.Logger.Printf("dashboard: quiz history for user %d failed: %v", userID, err)
		return utils.InternalServerError(c, "Could not load dashboard")
	}
	highest, err := dc.Engine.HighestScore(ctx, userID)
	if err != nil {
		dc.Logger.Printf("dashboard: quiz history for user %d failed: %v", userID, err)
		return utils.InternalServerError(c, "Could not load dashboard")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"role":          models.RoleTrainee,
		"display_name":  dc.Manager.DisplayName(),
		"profile":       dc.Manager.Profile(),
		"videos":        VideoLibrary(),
		"last_attempt":  last,
		"highest_score": highest,
	})
}

// adminDashboard lists every user with their highest quiz score. Highest
// scores are derived by scanning the full attempt log, not read from a
// cached column.
func (dc *DashboardController) adminDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	profiles, err := dc.Store.Profiles().List(ctx)
	if err != nil {
		dc.Logger.Printf("dashboard: user list failed: %v", err)
		return utils.InternalServerError(c, "Could not load dashboard")
	}
	attempts, err := dc.Store.Attempts().ListAll(ctx)
	if err != nil {
		dc.Logger.Printf("dashboard: attempt log failed: %v", err)
		return utils.InternalServerError(c, "Could not load dashboard")
	}

	highest := make(map[uint]int)
	for _, a := range attempts {
		if best, ok := highest[a.UserID]; !ok || a.Score > best {
			highest[a.UserID] = a.Score
		}
	}

	users := make([]fiber.Map, 0, len(profiles))
	for _, p := range profiles {
		entry := fiber.Map{
			"id":           p.ID,
			"email":        p.Email,
			"display_name": p.DisplayName(),
			"role":         p.Role,
			"created_at":   p.CreatedAt,
		}
		if score, ok := highest[p.ID]; ok {
			entry["highest_score"] = score
		} else {
			entry["highest_score"] = nil
		}
		users = append(users, entry)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"role":  models.RoleAdmin,
		"users": users,
	})
}
