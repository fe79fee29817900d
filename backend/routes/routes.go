package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"portal/backend/controllers"
	"portal/backend/leaderboard"
	"portal/backend/middleware"
	"portal/backend/quiz"
	"portal/backend/session"
	"portal/backend/store"
)

func SetupRoutes(app *fiber.App, m *session.Manager, st store.Store, engine *quiz.Engine, agg *leaderboard.Aggregator, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(m, logger)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/logout", authController.Logout)
	app.Get("/api/auth/session", authController.GetSession)

	// Middleware
	requireAuth := middleware.RequireAuth(m)
	requireAdmin := middleware.RequireAdmin(m)

	// User routes
	userController := controllers.NewUserController(m, st, logger)
	app.Get("/api/user/profile", requireAuth, userController.GetProfile)
	app.Put("/api/user/profile", requireAuth, userController.UpdateProfile)

	// Dashboard and video routes
	dashboardController := controllers.NewDashboardController(m, engine, st, logger)
	app.Get("/api/dashboard", requireAuth, dashboardController.GetDashboard)
	app.Get("/api/videos", requireAuth, dashboardController.GetVideos)

	// Quiz routes
	quizController := controllers.NewQuizController(m, engine, logger)
	quizGroup := app.Group("/api/quiz", requireAuth)
	quizGroup.Get("/questions", quizController.GetQuestions)
	quizGroup.Post("/submit", quizController.Submit)
	quizGroup.Get("/result", quizController.GetResult)

	// Leaderboard routes
	leaderboardController := controllers.NewLeaderboardController(m, agg, logger)
	app.Get("/api/leaderboard", requireAuth, leaderboardController.GetRankings)

	// Admin routes
	admin := app.Group("/api/admin", requireAuth, requireAdmin)
	admin.Put("/leaderboard/:userId", leaderboardController.SetAmount)
	admin.Post("/leaderboard/:userId/add", leaderboardController.AddAmount)
	admin.Delete("/users/:id", userController.DeleteUser)
}
