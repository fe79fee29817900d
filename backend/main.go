package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"portal/backend/auth"
	"portal/backend/config"
	"portal/backend/leaderboard"
	"portal/backend/middleware"
	"portal/backend/quiz"
	"portal/backend/routes"
	"portal/backend/session"
	"portal/backend/store"
	"portal/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Initialize the backend store
	var st store.Store
	switch cfg.DBDriver {
	case "memory":
		st = store.NewMemoryStore()
	default:
		db, err := store.InitDB(cfg)
		if err != nil {
			log.Fatalf("Error initializing database: %v", err)
		}
		st = store.NewGormStore(db)
	}

	// Session wiring: auth client, role resolver, manager
	authClient := auth.NewClient(st, cfg.JWTSecret, cfg.SessionFile, logger)
	resolver := session.NewRoleResolver(st.Profiles(), cfg.RoleResolveTimeout, logger)
	manager := session.NewManager(authClient, resolver, cfg.SessionRestoreTimeout, logger)
	defer manager.Close()

	// Restore a persisted session before serving; bounded, never hangs
	manager.Initialize(context.Background())

	engine := quiz.NewEngine(st.Attempts(), quiz.DefaultBank(), cfg.PassThreshold, logger)
	aggregator := leaderboard.NewAggregator(st.Earnings(), st.Profiles(), logger)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, manager, st, engine, aggregator, logger)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
