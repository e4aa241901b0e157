package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"blocklend/internal/adapters/http/middleware"
	"blocklend/internal/adapters/http/routes"
	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/config"
	"blocklend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect storage
	var db *gorm.DB
	if cfg.UseMemoryStorage() {
		log.Println("✅ Using in-memory storage")
	} else {
		db, err = config.ConnectDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer config.CloseDatabase()

		if err := models.AutoMigrate(db); err != nil {
			log.Fatalf("❌ Failed to auto migrate: %v", err)
		}
		log.Println("✅ Database migration completed")
	}

	repos := routes.NewRepos(db, cfg)
	svcs := routes.NewServices(repos, cfg)

	// Seed demo data
	if cfg.Seed {
		seeder := config.NewSeeder(repos.Users, repos.Loans, repos.Stats)
		if err := seeder.Run(context.Background()); err != nil {
			log.Printf("⚠️ Warning: Failed to seed demo data: %v", err)
		}
	}

	// Start cron service (overdue loan check, token cleanup)
	cronService := services.NewCronService(svcs.Loans, repos.RefreshTokens)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BlockLend API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, svcs, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
