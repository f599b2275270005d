package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/ridwan-io/wikinote/backend/internal/router"
	"github.com/ridwan-io/wikinote/backend/internal/service"
	"github.com/ridwan-io/wikinote/backend/pkg/config"
	"github.com/ridwan-io/wikinote/backend/pkg/firebase"
	"github.com/ridwan-io/wikinote/backend/pkg/logger"
	"github.com/ridwan-io/wikinote/backend/pkg/push"
	"github.com/ridwan-io/wikinote/backend/pkg/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()
	appLog := logger.New(cfg.Env)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Initialize the push sender. Without Firebase credentials deliveries go
	// to the log instead, so local development needs no Firebase project.
	ctx := context.Background()
	var sender service.Sender
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		appLog.Warn().Err(err).Msg("Firebase unavailable, falling back to log-only delivery")
		sender = push.NewLogSender(appLog)
	} else {
		sender = push.NewFCMSender(firebaseApp.MessagingClient)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	services := router.SetupRoutes(e, db.Postgres, db.Mongo, sender, cfg, appLog)
	defer services.Dispatcher.Stop()
	defer services.Janitor.Stop()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
