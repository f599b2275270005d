package router

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/ridwan-io/wikinote/backend/internal/handlers"
	"github.com/ridwan-io/wikinote/backend/internal/middleware"
	"github.com/ridwan-io/wikinote/backend/internal/models"
	"github.com/ridwan-io/wikinote/backend/internal/repositories"
	"github.com/ridwan-io/wikinote/backend/internal/service"
	"github.com/ridwan-io/wikinote/backend/pkg/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Services holds the background components the server must stop on shutdown
type Services struct {
	Dispatcher *service.Dispatcher
	Janitor    *service.Janitor
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, sender service.Sender, cfg *config.Config, appLog zerolog.Logger) *Services {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Page{},
		&models.Attachment{},
		&models.Comment{},
		&models.CommentMention{},
		&models.Watch{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	categoryRepo := repositories.NewPostgresCategoryRepository(pgdb)
	pageRepo := repositories.NewPostgresPageRepository(pgdb)
	attachmentRepo := repositories.NewPostgresAttachmentRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	mentionRepo := repositories.NewPostgresMentionRepository(pgdb)
	watchRepo := repositories.NewPostgresWatchRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	revisionRepo := repositories.NewMongoRevisionRepository(mgClient.Database("wikinote"))

	// --- Initialize Services ---
	dispatcher := service.NewDispatcher(notificationRepo, userRepo, sender, cfg.DeliveryWorkers, cfg.DeliveryTimeout, appLog)
	renderer := service.NewRenderer(pageRepo, categoryRepo, commentRepo, userRepo, cfg.SiteURL)
	fanout := service.NewFanoutProcessor(watchRepo, notificationRepo, pageRepo, mentionRepo, renderer, dispatcher, appLog)
	watchService := service.NewWatchService(watchRepo, pageRepo, categoryRepo, appLog)
	mentionService := service.NewMentionService(mentionRepo, userRepo, appLog)

	janitor := service.NewJanitor(notificationRepo, cfg.NotificationRetention, time.Hour, appLog)
	janitor.Start()

	// --- Unprotected routes for authentication ---
	userHandler := handlers.NewUserHandler(userRepo, cfg.JWTSecret)
	authGroup := e.Group("/api/v1/auth")
	userHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(middleware.EventRecorderMiddleware(fanout))

	userHandler.RegisterProfileRoutes(api)

	pageHandler := handlers.NewPageHandler(pageRepo, categoryRepo, revisionRepo)
	pageHandler.RegisterPageRoutes(api)

	categoryHandler := handlers.NewCategoryHandler(categoryRepo, pageRepo)
	categoryHandler.RegisterCategoryRoutes(api)

	attachmentHandler := handlers.NewAttachmentHandler(attachmentRepo, pageRepo)
	attachmentHandler.RegisterAttachmentRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, pageRepo, attachmentRepo, mentionService)
	commentHandler.RegisterCommentRoutes(api)

	watchHandler := handlers.NewWatchHandler(watchService)
	watchHandler.RegisterWatchRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	appLog.Info().Msg("all routes configured")

	return &Services{Dispatcher: dispatcher, Janitor: janitor}
}
