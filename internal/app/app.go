package app

import (
	"database/sql"
	"errors"
	"fmt"

	"reviewdeck_backend/internal/auth"
	"reviewdeck_backend/internal/config"
	"reviewdeck_backend/internal/email"
	"reviewdeck_backend/internal/handlers"
	"reviewdeck_backend/internal/logger"
	"reviewdeck_backend/internal/middleware"
	"reviewdeck_backend/internal/models"
	"reviewdeck_backend/internal/repositories"
	"reviewdeck_backend/internal/routes"
	"reviewdeck_backend/internal/services"
	"reviewdeck_backend/internal/validator"
	"reviewdeck_backend/ws"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	cfg := config.GetConfig()
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.Init(cfg.JWT.Secret, cfg.JWT.TTL)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, sqlDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full engine. Tests call it directly with a
// transaction-backed pool.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB) *gin.Engine {
	annotationService := services.NewAnnotationService(repositories.NewAnnotationRepository())
	commentService := services.NewCommentService(repositories.NewCommentRepository())
	elementService := services.NewElementService(repositories.NewElementRepository())

	hub := ws.NewHub(gormDB, annotationService, commentService, elementService)
	go hub.Run()
	wsHandler := ws.NewWebSocketHandler(hub)

	serviceContainer := initializeServices(cfg, hub, annotationService, commentService, elementService)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(
	cfg *config.Config,
	notifier services.Notifier,
	annotationService services.AnnotationService,
	commentService services.CommentService,
	elementService services.ElementService,
) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.SMTPHost == "" || cfg.Server.Env != "production" {
		logger.Warn("SMTP not configured or non-production env. Email notifications are logged only.")
		emailProvider = &MockEmailProvider{}
	} else {
		emailProvider = email.NewSMTPProvider(&email.Config{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    cfg.Email.UseTLS,
		})
	}

	userRepo := repositories.NewUserRepository()
	reviewRepo := repositories.NewReviewRepository()

	authService := services.NewAuthService(userRepo)
	reviewService := services.NewReviewService(reviewRepo, notifier, emailProvider, cfg.Email.AdminEmail)

	return &services.ServiceContainer{
		AuthService:       authService,
		ReviewService:     reviewService,
		AnnotationService: annotationService,
		CommentService:    commentService,
		ElementService:    elementService,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:   handlers.NewAuthHandler(baseHandler, container.AuthService),
		ReviewHandler: handlers.NewReviewHandler(baseHandler, container.ReviewService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstAdmin makes sure a dashboard login exists on a fresh
// database. Skipped when credentials are not configured.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("Admin credentials not configured. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Name:         "Administrator",
		Role:         models.UserRoleAdmin,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
