package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindsettler-api/config"
	"mindsettler-api/internal/chatbot"
	deliveryHttp "mindsettler-api/internal/delivery/http"
	"mindsettler-api/internal/delivery/http/handler"
	"mindsettler-api/internal/delivery/http/middleware"
	"mindsettler-api/internal/infrastructure/cache"
	"mindsettler-api/internal/infrastructure/database"
	"mindsettler-api/internal/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/internal/usecase"
	"mindsettler-api/pkg/jwt"
	"mindsettler-api/pkg/validator"

	playground "github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Apply schema migrations
	if err := database.RunMigrations(db, cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logrus.Info("Database migrations applied")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validators
	customValidator := validator.NewValidator()
	validate := playground.New()

	// Initialize repositories
	bookingRepo := repository.NewBookingRepository()
	userRepo := repository.NewUserRepository()
	staffRepo := repository.NewStaffRepository()
	orgRepo := repository.NewOrganizationRepository()
	staffAccountRepo := repository.NewStaffAccountRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	var notifier service.NotificationDispatcher
	if cfg.Mail.Enabled {
		notifier = service.NewSMTPDispatcher(cfg.Mail, cfg.App.FrontendURL, log)
	} else {
		notifier = service.NewLogDispatcher(log)
	}
	lifecycle := usecase.NewLifecycleService(log, bookingRepo, auditService, cfg.Booking.CancellationCutoff)
	matcher := chatbot.NewMatcher(chatbot.DefaultIntents(), chatbot.DefaultThreshold, chatbot.DefaultFallback)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, validate, staffAccountRepo, jwtService, redisClient, auditService)
	intakeUsecase := usecase.NewBookingIntakeUsecase(db, log, validate, bookingRepo, userRepo, lifecycle, notifier, auditService, cfg.Booking.VerificationResendInterval)
	verifyUsecase := usecase.NewVerificationUsecase(db, log, bookingRepo, userRepo, lifecycle, auditService)
	queryUsecase := usecase.NewBookingQueryUsecase(db, log, bookingRepo, userRepo)
	cancellationUsecase := usecase.NewCancellationUsecase(db, log, validate, bookingRepo, lifecycle, notifier, cfg.Booking.CancellationCutoff)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, validate, bookingRepo, lifecycle, notifier)
	adminBookingUsecase := usecase.NewAdminBookingUsecase(db, log, validate, bookingRepo, staffRepo, orgRepo, lifecycle, notifier)
	staffUsecase := usecase.NewStaffUsecase(db, log, validate, staffRepo, orgRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	chatbotUsecase := usecase.NewChatbotUsecase(log, validate, matcher)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, jwtService, customValidator)
	bookingHandler := handler.NewBookingHandler(intakeUsecase, verifyUsecase, queryUsecase, customValidator)
	cancellationHandler := handler.NewCancellationHandler(cancellationUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase, customValidator)
	adminBookingHandler := handler.NewAdminBookingHandler(adminBookingUsecase, customValidator)
	staffHandler := handler.NewStaffHandler(staffUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	chatbotHandler := handler.NewChatbotHandler(chatbotUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		bookingHandler,
		cancellationHandler,
		paymentHandler,
		adminBookingHandler,
		staffHandler,
		auditLogHandler,
		chatbotHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
