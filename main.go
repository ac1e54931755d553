package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/config"
	"github.com/WenderAlvesSantos/api-aecac/controllers"
	"github.com/WenderAlvesSantos/api-aecac/jobs"
	"github.com/WenderAlvesSantos/api-aecac/logger"
	"github.com/WenderAlvesSantos/api-aecac/metrics"
	"github.com/WenderAlvesSantos/api-aecac/middleware"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
	"github.com/WenderAlvesSantos/api-aecac/routes"
	"github.com/WenderAlvesSantos/api-aecac/security"
	"github.com/WenderAlvesSantos/api-aecac/services"
	"github.com/WenderAlvesSantos/api-aecac/websocket"
)

const version = "1.0.0"

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	client, err := config.ConnectDB(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	db := client.Database(cfg.DBName)
	if err := config.SetupCollections(ctx, db, zlog); err != nil {
		zlog.Fatal("failed to prepare collections", zap.Error(err))
	}

	// Redis only backs the lookup cache; nil disables it
	cache := config.ConnectRedis(cfg, zlog)

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	benefitRepo := repositories.NewBenefitRepository(db)
	redemptionRepo := repositories.NewRedemptionRepository(db)
	trainingRepo := repositories.NewActivityRepository(db, models.KindTraining)
	eventRepo := repositories.NewActivityRepository(db, models.KindEvent)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	content := repositories.NewContentRepository(db)

	// Initialize services
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	mailer := services.NewEmailService(services.NewTransport(cfg, zlog), cfg.EmailFrom, cfg.FrontendURL)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, wsHub, zlog)
	authService := services.NewAuthService(userRepo, companyRepo, notificationService, mailer, tokens, zlog)
	companyService := services.NewCompanyService(companyRepo, mailer, notificationService, zlog)
	lookupService := services.NewLookupService(cache, cfg.LookupCacheTTL, cfg.LookupTimeout, zlog)

	auth := middleware.NewAuth(tokens.Secret(), tokens, services.NewIdentityResolver(userRepo), zlog)

	handlers := routes.Handlers{
		Auth:      controllers.NewAuthController(authService, zlog),
		Users:     controllers.NewUserController(services.NewUserService(userRepo, authService), zlog),
		Companies: controllers.NewCompanyController(companyService, zlog),
		Approvals: controllers.NewApprovalController(companyService, zlog),
		Benefits: controllers.NewBenefitController(
			services.NewBenefitService(benefitRepo, companyRepo, zlog),
			services.NewRedemptionService(benefitRepo, redemptionRepo, userRepo, zlog),
			zlog,
		),
		Trainings: controllers.NewActivityController(
			services.NewActivityService(models.KindTraining, trainingRepo, enrollmentRepo, companyRepo, userRepo, zlog), zlog),
		Events: controllers.NewActivityController(
			services.NewActivityService(models.KindEvent, eventRepo, enrollmentRepo, companyRepo, userRepo, zlog), zlog),
		Notifications: controllers.NewNotificationController(notificationService, zlog),
		Content: controllers.NewContentController(
			services.NewContentService(content.Gallery, content.Board, content.Partners, content.About, content.Settings), zlog),
		Reports: controllers.NewReportController(
			services.NewReportService(companyRepo, benefitRepo, trainingRepo, eventRepo, userRepo), zlog),
		Lookups: controllers.NewLookupController(lookupService, zlog),
		Health: controllers.NewHealthController(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}, version),
	}

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = routes.ErrorHandler(zlog)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()
	go rateLimiter.Cleanup(time.Minute, ctx.Done())

	// Middleware
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(zlog))
	e.Use(metrics.Middleware())
	e.Use(middleware.CORS(cfg.AllowedOrigins()))
	e.Use(middleware.SecurityHeaders())
	e.Use(echoMiddleware.BodyLimit(cfg.BodyLimit))
	e.Use(rateLimiter.RateLimit())

	routes.SetupRoutes(e, handlers, auth, wsHub)

	var scheduler *jobs.Scheduler
	if cfg.ExpirySweepCron != "" {
		sweep := jobs.NewExpirySweep(map[string]jobs.Expirer{
			repositories.CollBenefits:  benefitRepo,
			repositories.CollTrainings: trainingRepo,
			repositories.CollEvents:    eventRepo,
		}, zlog)
		scheduler, err = jobs.NewScheduler(cfg.ExpirySweepCron, sweep, zlog)
		if err != nil {
			zlog.Fatal("invalid EXPIRY_SWEEP_CRON", zap.String("spec", cfg.ExpirySweepCron), zap.Error(err))
		}
		scheduler.Start()
	}

	// Start server
	go func() {
		zlog.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if cache != nil {
		_ = cache.Close()
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		zlog.Error("mongo disconnect failed", zap.Error(err))
	}
}
