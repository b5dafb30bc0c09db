package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"zyrix.backend/internal/config"
	"zyrix.backend/internal/infrastructure/email"
	"zyrix.backend/internal/infrastructure/repositories"
	"zyrix.backend/internal/interfaces/http/handlers"
	"zyrix.backend/internal/interfaces/http/middleware"
	"zyrix.backend/internal/usecases"
	"zyrix.backend/pkg/jwt"
	"zyrix.backend/pkg/logger"
	"zyrix.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize session token service
	sessionService := jwt.NewSessionService(cfg.JWT.Secret, cfg.JWT.SessionExpiry)

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize outbound email and the reset-request limiter
	mailer := email.NewSMTPMailer(cfg.SMTP)
	resetLimiter := redis.NewResetLimiter(redis.GetClient(), cfg.Account.ResetMaxRequests, cfg.Account.ResetWindow)

	// Initialize usecases
	accountUsecase := usecases.NewAccountUsecase(accountRepo, resetRepo, uow, mailer, resetLimiter, sessionService, cfg.Account)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountUsecase)

	authMiddleware := middleware.AuthMiddleware(accountUsecase)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r, sqlDB)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		accountHandler: accountHandler,
		authMiddleware: authMiddleware,
	})

	// Start server
	log.Printf("🚀 Zyrix Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
