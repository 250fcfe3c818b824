package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/call"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/call/wstransport"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/config"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/feedback"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/handlers"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/interviews"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/jobs"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/llm"
	_ "github.com/AbhiRanjan33/mock-interview-platform/internal/llm/gemini"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/metrics"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/middleware"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/prompts"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/repositories"
	mongorepo "github.com/AbhiRanjan33/mock-interview-platform/internal/repositories/mongo"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/routers"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/utils"
)

// Helper function for environment variables
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// initUserDatabase initializes the PostgreSQL database connection
func initUserDatabase() (*gorm.DB, error) {
	host := getEnv("POSTGRES_HOST", "localhost")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "postgres")
	dbname := getEnv("POSTGRES_DB", "postgres")
	port := getEnv("POSTGRES_PORT", "5432")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func registerRoutes(router *chi.Mux, authHandler *handlers.AuthHandler, interviewHandler *handlers.InterviewHandler, feedbackHandler *handlers.FeedbackHandler, callHandler *handlers.CallHandler, healthHandler *handlers.HealthHandler, requireAuth func(http.Handler) http.Handler) {
	routers.HealthRoutes(router, healthHandler)
	routers.AuthRoutes(router, authHandler, requireAuth)
	routers.InterviewRoutes(router, interviewHandler, feedbackHandler, requireAuth)
	routers.CallRoutes(router, callHandler, requireAuth)
}

func main() {
	_ = godotenv.Load()

	utils.InitLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded", zap.String("provider", cfg.Provider))

	// prompt manager
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// AI provider based on configuration
	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	// user store (Postgres)
	userDB, err := initUserDatabase()
	if err != nil {
		logger.Fatal("Failed to initialize user database", zap.Error(err))
	}
	userRepo := &repositories.UserRepository{DB: userDB}

	// document store (MongoDB)
	mongoClient, err := mongorepo.NewClient(context.Background(), cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal("Failed to connect to document store", zap.Error(err))
	}
	defer mongoClient.Close(context.Background())

	interviewRepo, err := mongorepo.NewInterviewRepo(mongoClient)
	if err != nil {
		logger.Fatal("Failed to initialize interview repository", zap.Error(err))
	}
	feedbackRepo, err := mongorepo.NewFeedbackRepo(mongoClient)
	if err != nil {
		logger.Fatal("Failed to initialize feedback repository", zap.Error(err))
	}

	// redis backs the cross-instance feedback generation lock
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	interviewService := interviews.NewService(interviewRepo, aiProvider, promptManager, logger)
	feedbackGenerator := feedback.NewGenerator(interviewRepo, feedbackRepo, aiProvider, promptManager, rdb, logger)

	// each call session dials its own gateway connection
	dial := func(ctx context.Context) (call.Transport, call.Subscription, error) {
		client, err := wstransport.Dial(ctx, cfg.AgentGateway, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}
	callManager := call.NewManager(dial, interviewService, feedbackGenerator, getEnv("AGENT_WORKFLOW_ID", ""), logger)

	requireAuth := middleware.RequireAuth(userRepo, cfg.JWTSecret)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	interviewHandler := handlers.NewInterviewHandler(interviewService, interviewRepo, feedbackRepo, logger)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackGenerator, feedbackRepo, logger)
	callHandler := handlers.NewCallHandler(callManager, interviewRepo, logger)
	healthHandler := handlers.NewHealthHandler(aiProvider, mongoClient)

	// stale-interview reaper
	reaper := jobs.NewInterviewReaper(interviewRepo, &jobs.ReaperConfig{
		Schedule: cfg.ReaperCron,
		Enabled:  cfg.ReaperEnabled,
	}, logger)
	if err := reaper.Start(); err != nil {
		logger.Error("Failed to start interview reaper", zap.Error(err))
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{getEnv("FRONTEND_ORIGIN", "http://localhost:3000")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Logger, chimiddleware.Recoverer, chimiddleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	registerRoutes(router, authHandler, interviewHandler, feedbackHandler, callHandler, healthHandler, requireAuth)

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Prepwise server starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Prepwise server shutting down...")

	reaper.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Prepwise server exited")
}
