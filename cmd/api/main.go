package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/interview-trainer-api/internal/config"
	"github.com/noah-isme/interview-trainer-api/internal/database"
	"github.com/noah-isme/interview-trainer-api/internal/handler"
	"github.com/noah-isme/interview-trainer-api/internal/middleware"
	"github.com/noah-isme/interview-trainer-api/internal/repository"
	"github.com/noah-isme/interview-trainer-api/internal/router"
	"github.com/noah-isme/interview-trainer-api/internal/service"
	"github.com/noah-isme/interview-trainer-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if !cfg.IsProduction() {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable; interview events go to redis only")
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	generator, err := ai.NewChatGenerator(ai.Config{
		Provider:      ai.Provider(cfg.AIProvider),
		APIKey:        cfg.AIAPIKey(),
		BaseURL:       cfg.AIBaseURL,
		Model:         cfg.AIModel,
		MaxTokens:     cfg.AIMaxTokens,
		Temperature:   cfg.AITemperature,
		QuestionCount: cfg.InterviewQuestionCount,
		Logger:        logger,
	})
	if err != nil {
		log.Fatalf("failed to create ai client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.SessionPrefix, cfg.SessionTTL)

	events := service.NewEventPublisher(redisClient, natsConn, cfg.EventsChannel, logger)
	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.JWTTTL, logger)
	interviewService := service.NewInterviewService(generator, generator, interviewRepo, events, validate, service.InterviewServiceConfig{
		TimeLimit: cfg.InterviewTimeLimit,
	}, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	interviewHandler := handler.NewInterviewHandler(interviewService, logger)
	historyHandler := handler.NewHistoryHandler(interviewService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: !cfg.IsProduction()})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:      authHandler,
		InterviewHandler: interviewHandler,
		HistoryHandler:   historyHandler,
		SessionMiddleware: middleware.Session(sessionRepo, middleware.SessionConfig{
			CookieName: cfg.SessionCookieName,
			Secure:     cfg.SessionCookieSecure,
			TTL:        cfg.SessionTTL,
			Logger:     logger,
		}),
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret),
		AuthLimiter:   middleware.RateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Str("model", generator.Model()).Msg("interview trainer started")
	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
