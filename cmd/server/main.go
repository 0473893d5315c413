// Package main initializes and starts the Saathi API server, setting up
// configuration, logging, the database connection, repositories, services,
// and HTTP handlers.
package main

import (
	"cmp"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/saathi/saathi-go/internal/config"
	"github.com/saathi/saathi-go/internal/db"
	"github.com/saathi/saathi-go/internal/llm"
	"github.com/saathi/saathi-go/internal/logger"
	"github.com/saathi/saathi-go/internal/quota"
	"github.com/saathi/saathi-go/internal/repository"
	"github.com/saathi/saathi-go/internal/server/handler/http"
	"github.com/saathi/saathi-go/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// jwtExpiry bounds how long a restarted client can restore its session
// without signing in again.
const jwtExpiry = 30 * 24 * time.Hour

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	chatRepo := repository.NewPostgresChatRepository(postgresDB)
	moodRepo := repository.NewPostgresMoodRepository(postgresDB)
	subRepo := repository.NewPostgresSubscriptionRepository(postgresDB)
	settingsRepo := repository.NewPostgresSettingsRepository(postgresDB)

	// Initialize business-logic services.
	gateway := llm.NewClient(options.GroqURL, options.GroqTimeout, zapLogger)
	authService := service.NewAuthService(userRepo, settingsRepo, subRepo, options.JWTSecret, jwtExpiry)
	sessionService := service.NewSessionService(
		chatRepo,
		settingsRepo,
		subRepo,
		gateway,
		quota.NewPolicy(nil),
		nil,
		options.GroqTimeout,
		zapLogger,
	)
	moodService := service.NewMoodService(moodRepo, nil)
	subService := service.NewSubscriptionService(subRepo, nil)

	// Create HTTP handlers for the API endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	chatHandler := &http.ChatHandler{ChatService: sessionService}
	moodHandler := &http.MoodHandler{MoodService: moodService}
	subHandler := &http.SubscriptionHandler{SubscriptionService: subService}
	credHandler := &http.CredentialHandler{CredentialService: sessionService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, chatHandler, moodHandler, subHandler, credHandler, zapLogger, options.JWTSecret)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
