package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chatforge/chatforge/internal/api"
	"github.com/chatforge/chatforge/internal/auth"
	"github.com/chatforge/chatforge/internal/config"
	"github.com/chatforge/chatforge/internal/core"
	"github.com/chatforge/chatforge/internal/llm"
	"github.com/chatforge/chatforge/internal/store"
)

func main() {
	// Load configuration first so a missing credential fails fast.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	// Construct the storage handle and provider client once and pass
	// them down explicitly; nothing below re-reads the environment.
	dbStore, err := store.Open(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer dbStore.Close()

	provider, err := llm.New(context.Background(), llm.Config{
		Provider:      cfg.LLMProvider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
	})
	if err != nil {
		logger.Fatal("Failed to initialize LLM provider", zap.Error(err))
	}
	defer provider.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	generationService := core.NewGenerationService(provider, logger)
	chatService := core.NewChatService(dbStore, logger)

	apiHandler := api.NewAPIHandler(chatService, generationService, jwtManager, logger)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // provider calls can take time
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("addr", serverAddr), zap.String("provider", cfg.LLMProvider))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Could not listen", zap.String("addr", serverAddr), zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting gracefully")
}

func newLogger(level string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if level == "DEBUG" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
