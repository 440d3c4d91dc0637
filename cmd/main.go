/*
Package main is the entry point for the Batepapo chat server.

It is responsible for loading configuration, initializing the global logging
system, wiring the participant registry and message log to their backing
store, starting the session reaper and the HTTP server, and gracefully
handling operating system interrupt signals (SIGINT, SIGTERM).
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"batepapo/internal/app/chat"
	"batepapo/internal/app/db"
	"batepapo/internal/app/store"
	"batepapo/internal/configs"
	"batepapo/internal/handler"
	"batepapo/internal/pkg/clockx"
	"batepapo/internal/pkg/logx"
)

func main() {
	// Load .env if present; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("reap_interval", cfg.ReapInterval).
		Dur("stale_threshold", cfg.StaleThreshold).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Select the backing store: PostgreSQL when a DSN is configured, the
	// in-memory store otherwise.
	var participants chat.ParticipantStore
	var messages chat.MessageStore

	if cfg.DatabaseDSN != "" {
		pool, err := db.NewPool(cfg.DatabaseDSN)
		if err != nil {
			logx.Fatal(err, "Failed to connect to database")
		}
		defer pool.Close()

		participants = store.NewPostgresParticipants(pool)
		messages = store.NewPostgresMessages(pool)
		logx.Info("Using PostgreSQL store.")
	} else {
		participants = store.NewMemoryParticipants()
		messages = store.NewMemoryMessages()
		logx.Info("Using in-memory store.")
	}

	// Wire the chat core.
	clock := clockx.System{}
	feed := chat.NewFeed()
	registry := chat.NewRegistry(participants, clock)
	messageLog := chat.NewLog(messages, registry, clock, feed)
	service := chat.NewService(registry, messageLog, feed)

	reaper := chat.NewReaper(registry, messageLog, clock, cfg.ReapInterval, cfg.StaleThreshold)
	go reaper.Run(ctx)

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Service: service,
		Config:  cfg,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Batepapo Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
