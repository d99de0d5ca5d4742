/*
Package main is the entry point for the PeerChat messaging core.

It is responsible for loading configuration, initializing the global logging
system, connecting the directory store, wiring the push dispatcher and the
attachment storage, setting up the HTTP server, and gracefully handling
operating system interrupt signals (SIGINT, SIGTERM).
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

	"peerchat/internal/app/chat"
	"peerchat/internal/app/push"
	"peerchat/internal/app/storage"
	"peerchat/internal/app/store"
	"peerchat/internal/configs"
	"peerchat/internal/handler"
	"peerchat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
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
		Bool("push_enabled", cfg.PushServerKey != "").
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect the directory store and run migrations
	pool, err := store.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	directory := store.NewPostgres(pool)

	// Attachment storage
	storageService, err := storage.NewService(storage.Config{
		BucketName:      cfg.S3BucketName,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize attachment storage")
	}

	// Push dispatcher; runs disabled without a server key
	var dispatcher push.Dispatcher
	if cfg.PushServerKey != "" {
		dispatcher = push.NewFCMDispatcher(cfg.PushEndpoint, cfg.PushServerKey, directory)
	} else {
		logx.Warn("PUSH_SERVER_KEY not set. Push notifications disabled.")
		dispatcher = push.NewDisabled()
	}

	deps := &handler.AppDeps{
		Config:     cfg,
		Store:      directory,
		Registry:   chat.NewRegistry(),
		Resolver:   chat.NewResolver(directory),
		Dispatcher: dispatcher,
		Storage:    storageService,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("PeerChat messaging core starting on http://localhost%s", serverAddr))
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
