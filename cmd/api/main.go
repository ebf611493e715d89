// Package main is the entry point for the bridge server.
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

	"github.com/cofounderbay/networking-core/internal/catalog"
	"github.com/cofounderbay/networking-core/internal/config"
	"github.com/cofounderbay/networking-core/internal/handler"
	"github.com/cofounderbay/networking-core/internal/middleware"
	"github.com/cofounderbay/networking-core/internal/model"
	natsclient "github.com/cofounderbay/networking-core/internal/nats"
	"github.com/cofounderbay/networking-core/internal/service"
	"github.com/cofounderbay/networking-core/pkg/logger"
	"github.com/cofounderbay/networking-core/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	log.Info("starting bridge server", zap.String("env", cfg.Environment))

	// Initialize tracing if enabled
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(context.Background(), tp)
		}
	}

	// Workspaces are loaded from the seed directory, or start empty.
	directory := func(actor model.ActorID) *catalog.Directory {
		if cfg.SeedEnabled {
			return catalog.Seed(time.Now())
		}
		return catalog.Empty(model.OwnProfile{Name: actor.String()})
	}
	registry := service.NewRegistry(directory, log.Named("registry"))

	// Connect to NATS
	var (
		publisher    service.EventPublisher
		connectivity handler.Connectivity
	)
	if cfg.NATS.Enabled {
		natsClient, err := natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATS.URL,
			Name:     logger.Service,
			CAFile:   cfg.NATS.CAFile,
			CertFile: cfg.NATS.CertFile,
			KeyFile:  cfg.NATS.KeyFile,
			Token:    cfg.NATS.Token,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()

		// Ensure JetStream stream exists
		streamManager := natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			log.Fatal("failed to ensure stream", zap.Error(err))
		}

		dispatcher := service.NewDispatcher(registry, log.Named("dispatcher"))
		consumer, err := streamManager.Subscribe(ctx, cfg.NATS.Consumer, dispatcher.Apply)
		if err != nil {
			log.Fatal("failed to subscribe to inbound events", zap.Error(err))
		}
		defer consumer.Stop()

		publisher = streamManager
		connectivity = natsClient
	} else {
		log.Warn("NATS disabled, mutations are not published")
	}

	if cfg.IsDevelopment() {
		dev := model.ActorID(cfg.Auth.DevActor)
		if token, err := middleware.IssueToken(cfg.Auth.JWTSecret, dev, []string{middleware.ScopeProfileWrite}, cfg.Auth.TokenTTL); err == nil {
			log.Info("development token", logger.ActorField(dev.String()), zap.String("token", token))
		}
	}

	// Initialize services
	router := handler.NewRouter(handler.RouterConfig{
		JWTSecret:          cfg.Auth.JWTSecret,
		RateLimitRequests:  cfg.RateLimit.Requests,
		RateLimitWindow:    cfg.RateLimit.Window,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, handler.Services{
		Discovery:    service.NewDiscoveryService(registry, log),
		Network:      service.NewNetworkService(registry, publisher, log),
		Messaging:    service.NewMessagingService(registry, publisher, log),
		Opportunity:  service.NewOpportunityService(registry, publisher, log),
		Profile:      service.NewProfileService(registry, publisher, log),
		Connectivity: connectivity,
	}, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
