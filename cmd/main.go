package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/trinnode/AfriHealthv2-sub003/internal/relay"
	"github.com/trinnode/AfriHealthv2-sub003/internal/server"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/config"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/container"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/logger"

	internalHandler "github.com/trinnode/AfriHealthv2-sub003/internal/handler"
)

func main() {
	// Initialize basic logger for startup
	startupLogger := logger.New(logger.Config{
		Level:  "info",
		Format: "text",
	})

	startupLogger.Info("Starting AfriHealth consensus relay")

	cfg, err := config.LoadConfig(startupLogger)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	appLogger.Info("Configuration loaded",
		"env", cfg.Env,
		"network", cfg.Hedera.Network,
		"mirror", cfg.Mirror.BaseURL,
		"topics", len(cfg.Topics),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cnt, err := container.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize container", "error", err)
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer func() {
		if err := cnt.Close(); err != nil {
			appLogger.Error("Error closing container", "error", err)
		}
	}()

	// Start one dispatcher subscription per configured channel.
	var subscriptions []*relay.Subscription
	for _, topicName := range cfg.Relay.SubscribeTopics {
		sub, err := cnt.Poller.Subscribe(ctx, topicName, cnt.Dispatch.Handle, relay.SubscribeOptions{
			Subscription: cfg.Relay.Subscription,
		})
		if err != nil {
			appLogger.Error("Failed to subscribe", "topic", topicName, "error", err)
			log.Fatalf("Failed to subscribe to %s: %v", topicName, err)
		}
		subscriptions = append(subscriptions, sub)
	}

	srv := server.New(cfg, internalHandler.NewHandler(cnt.Registry, cnt.Publisher))

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("HTTP server listening", "port", cfg.Server.Port)
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		appLogger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed", "error", err)
		}
	}

	for _, sub := range subscriptions {
		sub.Stop()
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	}

	appLogger.Info("Relay stopped")
}
