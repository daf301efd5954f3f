package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/reshetovitsme/global-chat-relay/internal/di"
	channelService "github.com/reshetovitsme/global-chat-relay/internal/modules/channel/service"
	membershipService "github.com/reshetovitsme/global-chat-relay/internal/modules/membership/service"
	relayService "github.com/reshetovitsme/global-chat-relay/internal/modules/relay/service"
	statusService "github.com/reshetovitsme/global-chat-relay/internal/modules/status/service"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/config"
	discordTransport "github.com/reshetovitsme/global-chat-relay/internal/transport/discord"
	httpServer "github.com/reshetovitsme/global-chat-relay/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

func main() {
	// Config is loaded before the logger so the level can be applied
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging with multiple handlers using slog-multi
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	multiHandler := slogmulti.Fanout(textHandler, jsonHandler)
	logger := slog.New(multiHandler).With("env", cfg.AppEnv.String())
	slog.SetDefault(logger)

	// Setup dependency injection
	injector, err := di.Setup(cfg)
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Get services from DI container
	registry := do.MustInvoke[*channelService.Service](injector)
	registry.SetLogger(logger)
	relay := do.MustInvoke[*relayService.Service](injector)
	relay.SetLogger(logger)
	membership := do.MustInvoke[*membershipService.Service](injector)
	membership.SetLogger(logger)
	reporter := do.MustInvoke[*statusService.Service](injector)
	reporter.SetLogger(logger)
	session := do.MustInvoke[*discordTransport.Session](injector)
	handler := do.MustInvoke[*discordTransport.Handler](injector)
	handler.SetLogger(logger)
	server := do.MustInvoke[*httpServer.Server](injector)

	handler.RegisterHandlers(ctx, session)
	if err := session.Open(); err != nil {
		slog.Error("Failed to connect to Discord", "error", err)
		shutdown(injector)
		os.Exit(1)
	}

	// Start HTTP server
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("HTTP server stopped", "error", err)
			cancel()
		}
	}()

	slog.Info("Application started", "port", cfg.HTTPPort, "storage", cfg.StorageDriver)
	slog.Info("Press Ctrl+C to stop")

	<-ctx.Done()
	slog.Info("Shutting down...")
	shutdown(injector)
}

func shutdown(injector do.Injector) {
	if err := di.Shutdown(injector); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
}
