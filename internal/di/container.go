package di

import (
	"context"
	"errors"
	"log/slog"

	channelRepo "github.com/reshetovitsme/global-chat-relay/internal/modules/channel/repository"
	channelService "github.com/reshetovitsme/global-chat-relay/internal/modules/channel/service"
	membershipService "github.com/reshetovitsme/global-chat-relay/internal/modules/membership/service"
	relayService "github.com/reshetovitsme/global-chat-relay/internal/modules/relay/service"
	statusService "github.com/reshetovitsme/global-chat-relay/internal/modules/status/service"
	systemService "github.com/reshetovitsme/global-chat-relay/internal/modules/system/service"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/config"
	discordTransport "github.com/reshetovitsme/global-chat-relay/internal/transport/discord"
	httpServer "github.com/reshetovitsme/global-chat-relay/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container around a loaded config
func Setup(cfg *config.Config) (do.Injector, error) {
	if cfg == nil {
		return nil, oops.Errorf("config is required")
	}
	injector := do.New()

	// Register Config
	do.ProvideValue(injector, cfg)

	// Register Channel Repository
	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)

		var (
			repo channelRepo.Repository
			err  error
		)
		switch cfg.StorageDriver {
		case config.StorageDriverFile:
			repo, err = channelRepo.NewFileStorage(cfg.StoragePath)
		default:
			repo, err = channelRepo.NewSQLiteStorage(cfg.DatabasePath())
		}
		if err != nil {
			return nil, oops.With("driver", cfg.StorageDriver, "storage_path", cfg.StoragePath, "context", "failed to initialize channel repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Channel Service
	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		repo := do.MustInvoke[channelRepo.Repository](i)
		return channelService.New(repo), nil
	})

	// Register Discord Session
	do.Provide(injector, func(i do.Injector) (*discordTransport.Session, error) {
		cfg := do.MustInvoke[*config.Config](i)
		session, err := discordTransport.NewSession(cfg.DiscordBotToken)
		if err != nil {
			return nil, oops.With("context", "failed to create discord session").Wrap(err)
		}
		return session, nil
	})

	// Register Relay Service
	do.Provide(injector, func(i do.Injector) (*relayService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		registry := do.MustInvoke[*channelService.Service](i)
		session := do.MustInvoke[*discordTransport.Session](i)
		return relayService.New(registry, session, relayService.Options{
			Concurrency: cfg.FanoutConcurrency,
			SendTimeout: cfg.SendDeadline(),
			AckEmoji:    cfg.AckEmoji,
		}), nil
	})

	// Register Status Reporter
	do.Provide(injector, func(i do.Injector) (*statusService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		registry := do.MustInvoke[*channelService.Service](i)
		session := do.MustInvoke[*discordTransport.Session](i)
		return statusService.New(registry, session, statusService.Options{
			ChannelID:   cfg.StatusChannelID,
			Interval:    cfg.StatusEvery(),
			TickTimeout: cfg.SendDeadline(),
		}), nil
	})

	// Register Membership Service
	do.Provide(injector, func(i do.Injector) (*membershipService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		registry := do.MustInvoke[*channelService.Service](i)
		relay := do.MustInvoke[*relayService.Service](i)
		session := do.MustInvoke[*discordTransport.Session](i)
		return membershipService.New(registry, relay, session, cfg.SendDeadline()), nil
	})

	// Register Host Diagnostics
	do.Provide(injector, func(i do.Injector) (*systemService.Service, error) {
		return systemService.New(), nil
	})

	// Register Event Dispatcher
	do.Provide(injector, func(i do.Injector) (*discordTransport.Dispatcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dispatcher := discordTransport.NewDispatcher(cfg.EventWorkers)
		dispatcher.SetLogger(slog.Default())
		return dispatcher, nil
	})

	// Register Discord Handler
	do.Provide(injector, func(i do.Injector) (*discordTransport.Handler, error) {
		return discordTransport.New(
			do.MustInvoke[*discordTransport.Session](i),
			do.MustInvoke[*relayService.Service](i),
			do.MustInvoke[*membershipService.Service](i),
			do.MustInvoke[*systemService.Service](i),
			do.MustInvoke[*statusService.Service](i),
			do.MustInvoke[*discordTransport.Dispatcher](i),
		), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		reporter := do.MustInvoke[*statusService.Service](i)
		server := httpServer.New(cfg, reporter)
		server.SetLogger(slog.Default())
		return server, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services. The gateway is closed first so
// no new events arrive, in-flight handlers are drained, the final status is
// published, and storage is closed last.
func Shutdown(injector do.Injector) error {
	timeout := config.DefaultShutdownTimeout
	if cfg, err := do.Invoke[*config.Config](injector); err == nil && cfg != nil {
		timeout = cfg.ShutdownDeadline()
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error

	if session, err := do.Invoke[*discordTransport.Session](injector); err == nil && session != nil {
		if err := session.Close(); err != nil {
			errs = append(errs, oops.With("context", "failed to close discord session").Wrap(err))
		}
	}

	if dispatcher, err := do.Invoke[*discordTransport.Dispatcher](injector); err == nil && dispatcher != nil {
		if err := dispatcher.Drain(ctx); err != nil {
			errs = append(errs, oops.With("context", "failed to drain event handlers").Wrap(err))
		}
	}

	if reporter, err := do.Invoke[*statusService.Service](injector); err == nil && reporter != nil {
		if err := reporter.Shutdown(ctx); err != nil {
			errs = append(errs, oops.With("context", "failed to publish final status").Wrap(err))
		}
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, oops.With("context", "failed to stop http server").Wrap(err))
		}
	}

	if registry, err := do.Invoke[*channelService.Service](injector); err == nil && registry != nil {
		if err := registry.Close(); err != nil {
			errs = append(errs, oops.With("context", "failed to close channel registry").Wrap(err))
		}
	}

	return errors.Join(errs...)
}
