package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reshetovitsme/global-chat-relay/internal/modules/status/domain"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/gateway"
	"github.com/samber/oops"
)

// Registry is the read side of the channel registry used by the reporter.
type Registry interface {
	ListAll(ctx context.Context) ([]int64, error)
}

// Gateway is the subset of platform operations the reporter needs.
type Gateway interface {
	gateway.Messenger
	gateway.Directory
}

// Options configures the reporter.
type Options struct {
	ChannelID   int64
	Interval    time.Duration
	TickTimeout time.Duration
}

// Service keeps a single status message up to date. It owns the running flag
// and the status message handle; nothing else writes either.
type Service struct {
	registry Registry
	gw       Gateway
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	running atomic.Bool
	busy    atomic.Bool
	wg      sync.WaitGroup

	// tickMu serializes publishes. mu guards state and ref only and is never
	// held across a platform call.
	tickMu sync.Mutex
	mu     sync.Mutex
	state domain.ReporterState
	ref   gateway.MessageRef
}

// New creates a new status reporter
func New(registry Registry, gw Gateway, opts Options) *Service {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.TickTimeout <= 0 || opts.TickTimeout > opts.Interval {
		opts.TickTimeout = opts.Interval
	}
	return &Service{
		registry: registry,
		gw:       gw,
		opts:     opts,
		logger:   slog.Default(),
		now:      time.Now,
		state:    domain.ReporterStateUninitialized,
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Run marks the bot as running and publishes a status on start and on every
// interval until ctx is done. A tick that fires while the previous one is
// still publishing is dropped.
func (s *Service) Run(ctx context.Context) {
	s.SetRunning(true)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	s.trigger(ctx)
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

func (s *Service) trigger(ctx context.Context) {
	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Debug("Status tick dropped, previous tick still running")
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.busy.Store(false)

		tickCtx, cancel := context.WithTimeout(ctx, s.opts.TickTimeout)
		defer cancel()
		if err := s.Tick(tickCtx); err != nil {
			s.logger.Warn("Status tick failed", "channel_id", s.opts.ChannelID, "error", err)
		}
	}()
}

// Tick renders a fresh snapshot and creates or edits the status message. An
// unresolvable status channel skips the tick without changing state.
func (s *Service) Tick(ctx context.Context) error {
	if _, err := s.gw.Channel(ctx, s.opts.ChannelID); err != nil {
		s.logger.Debug("Status channel not resolvable, skipping tick", "channel_id", s.opts.ChannelID, "error", err)
		return nil
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	payload := StatusEmbed(snapshot)

	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	state, ref := s.State()
	if state == domain.ReporterStateTracking {
		err := s.gw.Edit(ctx, ref, payload)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gateway.ErrNotFound) {
			return oops.In("status-reporter").With("message_id", ref.MessageID).Wrap(err)
		}
		s.logger.Info("Status message disappeared, creating a new one", "message_id", ref.MessageID)
		s.commit(domain.ReporterStateUninitialized, gateway.MessageRef{})
	}

	created, err := s.gw.Send(ctx, s.opts.ChannelID, payload)
	if err != nil {
		return oops.In("status-reporter").With("channel_id", s.opts.ChannelID).Wrap(err)
	}
	s.commit(domain.ReporterStateTracking, created)
	s.logger.Info("Status message created", "channel_id", created.ChannelID, "message_id", created.MessageID)
	return nil
}

func (s *Service) commit(state domain.ReporterState, ref gateway.MessageRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.ref = ref
}

// Snapshot recomputes the aggregate state from the registry.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	ids, err := s.registry.ListAll(ctx)
	if err != nil {
		return domain.Snapshot{}, oops.In("status-reporter").With("context", "failed to read registry").Wrap(err)
	}
	return domain.Snapshot{
		RegisteredChannels: len(ids),
		Running:            s.Running(),
		UpdatedAt:          s.now(),
	}, nil
}

// Running reports the process-wide running flag.
func (s *Service) Running() bool {
	return s.running.Load()
}

// SetRunning updates the running flag; the next tick publishes it.
func (s *Service) SetRunning(running bool) {
	s.running.Store(running)
}

// State returns the reporter state and the tracked message, if any.
func (s *Service) State() (domain.ReporterState, gateway.MessageRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.ref
}

// Shutdown clears the running flag, waits for an in-flight tick and publishes
// one final snapshot.
func (s *Service) Shutdown(ctx context.Context) error {
	s.SetRunning(false)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return s.Tick(ctx)
}

// StatusEmbed renders a snapshot
func StatusEmbed(snap domain.Snapshot) *embed.Embed {
	e := &embed.Embed{
		Title:       "Bot status",
		Description: "Running normally",
		Color:       embed.ColorOnline,
		Footer: &embed.Footer{
			Text: fmt.Sprintf("Last updated: %s", snap.UpdatedAt.Format(time.DateTime)),
		},
	}
	if !snap.Running {
		e.Description = "Stopped"
		e.Color = embed.ColorOffline
	}
	return e.AddField("Connections", strconv.Itoa(snap.RegisteredChannels), false)
}
