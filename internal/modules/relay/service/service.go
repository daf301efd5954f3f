package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/reshetovitsme/global-chat-relay/internal/modules/relay/domain"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/gateway"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"
)

// Registry is the read side of the channel registry used by the broadcaster.
type Registry interface {
	ListAll(ctx context.Context) ([]int64, error)
}

// Options tunes the fan-out.
type Options struct {
	Concurrency int
	SendTimeout time.Duration
	AckEmoji    string
}

// Service copies eligible inbound messages to every other registered channel
type Service struct {
	registry Registry
	gw       gateway.Gateway
	opts     Options
	logger   *slog.Logger
}

// New creates a new relay broadcaster
func New(registry Registry, gw gateway.Gateway, opts Options) *Service {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	if opts.AckEmoji == "" {
		opts.AckEmoji = "✅"
	}
	return &Service{
		registry: registry,
		gw:       gw,
		opts:     opts,
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// HandleMessage applies the eligibility filter, fans the message out to every
// registered channel outside the source guild and, once all deliveries have
// settled, marks the source message. Only a registry read failure is returned.
func (s *Service) HandleMessage(ctx context.Context, in *domain.Inbound) (domain.Outcome, error) {
	if in.Author.IsSelf {
		return domain.Outcome{Skip: domain.SkipReasonSelf}, nil
	}
	if in.GuildID == 0 {
		return domain.Outcome{Skip: domain.SkipReasonPrivate}, nil
	}

	snapshot, err := s.registry.ListAll(ctx)
	if err != nil {
		return domain.Outcome{}, oops.In("relay").With("channel_id", in.ChannelID, "message_id", in.MessageID).Wrap(err)
	}
	if !lo.Contains(snapshot, in.ChannelID) {
		return domain.Outcome{Skip: domain.SkipReasonUnregistered}, nil
	}

	msg := domain.NewRelayMessage(in)
	delivery := s.fanOut(ctx, snapshot, RelayEmbed(msg), in.GuildID)

	ackCtx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()
	ref := gateway.MessageRef{ChannelID: in.ChannelID, MessageID: in.MessageID}
	if err := s.gw.AddReaction(ackCtx, ref, s.opts.AckEmoji); err != nil {
		s.logger.Debug("Failed to add acknowledgment reaction", "channel_id", in.ChannelID, "message_id", in.MessageID, "error", err)
	}

	s.logger.Info("Message relayed",
		"channel_id", in.ChannelID,
		"guild_id", in.GuildID,
		"message_id", in.MessageID,
		"targets", delivery.Targets,
		"attempted", delivery.Attempted,
		"delivered", delivery.Delivered,
	)
	return domain.Outcome{Skip: domain.SkipReasonNone, Delivery: delivery}, nil
}

// BroadcastTo sends payload to targets, normally the registry snapshot the
// caller rendered payload from. Channels belonging to excludeGuildID are
// skipped; pass zero to reach every target.
func (s *Service) BroadcastTo(ctx context.Context, targets []int64, payload *embed.Embed, excludeGuildID int64) domain.Delivery {
	return s.fanOut(ctx, targets, payload, excludeGuildID)
}

// fanOut delivers payload to every target independently. It returns after
// every delivery attempt has either completed or timed out.
func (s *Service) fanOut(ctx context.Context, targets []int64, payload *embed.Embed, excludeGuildID int64) domain.Delivery {
	var attempted, delivered atomic.Int32

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for _, channelID := range targets {
		g.Go(func() error {
			sent, ok := s.deliver(ctx, channelID, payload, excludeGuildID)
			if sent {
				attempted.Add(1)
			}
			if ok {
				delivered.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return domain.Delivery{
		Targets:   len(targets),
		Attempted: int(attempted.Load()),
		Delivered: int(delivered.Load()),
	}
}

func (s *Service) deliver(ctx context.Context, channelID int64, payload *embed.Embed, excludeGuildID int64) (attempted, delivered bool) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()

	info, err := s.gw.Channel(ctx, channelID)
	if err != nil {
		s.logger.Debug("Skipping unresolvable channel", "channel_id", channelID, "error", err)
		return false, false
	}
	if excludeGuildID != 0 && info.GuildID == excludeGuildID {
		return false, false
	}
	if !s.gw.CanSend(ctx, channelID) {
		s.logger.Debug("Skipping channel without send permission", "channel_id", channelID)
		return false, false
	}

	if _, err := s.gw.Send(ctx, channelID, payload); err != nil {
		s.logger.Debug("Delivery failed", "channel_id", channelID, "error", err)
		return true, false
	}
	return true, true
}
