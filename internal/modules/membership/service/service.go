package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reshetovitsme/global-chat-relay/internal/modules/membership/domain"
	relayDomain "github.com/reshetovitsme/global-chat-relay/internal/modules/relay/domain"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/errors"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/gateway"
	"github.com/samber/oops"
)

// Registry is the channel registry as seen by the command handler.
type Registry interface {
	Register(ctx context.Context, channelID int64) error
	Unregister(ctx context.Context, channelID int64) error
	ListAll(ctx context.Context) ([]int64, error)
}

// Broadcaster delivers a notice to a snapshot of registered channels.
type Broadcaster interface {
	BroadcastTo(ctx context.Context, targets []int64, payload *embed.Embed, excludeGuildID int64) relayDomain.Delivery
}

// Gateway is the subset of platform operations the command handler needs.
type Gateway interface {
	gateway.Directory
	gateway.Presence
}

// Respond sends the private acknowledgment to the invoker.
type Respond func(ctx context.Context, reply domain.Reply) error

// Service handles the start, stop and list commands
type Service struct {
	registry    Registry
	broadcaster Broadcaster
	gw          Gateway
	timeout     time.Duration
	logger      *slog.Logger
}

// New creates a new membership command handler
func New(registry Registry, broadcaster Broadcaster, gw Gateway, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		registry:    registry,
		broadcaster: broadcaster,
		gw:          gw,
		timeout:     timeout,
		logger:      slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start registers the invoking channel, acknowledges the invoker and then
// announces the new member to every registered channel, itself included.
// Only failures before the acknowledgment are returned.
func (s *Service) Start(ctx context.Context, inv domain.Invocation, respond Respond) error {
	if inv.GuildID == 0 {
		return errors.ErrNotInGuild
	}
	if err := s.registry.Register(ctx, inv.ChannelID); err != nil {
		return oops.In("membership").With("command", "start", "channel_id", inv.ChannelID).Wrap(err)
	}

	if err := respond(ctx, domain.Reply{Content: "Global chat started!"}); err != nil {
		s.logger.Warn("Failed to acknowledge start", "channel_id", inv.ChannelID, "error", err)
	}

	snapshot, err := s.registry.ListAll(ctx)
	if err != nil {
		s.logger.Warn("Failed to read registry after start", "channel_id", inv.ChannelID, "error", err)
		return nil
	}

	delivery := s.broadcaster.BroadcastTo(ctx, snapshot, JoinedEmbed(inv.GuildName), 0)
	s.logger.Info("Join notice broadcast", "channel_id", inv.ChannelID, "guild_id", inv.GuildID, "delivered", delivery.Delivered)

	s.setPresence(ctx, len(snapshot))
	return nil
}

// Stop unregisters the invoking channel, acknowledges the invoker and then
// tells the remaining channels, with the updated count.
func (s *Service) Stop(ctx context.Context, inv domain.Invocation, respond Respond) error {
	if inv.GuildID == 0 {
		return errors.ErrNotInGuild
	}
	if err := s.registry.Unregister(ctx, inv.ChannelID); err != nil {
		return oops.In("membership").With("command", "stop", "channel_id", inv.ChannelID).Wrap(err)
	}

	if err := respond(ctx, domain.Reply{Content: "Global chat stopped."}); err != nil {
		s.logger.Warn("Failed to acknowledge stop", "channel_id", inv.ChannelID, "error", err)
	}

	remaining, err := s.registry.ListAll(ctx)
	if err != nil {
		s.logger.Warn("Failed to read registry after stop", "channel_id", inv.ChannelID, "error", err)
		return nil
	}

	delivery := s.broadcaster.BroadcastTo(ctx, remaining, LeftEmbed(inv.GuildName, len(remaining)), 0)
	s.logger.Info("Leave notice broadcast", "channel_id", inv.ChannelID, "guild_id", inv.GuildID, "delivered", delivery.Delivered)

	s.setPresence(ctx, len(remaining))
	return nil
}

// List reports every registered channel's guild. Channels that cannot be
// resolved are counted but not listed.
func (s *Service) List(ctx context.Context) (domain.ListResult, error) {
	ids, err := s.registry.ListAll(ctx)
	if err != nil {
		return domain.ListResult{}, oops.In("membership").With("command", "list").Wrap(err)
	}

	result := domain.ListResult{Count: len(ids), Servers: make([]domain.ServerEntry, 0, len(ids))}
	for _, id := range ids {
		info, err := s.lookup(ctx, id)
		if err != nil {
			s.logger.Debug("Skipping unresolvable channel in list", "channel_id", id, "error", err)
			continue
		}
		result.Servers = append(result.Servers, domain.ServerEntry{
			ChannelID:   id,
			GuildName:   info.GuildName,
			MemberCount: info.MemberCount,
		})
	}
	return result, nil
}

// AnnounceOnline tells every registered channel the bot has connected and
// publishes the connection count as the bot's activity.
func (s *Service) AnnounceOnline(ctx context.Context) error {
	ids, err := s.registry.ListAll(ctx)
	if err != nil {
		return oops.In("membership").With("context", "announce online").Wrap(err)
	}

	delivery := s.broadcaster.BroadcastTo(ctx, ids, OnlineEmbed(len(ids)), 0)
	s.logger.Info("Online notice broadcast", "targets", delivery.Targets, "delivered", delivery.Delivered)
	s.setPresence(ctx, len(ids))
	return nil
}

func (s *Service) lookup(ctx context.Context, channelID int64) (gateway.ChannelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.gw.Channel(ctx, channelID)
}

func (s *Service) setPresence(ctx context.Context, count int) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.gw.SetActivity(ctx, PresenceText(count)); err != nil {
		s.logger.Debug("Failed to update presence", "error", err)
	}
}

// PresenceText is the activity shown under the bot's name
func PresenceText(count int) string {
	return fmt.Sprintf("Connected to %d channels", count)
}
