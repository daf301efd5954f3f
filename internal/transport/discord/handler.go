package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
	membershipDomain "github.com/reshetovitsme/global-chat-relay/internal/modules/membership/domain"
	membershipService "github.com/reshetovitsme/global-chat-relay/internal/modules/membership/service"
	relayService "github.com/reshetovitsme/global-chat-relay/internal/modules/relay/service"
	statusService "github.com/reshetovitsme/global-chat-relay/internal/modules/status/service"
	systemService "github.com/reshetovitsme/global-chat-relay/internal/modules/system/service"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
	sharedErrors "github.com/reshetovitsme/global-chat-relay/internal/shared/errors"
)

// Handler routes gateway events to the relay, membership and status services
type Handler struct {
	relay      *relayService.Service
	membership *membershipService.Service
	system     *systemService.Service
	reporter   *statusService.Service
	dispatcher *Dispatcher
	logger     *slog.Logger

	ctx       context.Context
	readyOnce sync.Once

	selfID    func() string
	guildMeta func(guildID string) (name, iconURL string)
	respondFn func(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	syncFn    func(ctx context.Context) (int, error)
}

// New creates a new Discord event handler
func New(
	session *Session,
	relay *relayService.Service,
	membership *membershipService.Service,
	system *systemService.Service,
	reporter *statusService.Service,
	dispatcher *Dispatcher,
) *Handler {
	h := &Handler{
		relay:      relay,
		membership: membership,
		system:     system,
		reporter:   reporter,
		dispatcher: dispatcher,
		logger:     slog.Default(),
		ctx:        context.Background(),
	}
	if session != nil {
		h.selfID = session.SelfID
		h.guildMeta = session.GuildMeta
		h.respondFn = func(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
			return session.Raw().InteractionRespond(i, resp)
		}
		h.syncFn = session.syncCommands
	}
	return h
}

// SetLogger sets the logger
func (h *Handler) SetLogger(logger *slog.Logger) {
	h.logger = logger
}

// RegisterHandlers attaches the handler to the session's event stream. ctx
// bounds every handler and the status reporter loop.
func (h *Handler) RegisterHandlers(ctx context.Context, session *Session) {
	h.ctx = ctx
	session.Raw().AddHandler(h.onReady)
	session.Raw().AddHandler(h.onMessageCreate)
	session.Raw().AddHandler(h.onInteractionCreate)
}

func (h *Handler) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	h.logger.Info("Discord session ready", "user", r.User.Username, "guilds", len(r.Guilds))
	h.readyOnce.Do(func() {
		h.dispatcher.Submit("ready", func() { h.handleReady(h.ctx) })
	})
}

func (h *Handler) handleReady(ctx context.Context) {
	if n, err := h.Reload(ctx); err != nil {
		h.logger.Error("Failed to register commands", "error", err)
	} else {
		h.logger.Info("Commands registered", "count", n)
	}
	if err := h.membership.AnnounceOnline(ctx); err != nil {
		h.logger.Error("Failed to announce online", "error", err)
	}
	go h.reporter.Run(ctx)
}

func (h *Handler) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	name, icon := h.guildMeta(m.GuildID)
	in := messageFromEvent(m, h.selfID(), name, icon)
	if in == nil {
		return
	}
	h.dispatcher.Submit("message", func() {
		if _, err := h.relay.HandleMessage(h.ctx, in); err != nil {
			h.logger.Error("Failed to relay message", "channel_id", in.ChannelID, "message_id", in.MessageID, "error", err)
		}
	})
}

func (h *Handler) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	h.dispatcher.Submit("command", func() { h.handleCommand(h.ctx, i.Interaction) })
}

// handleCommand is the command boundary: every failure, including a panic,
// ends up as an inline error reply to the invoker.
func (h *Handler) handleCommand(ctx context.Context, i *discordgo.Interaction) {
	name := i.ApplicationCommandData().Name
	responded := false
	respond := func(_ context.Context, reply membershipDomain.Reply) error {
		responded = true
		return h.reply(i, reply)
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Command panicked", "command", name, "panic", r)
			if !responded {
				_ = h.reply(i, errorReply(fmt.Errorf("%v", r)))
			}
		}
	}()

	err := h.dispatch(ctx, name, i, respond)
	if err == nil {
		return
	}
	h.logger.Error("Command failed", "command", name, "channel_id", i.ChannelID, "error", err)
	if !responded {
		if rerr := h.reply(i, errorReply(err)); rerr != nil {
			h.logger.Warn("Failed to report command error", "command", name, "error", rerr)
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, name string, i *discordgo.Interaction, respond membershipService.Respond) error {
	switch name {
	case CommandStart, CommandStop:
		guildName, _ := h.guildMeta(i.GuildID)
		inv, err := invocationFromInteraction(i, guildName)
		if err != nil {
			return err
		}
		if name == CommandStart {
			return h.membership.Start(ctx, inv, respond)
		}
		return h.membership.Stop(ctx, inv, respond)

	case CommandList:
		result, err := h.membership.List(ctx)
		if err != nil {
			return err
		}
		return respond(ctx, membershipDomain.Reply{Embed: membershipService.ListEmbed(result)})

	case CommandStatus:
		stats, err := h.system.Sample(ctx)
		if err != nil {
			return err
		}
		return respond(ctx, membershipDomain.Reply{Embed: systemService.HostEmbed(stats)})

	case CommandReload:
		n, err := h.Reload(ctx)
		if err != nil {
			return err
		}
		return respond(ctx, membershipDomain.Reply{Content: fmt.Sprintf("Reloaded %d commands.", n)})

	default:
		return fmt.Errorf("unknown command: %s", name)
	}
}

// Reload re-registers the command set with the platform
func (h *Handler) Reload(ctx context.Context) (int, error) {
	if h.syncFn == nil {
		return 0, errors.New("command sync not configured")
	}
	return h.syncFn(ctx)
}

func (h *Handler) reply(i *discordgo.Interaction, reply membershipDomain.Reply) error {
	data := &discordgo.InteractionResponseData{
		Content: reply.Content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
	if reply.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{toDiscordEmbed(reply.Embed)}
	}
	return h.respondFn(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func errorReply(err error) membershipDomain.Reply {
	switch {
	case errors.Is(err, sharedErrors.ErrStorage):
		return membershipDomain.Reply{Content: "❌ Failed to update the channel registry. Please try again later."}
	case errors.Is(err, sharedErrors.ErrNotInGuild):
		return membershipDomain.Reply{Content: "❌ This command must be used in a server channel."}
	default:
		return membershipDomain.Reply{Embed: &embed.Embed{
			Title:       "Error",
			Description: err.Error(),
			Color:       embed.ColorOffline,
		}}
	}
}
