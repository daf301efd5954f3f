package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
	sharedErrors "github.com/reshetovitsme/global-chat-relay/internal/shared/errors"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/gateway"
	"github.com/samber/oops"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// Session adapts a discordgo session to gateway.Gateway
type Session struct {
	dg *discordgo.Session
}

// NewSession creates a bot session; call Open to connect
func NewSession(token string) (*Session, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, sharedErrors.ErrMissingBotToken
	}

	dg, err := discordgo.New("Bot " + trimmed)
	if err != nil {
		return nil, oops.In("discord").With("context", "failed to create session").Wrap(err)
	}
	dg.Identify.Intents = intents
	dg.StateEnabled = true

	return &Session{dg: dg}, nil
}

// Raw exposes the underlying discordgo session
func (g *Session) Raw() *discordgo.Session {
	return g.dg
}

// Open connects to the gateway
func (g *Session) Open() error {
	if err := g.dg.Open(); err != nil {
		return oops.In("discord").With("context", "failed to open gateway").Wrap(err)
	}
	return nil
}

// Close disconnects from the gateway
func (g *Session) Close() error {
	return g.dg.Close()
}

// SelfID returns the bot's own user id once the session is ready
func (g *Session) SelfID() string {
	if g.dg.State == nil || g.dg.State.User == nil {
		return ""
	}
	return g.dg.State.User.ID
}

func (g *Session) Send(ctx context.Context, channelID int64, payload *embed.Embed) (gateway.MessageRef, error) {
	msg, err := g.dg.ChannelMessageSendEmbed(formatID(channelID), toDiscordEmbed(payload), discordgo.WithContext(ctx))
	if err != nil {
		return gateway.MessageRef{}, translate(err)
	}
	messageID, err := parseID(msg.ID)
	if err != nil {
		return gateway.MessageRef{}, err
	}
	return gateway.MessageRef{ChannelID: channelID, MessageID: messageID}, nil
}

func (g *Session) Edit(ctx context.Context, ref gateway.MessageRef, payload *embed.Embed) error {
	_, err := g.dg.ChannelMessageEditEmbed(formatID(ref.ChannelID), formatID(ref.MessageID), toDiscordEmbed(payload), discordgo.WithContext(ctx))
	return translate(err)
}

func (g *Session) Channel(ctx context.Context, channelID int64) (gateway.ChannelInfo, error) {
	id := formatID(channelID)
	ch, err := g.dg.State.Channel(id)
	if err != nil {
		ch, err = g.dg.Channel(id, discordgo.WithContext(ctx))
		if err != nil {
			return gateway.ChannelInfo{}, translate(err)
		}
	}

	info := gateway.ChannelInfo{ID: channelID}
	if ch.GuildID == "" {
		return info, nil
	}
	if info.GuildID, err = parseID(ch.GuildID); err != nil {
		return gateway.ChannelInfo{}, err
	}

	guild, err := g.dg.State.Guild(ch.GuildID)
	if err != nil {
		guild, err = g.dg.Guild(ch.GuildID, discordgo.WithContext(ctx))
		if err != nil {
			return gateway.ChannelInfo{}, translate(err)
		}
	}
	info.GuildName = guild.Name
	info.MemberCount = guild.MemberCount
	if info.MemberCount == 0 {
		info.MemberCount = guild.ApproximateMemberCount
	}
	return info, nil
}

func (g *Session) CanSend(ctx context.Context, channelID int64) bool {
	self := g.SelfID()
	if self == "" {
		return false
	}
	perms, err := g.dg.UserChannelPermissions(self, formatID(channelID), discordgo.WithContext(ctx))
	if err != nil {
		return false
	}
	return perms&discordgo.PermissionSendMessages != 0
}

func (g *Session) AddReaction(ctx context.Context, ref gateway.MessageRef, emoji string) error {
	return translate(g.dg.MessageReactionAdd(formatID(ref.ChannelID), formatID(ref.MessageID), emoji, discordgo.WithContext(ctx)))
}

func (g *Session) SetActivity(ctx context.Context, text string) error {
	return g.dg.UpdateGameStatus(0, text)
}

// GuildMeta returns a guild's display name and icon from the state cache
func (g *Session) GuildMeta(guildID string) (name, iconURL string) {
	if guildID == "" {
		return "", ""
	}
	guild, err := g.dg.State.Guild(guildID)
	if err != nil {
		return "", ""
	}
	return guild.Name, guild.IconURL("")
}

// translate maps platform "unknown resource" failures onto gateway.ErrNotFound.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, discordgo.ErrStateNotFound) {
		return fmt.Errorf("%w: %w", gateway.ErrNotFound, err)
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", gateway.ErrNotFound, err)
	}
	return err
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(id string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, oops.With("id", id).Wrap(fmt.Errorf("%w: %w", sharedErrors.ErrInvalidChannelID, err))
	}
	return v, nil
}

var _ gateway.Gateway = (*Session)(nil)
