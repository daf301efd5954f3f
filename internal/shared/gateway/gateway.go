package gateway

import (
	"context"
	"errors"

	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
)

// ErrNotFound is returned when a channel, guild or message no longer exists
// on the platform or cannot be resolved by the bot.
var ErrNotFound = errors.New("gateway: resource not found")

// MessageRef identifies a message that was posted on the platform.
type MessageRef struct {
	ChannelID int64
	MessageID int64
}

// ChannelInfo is the guild metadata the relay needs about a channel.
type ChannelInfo struct {
	ID          int64
	GuildID     int64
	GuildName   string
	MemberCount int
}

// Messenger posts and edits messages.
type Messenger interface {
	Send(ctx context.Context, channelID int64, payload *embed.Embed) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, payload *embed.Embed) error
}

// Directory resolves channel and guild metadata.
type Directory interface {
	Channel(ctx context.Context, channelID int64) (ChannelInfo, error)
}

// Permissions answers whether the bot may post into a channel. Implementations
// must not cache the answer.
type Permissions interface {
	CanSend(ctx context.Context, channelID int64) bool
}

// Reactor annotates messages with reactions.
type Reactor interface {
	AddReaction(ctx context.Context, ref MessageRef, emoji string) error
}

// Presence controls the bot's activity text.
type Presence interface {
	SetActivity(ctx context.Context, text string) error
}

// Gateway is the full set of outbound platform operations.
type Gateway interface {
	Messenger
	Directory
	Permissions
	Reactor
	Presence
}
