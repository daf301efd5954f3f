package domain

import "github.com/reshetovitsme/global-chat-relay/internal/shared/embed"

// Invocation is the context a membership command was issued from
type Invocation struct {
	ChannelID int64
	GuildID   int64
	GuildName string
	UserID    int64
}

// Reply is a private response to the invoker
type Reply struct {
	Content string
	Embed   *embed.Embed
}

// ServerEntry describes the guild behind one registered channel
type ServerEntry struct {
	ChannelID   int64
	GuildName   string
	MemberCount int
}

// ListResult is the answer to the list command
type ListResult struct {
	Count   int
	Servers []ServerEntry
}
