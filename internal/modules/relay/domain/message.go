package domain

import (
	"strings"
)

// Inbound is a message-created event as seen by the relay
type Inbound struct {
	ChannelID    int64
	GuildID      int64 // zero for private conversations
	MessageID    int64
	GuildName    string
	GuildIconURL string
	Author       Author
	Content      string
	Attachments  []string
}

// Author identifies who posted an inbound message
type Author struct {
	ID            int64
	Name          string
	Discriminator string
	AvatarURL     string
	IsSelf        bool
}

// DisplayName renders the author as name#discriminator for accounts that
// still carry a legacy discriminator, otherwise just the name.
func (a Author) DisplayName() string {
	d := strings.TrimSpace(a.Discriminator)
	if d == "" || d == "0" {
		return a.Name
	}
	return a.Name + "#" + d
}

// RelayMessage is the normalized payload copied to every peer channel
type RelayMessage struct {
	SourceChannelID   int64
	SourceGuildID     int64
	MessageID         int64
	AuthorDisplayName string
	AuthorAvatarURL   string
	Body              string
	AttachmentURL     string
	GuildName         string
	GuildIconURL      string
}

// NewRelayMessage builds the relay payload. Only the first attachment is kept.
func NewRelayMessage(in *Inbound) RelayMessage {
	msg := RelayMessage{
		SourceChannelID:   in.ChannelID,
		SourceGuildID:     in.GuildID,
		MessageID:         in.MessageID,
		AuthorDisplayName: in.Author.DisplayName(),
		AuthorAvatarURL:   in.Author.AvatarURL,
		Body:              in.Content,
		GuildName:         in.GuildName,
		GuildIconURL:      in.GuildIconURL,
	}
	if len(in.Attachments) > 0 {
		msg.AttachmentURL = in.Attachments[0]
	}
	return msg
}

// Delivery summarizes one fan-out.
type Delivery struct {
	Targets   int
	Attempted int
	Delivered int
}

// Outcome is the result of handling one inbound message
type Outcome struct {
	Skip     SkipReason
	Delivery Delivery
}

// Relayed reports whether the message passed the eligibility filter
func (o Outcome) Relayed() bool {
	return o.Skip == SkipReasonNone
}
