package service

import (
	"fmt"

	"github.com/reshetovitsme/global-chat-relay/internal/modules/relay/domain"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
)

// RelayEmbed renders a relayed message the same way in every target channel
func RelayEmbed(m domain.RelayMessage) *embed.Embed {
	e := &embed.Embed{
		Description: m.Body,
		Color:       embed.ColorRelay,
		Author: &embed.Author{
			Name:    m.AuthorDisplayName,
			IconURL: m.AuthorAvatarURL,
		},
		Footer: &embed.Footer{
			Text:    fmt.Sprintf("%s / mID: %d", m.GuildName, m.MessageID),
			IconURL: m.GuildIconURL,
		},
	}
	if m.AttachmentURL != "" {
		e.ImageURL = m.AttachmentURL
	}
	return e
}
