package discord

import (
	"github.com/bwmarrin/discordgo"
	membershipDomain "github.com/reshetovitsme/global-chat-relay/internal/modules/membership/domain"
	relayDomain "github.com/reshetovitsme/global-chat-relay/internal/modules/relay/domain"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
	"github.com/samber/lo"
)

func toDiscordEmbed(e *embed.Embed) *discordgo.MessageEmbed {
	if e == nil {
		return nil
	}
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	if e.Author != nil {
		out.Author = &discordgo.MessageEmbedAuthor{Name: e.Author.Name, IconURL: e.Author.IconURL}
	}
	if e.Footer != nil {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer.Text, IconURL: e.Footer.IconURL}
	}
	if e.ImageURL != "" {
		out.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
	}
	out.Fields = lo.Map(e.Fields, func(f embed.Field, _ int) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline}
	})
	return out
}

// messageFromEvent converts a message-created event. It returns nil for
// events the relay cannot identify (missing author or unparsable ids).
func messageFromEvent(event *discordgo.MessageCreate, selfID, guildName, guildIconURL string) *relayDomain.Inbound {
	if event == nil || event.Message == nil || event.Author == nil {
		return nil
	}

	channelID, err := parseID(event.ChannelID)
	if err != nil {
		return nil
	}
	messageID, err := parseID(event.ID)
	if err != nil {
		return nil
	}
	var guildID int64
	if event.GuildID != "" {
		if guildID, err = parseID(event.GuildID); err != nil {
			return nil
		}
	}
	authorID, _ := parseID(event.Author.ID)

	in := &relayDomain.Inbound{
		ChannelID:    channelID,
		GuildID:      guildID,
		MessageID:    messageID,
		GuildName:    guildName,
		GuildIconURL: guildIconURL,
		Author: relayDomain.Author{
			ID:            authorID,
			Name:          event.Author.Username,
			Discriminator: event.Author.Discriminator,
			IsSelf:        selfID != "" && event.Author.ID == selfID,
		},
		Content: event.Content,
		Attachments: lo.FilterMap(event.Attachments, func(a *discordgo.MessageAttachment, _ int) (string, bool) {
			if a == nil || a.URL == "" {
				return "", false
			}
			return a.URL, true
		}),
	}
	if event.Author.Avatar != "" {
		in.Author.AvatarURL = event.Author.AvatarURL("")
	}
	return in
}

// invocationFromInteraction extracts the channel and guild a slash command
// was issued from.
func invocationFromInteraction(i *discordgo.Interaction, guildName string) (membershipDomain.Invocation, error) {
	channelID, err := parseID(i.ChannelID)
	if err != nil {
		return membershipDomain.Invocation{}, err
	}
	inv := membershipDomain.Invocation{ChannelID: channelID, GuildName: guildName}
	if i.GuildID != "" {
		if inv.GuildID, err = parseID(i.GuildID); err != nil {
			return membershipDomain.Invocation{}, err
		}
	}

	var user *discordgo.User
	switch {
	case i.Member != nil && i.Member.User != nil:
		user = i.Member.User
	case i.User != nil:
		user = i.User
	}
	if user != nil {
		inv.UserID, _ = parseID(user.ID)
	}
	return inv, nil
}
