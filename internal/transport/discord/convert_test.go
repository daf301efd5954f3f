package discord

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
	sharedErrors "github.com/reshetovitsme/global-chat-relay/internal/shared/errors"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageFromEvent(t *testing.T) {
	event := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "900",
		ChannelID: "10",
		GuildID:   "1",
		Content:   "hello",
		Author: &discordgo.User{
			ID:            "42",
			Username:      "alice",
			Discriminator: "1234",
			Avatar:        "abc",
		},
		Attachments: []*discordgo.MessageAttachment{
			nil,
			{URL: ""},
			{URL: "https://cdn.example/a.png"},
			{URL: "https://cdn.example/b.png"},
		},
	}}

	in := messageFromEvent(event, "999", "Alpha", "https://cdn.example/icon.png")
	require.NotNil(t, in)
	assert.Equal(t, int64(10), in.ChannelID)
	assert.Equal(t, int64(1), in.GuildID)
	assert.Equal(t, int64(900), in.MessageID)
	assert.Equal(t, "Alpha", in.GuildName)
	assert.Equal(t, "https://cdn.example/icon.png", in.GuildIconURL)
	assert.Equal(t, int64(42), in.Author.ID)
	assert.Equal(t, "alice#1234", in.Author.DisplayName())
	assert.False(t, in.Author.IsSelf)
	assert.NotEmpty(t, in.Author.AvatarURL)
	assert.Equal(t, []string{"https://cdn.example/a.png", "https://cdn.example/b.png"}, in.Attachments)
}

func TestMessageFromEventSelfAndDirect(t *testing.T) {
	event := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "901",
		ChannelID: "77",
		Author:    &discordgo.User{ID: "999", Username: "relay-bot"},
	}}

	in := messageFromEvent(event, "999", "", "")
	require.NotNil(t, in)
	assert.True(t, in.Author.IsSelf)
	assert.Zero(t, in.GuildID)
	assert.Empty(t, in.Author.AvatarURL)
	assert.Empty(t, in.Attachments)
}

func TestMessageFromEventRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		event *discordgo.MessageCreate
	}{
		{name: "nil event", event: nil},
		{name: "nil message", event: &discordgo.MessageCreate{}},
		{name: "no author", event: &discordgo.MessageCreate{Message: &discordgo.Message{ID: "1", ChannelID: "2"}}},
		{name: "bad channel", event: &discordgo.MessageCreate{Message: &discordgo.Message{
			ID: "1", ChannelID: "x", Author: &discordgo.User{ID: "3"},
		}}},
		{name: "bad guild", event: &discordgo.MessageCreate{Message: &discordgo.Message{
			ID: "1", ChannelID: "2", GuildID: "g", Author: &discordgo.User{ID: "3"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, messageFromEvent(tt.event, "999", "", ""))
		})
	}
}

func TestInvocationFromInteraction(t *testing.T) {
	inv, err := invocationFromInteraction(&discordgo.Interaction{
		ChannelID: "10",
		GuildID:   "1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "42"}},
	}, "Alpha")
	require.NoError(t, err)
	assert.Equal(t, int64(10), inv.ChannelID)
	assert.Equal(t, int64(1), inv.GuildID)
	assert.Equal(t, "Alpha", inv.GuildName)
	assert.Equal(t, int64(42), inv.UserID)

	inv, err = invocationFromInteraction(&discordgo.Interaction{
		ChannelID: "11",
		User:      &discordgo.User{ID: "43"},
	}, "")
	require.NoError(t, err)
	assert.Zero(t, inv.GuildID)
	assert.Equal(t, int64(43), inv.UserID)

	_, err = invocationFromInteraction(&discordgo.Interaction{ChannelID: "nope"}, "")
	assert.ErrorIs(t, err, sharedErrors.ErrInvalidChannelID)
}

func TestToDiscordEmbed(t *testing.T) {
	assert.Nil(t, toDiscordEmbed(nil))

	e := (&embed.Embed{
		Title:       "t",
		Description: "d",
		Color:       embed.ColorRelay,
		Author:      &embed.Author{Name: "alice", IconURL: "https://cdn.example/a.png"},
		Footer:      &embed.Footer{Text: "Alpha / mID: 1"},
		ImageURL:    "https://cdn.example/img.png",
	}).AddField("Connections", "3", true)

	out := toDiscordEmbed(e)
	assert.Equal(t, "t", out.Title)
	assert.Equal(t, "d", out.Description)
	assert.Equal(t, embed.ColorRelay, out.Color)
	assert.Equal(t, "alice", out.Author.Name)
	assert.Equal(t, "Alpha / mID: 1", out.Footer.Text)
	assert.Equal(t, "https://cdn.example/img.png", out.Image.URL)
	require.Len(t, out.Fields, 1)
	assert.Equal(t, &discordgo.MessageEmbedField{Name: "Connections", Value: "3", Inline: true}, out.Fields[0])

	bare := toDiscordEmbed(&embed.Embed{Title: "only"})
	assert.Nil(t, bare.Author)
	assert.Nil(t, bare.Footer)
	assert.Nil(t, bare.Image)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(discordgo.ErrStateNotFound), gateway.ErrNotFound)

	notFound := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
	assert.ErrorIs(t, translate(notFound), gateway.ErrNotFound)

	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}
	assert.NotErrorIs(t, translate(forbidden), gateway.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestIDRoundTrip(t *testing.T) {
	id, err := parseID(" 1300468412257927189 ")
	require.NoError(t, err)
	assert.Equal(t, "1300468412257927189", formatID(id))
}

func TestCommandDefinitions(t *testing.T) {
	defs := CommandDefinitions()
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{CommandStart, CommandStop, CommandList, CommandStatus, CommandReload}, names)

	reload := defs[4]
	require.NotNil(t, reload.DefaultMemberPermissions)
	assert.Equal(t, int64(discordgo.PermissionAdministrator), *reload.DefaultMemberPermissions)
	require.NotNil(t, defs[0].DMPermission)
	assert.False(t, *defs[0].DMPermission)
}
