package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reshetovitsme/global-chat-relay/internal/modules/membership/domain"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
	"github.com/samber/lo"
)

func JoinedEmbed(guildName string) *embed.Embed {
	return &embed.Embed{
		Title:       "Global chat started",
		Description: fmt.Sprintf("Global chat has been started in %s!", guildName),
		Color:       embed.ColorRelay,
	}
}

func LeftEmbed(guildName string, remaining int) *embed.Embed {
	e := &embed.Embed{
		Title:       "Global chat stopped",
		Description: fmt.Sprintf("Global chat has been stopped in %s.", guildName),
		Color:       embed.ColorOffline,
	}
	return e.AddField("Registered channels", strconv.Itoa(remaining), true)
}

func OnlineEmbed(count int) *embed.Embed {
	return &embed.Embed{
		Title:       "Connected",
		Description: fmt.Sprintf("The bot is online! Registered channels: %d", count),
		Color:       embed.ColorOnline,
	}
}

// ListEmbed renders the private list response
func ListEmbed(result domain.ListResult) *embed.Embed {
	e := &embed.Embed{
		Title:       "Registered channels",
		Description: fmt.Sprintf("Current connections: %d", result.Count),
		Color:       embed.ColorOnline,
	}
	if len(result.Servers) == 0 {
		return e.AddField("Servers", "No servers are registered.", false)
	}

	lines := lo.Map(result.Servers, func(entry domain.ServerEntry, _ int) string {
		return fmt.Sprintf("%s - members: %d", entry.GuildName, entry.MemberCount)
	})
	return e.AddField("Servers", strings.Join(lines, "\n"), false)
}
