package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/oops"
)

const (
	CommandStart  = "start"
	CommandStop   = "stop"
	CommandList   = "list"
	CommandStatus = "status"
	CommandReload = "reload"
)

var (
	guildOnly       = false
	adminPermission = int64(discordgo.PermissionAdministrator)
)

// CommandDefinitions is the slash command set registered with the platform
func CommandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:         CommandStart,
			Description:  "Start the global chat in this channel.",
			DMPermission: &guildOnly,
		},
		{
			Name:         CommandStop,
			Description:  "Stop the global chat in this channel.",
			DMPermission: &guildOnly,
		},
		{
			Name:        CommandList,
			Description: "Show the registered channels and the connection count.",
		},
		{
			Name:        CommandStatus,
			Description: "Show the server CPU and memory utilization.",
		},
		{
			Name:                     CommandReload,
			Description:              "Re-register the bot's commands.",
			DefaultMemberPermissions: &adminPermission,
			DMPermission:             &guildOnly,
		},
	}
}

// syncCommands overwrites the global command set. Registry contents, the
// status message and the running flag are untouched.
func (g *Session) syncCommands(ctx context.Context) (int, error) {
	appID := g.SelfID()
	if appID == "" {
		return 0, oops.In("discord").Errorf("session is not ready")
	}
	created, err := g.dg.ApplicationCommandBulkOverwrite(appID, "", CommandDefinitions(), discordgo.WithContext(ctx))
	if err != nil {
		return 0, oops.In("discord").With("context", "failed to sync commands").Wrap(err)
	}
	return len(created), nil
}
