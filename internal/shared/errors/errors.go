package errors

import "errors"

var (
	ErrMissingBotToken  = errors.New("DISCORD_BOT_TOKEN environment variable is required")
	ErrInvalidChannelID = errors.New("invalid channel id")
	ErrStorage          = errors.New("channel registry storage failure")
	ErrNotInGuild       = errors.New("command must be used inside a server channel")
)
