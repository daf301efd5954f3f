package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	sharedErrors "github.com/reshetovitsme/global-chat-relay/internal/shared/errors"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_BOT_TOKEN", " secret ")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "secret", cfg.DiscordBotToken)
	require.Equal(t, DefaultStatusChannelID, cfg.StatusChannelID)
	require.Equal(t, 30*time.Second, cfg.StatusEvery())
	require.Equal(t, 10*time.Second, cfg.SendDeadline())
	require.Equal(t, StorageDriverSqlite, cfg.StorageDriver)
	require.Equal(t, filepath.Join("./data", "channels.db"), cfg.DatabasePath())
	require.Equal(t, AppEnvProduction, cfg.AppEnv)
	require.Equal(t, "✅", cfg.AckEmoji)
}

func TestLoadMissingToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_BOT_TOKEN", "")

	_, err := Load()
	require.True(t, errors.Is(err, sharedErrors.ErrMissingBotToken))
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := []byte(`discord_bot_token: from-file
status_channel_id: 42
status_interval: 5
storage_driver: FILE
app_env: testing
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))
	t.Setenv("STATUS_INTERVAL", "12")
	t.Setenv("DISCORD_BOT_TOKEN", "")
	require.NoError(t, os.Unsetenv("DISCORD_BOT_TOKEN"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.DiscordBotToken)
	require.Equal(t, int64(42), cfg.StatusChannelID)
	require.Equal(t, 12*time.Second, cfg.StatusEvery())
	require.Equal(t, StorageDriverFile, cfg.StorageDriver)
	require.Equal(t, AppEnvTesting, cfg.AppEnv)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_BOT_TOKEN", "secret")
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidStorageDriver))
}

func TestSlogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	require.Equal(t, "DEBUG", cfg.SlogLevel().String())

	cfg.LogLevel = "nonsense"
	require.Equal(t, "INFO", cfg.SlogLevel().String())
}

func TestLoadJSONStatusChannelID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{name: "quoted snowflake", value: `"1300468412257927189"`, want: 1300468412257927189},
		{name: "small number", value: `42`, want: 42},
		{name: "unquoted snowflake", value: `1300468412257927189`, wantErr: true},
		{name: "fraction", value: `4.5`, wantErr: true},
		{name: "negative", value: `"-3"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			t.Setenv("DISCORD_BOT_TOKEN", "secret")

			content := []byte(`{"status_channel_id": ` + tt.value + `}`)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), content, 0o644))

			cfg, err := Load()
			if tt.wantErr {
				require.True(t, errors.Is(err, sharedErrors.ErrInvalidChannelID))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, cfg.StatusChannelID)
		})
	}
}

func TestLoadStatusChannelIDFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_BOT_TOKEN", "secret")
	t.Setenv("STATUS_CHANNEL_ID", "1300468412257927190")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, int64(1300468412257927190), cfg.StatusChannelID)
}
