package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DefaultStatusChannelID is the channel that receives the periodic status
// message when none is configured.
const DefaultStatusChannelID int64 = 1300468412257927189

// DefaultShutdownTimeout applies when the configuration never loaded.
const DefaultShutdownTimeout = 15 * time.Second

type Config struct {
	DiscordBotToken   string        `koanf:"discord_bot_token"`
	StatusChannelID   int64         `koanf:"-"`
	StatusInterval    int           `koanf:"status_interval"`
	StorageDriver     StorageDriver `koanf:"storage_driver"`
	StoragePath       string        `koanf:"storage_path"`
	DatabaseFile      string        `koanf:"database_file"`
	HTTPPort          string        `koanf:"http_port"`
	SendTimeout       int           `koanf:"send_timeout"`
	FanoutConcurrency int           `koanf:"fanout_concurrency"`
	EventWorkers      int           `koanf:"event_workers"`
	ShutdownTimeout   int           `koanf:"shutdown_timeout"`
	AckEmoji          string        `koanf:"ack_emoji"`
	LogLevel          string        `koanf:"log_level"`
	AppEnv            AppEnv        `koanf:"app_env"`
}

var defaults = map[string]any{
	"status_channel_id":  DefaultStatusChannelID,
	"status_interval":    30,
	"storage_driver":     string(StorageDriverSqlite),
	"storage_path":       "./data",
	"database_file":      "channels.db",
	"http_port":          "8080",
	"send_timeout":       10,
	"fanout_concurrency": 8,
	"event_workers":      16,
	"shutdown_timeout":   15,
	"ack_emoji":          "✅",
	"log_level":          "info",
	"app_env":            string(AppEnvProduction),
}

func Load() (*Config, error) {
	k := koanf.New(".")

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	driver, err := ParseStorageDriver(k.String("storage_driver"))
	if err != nil {
		return nil, oops.With("storage_driver", k.String("storage_driver")).Wrap(err)
	}
	cfg.StorageDriver = driver

	cfg.DiscordBotToken = strings.TrimSpace(cfg.DiscordBotToken)
	if cfg.DiscordBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}
	statusChannelID, err := parseChannelID(k.Get("status_channel_id"))
	if err != nil {
		return nil, oops.With("status_channel_id", k.Get("status_channel_id")).Wrap(err)
	}
	cfg.StatusChannelID = statusChannelID

	cfg.StatusInterval = positiveOr(cfg.StatusInterval, 30)
	cfg.SendTimeout = positiveOr(cfg.SendTimeout, 10)
	cfg.FanoutConcurrency = positiveOr(cfg.FanoutConcurrency, 8)
	cfg.EventWorkers = positiveOr(cfg.EventWorkers, 16)
	cfg.ShutdownTimeout = positiveOr(cfg.ShutdownTimeout, 15)

	return &cfg, nil
}

// StatusEvery is the status reporter cadence.
func (c *Config) StatusEvery() time.Duration {
	return time.Duration(c.StatusInterval) * time.Second
}

// SendDeadline bounds a single outbound platform call.
func (c *Config) SendDeadline() time.Duration {
	return time.Duration(c.SendTimeout) * time.Second
}

// ShutdownDeadline bounds the whole shutdown sequence.
func (c *Config) ShutdownDeadline() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// DatabasePath is the SQLite file location inside StoragePath.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.StoragePath, c.DatabaseFile)
}

// SlogLevel maps LogLevel onto slog, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// parseChannelID accepts the id as loaded by any provider. JSON numbers arrive
// as float64, which cannot hold every snowflake, so those must be quoted.
func parseChannelID(raw any) (int64, error) {
	var id int64
	switch v := raw.(type) {
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", errors.ErrInvalidChannelID, err)
		}
		id = parsed
	case int:
		id = int64(v)
	case int64:
		id = v
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", errors.ErrInvalidChannelID, v)
		}
		id = int64(v)
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > maxExactFloat {
			return 0, fmt.Errorf("%w: %v is not exact, quote the id as a string", errors.ErrInvalidChannelID, v)
		}
		id = int64(v)
	default:
		return 0, fmt.Errorf("%w: unsupported value %v", errors.ErrInvalidChannelID, raw)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %d", errors.ErrInvalidChannelID, id)
	}
	return id, nil
}

// maxExactFloat is the largest integer a float64 represents exactly.
const maxExactFloat = 1 << 53

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
