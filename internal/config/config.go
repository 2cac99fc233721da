// Package config loads the bot configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// AppName is the application name used in logs and help output.
	AppName = "gtaskbot"

	// DefaultTaskListID is the Google Tasks alias for the user's default list.
	DefaultTaskListID = "@default"
)

// Config holds all settings. It is loaded once and never mutated afterwards;
// every unit of work reads from the same value.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Google   GoogleConfig   `yaml:"google"`
	Digest   DigestConfig   `yaml:"digest"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
}

// TelegramConfig configures the Bot API client and webhook.
type TelegramConfig struct {
	Token         string `yaml:"token" env:"TELEGRAM_TOKEN"`
	WebhookURL    string `yaml:"webhook_url" env:"TELEGRAM_WEBHOOK_URL"`
	WebhookSecret string `yaml:"webhook_secret" env:"TELEGRAM_WEBHOOK_SECRET"`

	// OwnerID restricts task commands to one Telegram user. 0 allows anyone.
	OwnerID int64 `yaml:"owner_id" env:"TELEGRAM_OWNER_ID" env-default:"0"`
}

// GoogleConfig holds the OAuth client and refresh token for Google Tasks.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	RefreshToken string `yaml:"refresh_token" env:"GOOGLE_REFRESH_TOKEN"`
	TaskListID   string `yaml:"tasklist_id" env:"GOOGLE_TASKLIST_ID" env-default:"@default"`
}

// DigestConfig configures the daily digest.
type DigestConfig struct {
	TargetChatID int64 `yaml:"target_chat_id" env:"TARGET_CHAT_ID" env-default:"0"`
	CronSecret   string `yaml:"cron_secret" env:"CRON_SECRET"`

	// Interval enables the in-process scheduler when > 0.
	Interval time.Duration `yaml:"interval" env:"DIGEST_INTERVAL" env-default:"0s"`
}

// HTTPConfig configures the webhook/cron server.
type HTTPConfig struct {
	Addr         string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`    // trace|debug|info|warn|error
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"` // json|console
}

// Load reads the configuration. If path is non-empty the file is read first
// and environment variables override it; otherwise only the environment is used.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Google.TaskListID == "" {
		cfg.Google.TaskListID = DefaultTaskListID
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
	}
	if c.Google.ClientID == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID is required"))
	}
	if c.Google.ClientSecret == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_SECRET is required"))
	}
	if c.Google.RefreshToken == "" {
		errs = append(errs, errors.New("GOOGLE_REFRESH_TOKEN is required"))
	}
	if c.Digest.Interval < 0 {
		errs = append(errs, fmt.Errorf("invalid DIGEST_INTERVAL: %s", c.Digest.Interval))
	}
	return errors.Join(errs...)
}

// IsOwner reports whether userID may use task commands.
func (c *Config) IsOwner(userID int64) bool {
	return c.Telegram.OwnerID == 0 || c.Telegram.OwnerID == userID
}

// HasDigestTarget reports whether a digest chat is configured.
func (c *Config) HasDigestTarget() bool {
	return c.Digest.TargetChatID != 0
}
