package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the archive bot
type Config struct {
	Telegram TelegramConfig
	Storage  StorageConfig
	Quota    QuotaConfig
	Access   AccessConfig
	Logging  LoggingConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string `validate:"required"`
}

// StorageConfig holds filesystem layout configuration
type StorageConfig struct {
	DataFolder      string `validate:"required"`
	ResultFolder    string `validate:"required"`
	TemplatesFolder string `validate:"required"`
}

// QuotaConfig holds per-file and per-user disk budget configuration, in megabytes
type QuotaConfig struct {
	MaxUserFolderSizeMB int64 `validate:"required|min:1"`
	MaxPhotoSizeMB      int64 `validate:"required|min:1"`
	MaxVideoSizeMB      int64 `validate:"required|min:1"`
}

// AccessConfig holds the optional user allow list
type AccessConfig struct {
	RestrictAccess bool
	AllowedUsers   []int64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

const bytesPerMB = 1024 * 1024

// MaxUserFolderBytes returns the aggregate per-user cap in bytes
func (q *QuotaConfig) MaxUserFolderBytes() int64 {
	return q.MaxUserFolderSizeMB * bytesPerMB
}

// MaxPhotoBytes returns the per-photo cap in bytes
func (q *QuotaConfig) MaxPhotoBytes() int64 {
	return q.MaxPhotoSizeMB * bytesPerMB
}

// MaxVideoBytes returns the per-video cap in bytes
func (q *QuotaConfig) MaxVideoBytes() int64 {
	return q.MaxVideoSizeMB * bytesPerMB
}

// Allowed reports whether the user may use the bot
func (a *AccessConfig) Allowed(userID int64) bool {
	if !a.RestrictAccess {
		return true
	}
	for _, id := range a.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Storage  *StorageConfig
	Quota    *QuotaConfig
	Access   *AccessConfig
	Logging  *LoggingConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Storage:  &cfg.Storage,
		Quota:    &cfg.Quota,
		Access:   &cfg.Access,
		Logging:  &cfg.Logging,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	allowedUsers, err := parseUserList(getEnv("ALLOWED_USERS", ""))
	if err != nil {
		return nil, fmt.Errorf("ALLOWED_USERS is invalid: %w", err)
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Storage: StorageConfig{
			DataFolder:      getEnv("DATA_FOLDER", "data"),
			ResultFolder:    getEnv("RESULT_FOLDER", "result"),
			TemplatesFolder: getEnv("TEMPLATES_FOLDER", "templates"),
		},
		Quota: QuotaConfig{
			MaxUserFolderSizeMB: getEnvInt64("MAX_USER_FOLDER_SIZE_MB", 100),
			MaxPhotoSizeMB:      getEnvInt64("MAX_PHOTO_SIZE_MB", 5),
			MaxVideoSizeMB:      getEnvInt64("MAX_VIDEO_SIZE_MB", 20),
		},
		Access: AccessConfig{
			RestrictAccess: getEnvBool("RESTRICT_ACCESS", false),
			AllowedUsers:   allowedUsers,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, section := range []any{&c.Telegram, &c.Storage, &c.Quota} {
		v := validate.Struct(section)
		if !v.Validate() {
			return v.Errors.OneError()
		}
	}

	if c.Access.RestrictAccess && len(c.Access.AllowedUsers) == 0 {
		return fmt.Errorf("ALLOWED_USERS is required when RESTRICT_ACCESS is enabled")
	}

	return nil
}

// parseUserList parses a comma-separated list of Telegram user ids
func parseUserList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	users := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		users = append(users, id)
	}

	return users, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt64 gets an integer environment variable with default value
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvBool gets a boolean environment variable with default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
