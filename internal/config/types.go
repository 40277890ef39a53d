// Package config manages application configuration from config files,
// environment variables, and default values.
package config

import "time"

// Config defines the application configuration. Values can be set through
// config.yaml or environment variables prefixed with BOT_ (e.g. BOT_LOGGER_LEVEL).
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Intake    IntakeConfig    `mapstructure:"intake"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot credential and command menu.
type TelegramConfig struct {
	Token    string          `mapstructure:"token"    validate:"required"`
	Commands []CommandConfig `mapstructure:"commands" validate:"dive"`
}

// CommandConfig is one entry of the bot command menu.
type CommandConfig struct {
	Command     string `mapstructure:"command"     validate:"required"`
	Description string `mapstructure:"description" validate:"required"`
}

// DatabaseConfig configures the SQLite record store.
type DatabaseConfig struct {
	Path             string        `mapstructure:"path"              validate:"required"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"min=100ms,max=5m"`
}

// IntakeConfig holds limits applied to user submissions.
type IntakeConfig struct {
	MaxVideoSize int64 `mapstructure:"max_video_size" validate:"gt=0"`
}

// ServerConfig configures the ops HTTP server (health and metrics).
type ServerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Addr            string        `mapstructure:"addr"             validate:"required_if=Enabled true"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"min=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures one scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds every user-visible reply. The *Fmt entries take the
// human readable field name (e.g. "first name") as their only argument.
type MessagesConfig struct {
	Welcome          string `mapstructure:"welcome"            validate:"required"`
	Unrecognized     string `mapstructure:"unrecognized"       validate:"required"`
	NoSession        string `mapstructure:"no_session"         validate:"required"`
	VideoTooLarge    string `mapstructure:"video_too_large"    validate:"required"`
	GeneralError     string `mapstructure:"general_error"      validate:"required"`
	FieldSavedFmt    string `mapstructure:"field_saved_fmt"    validate:"required"`
	FieldInvalidFmt  string `mapstructure:"field_invalid_fmt"  validate:"required"`
	StatusHeader     string `mapstructure:"status_header"      validate:"required"`
	StatusMissing    string `mapstructure:"status_missing"     validate:"required"`
	StatusVideoSaved string `mapstructure:"status_video_saved" validate:"required"`
}
