// Package tasks implements the scheduled maintenance jobs of the bot.
package tasks

import (
	"log/slog"

	"github.com/edgard/enrollbot/internal/config"
	"github.com/edgard/enrollbot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
