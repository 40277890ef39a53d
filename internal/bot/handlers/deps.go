package handlers

import (
	"log/slog"

	"github.com/edgard/enrollbot/internal/config"
	"github.com/edgard/enrollbot/internal/registration"
)

// HandlerDeps provides dependencies for Telegram update handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Registration *registration.Service
}
