package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/enrollbot/internal/metrics"
)

// NewFallbackHandler returns the catch-all handler for messages no route claims.
func NewFallbackHandler(deps HandlerDeps) HandleFunc {
	return func(ctx context.Context, update *models.Update) Reply {
		deps.Logger.DebugContext(ctx, "Unrecognized message", "handler", "fallback", "chat_id", update.Message.Chat.ID)
		return Reply{Text: deps.Config.Messages.Unrecognized, Outcome: metrics.OutcomeOK}
	}
}
