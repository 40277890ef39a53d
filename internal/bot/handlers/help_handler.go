package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/enrollbot/internal/metrics"
)

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) HandleFunc {
	return helpHandler{deps}.Handle
}

// helpHandler repeats the instructions without touching the store.
type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, update *models.Update) Reply {
	h.deps.Logger.DebugContext(ctx, "Handling /help command", "handler", "help", "chat_id", update.Message.Chat.ID)
	return Reply{Text: h.deps.Config.Messages.Welcome, Outcome: metrics.OutcomeOK}
}
