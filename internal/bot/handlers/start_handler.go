package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/enrollbot/internal/metrics"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) HandleFunc {
	return startHandler{deps}.Handle
}

// startHandler creates the chat's identity record on first contact and
// always answers with the instructions.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, update *models.Update) Reply {
	log := h.deps.Logger.With("handler", "start")
	chatID := update.Message.Chat.ID

	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID)

	created, err := h.deps.Registration.Bootstrap(ctx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to bootstrap session", "error", err, "chat_id", chatID)
		return Reply{Text: h.deps.Config.Messages.GeneralError, Outcome: metrics.OutcomeError}
	}

	log.DebugContext(ctx, "Session ready", "chat_id", chatID, "created", created)
	return Reply{Text: h.deps.Config.Messages.Welcome, Outcome: metrics.OutcomeOK}
}
