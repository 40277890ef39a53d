package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/enrollbot/internal/metrics"
	"github.com/edgard/enrollbot/internal/registration"
)

// NewStatusHandler returns a handler for the /status command.
func NewStatusHandler(deps HandlerDeps) HandleFunc {
	return statusHandler{deps}.Handle
}

// statusHandler lists which fields the chat has registered so far.
type statusHandler struct {
	deps HandlerDeps
}

func (h statusHandler) Handle(ctx context.Context, update *models.Update) Reply {
	log := h.deps.Logger.With("handler", "status")
	chatID := update.Message.Chat.ID
	msgs := h.deps.Config.Messages

	record, err := h.deps.Registration.Lookup(ctx, chatID)
	if err != nil {
		if errors.Is(err, registration.ErrUnknownSession) {
			return Reply{Text: msgs.NoSession, Outcome: metrics.OutcomeUnknownSession}
		}
		log.ErrorContext(ctx, "Failed to load identity record", "error", err, "chat_id", chatID)
		return Reply{Text: msgs.GeneralError, Outcome: metrics.OutcomeError}
	}

	var sb strings.Builder
	sb.WriteString(msgs.StatusHeader)
	for _, field := range registration.Fields() {
		value, ok := record.Value(field.Column)
		switch {
		case !ok:
			value = msgs.StatusMissing
		case !field.IsText():
			// file ids mean nothing to users
			value = msgs.StatusVideoSaved
		}
		fmt.Fprintf(&sb, "\n- %s: %s", field.DisplayName, value)
	}

	return Reply{Text: sb.String(), Outcome: metrics.OutcomeOK}
}
