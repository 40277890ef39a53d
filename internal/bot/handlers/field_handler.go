package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/enrollbot/internal/metrics"
	"github.com/edgard/enrollbot/internal/registration"
)

// NewFieldHandler returns a handler that stores one labelled text field.
func NewFieldHandler(deps HandlerDeps, field *registration.Field) HandleFunc {
	return fieldHandler{deps: deps, field: field}.Handle
}

type fieldHandler struct {
	deps  HandlerDeps
	field *registration.Field
}

func (h fieldHandler) Handle(ctx context.Context, update *models.Update) Reply {
	chatID := update.Message.Chat.ID

	_, err := h.deps.Registration.SubmitText(ctx, chatID, h.field, update.Message.Text)
	if err != nil {
		return failureReply(ctx, h.deps, h.field, chatID, err)
	}
	return successReply(h.deps, h.field)
}

// NewVideoHandler returns a handler that stores the file id of a video message.
func NewVideoHandler(deps HandlerDeps) HandleFunc {
	return videoHandler{deps}.Handle
}

type videoHandler struct {
	deps HandlerDeps
}

func (h videoHandler) Handle(ctx context.Context, update *models.Update) Reply {
	chatID := update.Message.Chat.ID
	video := update.Message.Video

	err := h.deps.Registration.SubmitVideo(ctx, chatID, registration.Attachment{
		FileID: video.FileID,
		Size:   int64(video.FileSize),
	})
	if err != nil {
		return failureReply(ctx, h.deps, registration.Video, chatID, err)
	}
	return successReply(h.deps, registration.Video)
}

func successReply(deps HandlerDeps, field *registration.Field) Reply {
	return Reply{
		Text:    fmt.Sprintf(deps.Config.Messages.FieldSavedFmt, field.DisplayName),
		Outcome: metrics.OutcomeOK,
	}
}

// failureReply turns a registration error into the reply the user sees.
// Storage errors are logged here and never shown verbatim.
func failureReply(ctx context.Context, deps HandlerDeps, field *registration.Field, chatID int64, err error) Reply {
	msgs := deps.Config.Messages

	switch {
	case errors.Is(err, registration.ErrUnknownSession):
		return Reply{Text: msgs.NoSession, Outcome: metrics.OutcomeUnknownSession}
	case errors.Is(err, registration.ErrPayloadTooLarge):
		return Reply{Text: msgs.VideoTooLarge, Outcome: metrics.OutcomeTooLarge}
	case errors.Is(err, registration.ErrFormat):
		return Reply{Text: fmt.Sprintf(msgs.FieldInvalidFmt, field.DisplayName), Outcome: metrics.OutcomeInvalidFormat}
	}

	deps.Logger.ErrorContext(ctx, "Failed to register field",
		"handler", "field", "field", field.Label, "chat_id", chatID, "error", err)
	return Reply{Text: msgs.GeneralError, Outcome: metrics.OutcomeError}
}
