// Package registration maps Telegram chats to identity records and applies the
// profile fields users submit.
//
// Every mutation for a chat runs under that chat's lock, so a chat never has
// two bootstraps or two read-then-update cycles in flight at once. The unique
// index on users.chat_id backs this up across processes.
package registration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/enrollbot/internal/database"
	"github.com/edgard/enrollbot/internal/metrics"
)

// Options configures a Service.
type Options struct {
	// OperationTimeout bounds every store call. Zero means no timeout.
	OperationTimeout time.Duration
	// MaxVideoSize is the largest accepted attachment, in bytes.
	MaxVideoSize int64
	// NewID generates identity keys. Defaults to uuid.NewString.
	NewID func() string
}

// Attachment describes a media object stored by Telegram.
type Attachment struct {
	FileID string
	Size   int64
}

// Service is the session bootstrapper and field updater.
type Service struct {
	store  database.Store
	logger *slog.Logger
	locks  *chatLocks
	opts   Options
}

// NewService creates a Service backed by store.
func NewService(store database.Store, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{
		store:  store,
		logger: logger.With("component", "registration"),
		locks:  newChatLocks(),
		opts:   opts,
	}
}

// Bootstrap makes sure chatID has an identity record. It reports whether a new
// record was created; calling it again for the same chat is a no-op.
func (s *Service) Bootstrap(ctx context.Context, chatID int64) (bool, error) {
	unlock := s.locks.lock(chatID)
	defer unlock()

	existing, err := s.find(ctx, chatID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		s.logger.DebugContext(ctx, "Identity record already exists", "chat_id", chatID, "uuid", existing.ID)
		return false, nil
	}

	record := &database.IdentityRecord{ID: s.opts.NewID(), ChannelID: chatID}

	opCtx, cancel := s.withTimeout(ctx)
	err = s.store.Create(opCtx, record)
	cancel()

	switch {
	case errors.Is(err, database.ErrDuplicateKey):
		// Another process created the record between our lookup and insert.
		s.logger.InfoContext(ctx, "Identity record created concurrently", "chat_id", chatID)
		return false, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Failed to create identity record", "chat_id", chatID, "error", err)
		return false, fmt.Errorf("%w: create record for chat %d: %w", ErrStorage, chatID, err)
	}

	metrics.IdentitiesCreated.Inc()
	s.logger.InfoContext(ctx, "Identity record created", "chat_id", chatID, "uuid", record.ID)
	return true, nil
}

// SubmitText stores the value carried by text for a labelled field and returns it.
func (s *Service) SubmitText(ctx context.Context, chatID int64, field *Field, text string) (string, error) {
	if field == nil || !field.IsText() {
		return "", fmt.Errorf("%w: not a text field", ErrFormat)
	}

	unlock := s.locks.lock(chatID)
	defer unlock()

	record, err := s.resolve(ctx, chatID)
	if err != nil {
		return "", err
	}

	value, err := field.Extract(text)
	if err != nil {
		s.logger.DebugContext(ctx, "Rejected malformed field", "chat_id", chatID, "field", field.Label)
		return "", fmt.Errorf("%s: %w", field.Label, err)
	}

	if err := s.update(ctx, record, field, value); err != nil {
		return "", err
	}
	return value, nil
}

// SubmitVideo stores the Telegram file id of a video if it is within the size limit.
func (s *Service) SubmitVideo(ctx context.Context, chatID int64, video Attachment) error {
	unlock := s.locks.lock(chatID)
	defer unlock()

	record, err := s.resolve(ctx, chatID)
	if err != nil {
		return err
	}

	if video.Size > s.opts.MaxVideoSize {
		s.logger.InfoContext(ctx, "Rejected oversized video",
			"chat_id", chatID, "size", video.Size, "limit", s.opts.MaxVideoSize)
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, video.Size, s.opts.MaxVideoSize)
	}
	if video.FileID == "" {
		return fmt.Errorf("%w: video without file id", ErrFormat)
	}

	return s.update(ctx, record, Video, video.FileID)
}

// Lookup returns the record for chatID or ErrUnknownSession.
func (s *Service) Lookup(ctx context.Context, chatID int64) (*database.IdentityRecord, error) {
	return s.resolve(ctx, chatID)
}

func (s *Service) resolve(ctx context.Context, chatID int64) (*database.IdentityRecord, error) {
	record, err := s.find(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: chat %d", ErrUnknownSession, chatID)
	}
	return record, nil
}

func (s *Service) find(ctx context.Context, chatID int64) (*database.IdentityRecord, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	record, err := s.store.FindByChannel(opCtx, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to look up identity record", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("%w: find chat %d: %w", ErrStorage, chatID, err)
	}
	return record, nil
}

func (s *Service) update(ctx context.Context, record *database.IdentityRecord, field *Field, value string) error {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.store.UpdateFields(opCtx, record.ID, map[database.Column]string{field.Column: value})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update identity record",
			"chat_id", record.ChannelID, "uuid", record.ID, "field", field.Label, "error", err)
		return fmt.Errorf("%w: update %s: %w", ErrStorage, field.Label, err)
	}

	s.logger.InfoContext(ctx, "Field registered", "chat_id", record.ChannelID, "uuid", record.ID, "field", field.Label)
	return nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.OperationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.OperationTimeout)
}
