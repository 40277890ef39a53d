package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/enrollbot/internal/metrics"
)

// Store defines the interface for identity record persistence.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// FindByChannel returns the record for chatID, or nil, nil if there is none.
	FindByChannel(ctx context.Context, chatID int64) (*IdentityRecord, error)

	// Create inserts a new record. Returns ErrDuplicateKey if its uuid or chat_id is taken.
	Create(ctx context.Context, record *IdentityRecord) error

	// UpdateFields sets only the given columns on the record with the given id.
	// Returns ErrNotFound if no such record exists.
	UpdateFields(ctx context.Context, id string, fields map[Column]string) error

	// CountRecords returns the number of stored identity records.
	CountRecords(ctx context.Context) (int, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// FindByChannel retrieves the identity record bound to a chat.
func (s *sqlxStore) FindByChannel(ctx context.Context, chatID int64) (*IdentityRecord, error) {
	defer metrics.ObserveStore("find_by_channel", time.Now())

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var record IdentityRecord
	query := `SELECT uuid, chat_id, first_name, last_name, phone_number, video_file_id
	          FROM users WHERE chat_id = ? LIMIT 1`

	err := s.db.GetContext(ctx, &record, query, chatID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No identity record found", "chat_id", chatID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching identity record",
			"chat_id", chatID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting identity record", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get identity record for chat %d: %w", chatID, err)
	}

	return &record, nil
}

// Create inserts a new identity record.
func (s *sqlxStore) Create(ctx context.Context, record *IdentityRecord) error {
	defer metrics.ObserveStore("create", time.Now())

	if record == nil {
		return fmt.Errorf("cannot create nil identity record")
	}
	if record.ID == "" {
		return fmt.Errorf("identity record must have a non-empty uuid")
	}

	query := `
        INSERT INTO users (uuid, chat_id, first_name, last_name, phone_number, video_file_id)
        VALUES (:uuid, :chat_id, :first_name, :last_name, :phone_number, :video_file_id);
    `

	if _, err := s.db.NamedExecContext(ctx, query, record); err != nil {
		if isUniqueViolation(err) {
			s.logger.WarnContext(ctx, "Identity record already exists", "chat_id", record.ChannelID, "uuid", record.ID)
			return fmt.Errorf("%w: chat %d", ErrDuplicateKey, record.ChannelID)
		}
		s.logger.ErrorContext(ctx, "Error creating identity record", "chat_id", record.ChannelID, "error", err)
		return fmt.Errorf("failed to create identity record for chat %d: %w", record.ChannelID, err)
	}

	s.logger.DebugContext(ctx, "Identity record created", "chat_id", record.ChannelID, "uuid", record.ID)
	return nil
}

// UpdateFields applies a partial update in a single statement, so either every
// given column is written or none is.
func (s *sqlxStore) UpdateFields(ctx context.Context, id string, fields map[Column]string) error {
	defer metrics.ObserveStore("update_fields", time.Now())

	if id == "" {
		return fmt.Errorf("uuid cannot be empty")
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update for %s", id)
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !mutableColumns[col] {
			return fmt.Errorf("column %q cannot be updated", col)
		}
		cols = append(cols, string(col))
	}
	sort.Strings(cols)

	assignments := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, col := range cols {
		assignments = append(assignments, col+" = ?")
		args = append(args, fields[Column(col)])
	}
	args = append(args, id)

	//nolint:gosec // column names come from the mutableColumns whitelist
	query := "UPDATE users SET " + strings.Join(assignments, ", ") + " WHERE uuid = ?"

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.logger.WarnContext(ctx, "Context timeout or cancellation while updating identity record",
				"uuid", id, "error", err)
			return err
		}
		s.logger.ErrorContext(ctx, "Error updating identity record", "uuid", id, "columns", cols, "error", err)
		return fmt.Errorf("failed to update identity record %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.logger.DebugContext(ctx, "Identity record updated", "uuid", id, "columns", cols)
	return nil
}

// CountRecords returns the number of identity records.
func (s *sqlxStore) CountRecords(ctx context.Context) (int, error) {
	defer metrics.ObserveStore("count", time.Now())

	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("failed to count identity records: %w", err)
	}
	return count, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
