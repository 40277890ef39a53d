package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/enrollbot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestStore_FindByChannelAbsent(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	record, err := store.FindByChannel(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestStore_CreateAndFind(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &database.IdentityRecord{ID: "id-42", ChannelID: 42}))

	record, err := store.FindByChannel(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "id-42", record.ID)
	assert.Equal(t, int64(42), record.ChannelID)
	assert.False(t, record.FirstName.Valid)
	assert.False(t, record.LastName.Valid)
	assert.False(t, record.PhoneNumber.Valid)
	assert.False(t, record.VideoFileID.Valid)
}

func TestStore_CreateDuplicate(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &database.IdentityRecord{ID: "a", ChannelID: 1}))

	tests := []struct {
		name   string
		record *database.IdentityRecord
	}{
		{name: "same uuid", record: &database.IdentityRecord{ID: "a", ChannelID: 2}},
		{name: "same chat id", record: &database.IdentityRecord{ID: "b", ChannelID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Create(ctx, tt.record)
			assert.ErrorIs(t, err, database.ErrDuplicateKey)
		})
	}

	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_CreateRejectsInvalidRecord(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	assert.Error(t, store.Create(context.Background(), nil))
	assert.Error(t, store.Create(context.Background(), &database.IdentityRecord{ChannelID: 3}))
}

func TestStore_UpdateFieldsIsPartial(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &database.IdentityRecord{ID: "id-7", ChannelID: 7}))
	require.NoError(t, store.UpdateFields(ctx, "id-7", map[database.Column]string{
		database.ColumnFirstName: "Ada",
	}))
	require.NoError(t, store.UpdateFields(ctx, "id-7", map[database.Column]string{
		database.ColumnLastName:    "Lovelace",
		database.ColumnVideoFileID: "file-1",
	}))

	record, err := store.FindByChannel(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, record)

	first, ok := record.Value(database.ColumnFirstName)
	assert.True(t, ok)
	assert.Equal(t, "Ada", first)
	last, ok := record.Value(database.ColumnLastName)
	assert.True(t, ok)
	assert.Equal(t, "Lovelace", last)
	video, ok := record.Value(database.ColumnVideoFileID)
	assert.True(t, ok)
	assert.Equal(t, "file-1", video)
	_, ok = record.Value(database.ColumnPhoneNumber)
	assert.False(t, ok)
}

func TestStore_UpdateFieldsOverwrites(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &database.IdentityRecord{ID: "x", ChannelID: 9}))
	for _, name := range []string{"Ada", "Grace"} {
		require.NoError(t, store.UpdateFields(ctx, "x", map[database.Column]string{database.ColumnFirstName: name}))
	}

	record, err := store.FindByChannel(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Grace", record.FirstName.String)
}

func TestStore_UpdateFieldsErrors(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &database.IdentityRecord{ID: "present", ChannelID: 5}))

	t.Run("unknown id", func(t *testing.T) {
		err := store.UpdateFields(ctx, "missing", map[database.Column]string{database.ColumnFirstName: "x"})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
	t.Run("empty update", func(t *testing.T) {
		assert.Error(t, store.UpdateFields(ctx, "present", nil))
	})
	t.Run("immutable column", func(t *testing.T) {
		err := store.UpdateFields(ctx, "present", map[database.Column]string{"chat_id": "6"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, database.ErrNotFound)
	})
	t.Run("empty id", func(t *testing.T) {
		assert.Error(t, store.UpdateFields(ctx, "", map[database.Column]string{database.ColumnFirstName: "x"}))
	})
}

func TestStore_PingAndMaintenance(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.RunSQLMaintenance(ctx))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.RunSQLMaintenance(cancelled), context.Canceled)
}

func TestNewDB_ReopenKeepsData(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "reopen.db")

	db, err := database.NewDB(path)
	require.NoError(t, err)
	require.NoError(t, database.NewStore(db, nil).Create(context.Background(), &database.IdentityRecord{ID: "keep", ChannelID: 11}))
	database.CloseDB(db)

	db, err = database.NewDB(path)
	require.NoError(t, err)
	defer database.CloseDB(db)

	record, err := database.NewStore(db, nil).FindByChannel(context.Background(), 11)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "keep", record.ID)
}

func TestNewDB_EmptyPath(t *testing.T) {
	t.Parallel()
	_, err := database.NewDB("")
	assert.Error(t, err)
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "storage.db", expected: "storage.db"},
		{input: "file:storage.db", expected: "storage.db"},
		{input: "file:storage.db?_pragma=busy_timeout(5000)", expected: "storage.db"},
		{input: "/tmp/my%20db.sqlite", expected: "/tmp/my db.sqlite"},
	}

	for _, tt := range tests {
		if got := database.ExtractDBNameFromPath(tt.input); got != tt.expected {
			t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
