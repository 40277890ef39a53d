package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/enrollbot/internal/bot/handlers"
	"github.com/edgard/enrollbot/internal/config"
	"github.com/edgard/enrollbot/internal/database"
	"github.com/edgard/enrollbot/internal/metrics"
	"github.com/edgard/enrollbot/internal/registration"
)

const welcome = "Welcome to the bot! Please send the following information:\n" +
	"- first_name: <your first name>\n" +
	"- last_name: <your last name>\n" +
	"- phone_number: <your phone number>\n" +
	"\n" +
	"- Your video: <send a video>"

func newTestRouter(t *testing.T) (*handlers.Router, database.Store) {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := database.NewStore(db, logger)
	cfg := &config.Config{Messages: config.DefaultMessages}

	deps := handlers.HandlerDeps{
		Logger: logger,
		Config: cfg,
		Registration: registration.NewService(store, logger, registration.Options{
			OperationTimeout: 5 * time.Second,
			MaxVideoSize:     50_000_000,
		}),
	}
	return handlers.NewRouter(deps), store
}

func textUpdate(chatID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{Chat: models.Chat{ID: chatID}, Text: text}}
}

// videoUpdate decodes the update from JSON the way it arrives from Telegram.
func videoUpdate(chatID int64, fileID string, size int64) *models.Update {
	raw := fmt.Sprintf(`{"update_id":1,"message":{"message_id":1,"date":0,"chat":{"id":%d,"type":"private"},`+
		`"video":{"file_id":%q,"file_unique_id":"u","width":1,"height":1,"duration":1,"file_size":%d}}}`,
		chatID, fileID, size)

	var update models.Update
	if err := json.Unmarshal([]byte(raw), &update); err != nil {
		panic(err)
	}
	return &update
}

func TestRouter_Classification(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		update    *models.Update
		wantRoute string
	}{
		{name: "start", update: textUpdate(1, "/start"), wantRoute: "start"},
		{name: "start with bot name", update: textUpdate(1, "/start@enroll_bot"), wantRoute: "start"},
		{name: "start upper case", update: textUpdate(1, "/START"), wantRoute: "start"},
		{name: "help", update: textUpdate(1, "/help"), wantRoute: "help"},
		{name: "status", update: textUpdate(1, "/status"), wantRoute: "status"},
		{name: "unknown command", update: textUpdate(1, "/first_name: Ada"), wantRoute: "unknown_command"},
		{name: "first name", update: textUpdate(1, "first_name: Ada"), wantRoute: "first_name"},
		{name: "last name", update: textUpdate(1, "Last_Name: Lovelace"), wantRoute: "last_name"},
		{name: "phone", update: textUpdate(1, "PHONE_NUMBER: 1"), wantRoute: "phone_number"},
		{name: "label without value", update: textUpdate(1, "first_name:"), wantRoute: "first_name"},
		{name: "video", update: videoUpdate(1, "f", 1), wantRoute: "video"},
		{name: "plain text", update: textUpdate(1, "hello there"), wantRoute: "unrecognized"},
		{name: "label mid sentence", update: textUpdate(1, "my first_name: Ada"), wantRoute: "unrecognized"},
		{name: "empty message", update: textUpdate(1, ""), wantRoute: "unrecognized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, _ := router.Dispatch(ctx, tt.update)
			assert.Equal(t, tt.wantRoute, route)
		})
	}
}

func TestRouter_GreetingThenFields(t *testing.T) {
	t.Parallel()
	router, store := newTestRouter(t)
	ctx := context.Background()

	steps := []struct {
		update      *models.Update
		wantText    string
		wantOutcome string
	}{
		{update: textUpdate(42, "/start"), wantText: welcome, wantOutcome: metrics.OutcomeOK},
		{update: textUpdate(42, "first_name: Ada"), wantText: "Your first name has been successfully registered", wantOutcome: metrics.OutcomeOK},
		{update: textUpdate(42, "first_name:  Grace "), wantText: "Your first name has been successfully registered", wantOutcome: metrics.OutcomeOK},
		{update: textUpdate(42, "last_name: Hopper"), wantText: "Your last name has been successfully registered", wantOutcome: metrics.OutcomeOK},
		{update: textUpdate(42, "phone_number: 555-1234"), wantText: "Your phone number has been successfully registered", wantOutcome: metrics.OutcomeOK},
		{update: textUpdate(42, "phone_number:   "), wantText: "The phone number format is not valid, please send it again", wantOutcome: metrics.OutcomeInvalidFormat},
		{update: videoUpdate(42, "big", 50_000_001), wantText: "The video file size is too large, please send a file less than 50MB", wantOutcome: metrics.OutcomeTooLarge},
		{update: videoUpdate(42, "clip", 50_000_000), wantText: "Your video has been successfully registered", wantOutcome: metrics.OutcomeOK},
		{update: textUpdate(42, "/start"), wantText: welcome, wantOutcome: metrics.OutcomeOK},
		{update: textUpdate(42, "what now?"), wantText: "I didn't understand, please try again!", wantOutcome: metrics.OutcomeOK},
	}

	for i, step := range steps {
		_, reply := router.Dispatch(ctx, step.update)
		assert.Equal(t, step.wantText, reply.Text, "step %d", i)
		assert.Equal(t, step.wantOutcome, reply.Outcome, "step %d", i)
	}

	record, err := store.FindByChannel(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Grace", record.FirstName.String)
	assert.Equal(t, "Hopper", record.LastName.String)
	assert.Equal(t, "555-1234", record.PhoneNumber.String)
	assert.Equal(t, "clip", record.VideoFileID.String)

	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRouter_FieldsWithoutSession(t *testing.T) {
	t.Parallel()
	router, store := newTestRouter(t)
	ctx := context.Background()

	const noSession = "Oops! Something went wrong, please use the /start command"

	for _, update := range []*models.Update{
		textUpdate(7, "phone_number: 555-1234"),
		textUpdate(7, "first_name: Ada"),
		textUpdate(7, "first_name:"),
		videoUpdate(7, "clip", 100),
		videoUpdate(7, "huge", 60_000_000),
		textUpdate(7, "/status"),
	} {
		_, reply := router.Dispatch(ctx, update)
		assert.Equal(t, noSession, reply.Text)
		assert.Equal(t, metrics.OutcomeUnknownSession, reply.Outcome)
	}

	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRouter_HelpDoesNotCreateRecord(t *testing.T) {
	t.Parallel()
	router, store := newTestRouter(t)
	ctx := context.Background()

	_, reply := router.Dispatch(ctx, textUpdate(3, "/help"))
	assert.Equal(t, welcome, reply.Text)

	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRouter_Status(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)
	ctx := context.Background()

	router.Dispatch(ctx, textUpdate(5, "/start"))
	router.Dispatch(ctx, textUpdate(5, "first_name: Ada"))
	router.Dispatch(ctx, videoUpdate(5, "AgADBAAD", 10))

	_, reply := router.Dispatch(ctx, textUpdate(5, "/status"))
	assert.Equal(t, "Here is what you have registered so far:\n"+
		"- first name: Ada\n"+
		"- last name: not sent yet\n"+
		"- phone number: not sent yet\n"+
		"- video: received", reply.Text)
	assert.NotContains(t, reply.Text, "AgADBAAD")
}

// fakeTelegram records sendMessage calls made by the bot client.
type fakeTelegram struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	ChatID string
	Text   string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
		return
	}

	params := map[string]string{}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		for k, v := range body {
			b, _ := json.Marshal(v)
			params[k] = strings.Trim(string(b), `"`)
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for k := range r.MultipartForm.Value {
				params[k] = r.FormValue(k)
			}
		}
	default:
		_ = r.ParseForm()
		for k := range r.Form {
			params[k] = r.FormValue(k)
		}
	}

	f.mu.Lock()
	f.sent = append(f.sent, sentMessage{ChatID: params["chat_id"], Text: params["text"]})
	f.mu.Unlock()

	_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`)
}

func (f *fakeTelegram) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func TestRouter_HandleSendsOneReply(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	fake := &fakeTelegram{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	b, err := bot.New("123:test", bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	require.NoError(t, err)

	ctx := context.Background()
	router.Handle(ctx, b, textUpdate(42, "hello"))
	router.Handle(ctx, b, textUpdate(42, "first_name: Ada"))
	router.Handle(ctx, b, &models.Update{ID: 1})

	sent := fake.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, sentMessage{ChatID: "42", Text: "I didn't understand, please try again!"}, sent[0])
	assert.Equal(t, sentMessage{ChatID: "42", Text: "Oops! Something went wrong, please use the /start command"}, sent[1])
}

func TestRecover_SwallowsPanic(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := handlers.Recover(logger)(func(context.Context, *bot.Bot, *models.Update) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		handler(context.Background(), nil, &models.Update{ID: 3})
	})
}
