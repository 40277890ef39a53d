// Package handlers contains the Telegram update handlers, the ordered router
// that picks exactly one of them per update, and their middleware.
package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/enrollbot/internal/metrics"
)

// Reply is the single text message sent back for an update, plus the outcome
// recorded in metrics.
type Reply struct {
	Text    string
	Outcome string
}

// HandleFunc handles a message update and returns its reply.
type HandleFunc func(ctx context.Context, update *models.Update) Reply

// Route pairs a predicate with the handler that runs when it matches.
type Route struct {
	Name   string
	Match  func(update *models.Update) bool
	Handle HandleFunc
}

// Router evaluates routes in order and runs the first match. The fallback
// handles everything no route claims, so every message gets exactly one reply.
type Router struct {
	routes   []Route
	fallback Route
	logger   *slog.Logger
}

// NewRouter builds the router with the routes from RegisterRoutes.
func NewRouter(deps HandlerDeps) *Router {
	return &Router{
		routes:   RegisterRoutes(deps),
		fallback: Route{Name: "unrecognized", Handle: NewFallbackHandler(deps)},
		logger:   deps.Logger.With("component", "router"),
	}
}

// Dispatch runs the first matching route and returns its name and reply.
func (r *Router) Dispatch(ctx context.Context, update *models.Update) (string, Reply) {
	for _, route := range r.routes {
		if route.Match(update) {
			return route.Name, route.Handle(ctx, update)
		}
	}
	return r.fallback.Name, r.fallback.Handle(ctx, update)
}

// Handle is the bot's default handler: it dispatches the update and sends the reply.
func (r *Router) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		r.logger.DebugContext(ctx, "Ignoring update without message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	route, reply := r.Dispatch(ctx, update)
	metrics.UpdatesTotal.WithLabelValues(route, reply.Outcome).Inc()

	if reply.Text == "" {
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: reply.Text})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID, "route", route)
		return
	}
	r.logger.DebugContext(ctx, "Reply sent", "chat_id", chatID, "route", route, "outcome", reply.Outcome)
}

// commandName returns the lower-cased command of a message such as
// "/start@my_bot arg" ("start"), or false when the text is not a command.
func commandName(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at != -1 {
		name = name[:at]
	}
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}

func isCommand(update *models.Update) bool {
	if update.Message == nil {
		return false
	}
	_, ok := commandName(update.Message.Text)
	return ok
}

func matchCommand(command string) func(*models.Update) bool {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		name, ok := commandName(update.Message.Text)
		return ok && name == command
	}
}
