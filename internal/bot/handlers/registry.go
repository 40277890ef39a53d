package handlers

import (
	"github.com/go-telegram/bot/models"

	"github.com/edgard/enrollbot/internal/registration"
)

// RegisterRoutes returns the routes in priority order. Commands come first,
// then labelled fields, then videos; the router's fallback catches the rest.
func RegisterRoutes(deps HandlerDeps) []Route {
	routes := []Route{
		{Name: "start", Match: matchCommand("start"), Handle: NewStartHandler(deps)},
		{Name: "help", Match: matchCommand("help"), Handle: NewHelpHandler(deps)},
		{Name: "status", Match: matchCommand("status"), Handle: NewStatusHandler(deps)},
		// Unknown commands must not fall through to the field routes.
		{Name: "unknown_command", Match: isCommand, Handle: NewFallbackHandler(deps)},
	}

	for _, field := range registration.TextFields() {
		routes = append(routes, Route{
			Name:   field.Label,
			Match:  matchLabel(field),
			Handle: NewFieldHandler(deps, field),
		})
	}

	routes = append(routes, Route{
		Name:   registration.Video.Label,
		Match:  hasVideo,
		Handle: NewVideoHandler(deps),
	})

	return routes
}

func matchLabel(field *registration.Field) func(*models.Update) bool {
	return func(update *models.Update) bool {
		return update.Message != nil && field.HasLabel(update.Message.Text)
	}
}

func hasVideo(update *models.Update) bool {
	return update.Message != nil && update.Message.Video != nil
}
