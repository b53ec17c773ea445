package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Tickets  *handlers.TicketsHandler
	Replies  *handlers.RepliesHandler
	Webhooks *handlers.WebhooksHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/tickets", cfg.Tickets.ListTickets)
	app.Post("/tickets", cfg.Tickets.CreateTicket)
	app.Get("/tickets/:id", cfg.Tickets.GetTicket)
	app.Put("/tickets/:id", cfg.Tickets.UpdateTicket)
	app.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)

	app.Post("/replies", cfg.Replies.CreateReply)

	webhooks := app.Group("/webhooks")
	webhooks.Post("/email", cfg.Webhooks.Email)
	webhooks.Post("/sms", cfg.Webhooks.SMS)
}
