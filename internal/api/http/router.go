package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/centraldesk/helpdesk-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Tickets      *handlers.TicketsHandler
	History      *handlers.HistoryHandler
	Users        *handlers.UsersHandler
	Interactions *handlers.InteractionsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Patch("/tickets/:id/status", cfg.Tickets.UpdateStatus)

	api.Post("/ticket-history", cfg.History.RecordChange)
	api.Post("/ticket-history/batch", cfg.History.RecordMultipleChanges)
	api.Get("/ticket-history/date-range", cfg.History.GetByDateRange)
	api.Get("/ticket-history/ticket/:ticketId", cfg.History.GetByTicket)
	api.Get("/ticket-history/ticket/:ticketId/count", cfg.History.CountByTicket)
	api.Get("/ticket-history/ticket/:ticketId/latest", cfg.History.LatestByTicket)
	api.Get("/ticket-history/ticket/:ticketId/report", cfg.History.ActivityReport)
	api.Get("/ticket-history/user/:userId", cfg.History.GetByUser)
	api.Get("/ticket-history/status/:status", cfg.History.GetByStatus)
	api.Get("/ticket-history/:id", cfg.History.GetByID)

	api.Post("/users", cfg.Users.CreateUser)
	api.Get("/users", cfg.Users.ListUsers)
	api.Get("/users/:id", cfg.Users.GetUser)
	api.Put("/users/:id", cfg.Users.UpdateUser)
	api.Delete("/users/:id", cfg.Users.DeleteUser)

	api.Post("/interactions", cfg.Interactions.CreateInteraction)
	api.Get("/interactions/ticket/:ticketId", cfg.Interactions.ListByTicket)
	api.Get("/interactions/ticket/:ticketId/count", cfg.Interactions.CountByTicket)
	api.Get("/interactions/user/:userId", cfg.Interactions.ListByUser)
	api.Get("/interactions/:id", cfg.Interactions.GetInteraction)
	api.Put("/interactions/:id", cfg.Interactions.UpdateInteraction)
	api.Delete("/interactions/:id", cfg.Interactions.DeleteInteraction)
}
