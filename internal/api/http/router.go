package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/smartdesk/internal/api/http/handlers"
	"github.com/spec-kit/smartdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Analysis       *handlers.AnalysisHandler
	Tickets        *handlers.TicketsHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/signup", cfg.Users.Signup)
	api.Post("/login", cfg.Users.Login)

	// Analysis without persistence stays public.
	api.Post("/analyze", cfg.Analysis.Analyze)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Get("/me", cfg.Users.Me)
	protected.Post("/predict", cfg.Analysis.Predict)
	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Patch("/tickets/:id", cfg.Tickets.UpdateTicket)
	protected.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)
	protected.Get("/stats", cfg.Stats.Stats)
}
