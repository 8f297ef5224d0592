package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffdesk/helpdesk-api/internal/api/http/handlers"
	"github.com/staffdesk/helpdesk-api/internal/auth"
	"github.com/staffdesk/helpdesk-api/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Catalogs       *handlers.CatalogsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Health probes are public; every
// other route passes through the auth middleware, and mutating catalog
// and ticket-creation routes additionally require the admin role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authenticated := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := authenticated.Group("/tickets")
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/summary", cfg.Tickets.Summary)
	tickets.Get("/queue-preview", cfg.Tickets.QueuePreview)
	tickets.Post("/", auth.RequireAdmin(), cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Detail)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)
	tickets.Patch("/:id/messages/:messageId", cfg.Tickets.UpdateMessage)
	tickets.Post("/:id/assign-to-me", cfg.Tickets.AssignToMe)
	tickets.Post("/:id/close", cfg.Tickets.Close)

	catalogs := authenticated.Group("/catalogs")
	for path, table := range map[string]domain.CatalogTable{
		"departments": domain.CatalogDepartments,
		"products":    domain.CatalogProducts,
		"categories":  domain.CatalogCategories,
	} {
		catalogs.Get("/"+path, cfg.Catalogs.ListItems(table))
		catalogs.Post("/"+path, auth.RequireAdmin(), cfg.Catalogs.CreateItem(table))
		catalogs.Patch("/"+path+"/:id", auth.RequireAdmin(), cfg.Catalogs.UpdateItem(table))
	}
	catalogs.Get("/companies", cfg.Catalogs.ListItems(domain.CatalogCompanies))
	catalogs.Get("/company-contacts", cfg.Catalogs.ListContacts)

	users := authenticated.Group("/users")
	users.Get("/me", cfg.Users.Me)
	users.Get("/staff", cfg.Users.Staff)
	users.Patch("/me/preferences", cfg.Users.UpdatePreferences)
}
