// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"github.com/gofiber/fiber/v2"

	"feeview/internal/handlers"
	"feeview/internal/middleware"
	"feeview/internal/models"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Health    *handlers.HealthHandler
	Breakdown *handlers.BreakdownHandler
	Pricing   *handlers.PricingHandler
	Auth      *middleware.AuthMiddleware
}

// SetupRoutes configures all application routes.
// It groups routes by console and applies appropriate middleware.
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", h.Health.HealthCheck)

	api := app.Group("/api", h.Auth.Handler)

	// Admin console
	admin := api.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	tx := admin.Group("/transactions", middleware.HasPermission(models.PermissionTransactionRead))
	tx.Get("/", h.Breakdown.ListTransactions)
	tx.Get("/summary", h.Breakdown.Summary)
	tx.Get("/export.csv", middleware.HasPermission(models.PermissionReportsExport), h.Breakdown.ExportCSV)
	tx.Get("/:id", h.Breakdown.GetTransaction)
	tx.Get("/:id/breakdown", h.Breakdown.GetBreakdown)
	admin.Post("/pricing/quote", middleware.HasPermission(models.PermissionPricingRead), h.Pricing.Quote)

	// Partner console, scoped to the partner in the token
	partner := api.Group("/partner", middleware.RequireRole(models.RolePartner))
	ptx := partner.Group("/transactions", middleware.HasPermission(models.PermissionTransactionRead))
	ptx.Get("/", h.Breakdown.ListTransactions)
	ptx.Get("/:id/breakdown", h.Breakdown.GetBreakdown)
}
