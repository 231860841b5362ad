package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// Page and its form actions
	app.Get("/", handler.Page)
	app.Post("/locate", handler.Locate)
	app.Post("/query", handler.SetQuery)
	app.Post("/submit", handler.Submit)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/session", handler.GetSession)
		api.Get("/weather", handler.GetWeather)
		api.Get("/history", handler.GetHistory)
	}
}
