package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/guest", handler.Guest)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Get("", handler.ListEntries)
	entries.Post("", handler.CreateEntry)
	entries.Get("/today", handler.TodaysEntry)
	entries.Patch("/:id", handler.UpdateEntry)
	entries.Delete("", handler.DeleteAllData)
	entries.Post("/:id/analysis", handler.GenerateEntryAnalysis)

	weekly := api.Group("/weekly", handler.AuthRequired)
	weekly.Get("", handler.ListWeeklyAnalyses)
	weekly.Post("", handler.GenerateWeeklyAnalysis)

	stats := api.Group("/stats", handler.AuthRequired)
	stats.Get("/streak", handler.GetStreak)

	access := api.Group("/access", handler.AuthRequired)
	access.Get("", handler.GetAccess)

	billingGroup := api.Group("/billing", handler.AuthRequired)
	billingGroup.Post("/purchase", handler.Purchase)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/json", handler.ExportJSON)
	export.Get("/csv", handler.ExportCSV)
}
