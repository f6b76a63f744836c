package routes

import (
	"horizonva/opsdesk/internal/api"
	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// This keeps API route registration separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, keysRepo *repositories.KeysRepo, jwtSecret string) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(keysRepo, jwtSecret)) // global: all v1 routes need a key or session token

		// Pilot routes. RequirePilot keeps service keys without a pilot
		// binding out of the duty endpoints.
		v1.Group(func(pilot chi.Router) {
			pilot.Use(middleware.RequirePilotMiddleware())

			pilot.Get("/pilots/me", handlers.GetMyStats())
			pilot.Get("/rosters", handlers.ListRosters())

			pilot.Post("/duty/start", handlers.StartDuty())
			pilot.Post("/duty/end", handlers.EndDuty())

			pilot.Post("/pireps", handlers.FileReport())
			pilot.Get("/pireps", handlers.ListMyReports())
		})

		// Dispatcher routes: registration desk, review queue, roster and
		// source management, manual generation runs.
		v1.Group(func(dispatch chi.Router) {
			dispatch.Use(middleware.RequireDispatcherMiddleware())

			dispatch.Post("/pilots", handlers.RegisterPilot())

			dispatch.Get("/pireps/pending", handlers.ListPendingReports())
			dispatch.Post("/pireps/{id}/approve", handlers.ApproveReport())
			dispatch.Post("/pireps/{id}/reject", handlers.RejectReport())

			dispatch.Post("/rosters", handlers.CreateRoster())
			dispatch.Delete("/rosters/{id}", handlers.DeleteRoster())

			dispatch.Get("/sources", handlers.ListSources())
			dispatch.Post("/sources", handlers.UpsertSource())
			dispatch.Delete("/sources/{id}", handlers.DeleteSource())

			dispatch.Post("/admin/jobs/roster-generation", handlers.TriggerRosterGeneration())
		})

		// Admin-only overrides
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireAdminMiddleware())

			admin.Post("/admin/pilots/{id}/force-rest", handlers.ForceRestPilot())
			admin.Delete("/admin/pilots/{id}", handlers.DeletePilot())
		})
	})
}
