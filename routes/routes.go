package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quadrahub/chaveamento/handlers"
	"github.com/quadrahub/chaveamento/middleware"
)

// SetupRoutes wires the API. Reads are public (spectator view); every
// mutation requires an organizer token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	allowedOrigins []string,
	authHandler *handlers.AuthHandler,
	modalityHandler *handlers.ModalityHandler,
	teamHandler *handlers.TeamHandler,
	bracketHandler *handlers.BracketHandler,
	snapshotHandler *handlers.SnapshotHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	organizerOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate([]byte(jwtSecret)))
		r.Use(middleware.Authorize(middleware.RoleOrganizer))
	}

	router.Post("/auth/login", authHandler.Login)

	router.Get("/modality", modalityHandler.GetModality)
	router.Group(func(r chi.Router) {
		organizerOnly(r)
		r.Put("/modality", modalityHandler.SetModality)
	})

	router.Route("/modalities/{modality}", func(r chi.Router) {
		r.Get("/teams", teamHandler.ListTeams)
		r.Get("/bracket", bracketHandler.GetBracket)

		r.Group(func(r chi.Router) {
			organizerOnly(r)

			r.Post("/teams", teamHandler.AddTeam)
			r.Delete("/teams/{name}", teamHandler.RemoveTeam)

			r.Post("/bracket", bracketHandler.GenerateBracket)
			r.Delete("/bracket", bracketHandler.ResetTournament)
			r.Post("/matches/{round}/{match}/score", bracketHandler.RecordScore)
		})
	})

	router.Get("/export", snapshotHandler.Export)
	router.Group(func(r chi.Router) {
		organizerOnly(r)
		r.Post("/import", snapshotHandler.Import)
		r.Post("/snapshot/backup", snapshotHandler.Backup)
	})

	router.Get("/ws/{modality}", webSocketHandler.ServeWs)
}
