package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/openleague/league-system/handlers"
	"github.com/openleague/league-system/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	leagueHandler *handlers.LeagueHandler,
	memberHandler *handlers.MemberHandler,
	inviteHandler *handlers.InviteHandler,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	router.Post("/auth/signup", authHandler.SignUp)
	router.Post("/auth/signin", authHandler.SignIn)

	router.Route("/invites", func(r chi.Router) {
		r.Get("/{token}", inviteHandler.GetInvite)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{token}/accept", inviteHandler.AcceptInvite)
		})
	})

	router.Route("/leagues", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/", leagueHandler.CreateLeague)
		r.Get("/", leagueHandler.ListMyLeagues)

		r.Route("/{leagueID}", func(r chi.Router) {
			r.Get("/", leagueHandler.GetLeague)
			r.Patch("/", leagueHandler.UpdateLeague)
			r.Post("/logo", leagueHandler.UploadLogo)

			r.Get("/members", memberHandler.ListMembers)
			r.Delete("/members/{userID}", memberHandler.RemoveMember)
			r.Post("/members/{userID}/promote", memberHandler.PromoteMember)

			r.Post("/invites", inviteHandler.CreateInvite)
			r.Get("/invites", inviteHandler.ListInvites)
			r.Delete("/invites/{inviteID}", inviteHandler.RevokeInvite)

			r.Post("/bracket", bracketHandler.GenerateBracket)
			r.Get("/bracket", bracketHandler.GetBracket)
			r.Get("/standings", bracketHandler.GetStandings)

			r.Get("/matches", matchHandler.ListLeagueMatches)
			r.Put("/matches/{round}/{matchNumber}/result", matchHandler.SubmitResult)
			r.Put("/matches/{round}/{matchNumber}/players", matchHandler.AssignPlayers)
		})
	})
}
