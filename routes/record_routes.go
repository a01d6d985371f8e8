package routes

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hooparchives_server/controllers"
	"hooparchives_server/services"
)

// RegisterPlayerRoutes sets up routes for player operations under /api/players
func RegisterPlayerRoutes(r *mux.Router, players *services.PlayerService, log *logrus.Logger) {
	controller := controllers.NewPlayerController(players, log)

	playerRouter := r.PathPrefix("/api/players").Subrouter()
	playerRouter.HandleFunc("/{leagueId}", controller.CreatePlayer).Methods("POST")
	playerRouter.HandleFunc("/{leagueId}/name/{fullName}", controller.GetPlayersByName).Methods("GET")
}

// RegisterDraftRoutes sets up routes for draft operations under /api/drafts
func RegisterDraftRoutes(r *mux.Router, drafts *services.DraftService, log *logrus.Logger) {
	controller := controllers.NewDraftController(drafts, log)

	draftRouter := r.PathPrefix("/api/drafts").Subrouter()
	draftRouter.HandleFunc("/{leagueId}", controller.CreateDraft).Methods("POST")
	draftRouter.HandleFunc("/{leagueId}/title/{title}", controller.GetDraftsByTitle).Methods("GET")
}

// RegisterStatRoutes sets up routes for stat operations under /api/stats
func RegisterStatRoutes(r *mux.Router, stats *services.StatService, log *logrus.Logger) {
	controller := controllers.NewStatController(stats, log)

	statRouter := r.PathPrefix("/api/stats").Subrouter()
	statRouter.HandleFunc("/{leagueId}", controller.CreateStat).Methods("POST")
	statRouter.HandleFunc("/{leagueId}/player/{playerId}", controller.GetStatsByPlayer).Methods("GET")
	statRouter.HandleFunc("/{leagueId}/game/{gameId}", controller.GetStatsByGame).Methods("GET")
}
