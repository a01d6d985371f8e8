package routes

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hooparchives_server/controllers"
	"hooparchives_server/services"
)

// RegisterGameRoutes sets up routes for game operations under /api/games
func RegisterGameRoutes(r *mux.Router, games *services.GameService, log *logrus.Logger) {
	controller := controllers.NewGameController(games, log)

	gameRouter := r.PathPrefix("/api/games").Subrouter()
	gameRouter.HandleFunc("/{leagueId}", controller.CreateGame).Methods("POST")
	gameRouter.HandleFunc("/{leagueId}/title/{title}", controller.GetGamesByTitle).Methods("GET")
	gameRouter.HandleFunc("/{leagueId}/{gameId}", controller.GetGame).Methods("GET")
}
