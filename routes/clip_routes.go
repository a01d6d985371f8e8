package routes

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hooparchives_server/controllers"
	"hooparchives_server/services"
)

// RegisterClipRoutes sets up the reporting read paths for clips under /api/clips
func RegisterClipRoutes(r *mux.Router, clips *services.ClipService, log *logrus.Logger) {
	controller := controllers.NewClipController(clips, log)

	clipRouter := r.PathPrefix("/api/clips").Subrouter()
	clipRouter.HandleFunc("/{leagueId}", controller.GetClips).Methods("GET")
	clipRouter.HandleFunc("/{leagueId}/game/{gameId}", controller.GetClipsByGame).Methods("GET")
	clipRouter.HandleFunc("/{leagueId}/title/{title}", controller.GetClipsByTitle).Methods("GET")
	clipRouter.HandleFunc("/{leagueId}/{clipId}", controller.GetClip).Methods("GET")
}
