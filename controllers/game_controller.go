package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hooparchives_server/models"
	"hooparchives_server/services"
)

// GameController owns the Games write and reporting paths, which sit
// outside the worker.
type GameController struct {
	Games *services.GameService
	Log   *logrus.Logger
}

// NewGameController creates a new instance of GameController
func NewGameController(games *services.GameService, log *logrus.Logger) *GameController {
	return &GameController{Games: games, Log: log}
}

// CreateGame handles upserting a game record
func (c *GameController) CreateGame(w http.ResponseWriter, r *http.Request) {
	var game models.Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	game.LeagueID = mux.Vars(r)["leagueId"]
	if game.Title == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	if game.GameID == "" {
		game.GameID = uuid.NewString()
	}

	if err := c.Games.PutGame(r.Context(), game); err != nil {
		c.Log.WithError(err).Error("failed to put game")
		writeError(w, err, "Failed to save game")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game saved successfully",
		"game":    game,
	})
}

// GetGame handles fetching a game by id
func (c *GameController) GetGame(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	game, err := c.Games.GetGame(r.Context(), vars["leagueId"], vars["gameId"])
	if err != nil {
		writeError(w, err, "Failed to fetch game")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// GetGamesByTitle handles title lookup through the secondary index
func (c *GameController) GetGamesByTitle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	games, err := c.Games.QueryGamesByTitle(r.Context(), vars["leagueId"], vars["title"])
	if err != nil {
		c.Log.WithError(err).Error("failed to query games by title")
		writeError(w, err, "Failed to fetch games")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}
