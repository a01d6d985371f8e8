package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hooparchives_server/models"
	"hooparchives_server/services"
)

// PlayerController owns the Players write and reporting paths.
type PlayerController struct {
	Players *services.PlayerService
	Log     *logrus.Logger
}

// NewPlayerController creates a new instance of PlayerController
func NewPlayerController(players *services.PlayerService, log *logrus.Logger) *PlayerController {
	return &PlayerController{Players: players, Log: log}
}

// CreatePlayer handles upserting a player record
func (c *PlayerController) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var player models.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	player.LeagueID = mux.Vars(r)["leagueId"]
	if player.FullName == "" {
		player.FullName = strings.TrimSpace(player.FirstName + " " + player.LastName)
	}
	if player.FullName == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	if player.PlayerID == "" {
		player.PlayerID = uuid.NewString()
	}

	if err := c.Players.PutPlayer(r.Context(), player); err != nil {
		c.Log.WithError(err).Error("failed to put player")
		writeError(w, err, "Failed to save player")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Player saved successfully",
		"player":  player,
	})
}

// GetPlayersByName handles full-name lookup through the secondary index
func (c *PlayerController) GetPlayersByName(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	players, err := c.Players.QueryPlayersByFullName(r.Context(), vars["leagueId"], vars["fullName"])
	if err != nil {
		c.Log.WithError(err).Error("failed to query players by name")
		writeError(w, err, "Failed to fetch players")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"players": players})
}
