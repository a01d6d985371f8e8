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

// StatController owns the Stats write and reporting paths.
type StatController struct {
	Stats *services.StatService
	Log   *logrus.Logger
}

// NewStatController creates a new instance of StatController
func NewStatController(stats *services.StatService, log *logrus.Logger) *StatController {
	return &StatController{Stats: stats, Log: log}
}

// CreateStat handles upserting a stat line
func (c *StatController) CreateStat(w http.ResponseWriter, r *http.Request) {
	var stat models.Stat
	if err := json.NewDecoder(r.Body).Decode(&stat); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	stat.LeagueID = mux.Vars(r)["leagueId"]
	if stat.PlayerID == "" || stat.GameID == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	if stat.StatID == "" {
		stat.StatID = uuid.NewString()
	}

	if err := c.Stats.PutStat(r.Context(), stat); err != nil {
		c.Log.WithError(err).Error("failed to put stat")
		writeError(w, err, "Failed to save stat")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Stat saved successfully",
		"stat":    stat,
	})
}

// GetStatsByPlayer handles listing a player's stat lines
func (c *StatController) GetStatsByPlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	stats, err := c.Stats.QueryStatsByPlayer(r.Context(), vars["leagueId"], vars["playerId"])
	if err != nil {
		c.Log.WithError(err).Error("failed to query stats by player")
		writeError(w, err, "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

// GetStatsByGame handles listing a game's stat lines
func (c *StatController) GetStatsByGame(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	stats, err := c.Stats.QueryStatsByGame(r.Context(), vars["leagueId"], vars["gameId"])
	if err != nil {
		c.Log.WithError(err).Error("failed to query stats by game")
		writeError(w, err, "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}
