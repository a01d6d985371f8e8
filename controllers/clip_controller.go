package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hooparchives_server/services"
)

// ClipController serves the reporting read paths over clips. The worker
// never calls these; they exist for external readers.
type ClipController struct {
	Clips *services.ClipService
	Log   *logrus.Logger
}

// NewClipController creates a new instance of ClipController
func NewClipController(clips *services.ClipService, log *logrus.Logger) *ClipController {
	return &ClipController{Clips: clips, Log: log}
}

// GetClip handles fetching a single clip by id
func (c *ClipController) GetClip(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clip, err := c.Clips.GetClip(r.Context(), vars["leagueId"], vars["clipId"])
	if err != nil {
		writeError(w, err, "Failed to fetch clip")
		return
	}
	writeJSON(w, http.StatusOK, clip)
}

// GetClips handles listing every clip in a league
func (c *ClipController) GetClips(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clips, err := c.Clips.QueryClips(r.Context(), vars["leagueId"])
	if err != nil {
		c.Log.WithError(err).Error("failed to query clips")
		writeError(w, err, "Failed to fetch clips")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"clips": clips})
}

// GetClipsByGame handles listing a game's clips
func (c *ClipController) GetClipsByGame(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clips, err := c.Clips.QueryClipsByGame(r.Context(), vars["leagueId"], vars["gameId"])
	if err != nil {
		c.Log.WithError(err).Error("failed to query clips by game")
		writeError(w, err, "Failed to fetch clips")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"clips": clips})
}

// GetClipsByTitle handles listing clips by game title
func (c *ClipController) GetClipsByTitle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clips, err := c.Clips.QueryClipsByTitle(r.Context(), vars["leagueId"], vars["title"])
	if err != nil {
		c.Log.WithError(err).Error("failed to query clips by title")
		writeError(w, err, "Failed to fetch clips")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"clips": clips})
}
