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

// DraftController owns the Drafts write and reporting paths.
type DraftController struct {
	Drafts *services.DraftService
	Log    *logrus.Logger
}

// NewDraftController creates a new instance of DraftController
func NewDraftController(drafts *services.DraftService, log *logrus.Logger) *DraftController {
	return &DraftController{Drafts: drafts, Log: log}
}

// CreateDraft handles upserting a draft record
func (c *DraftController) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	draft.LeagueID = mux.Vars(r)["leagueId"]
	if draft.Title == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	if draft.DraftID == "" {
		draft.DraftID = uuid.NewString()
	}

	if err := c.Drafts.PutDraft(r.Context(), draft); err != nil {
		c.Log.WithError(err).Error("failed to put draft")
		writeError(w, err, "Failed to save draft")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Draft saved successfully",
		"draft":   draft,
	})
}

// GetDraftsByTitle handles title lookup through the secondary index
func (c *DraftController) GetDraftsByTitle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	drafts, err := c.Drafts.QueryDraftsByTitle(r.Context(), vars["leagueId"], vars["title"])
	if err != nil {
		c.Log.WithError(err).Error("failed to query drafts by title")
		writeError(w, err, "Failed to fetch drafts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"drafts": drafts})
}
