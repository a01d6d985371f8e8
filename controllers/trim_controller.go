package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"hooparchives_server/access"
	"hooparchives_server/models"
	"hooparchives_server/queue"
)

// TrimController is the producer surface: it validates trim requests and
// enqueues them. Processing happens asynchronously in the worker.
type TrimController struct {
	Queue *queue.Queue
	Log   *logrus.Logger
}

// NewTrimController creates a new instance of TrimController
func NewTrimController(q *queue.Queue, log *logrus.Logger) *TrimController {
	return &TrimController{Queue: q, Log: log}
}

// RequestTrim enqueues one trim job. Invalid payloads are rejected here so
// they never reach the queue at all.
func (c *TrimController) RequestTrim(w http.ResponseWriter, r *http.Request) {
	var job models.TrimJob
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := job.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := json.Marshal(job)
	if err != nil {
		http.Error(w, "Failed to encode job", http.StatusInternalServerError)
		return
	}

	messageID, err := c.Queue.Enqueue(r.Context(), access.PrincipalProducer, body)
	if err != nil {
		c.Log.WithError(err).Error("failed to enqueue trim request")
		writeError(w, err, "Failed to enqueue trim request")
		return
	}

	c.Log.WithFields(logrus.Fields{
		"messageId": messageID,
		"leagueId":  job.LeagueID,
		"clipId":    job.ClipID,
	}).Info("trim request enqueued")

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message":   "Trim request enqueued",
		"messageId": messageID,
	})
}
