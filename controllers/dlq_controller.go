package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hooparchives_server/access"
	"hooparchives_server/models"
	"hooparchives_server/queue"
)

// DLQController is the operator surface over the dead-letter sink.
// Dead-lettered jobs are the only failures the pipeline surfaces; everything
// else heals itself through redelivery.
type DLQController struct {
	Queue *queue.Queue
	Log   *logrus.Logger
}

// NewDLQController creates a new instance of DLQController
func NewDLQController(q *queue.Queue, log *logrus.Logger) *DLQController {
	return &DLQController{Queue: q, Log: log}
}

type deadLetterView struct {
	ID         string          `json:"id"`
	Job        *models.TrimJob `json:"job,omitempty"`
	RawBody    string          `json:"rawBody,omitempty"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt string          `json:"enqueuedAt"`
	DeadAt     string          `json:"deadAt"`
	Reason     string          `json:"reason"`
}

// ListDeadLetters handles listing the dead-letter sink contents
func (c *DLQController) ListDeadLetters(w http.ResponseWriter, r *http.Request) {
	letters, err := c.Queue.DeadLetters(r.Context(), access.PrincipalOperator)
	if err != nil {
		c.Log.WithError(err).Error("failed to list dead letters")
		writeError(w, err, "Failed to list dead letters")
		return
	}

	views := make([]deadLetterView, 0, len(letters))
	for _, dl := range letters {
		view := deadLetterView{
			ID:         dl.ID,
			Attempts:   dl.Attempts,
			EnqueuedAt: dl.EnqueuedAt.Format(time.RFC3339),
			DeadAt:     dl.DeadAt.Format(time.RFC3339),
			Reason:     dl.Reason,
		}
		// Malformed payloads are dead-lettered too; show those raw.
		var job models.TrimJob
		if err := json.Unmarshal(dl.Body, &job); err == nil {
			view.Job = &job
		} else {
			view.RawBody = string(dl.Body)
		}
		views = append(views, view)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"deadLetters": views})
}

// RedriveDeadLetter handles moving one dead letter back onto the main queue
func (c *DLQController) RedriveDeadLetter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := c.Queue.Redrive(r.Context(), access.PrincipalOperator, id); err != nil {
		if errors.Is(err, queue.ErrUnknownMessage) {
			http.Error(w, "Dead letter not found", http.StatusNotFound)
			return
		}
		c.Log.WithError(err).Error("failed to redrive dead letter")
		writeError(w, err, "Failed to redrive dead letter")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Dead letter redriven",
		"messageId": id,
	})
}
