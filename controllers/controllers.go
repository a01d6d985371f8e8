package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hooparchives_server/access"
	"hooparchives_server/services"
)

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP status codes. An access-policy
// denial is a boundary failure, not a handler branch.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, access.ErrAccessDenied):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, services.ErrItemNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	default:
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
