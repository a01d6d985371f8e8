package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"hooparchives_server/access"
	"hooparchives_server/services"
)

func TestGetClipsChecksPrincipal(t *testing.T) {
	// Producers have no read grant on the clips table; the handler surfaces
	// the policy denial before any table query happens.
	clips := &services.ClipService{
		Table:     "Clips",
		Policy:    access.DefaultPolicy(),
		Principal: access.PrincipalProducer,
	}
	c := NewClipController(clips, discardLogger())

	router := mux.NewRouter()
	router.HandleFunc("/api/clips/{leagueId}", c.GetClips).Methods("GET")
	req := httptest.NewRequest(http.MethodGet, "/api/clips/league-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}
