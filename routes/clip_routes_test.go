package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hooparchives_server/services"
)

func TestClipRoutesRegistered(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := mux.NewRouter()
	RegisterClipRoutes(r, &services.ClipService{}, log)

	cases := []struct {
		name string
		path string
	}{
		{"league listing", "/api/clips/league-1"},
		{"single clip", "/api/clips/league-1/clip-1"},
		{"by game", "/api/clips/league-1/game/game-1"},
		{"by title", "/api/clips/league-1/title/Season%20Opener"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, c.path, nil)
			var match mux.RouteMatch
			if !r.Match(req, &match) || match.MatchErr != nil {
				t.Errorf("no route matches GET %s", c.path)
			}
		})
	}

	// Writes are not part of the clip surface; the worker is the only writer.
	req := httptest.NewRequest(http.MethodPost, "/api/clips/league-1", nil)
	var match mux.RouteMatch
	if r.Match(req, &match) && match.MatchErr == nil {
		t.Errorf("POST /api/clips/{leagueId} should not be routable")
	}
}
