package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/pranavarma/bellhop/config"
	"github.com/pranavarma/bellhop/events"
	"github.com/pranavarma/bellhop/letterboxd"
	"github.com/pranavarma/bellhop/metrics"
	"github.com/pranavarma/bellhop/photos"
	"github.com/pranavarma/bellhop/spotify"
)

func renderJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// RegisterRoutes wires up every endpoint plus the logging, metrics and
// CORS layers around them.
func RegisterRoutes(mux *http.ServeMux, cfg config.Config, sp *spotify.Client, lb *letterboxd.Service, m *metrics.Metrics) http.Handler {

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "Welcome to Bellhop, the data API behind my portfolio site.\n")
	})

	mux.HandleFunc("/api/spotify/now-playing", func(w http.ResponseWriter, r *http.Request) {
		// Always 200 with best-available data. A public widget should
		// never render a broken state because Spotify had a bad day.
		renderJSON(w, http.StatusOK, sp.NowPlaying())
	})

	mux.HandleFunc("/api/letterboxd", func(w http.ResponseWriter, r *http.Request) {
		films, err := lb.RecentFilms()
		if err != nil {
			slog.With("error", err).Error("Failed to fetch activity feed")
			renderJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch Letterboxd data"})
			return
		}
		renderJSON(w, http.StatusOK, films)
	})

	mux.HandleFunc("/api/photos", func(w http.ResponseWriter, r *http.Request) {
		gallery, err := photos.ListByCategory(cfg.Photos.Dir)
		if err != nil {
			slog.With("error", err).Error("Failed to read photos directory")
			renderJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read photos directory"})
			return
		}
		renderJSON(w, http.StatusOK, gallery)
	})

	mux.HandleFunc("/api/spotify/callback", sp.HandleCallback)
	mux.HandleFunc("/spotify-auth", sp.HandleAuthPage)

	mux.HandleFunc("/events", events.Server.ServeHTTP)
	mux.Handle("/metrics", m.Handler())

	var handler http.Handler = mux
	handler = metrics.RequestMiddleware(m)(handler)
	handler = requestLogger(handler)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"https://pranavarma.com", "https://www.pranavarma.com", "http://localhost:3000", "http://localhost:8080"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Origin, Content-Type, Accept"},
	})

	return c.Handler(handler)
}

// requestLogger logs each request with a unique id so slow or failing
// polls can be traced through the logs.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("request",
			slog.String("request_id", uuid.NewString()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("duration_ms", int(time.Since(start).Milliseconds())),
		)
	})
}
