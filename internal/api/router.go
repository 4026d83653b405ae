// Package api provides the HTTP adapter over the assessment engine.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/huangsam/mindscore/core"
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/rs/cors"
)

// shutdownTimeout bounds how long in-flight requests get on shutdown.
const shutdownTimeout = 5 * time.Second

// NewRouter creates the API router with all endpoints.
func NewRouter(cfg *contract.Config, eng *core.Engine, mgr contract.StoreManager) http.Handler {
	h := NewHandler(cfg, eng, mgr)

	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/health", h.Health).Methods("GET")

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/instruments", h.ListInstruments).Methods("GET")
	v1.HandleFunc("/instruments/{key}", h.GetInstrument).Methods("GET")
	v1.HandleFunc("/score", h.Score).Methods("POST")
	v1.HandleFunc("/trend", h.Trend).Methods("POST")
	v1.HandleFunc("/insight", h.Insight).Methods("POST")

	// Store-backed routes
	v1.HandleFunc("/users/{userID}/results", h.RecordResult).Methods("POST")
	v1.HandleFunc("/users/{userID}/insight", h.UserInsight).Methods("GET")
	v1.HandleFunc("/users/{userID}/instruments/{key}/trend", h.UserTrend).Methods("GET")

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// Serve listens on the configured address until ctx is canceled.
func Serve(ctx context.Context, cfg *contract.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.ServeAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		contract.LogInfo("Listening on %s", cfg.ServeAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
