package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthStatus is the /healthz response body
type healthStatus struct {
	Status string   `json:"status"`
	Bots   []string `json:"bots"`
	Uptime string   `json:"uptime"`
}

// statusRouter serves /healthz and /metrics
func (e *Engine) statusRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", e.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// startStatusServer starts the status HTTP server in a separate goroutine
func (e *Engine) startStatusServer() {
	addr := fmt.Sprintf(":%d", e.config.StatusServer.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           e.statusRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	e.mu.Lock()
	e.statusServer = server
	e.mu.Unlock()

	logger.WithField("address", addr).Info("status-server-listening")
	go func() {
		// Shutdown makes ListenAndServe return ErrServerClosed
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("status-server-error: %v", err)
		}
		logger.Info("status-server-stopped")
	}()
}

// handleHealthz reports 200 while at least one bot is connected, 503 otherwise
func (e *Engine) handleHealthz(w http.ResponseWriter, r *http.Request) {
	bots := e.StartedBots()
	status := healthStatus{
		Status: "ok",
		Bots:   bots,
	}
	if !e.startedAt.IsZero() {
		status.Uptime = time.Since(e.startedAt).Round(time.Second).String()
	}

	code := http.StatusOK
	if len(bots) == 0 {
		status.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		logger.WithError(err).Warn("failed-to-write-health-status")
	}
}
