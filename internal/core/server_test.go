package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/esabouraud/steamscordbot/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRouter_Healthz(t *testing.T) {
	engine, _ := newTestEngine()
	router := engine.statusRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status healthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "unavailable", status.Status)

	engine.startedAt = time.Now()
	require.NoError(t, engine.startBot(BotDiscord, &MockBotAdapter{}))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, []string{BotDiscord}, status.Bots)
	assert.NotEmpty(t, status.Uptime)
}

func TestStatusRouter_Metrics(t *testing.T) {
	metrics.ObserveCommand("check", "ok")

	engine, _ := newTestEngine()
	rec := httptest.NewRecorder()
	engine.statusRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "steamscordbot_commands_total")
}

func TestStatusRouter_UnknownRoute(t *testing.T) {
	engine, _ := newTestEngine()
	rec := httptest.NewRecorder()
	engine.statusRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
