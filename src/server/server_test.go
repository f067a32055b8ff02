package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sma-observer/src/logger"
	"sma-observer/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

type fakeSeries struct {
	samples []models.MSample
}

func (f *fakeSeries) Samples() []models.MSample { return f.samples }

func testServer() *ObserverServer {
	cfg := &models.MConfig{
		Name:     "sma-observer",
		Host:     "127.0.0.1",
		Port:     8080,
		LogLevel: "ERROR",
	}
	series := &fakeSeries{samples: []models.MSample{
		{Timestamp: 1000, Price: 100},
		{Timestamp: 1060, Price: 101},
	}}
	return NewObserverServer(cfg, logger.NewLogger("ERROR", "test"), series)
}

func doRequest(s *ObserverServer, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.engine.ServeHTTP(w, req)
	return w
}

// -----------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	w := doRequest(testServer(), "/api/health")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

// -----------------------------------------------------------------------------

func TestSeriesEndpoint(t *testing.T) {
	w := doRequest(testServer(), "/api/series")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count   int              `json:"count"`
		Samples []models.MSample `json:"samples"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Samples, 2)
}

// -----------------------------------------------------------------------------

func TestLatestEndpointInitialState(t *testing.T) {
	w := doRequest(testServer(), "/api/latest")
	require.Equal(t, http.StatusOK, w.Code)

	var state models.MLatestData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "INITIAL", state.Type)
}

// -----------------------------------------------------------------------------

func TestPublishUpdatesLatestState(t *testing.T) {
	s := testServer()
	go s.runHub()

	s.Publish(&models.MLatestData{
		Timestamp: 1060,
		Price:     101,
		SMA:       100.5,
	})

	assert.Eventually(t, func() bool {
		s.stateMutex.RLock()
		defer s.stateMutex.RUnlock()
		return s.latestState.Type == "UPDATE" && s.latestState.SMA == 100.5
	}, time.Second, 5*time.Millisecond)
}

// -----------------------------------------------------------------------------

func TestConfigEndpoint(t *testing.T) {
	w := doRequest(testServer(), "/api/config")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "sma-observer", body["name"])
}
