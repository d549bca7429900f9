package recognizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

func TestAnalyzeMapsFindings(t *testing.T) {
	text := "John Smith lives in Paris"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, text, req.Text)
		assert.Equal(t, "en", req.Language)
		assert.Contains(t, req.Entities, "PERSON")

		json.NewEncoder(w).Encode([]analyzeFinding{
			{EntityType: "PERSON", Start: 0, End: 10, Score: 0.92},
			{EntityType: "LOCATION", Start: 20, End: 25, Score: 0.88},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	dets, err := c.Analyze(context.Background(), text, "en",
		[]types.EntityType{types.EntityPerson, types.EntityLocation})
	require.NoError(t, err)

	require.Len(t, dets, 2)
	assert.Equal(t, types.EntityPerson, dets[0].EntityType)
	assert.Equal(t, "John Smith", dets[0].Value)
	assert.Equal(t, types.EntityLocation, dets[1].EntityType)
	assert.Equal(t, "Paris", dets[1].Value)
}

func TestAnalyzeDropsOutOfRangeFindings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]analyzeFinding{
			{EntityType: "PERSON", Start: 0, End: 500, Score: 0.9},
			{EntityType: "PERSON", Start: 0, End: 4, Score: 0.9},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	dets, err := c.Analyze(context.Background(), "John lives here", "en", nil)
	require.NoError(t, err)

	require.Len(t, dets, 1)
	assert.Equal(t, "John", dets[0].Value)
}

func TestAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	_, err := c.Analyze(context.Background(), "text", "en", nil)
	assert.Error(t, err)
}

func TestAnalyzeUnreachable(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())
	_, err := c.Analyze(context.Background(), "text", "en", nil)
	assert.Error(t, err)
}

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	assert.True(t, c.Healthy(context.Background()))

	down := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())
	assert.False(t, down.Healthy(context.Background()))
}
