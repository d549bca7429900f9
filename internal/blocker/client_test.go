package blocker

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

func TestBlockTransferSimulatedWhenDisabled(t *testing.T) {
	c := NewClient(Config{Enabled: false}, zerolog.Nop())

	ok, err := c.BlockTransfer(context.Background(), "10.0.0.5", "mail.example.com", nil, "credit card leak")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, c.Enabled())
}

func TestBlockTransferPostsToAgent(t *testing.T) {
	var got blockRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/block", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(blockResponse{Success: true, Message: "blocked"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Enabled: true}, zerolog.Nop())
	entities := []types.Detection{
		{EntityType: types.EntityCreditCard, Start: 0, End: 19, Score: 0.85},
	}

	ok, err := c.BlockTransfer(context.Background(), "10.0.0.5", "mail.example.com", entities, "policy violation")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.5", got.SourceIP)
	assert.Equal(t, "mail.example.com", got.Destination)
	assert.Equal(t, []string{"CREDIT_CARD"}, got.EntityTypes)
	assert.Equal(t, "policy violation", got.Reason)
}

func TestBlockEmailPostsToAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/block-email", r.URL.Path)
		var req blockRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "msg-42", req.EmailID)
		json.NewEncoder(w).Encode(blockResponse{Success: true})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Enabled: true}, zerolog.Nop())
	ok, err := c.BlockEmail(context.Background(), "msg-42", "ssn detected")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlockTransferAgentError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Enabled: true}, zerolog.Nop())
	ok, err := c.BlockTransfer(context.Background(), "10.0.0.5", "dest", nil, "reason")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestBlockTransferUnreachableAgent(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Enabled: true}, zerolog.Nop())
	_, err := c.BlockTransfer(context.Background(), "10.0.0.5", "dest", nil, "reason")
	assert.Error(t, err)
}
