package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sakenavi/sakenavi-engine/pkg/services"
)

type stubSyncer struct {
	summary *services.SyncSummary
	err     error
}

func (s *stubSyncer) Sync(ctx context.Context) (*services.SyncSummary, error) {
	return s.summary, s.err
}

func newSyncServer(syncer CatalogSyncer) *httptest.Server {
	mux := http.NewServeMux()
	NewSyncHandler(syncer, zap.NewNop()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestSync_ReturnsSummary(t *testing.T) {
	server := newSyncServer(&stubSyncer{summary: &services.SyncSummary{
		BrandsCreated: 42,
		Partial:       true,
		Warnings:      []string{"skipping rankings stage: fetch failed"},
	}})
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/sync", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary services.SyncSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 42, summary.BrandsCreated)
	assert.True(t, summary.Partial)
	assert.Len(t, summary.Warnings, 1)
}

func TestSync_UpstreamFailureIsBadGateway(t *testing.T) {
	server := newSyncServer(&stubSyncer{err: errors.New("dial tcp 10.0.0.1:443: connection refused")})
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/sync", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "sync_failed", body["error"])
	assert.NotContains(t, body["message"], "10.0.0.1", "upstream details must not leak into the response")
}

func TestSync_GetIsNotAllowed(t *testing.T) {
	server := newSyncServer(&stubSyncer{summary: &services.SyncSummary{}})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/sync")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
