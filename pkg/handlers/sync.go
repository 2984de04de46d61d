package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/sakenavi/sakenavi-engine/pkg/services"
)

// CatalogSyncer runs one catalog synchronization against the upstream API.
type CatalogSyncer interface {
	Sync(ctx context.Context) (*services.SyncSummary, error)
}

// SyncHandler exposes catalog synchronization over HTTP.
type SyncHandler struct {
	syncer CatalogSyncer
	logger *zap.Logger
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(syncer CatalogSyncer, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		syncer: syncer,
		logger: logger,
	}
}

// RegisterRoutes registers the sync handler's routes on the given mux.
func (h *SyncHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sync", h.Sync)
}

// Sync handles POST /api/sync. The run is synchronous: the response is the
// run's summary, or 502 when the upstream catalog could not be fetched.
// Upstream details stay in the logs, not the response.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.syncer.Sync(r.Context())
	if err != nil {
		h.logger.Error("Catalog sync failed", zap.Error(err))
		if err := ErrorResponse(w, http.StatusBadGateway, "sync_failed", "catalog synchronization failed"); err != nil {
			h.logger.Error("Failed to encode sync error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, summary); err != nil {
		h.logger.Error("Failed to encode sync response", zap.Error(err))
	}
}
