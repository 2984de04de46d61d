package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sakenavi/sakenavi-engine/pkg/apperrors"
	"github.com/sakenavi/sakenavi-engine/pkg/models"
)

// BrandReader serves catalog read queries.
type BrandReader interface {
	Search(ctx context.Context, query string, limit int) ([]*models.BrandDetail, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.BrandDetail, error)
	TopRankings(ctx context.Context, category string, limit int) ([]*models.RankedBrand, error)
	BrandsByFlavorTag(ctx context.Context, tagName string, limit int) ([]*models.RankedBrand, error)
}

// CatalogHandler handles catalog read requests.
type CatalogHandler struct {
	brands BrandReader
	logger *zap.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(brands BrandReader, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		brands: brands,
		logger: logger,
	}
}

// RegisterRoutes registers the catalog handler's routes on the given mux.
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/brands", h.SearchBrands)
	mux.HandleFunc("GET /api/brands/{id}", h.GetBrand)
	mux.HandleFunc("GET /api/rankings", h.GetRankings)
	mux.HandleFunc("GET /api/flavor-tags/{name}/brands", h.GetBrandsByFlavorTag)
}

// parseLimit reads the optional limit query parameter; 0 means default.
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

// SearchBrands handles GET /api/brands?q=<query>
func (h *CatalogHandler) SearchBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.brands.Search(r.Context(), r.URL.Query().Get("q"), parseLimit(r))
	if err != nil {
		h.logger.Error("Failed to search brands", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "search_failed", "failed to search brands")
		return
	}
	if brands == nil {
		brands = []*models.BrandDetail{}
	}

	if err := WriteJSON(w, http.StatusOK, brands); err != nil {
		h.logger.Error("Failed to encode brand search response", zap.Error(err))
	}
}

// GetBrand handles GET /api/brands/{id}
func (h *CatalogHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_brand_id", "brand id must be a UUID")
		return
	}

	detail, err := h.brands.GetDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "brand_not_found", "brand not found")
			return
		}
		h.logger.Error("Failed to get brand", zap.String("id", id.String()), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "get_brand_failed", "failed to get brand")
		return
	}

	if err := WriteJSON(w, http.StatusOK, detail); err != nil {
		h.logger.Error("Failed to encode brand response", zap.Error(err))
	}
}

// GetRankings handles GET /api/rankings?category=<overall|region external id>
func (h *CatalogHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.brands.TopRankings(r.Context(), r.URL.Query().Get("category"), parseLimit(r))
	if err != nil {
		h.logger.Error("Failed to get rankings", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "rankings_failed", "failed to get rankings")
		return
	}
	if ranked == nil {
		ranked = []*models.RankedBrand{}
	}

	if err := WriteJSON(w, http.StatusOK, ranked); err != nil {
		h.logger.Error("Failed to encode rankings response", zap.Error(err))
	}
}

// GetBrandsByFlavorTag handles GET /api/flavor-tags/{name}/brands
func (h *CatalogHandler) GetBrandsByFlavorTag(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_tag_name", "flavor tag name is required")
		return
	}

	ranked, err := h.brands.BrandsByFlavorTag(r.Context(), name, parseLimit(r))
	if err != nil {
		h.logger.Error("Failed to get brands by flavor tag", zap.String("tag", name), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "flavor_tag_brands_failed", "failed to get brands by flavor tag")
		return
	}
	if ranked == nil {
		ranked = []*models.RankedBrand{}
	}

	if err := WriteJSON(w, http.StatusOK, ranked); err != nil {
		h.logger.Error("Failed to encode flavor tag brands response", zap.Error(err))
	}
}
