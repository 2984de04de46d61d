package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sakenavi/sakenavi-engine/pkg/models"
	"github.com/sakenavi/sakenavi-engine/pkg/repositories"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// BrandService serves catalog reads: search, detail and rankings.
type BrandService struct {
	brands repositories.BrandRepository
	logger *zap.Logger
}

// NewBrandService creates a new BrandService.
func NewBrandService(brands repositories.BrandRepository, logger *zap.Logger) *BrandService {
	return &BrandService{
		brands: brands,
		logger: logger.Named("brand_service"),
	}
}

// clampLimit applies the default and ceiling for list endpoints.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// Search returns brands matching the query, or recent brands for an empty
// query.
func (s *BrandService) Search(ctx context.Context, query string, limit int) ([]*models.BrandDetail, error) {
	return s.brands.Search(ctx, strings.TrimSpace(query), clampLimit(limit))
}

// GetDetail returns one brand with its brewery, region, flavor profile and
// review aggregate.
func (s *BrandService) GetDetail(ctx context.Context, id uuid.UUID) (*models.BrandDetail, error) {
	return s.brands.GetDetail(ctx, id)
}

// TopRankings returns a ranking category in rank order. An empty category
// means the overall list; a region external id selects that area's list.
func (s *BrandService) TopRankings(ctx context.Context, category string, limit int) ([]*models.RankedBrand, error) {
	category = strings.TrimSpace(category)
	switch {
	case category == "":
		category = models.RankingCategoryOverall
	case category != models.RankingCategoryOverall && !strings.HasPrefix(category, "area_"):
		category = models.AreaCategory(category)
	}
	return s.brands.TopRankings(ctx, category, clampLimit(limit))
}

// BrandsByFlavorTag returns brands carrying the named tag, best ranked
// first.
func (s *BrandService) BrandsByFlavorTag(ctx context.Context, tagName string, limit int) ([]*models.RankedBrand, error) {
	return s.brands.BrandsByFlavorTag(ctx, strings.TrimSpace(tagName), clampLimit(limit))
}
