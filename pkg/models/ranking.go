package models

import (
	"time"

	"github.com/google/uuid"
)

// RankingCategoryOverall is the single global ranking list. Area-scoped
// lists use AreaCategory.
const RankingCategoryOverall = "overall"

// AreaCategory returns the ranking category for an area-scoped list,
// keyed by the region's external catalog id.
func AreaCategory(regionExternalID string) string {
	return "area_" + regionExternalID
}

// Ranking is one position within a category-scoped ranking list. Rankings
// are derived data and fully replaced on every sync run.
type Ranking struct {
	ID        uuid.UUID `json:"id"`
	SakeID    uuid.UUID `json:"sake_id"`
	Rank      int       `json:"rank"`
	Score     float64   `json:"score"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedBrand is a ranking row joined with its brand for the read API.
type RankedBrand struct {
	Ranking
	BrandName   string `json:"brand_name"`
	BreweryName string `json:"brewery_name"`
}
