package models

import (
	"time"

	"github.com/google/uuid"
)

// SakeBrand is a sake product belonging to one brewery.
type SakeBrand struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ExternalID string    `json:"external_id"`
	BreweryID  uuid.UUID `json:"brewery_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BrandDetail is a brand joined with its brewery, region, flavor chart and
// tags for the read API.
type BrandDetail struct {
	SakeBrand
	BreweryName   string       `json:"brewery_name"`
	RegionName    string       `json:"region_name"`
	FlavorChart   *FlavorChart `json:"flavor_chart,omitempty"`
	FlavorTags    []FlavorTag  `json:"flavor_tags,omitempty"`
	AverageRating float64      `json:"average_rating"`
	ReviewCount   int          `json:"review_count"`
}
