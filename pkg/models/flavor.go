package models

import (
	"time"

	"github.com/google/uuid"
)

// FlavorChart holds the six bipolar taste axes for one brand, each
// nominally in [0,1] (e.g. f1 is floral vs. heavy). At most one chart
// exists per brand; axes absent from the upstream payload default to 0.
type FlavorChart struct {
	ID        uuid.UUID `json:"id"`
	SakeID    uuid.UUID `json:"sake_id"`
	F1        float64   `json:"f1"`
	F2        float64   `json:"f2"`
	F3        float64   `json:"f3"`
	F4        float64   `json:"f4"`
	F5        float64   `json:"f5"`
	F6        float64   `json:"f6"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FlavorTag is a labeled flavor descriptor (e.g. "fruity") linked to brands
// through brand_flavor_tags.
type FlavorTag struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ExternalID string    `json:"external_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BrandFlavorTag is the brand-to-tag join row. No payload beyond the link
// itself.
type BrandFlavorTag struct {
	ID          uuid.UUID `json:"id"`
	SakeID      uuid.UUID `json:"sake_id"`
	FlavorTagID uuid.UUID `json:"flavor_tag_id"`
	CreatedAt   time.Time `json:"created_at"`
}
