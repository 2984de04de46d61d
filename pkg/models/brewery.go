package models

import (
	"time"

	"github.com/google/uuid"
)

// Brewery belongs to exactly one region. A brewery record whose region
// cannot be resolved at import time is skipped, never persisted with a
// dangling reference.
type Brewery struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ExternalID string    `json:"external_id"`
	RegionID   uuid.UUID `json:"region_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
