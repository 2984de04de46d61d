package models

import (
	"time"

	"github.com/google/uuid"
)

// Region is a geographic grouping (prefecture) under which breweries are
// organized. ExternalID is the Sakenowa area id and is the reconciliation
// key across sync runs.
type Region struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ExternalID string    `json:"external_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
