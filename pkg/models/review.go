package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's tasting note for one brand. The optional f1..f6
// values are the reviewer's personal flavor reading, independent of the
// brand's imported flavor chart.
type Review struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	SakeID        uuid.UUID  `json:"sake_id"`
	Rating        float64    `json:"rating"`
	Aroma         string     `json:"aroma,omitempty"`
	Aftertaste    string     `json:"aftertaste,omitempty"`
	DrinkingStyle string     `json:"drinking_style,omitempty"`
	MatchingFood  string     `json:"matching_food,omitempty"`
	Comment       string     `json:"comment,omitempty"`
	RecordedAt    *time.Time `json:"recorded_at,omitempty"`
	F1            *float64   `json:"f1,omitempty"`
	F2            *float64   `json:"f2,omitempty"`
	F3            *float64   `json:"f3,omitempty"`
	F4            *float64   `json:"f4,omitempty"`
	F5            *float64   `json:"f5,omitempty"`
	F6            *float64   `json:"f6,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
