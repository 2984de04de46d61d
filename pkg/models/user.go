package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a review author. Authentication lives outside this service; only
// the profile needed to attribute reviews is stored here.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
