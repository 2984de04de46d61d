package apperrors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
	ErrSyncFailed    = errors.New("catalog sync failed")
)
