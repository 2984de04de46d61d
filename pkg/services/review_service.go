package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sakenavi/sakenavi-engine/pkg/apperrors"
	"github.com/sakenavi/sakenavi-engine/pkg/models"
	"github.com/sakenavi/sakenavi-engine/pkg/repositories"
)

// CreateReviewInput is the payload for recording a tasting note.
type CreateReviewInput struct {
	Email         string     `json:"email"`
	Username      string     `json:"username"`
	SakeID        uuid.UUID  `json:"sake_id"`
	Rating        float64    `json:"rating"`
	Aroma         string     `json:"aroma"`
	Aftertaste    string     `json:"aftertaste"`
	DrinkingStyle string     `json:"drinking_style"`
	MatchingFood  string     `json:"matching_food"`
	Comment       string     `json:"comment"`
	RecordedAt    *time.Time `json:"recorded_at"`
	F1            *float64   `json:"f1"`
	F2            *float64   `json:"f2"`
	F3            *float64   `json:"f3"`
	F4            *float64   `json:"f4"`
	F5            *float64   `json:"f5"`
	F6            *float64   `json:"f6"`
}

// ReviewService records and lists tasting notes against catalog brands.
type ReviewService struct {
	reviews repositories.ReviewRepository
	users   repositories.UserRepository
	brands  repositories.BrandRepository
	logger  *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviews repositories.ReviewRepository,
	users repositories.UserRepository,
	brands repositories.BrandRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		users:   users,
		brands:  brands,
		logger:  logger.Named("review_service"),
	}
}

// Create validates and persists a review, creating the author on first
// contact. The target brand must exist.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*models.Review, error) {
	if input.Rating < 0 || input.Rating > 5 {
		return nil, apperrors.ErrInvalidRating
	}
	if input.Email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if _, err := s.brands.GetDetail(ctx, input.SakeID); err != nil {
		return nil, err
	}

	user, err := s.users.FindOrCreateByEmail(ctx, input.Email, input.Username)
	if err != nil {
		return nil, err
	}

	recordedAt := input.RecordedAt
	if recordedAt == nil {
		now := time.Now().UTC()
		recordedAt = &now
	}

	review := &models.Review{
		UserID:        user.ID,
		SakeID:        input.SakeID,
		Rating:        input.Rating,
		Aroma:         input.Aroma,
		Aftertaste:    input.Aftertaste,
		DrinkingStyle: input.DrinkingStyle,
		MatchingFood:  input.MatchingFood,
		Comment:       input.Comment,
		RecordedAt:    recordedAt,
		F1:            input.F1,
		F2:            input.F2,
		F3:            input.F3,
		F4:            input.F4,
		F5:            input.F5,
		F6:            input.F6,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("review created",
		zap.String("sake_id", input.SakeID.String()),
		zap.Float64("rating", input.Rating))
	return review, nil
}

// ListBySake returns the newest reviews for one brand.
func (s *ReviewService) ListBySake(ctx context.Context, sakeID uuid.UUID, limit int) ([]*models.Review, error) {
	return s.reviews.GetBySake(ctx, sakeID, clampLimit(limit))
}
