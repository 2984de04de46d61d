package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sakenavi/sakenavi-engine/pkg/database"
	"github.com/sakenavi/sakenavi-engine/pkg/models"
)

// ReviewRepository provides data access for user reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetBySake(ctx context.Context, sakeID uuid.UUID, limit int) ([]*models.Review, error)
}

type reviewRepository struct {
	db *database.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *database.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

var _ ReviewRepository = (*reviewRepository)(nil)

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	q := r.db.QuerierFrom(ctx)

	query := `
		INSERT INTO reviews (
			user_id, sake_id, rating, aroma, aftertaste, drinking_style,
			matching_food, comment, recorded_at, f1, f2, f3, f4, f5, f6
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		review.UserID,
		review.SakeID,
		review.Rating,
		nullString(review.Aroma),
		nullString(review.Aftertaste),
		nullString(review.DrinkingStyle),
		nullString(review.MatchingFood),
		nullString(review.Comment),
		review.RecordedAt,
		review.F1, review.F2, review.F3, review.F4, review.F5, review.F6,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) GetBySake(ctx context.Context, sakeID uuid.UUID, limit int) ([]*models.Review, error) {
	q := r.db.QuerierFrom(ctx)

	query := `
		SELECT id, user_id, sake_id, rating, aroma, aftertaste, drinking_style,
		       matching_food, comment, recorded_at, f1, f2, f3, f4, f5, f6,
		       created_at, updated_at
		FROM reviews
		WHERE sake_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := q.Query(ctx, query, sakeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var rv models.Review
	var aroma, aftertaste, drinkingStyle, matchingFood, comment *string

	err := row.Scan(
		&rv.ID, &rv.UserID, &rv.SakeID, &rv.Rating,
		&aroma, &aftertaste, &drinkingStyle, &matchingFood, &comment,
		&rv.RecordedAt,
		&rv.F1, &rv.F2, &rv.F3, &rv.F4, &rv.F5, &rv.F6,
		&rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}

	// Handle nullable string fields
	if aroma != nil {
		rv.Aroma = *aroma
	}
	if aftertaste != nil {
		rv.Aftertaste = *aftertaste
	}
	if drinkingStyle != nil {
		rv.DrinkingStyle = *drinkingStyle
	}
	if matchingFood != nil {
		rv.MatchingFood = *matchingFood
	}
	if comment != nil {
		rv.Comment = *comment
	}

	return &rv, nil
}

// nullString returns nil if the string is empty, otherwise returns the string pointer.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
