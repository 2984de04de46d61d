package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sakenavi/sakenavi-engine/pkg/apperrors"
	"github.com/sakenavi/sakenavi-engine/pkg/database"
	"github.com/sakenavi/sakenavi-engine/pkg/models"
)

// BrandRepository provides the read paths over the synchronized catalog.
type BrandRepository interface {
	// Search returns brands whose name contains the query, newest first.
	// An empty query lists recent brands.
	Search(ctx context.Context, query string, limit int) ([]*models.BrandDetail, error)

	// GetDetail returns one brand with its brewery, region, flavor chart,
	// tags and review aggregate. Returns apperrors.ErrNotFound when the
	// brand does not exist.
	GetDetail(ctx context.Context, id uuid.UUID) (*models.BrandDetail, error)

	// TopRankings returns the ranked brands of one category in rank order.
	TopRankings(ctx context.Context, category string, limit int) ([]*models.RankedBrand, error)

	// BrandsByFlavorTag returns brands carrying the named tag, best
	// overall ranking score first, unranked brands last.
	BrandsByFlavorTag(ctx context.Context, tagName string, limit int) ([]*models.RankedBrand, error)
}

type brandRepository struct {
	db *database.DB
}

// NewBrandRepository creates a new BrandRepository.
func NewBrandRepository(db *database.DB) BrandRepository {
	return &brandRepository{db: db}
}

var _ BrandRepository = (*brandRepository)(nil)

func (r *brandRepository) Search(ctx context.Context, query string, limit int) ([]*models.BrandDetail, error) {
	q := r.db.QuerierFrom(ctx)

	sql := `
		SELECT s.id, s.name, s.external_id, s.brewery_id, s.created_at, s.updated_at,
		       b.name, rg.name
		FROM sake_brands s
		JOIN breweries b ON b.id = s.brewery_id
		JOIN regions rg ON rg.id = b.region_id
		WHERE $1 = '' OR s.name ILIKE '%' || $1 || '%'
		ORDER BY s.created_at DESC, s.name
		LIMIT $2`

	rows, err := q.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search brands: %w", err)
	}
	defer rows.Close()

	var brands []*models.BrandDetail
	for rows.Next() {
		var b models.BrandDetail
		err := rows.Scan(
			&b.ID, &b.Name, &b.ExternalID, &b.BreweryID, &b.CreatedAt, &b.UpdatedAt,
			&b.BreweryName, &b.RegionName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brand row: %w", err)
		}
		brands = append(brands, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brand rows: %w", err)
	}
	return brands, nil
}

func (r *brandRepository) GetDetail(ctx context.Context, id uuid.UUID) (*models.BrandDetail, error) {
	q := r.db.QuerierFrom(ctx)

	sql := `
		SELECT s.id, s.name, s.external_id, s.brewery_id, s.created_at, s.updated_at,
		       b.name, rg.name,
		       COALESCE(avg(rv.rating), 0), count(rv.id)
		FROM sake_brands s
		JOIN breweries b ON b.id = s.brewery_id
		JOIN regions rg ON rg.id = b.region_id
		LEFT JOIN reviews rv ON rv.sake_id = s.id
		WHERE s.id = $1
		GROUP BY s.id, b.name, rg.name`

	var detail models.BrandDetail
	err := q.QueryRow(ctx, sql, id).Scan(
		&detail.ID, &detail.Name, &detail.ExternalID, &detail.BreweryID,
		&detail.CreatedAt, &detail.UpdatedAt,
		&detail.BreweryName, &detail.RegionName,
		&detail.AverageRating, &detail.ReviewCount,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get brand detail: %w", err)
	}

	chart, err := r.flavorChart(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.FlavorChart = chart

	tags, err := r.flavorTags(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.FlavorTags = tags

	return &detail, nil
}

func (r *brandRepository) flavorChart(ctx context.Context, sakeID uuid.UUID) (*models.FlavorChart, error) {
	q := r.db.QuerierFrom(ctx)

	sql := `
		SELECT id, sake_id, f1, f2, f3, f4, f5, f6, created_at, updated_at
		FROM flavor_charts
		WHERE sake_id = $1`

	var chart models.FlavorChart
	err := q.QueryRow(ctx, sql, sakeID).Scan(
		&chart.ID, &chart.SakeID,
		&chart.F1, &chart.F2, &chart.F3, &chart.F4, &chart.F5, &chart.F6,
		&chart.CreatedAt, &chart.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No chart imported for this brand
		}
		return nil, fmt.Errorf("failed to get flavor chart: %w", err)
	}
	return &chart, nil
}

func (r *brandRepository) flavorTags(ctx context.Context, sakeID uuid.UUID) ([]models.FlavorTag, error) {
	q := r.db.QuerierFrom(ctx)

	sql := `
		SELECT t.id, t.name, t.external_id, t.created_at, t.updated_at
		FROM flavor_tags t
		JOIN brand_flavor_tags bft ON bft.flavor_tag_id = t.id
		WHERE bft.sake_id = $1
		ORDER BY t.name`

	rows, err := q.Query(ctx, sql, sakeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flavor tags: %w", err)
	}
	defer rows.Close()

	var tags []models.FlavorTag
	for rows.Next() {
		var t models.FlavorTag
		if err := rows.Scan(&t.ID, &t.Name, &t.ExternalID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan flavor tag: %w", err)
		}
		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flavor tags: %w", err)
	}
	return tags, nil
}

func (r *brandRepository) TopRankings(ctx context.Context, category string, limit int) ([]*models.RankedBrand, error) {
	q := r.db.QuerierFrom(ctx)

	sql := `
		SELECT rk.id, rk.sake_id, rk.rank, rk.score, rk.category, rk.created_at,
		       s.name, b.name
		FROM rankings rk
		JOIN sake_brands s ON s.id = rk.sake_id
		JOIN breweries b ON b.id = s.brewery_id
		WHERE rk.category = $1
		ORDER BY rk.rank
		LIMIT $2`

	rows, err := q.Query(ctx, sql, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	return scanRankedBrands(rows)
}

func (r *brandRepository) BrandsByFlavorTag(ctx context.Context, tagName string, limit int) ([]*models.RankedBrand, error) {
	q := r.db.QuerierFrom(ctx)

	sql := `
		SELECT COALESCE(rk.id, '00000000-0000-0000-0000-000000000000'::uuid),
		       s.id, COALESCE(rk.rank, 0), COALESCE(rk.score, 0),
		       COALESCE(rk.category, ''), s.created_at,
		       s.name, b.name
		FROM sake_brands s
		JOIN brand_flavor_tags bft ON bft.sake_id = s.id
		JOIN flavor_tags t ON t.id = bft.flavor_tag_id
		JOIN breweries b ON b.id = s.brewery_id
		LEFT JOIN rankings rk ON rk.sake_id = s.id AND rk.category = $1
		WHERE t.name = $2
		ORDER BY rk.score DESC NULLS LAST, s.name
		LIMIT $3`

	rows, err := q.Query(ctx, sql, models.RankingCategoryOverall, tagName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query brands by flavor tag: %w", err)
	}
	defer rows.Close()

	return scanRankedBrands(rows)
}

func scanRankedBrands(rows pgx.Rows) ([]*models.RankedBrand, error) {
	var ranked []*models.RankedBrand
	for rows.Next() {
		var rb models.RankedBrand
		err := rows.Scan(
			&rb.Ranking.ID, &rb.SakeID, &rb.Rank, &rb.Score, &rb.Category, &rb.Ranking.CreatedAt,
			&rb.BrandName, &rb.BreweryName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranked brand: %w", err)
		}
		ranked = append(ranked, &rb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranked brands: %w", err)
	}
	return ranked, nil
}
