package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sakenavi/sakenavi-engine/pkg/database"
)

// CatalogRepository provides the write paths used by catalog
// synchronization. Every find-or-create keys on the Sakenowa external id,
// which is what makes repeated runs idempotent. All methods run against
// the querier carried by the context, so a sync run's writes ride one
// transaction.
type CatalogRepository interface {
	FindOrCreateRegion(ctx context.Context, externalID, name string) (uuid.UUID, bool, error)
	FindOrCreateBrewery(ctx context.Context, externalID, name string, regionID uuid.UUID) (uuid.UUID, bool, error)
	FindOrCreateBrand(ctx context.Context, externalID, name string, breweryID uuid.UUID) (uuid.UUID, bool, error)
	FindOrCreateFlavorTag(ctx context.Context, externalID, name string) (uuid.UUID, bool, error)

	// UpsertFlavorChart enforces at most one chart per brand.
	UpsertFlavorChart(ctx context.Context, sakeID uuid.UUID, axes [6]float64) error

	// LinkBrandFlavorTag is a no-op when the link already exists.
	LinkBrandFlavorTag(ctx context.Context, sakeID, tagID uuid.UUID) error

	InsertRanking(ctx context.Context, sakeID uuid.UUID, rank int, score float64, category string) error

	// ClearDerived removes rankings, flavor charts and brand-tag links
	// ahead of a reload. Called inside the sync transaction so a failed
	// run rolls back to the pre-clear state.
	ClearDerived(ctx context.Context) error

	// ClearCatalog removes the whole synchronized catalog (full-refresh
	// mode). Cascades drop everything owned by regions, including
	// user reviews attached to the deleted brands.
	ClearCatalog(ctx context.Context) error

	Counts(ctx context.Context) (CatalogCounts, error)
}

// CatalogCounts is a per-table row count snapshot, used for the sync
// summary and by tests.
type CatalogCounts struct {
	Regions        int `json:"regions"`
	Breweries      int `json:"breweries"`
	Brands         int `json:"brands"`
	FlavorCharts   int `json:"flavor_charts"`
	FlavorTags     int `json:"flavor_tags"`
	BrandFlavorTag int `json:"brand_flavor_tags"`
	Rankings       int `json:"rankings"`
}

type catalogRepository struct {
	db *database.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *database.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

var _ CatalogRepository = (*catalogRepository)(nil)

// findOrCreate implements the shared select-then-insert pattern. The
// existing row's name is refreshed when upstream renamed it.
func (r *catalogRepository) findOrCreate(ctx context.Context, table, externalID, name string, extraCols []string, extraArgs []any) (uuid.UUID, bool, error) {
	q := r.db.QuerierFrom(ctx)

	var id uuid.UUID
	var existingName string
	err := q.QueryRow(ctx,
		fmt.Sprintf(`SELECT id, name FROM %s WHERE external_id = $1`, table),
		externalID,
	).Scan(&id, &existingName)
	if err == nil {
		if existingName != name {
			_, err = q.Exec(ctx,
				fmt.Sprintf(`UPDATE %s SET name = $2, updated_at = now() WHERE id = $1`, table),
				id, name)
			if err != nil {
				return uuid.Nil, false, fmt.Errorf("failed to rename %s row: %w", table, err)
			}
		}
		return id, false, nil
	}
	if err != pgx.ErrNoRows {
		return uuid.Nil, false, fmt.Errorf("failed to look up %s by external id: %w", table, err)
	}

	cols := "external_id, name"
	placeholders := "$1, $2"
	args := []any{externalID, name}
	for i, col := range extraCols {
		cols += ", " + col
		placeholders += fmt.Sprintf(", $%d", i+3)
		args = append(args, extraArgs[i])
	}

	err = q.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`, table, cols, placeholders),
		args...,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to insert %s row: %w", table, err)
	}

	return id, true, nil
}

func (r *catalogRepository) FindOrCreateRegion(ctx context.Context, externalID, name string) (uuid.UUID, bool, error) {
	return r.findOrCreate(ctx, "regions", externalID, name, nil, nil)
}

func (r *catalogRepository) FindOrCreateBrewery(ctx context.Context, externalID, name string, regionID uuid.UUID) (uuid.UUID, bool, error) {
	return r.findOrCreate(ctx, "breweries", externalID, name,
		[]string{"region_id"}, []any{regionID})
}

func (r *catalogRepository) FindOrCreateBrand(ctx context.Context, externalID, name string, breweryID uuid.UUID) (uuid.UUID, bool, error) {
	return r.findOrCreate(ctx, "sake_brands", externalID, name,
		[]string{"brewery_id"}, []any{breweryID})
}

func (r *catalogRepository) FindOrCreateFlavorTag(ctx context.Context, externalID, name string) (uuid.UUID, bool, error) {
	return r.findOrCreate(ctx, "flavor_tags", externalID, name, nil, nil)
}

func (r *catalogRepository) UpsertFlavorChart(ctx context.Context, sakeID uuid.UUID, axes [6]float64) error {
	q := r.db.QuerierFrom(ctx)

	query := `
		INSERT INTO flavor_charts (sake_id, f1, f2, f3, f4, f5, f6)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (sake_id) DO UPDATE
		SET f1 = EXCLUDED.f1, f2 = EXCLUDED.f2, f3 = EXCLUDED.f3,
		    f4 = EXCLUDED.f4, f5 = EXCLUDED.f5, f6 = EXCLUDED.f6,
		    updated_at = now()`

	_, err := q.Exec(ctx, query, sakeID,
		axes[0], axes[1], axes[2], axes[3], axes[4], axes[5])
	if err != nil {
		return fmt.Errorf("failed to upsert flavor chart: %w", err)
	}
	return nil
}

func (r *catalogRepository) LinkBrandFlavorTag(ctx context.Context, sakeID, tagID uuid.UUID) error {
	q := r.db.QuerierFrom(ctx)

	query := `
		INSERT INTO brand_flavor_tags (sake_id, flavor_tag_id)
		VALUES ($1, $2)
		ON CONFLICT (sake_id, flavor_tag_id) DO NOTHING`

	if _, err := q.Exec(ctx, query, sakeID, tagID); err != nil {
		return fmt.Errorf("failed to link brand flavor tag: %w", err)
	}
	return nil
}

func (r *catalogRepository) InsertRanking(ctx context.Context, sakeID uuid.UUID, rank int, score float64, category string) error {
	q := r.db.QuerierFrom(ctx)

	// Duplicate (category, sake) pairs in the upstream payload keep the
	// first-seen position.
	query := `
		INSERT INTO rankings (sake_id, rank, score, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category, sake_id) DO NOTHING`

	if _, err := q.Exec(ctx, query, sakeID, rank, score, category); err != nil {
		return fmt.Errorf("failed to insert ranking: %w", err)
	}
	return nil
}

func (r *catalogRepository) ClearDerived(ctx context.Context) error {
	q := r.db.QuerierFrom(ctx)

	for _, table := range []string{"rankings", "brand_flavor_tags", "flavor_charts"} {
		if _, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (r *catalogRepository) ClearCatalog(ctx context.Context) error {
	if err := r.ClearDerived(ctx); err != nil {
		return err
	}

	q := r.db.QuerierFrom(ctx)
	// regions cascade to breweries, brands and everything brands own
	for _, table := range []string{"regions", "flavor_tags"} {
		if _, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (r *catalogRepository) Counts(ctx context.Context) (CatalogCounts, error) {
	q := r.db.QuerierFrom(ctx)

	var counts CatalogCounts
	query := `
		SELECT
			(SELECT count(*) FROM regions),
			(SELECT count(*) FROM breweries),
			(SELECT count(*) FROM sake_brands),
			(SELECT count(*) FROM flavor_charts),
			(SELECT count(*) FROM flavor_tags),
			(SELECT count(*) FROM brand_flavor_tags),
			(SELECT count(*) FROM rankings)`

	err := q.QueryRow(ctx, query).Scan(
		&counts.Regions,
		&counts.Breweries,
		&counts.Brands,
		&counts.FlavorCharts,
		&counts.FlavorTags,
		&counts.BrandFlavorTag,
		&counts.Rankings,
	)
	if err != nil {
		return CatalogCounts{}, fmt.Errorf("failed to count catalog rows: %w", err)
	}
	return counts, nil
}
