package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sakenavi/sakenavi-engine/pkg/apperrors"
	"github.com/sakenavi/sakenavi-engine/pkg/database"
	"github.com/sakenavi/sakenavi-engine/pkg/models"
	"github.com/sakenavi/sakenavi-engine/pkg/repositories"
	"github.com/sakenavi/sakenavi-engine/pkg/retry"
	"github.com/sakenavi/sakenavi-engine/pkg/sakenowa"
)

// CatalogClient is the subset of the Sakenowa client the sync pipeline
// consumes. Tests substitute a stub.
type CatalogClient interface {
	Areas(ctx context.Context) ([]sakenowa.Area, error)
	Breweries(ctx context.Context) ([]sakenowa.Brewery, error)
	Brands(ctx context.Context) ([]sakenowa.Brand, error)
	FlavorCharts(ctx context.Context) ([]sakenowa.FlavorChart, error)
	FlavorTags(ctx context.Context) ([]sakenowa.FlavorTag, error)
	BrandFlavorTags(ctx context.Context) ([]sakenowa.BrandFlavorTags, error)
	Rankings(ctx context.Context) (*sakenowa.Rankings, error)
}

var _ CatalogClient = (*sakenowa.Client)(nil)

// SyncOptions tunes a sync run.
type SyncOptions struct {
	// FullRefresh clears the whole catalog before importing instead of
	// only the derived tables.
	FullRefresh bool

	// BatchSize is the progress-log interval, in records.
	BatchSize int
}

// SyncSummary reports what one sync run did. Created counts cover new
// rows only; records matched by external id on a repeat run are not
// counted again.
type SyncSummary struct {
	RegionsCreated    int `json:"regions_created"`
	BreweriesCreated  int `json:"breweries_created"`
	BrandsCreated     int `json:"brands_created"`
	FlavorCharts      int `json:"flavor_charts"`
	FlavorTagsCreated int `json:"flavor_tags_created"`
	BrandTagLinks     int `json:"brand_tag_links"`
	Rankings          int `json:"rankings"`

	// Skipped counts records dropped for per-record problems (missing
	// ids, unresolvable references, malformed values).
	Skipped int `json:"skipped"`

	// Warnings describe every skipped record and every degraded stage.
	Warnings []string `json:"warnings,omitempty"`

	// Partial is true when a supplementary collection could not be
	// fetched and its stage was skipped entirely.
	Partial bool `json:"partial"`

	ElapsedMS int64 `json:"elapsed_ms"`
}

// CatalogSyncService reconciles the local catalog against the Sakenowa
// API. One run is one transaction: entities are imported in dependency
// order (regions, breweries, brands, then derived data) and either the
// whole run commits or nothing changes.
type CatalogSyncService struct {
	db       *database.DB
	client   CatalogClient
	catalog  repositories.CatalogRepository
	retryCfg *retry.Config
	opts     SyncOptions
	logger   *zap.Logger
}

// NewCatalogSyncService creates a new CatalogSyncService.
func NewCatalogSyncService(
	db *database.DB,
	client CatalogClient,
	catalog repositories.CatalogRepository,
	opts SyncOptions,
	logger *zap.Logger,
) *CatalogSyncService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	return &CatalogSyncService{
		db:       db,
		client:   client,
		catalog:  catalog,
		retryCfg: retry.DefaultConfig(),
		opts:     opts,
		logger:   logger.Named("catalog_sync"),
	}
}

// fetched holds the upstream collections for one run. Supplementary
// collections that failed to fetch are nil with the failure recorded in
// the summary.
type fetched struct {
	areas     []sakenowa.Area
	breweries []sakenowa.Brewery
	brands    []sakenowa.Brand

	charts   []sakenowa.FlavorChart
	tags     []sakenowa.FlavorTag
	tagLinks []sakenowa.BrandFlavorTags
	rankings *sakenowa.Rankings

	chartsOK, tagsOK, tagLinksOK, rankingsOK bool
}

// Sync runs one full synchronization. Foundational collections (areas,
// breweries, brands) are required: if any cannot be fetched the run fails
// before touching the database. Supplementary collections degrade to a
// partial run. All writes ride a single transaction committed at the end.
func (s *CatalogSyncService) Sync(ctx context.Context) (*SyncSummary, error) {
	start := time.Now()
	summary := &SyncSummary{}

	data, err := s.fetch(ctx, summary)
	if err != nil {
		s.logger.Error("catalog fetch failed, aborting sync", zap.Error(err))
		return nil, errors.Join(apperrors.ErrSyncFailed, err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin sync transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	txCtx := database.WithQuerier(ctx, tx)

	if err := s.reconcile(txCtx, data, summary); err != nil {
		return nil, errors.Join(apperrors.ErrSyncFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sync transaction: %w", err)
	}

	summary.ElapsedMS = time.Since(start).Milliseconds()
	s.logger.Info("catalog sync complete",
		zap.Int("regions_created", summary.RegionsCreated),
		zap.Int("breweries_created", summary.BreweriesCreated),
		zap.Int("brands_created", summary.BrandsCreated),
		zap.Int("flavor_charts", summary.FlavorCharts),
		zap.Int("rankings", summary.Rankings),
		zap.Int("skipped", summary.Skipped),
		zap.Bool("partial", summary.Partial),
		zap.Int64("elapsed_ms", summary.ElapsedMS))
	return summary, nil
}

// fetch pulls all collections before the transaction opens, so database
// locks are never held across network calls.
func (s *CatalogSyncService) fetch(ctx context.Context, summary *SyncSummary) (*fetched, error) {
	data := &fetched{}
	var err error

	data.areas, err = retry.DoWithResult(ctx, s.retryCfg, func() ([]sakenowa.Area, error) {
		return s.client.Areas(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch areas: %w", err)
	}

	data.breweries, err = retry.DoWithResult(ctx, s.retryCfg, func() ([]sakenowa.Brewery, error) {
		return s.client.Breweries(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breweries: %w", err)
	}

	data.brands, err = retry.DoWithResult(ctx, s.retryCfg, func() ([]sakenowa.Brand, error) {
		return s.client.Brands(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch brands: %w", err)
	}

	// Supplementary collections: a failed fetch skips the stage and marks
	// the run partial instead of failing it.
	data.charts, err = retry.DoWithResult(ctx, s.retryCfg, func() ([]sakenowa.FlavorChart, error) {
		return s.client.FlavorCharts(ctx)
	})
	data.chartsOK = s.noteSupplementary(summary, "flavor-charts", err)

	data.tags, err = retry.DoWithResult(ctx, s.retryCfg, func() ([]sakenowa.FlavorTag, error) {
		return s.client.FlavorTags(ctx)
	})
	data.tagsOK = s.noteSupplementary(summary, "flavor-tags", err)

	data.tagLinks, err = retry.DoWithResult(ctx, s.retryCfg, func() ([]sakenowa.BrandFlavorTags, error) {
		return s.client.BrandFlavorTags(ctx)
	})
	data.tagLinksOK = s.noteSupplementary(summary, "brand-flavor-tags", err)

	data.rankings, err = retry.DoWithResult(ctx, s.retryCfg, func() (*sakenowa.Rankings, error) {
		return s.client.Rankings(ctx)
	})
	data.rankingsOK = s.noteSupplementary(summary, "rankings", err)

	// Tag links without the tag catalog cannot be resolved.
	if data.tagLinksOK && !data.tagsOK {
		data.tagLinksOK = false
		s.warn(summary, "skipping brand-flavor-tags stage: flavor-tags collection unavailable")
	}

	return data, nil
}

// noteSupplementary records a failed supplementary fetch and reports
// whether the stage should run.
func (s *CatalogSyncService) noteSupplementary(summary *SyncSummary, endpoint string, err error) bool {
	if err == nil {
		return true
	}
	summary.Partial = true
	s.warn(summary, fmt.Sprintf("skipping %s stage: fetch failed: %v", endpoint, err))
	return false
}

// reconcile applies the fetched collections inside the run transaction, in
// dependency order. Each stage builds an external-id index for the next.
func (s *CatalogSyncService) reconcile(ctx context.Context, data *fetched, summary *SyncSummary) error {
	if s.opts.FullRefresh {
		if err := s.catalog.ClearCatalog(ctx); err != nil {
			return err
		}
	} else if err := s.catalog.ClearDerived(ctx); err != nil {
		return err
	}

	regionIDs, err := s.syncRegions(ctx, data.areas, summary)
	if err != nil {
		return err
	}

	breweryIDs, err := s.syncBreweries(ctx, data.breweries, regionIDs, summary)
	if err != nil {
		return err
	}

	brandIDs, err := s.syncBrands(ctx, data.brands, breweryIDs, summary)
	if err != nil {
		return err
	}

	if data.chartsOK {
		if err := s.syncFlavorCharts(ctx, data.charts, brandIDs, summary); err != nil {
			return err
		}
	}

	if data.tagsOK {
		tagIDs, err := s.syncFlavorTags(ctx, data.tags, summary)
		if err != nil {
			return err
		}
		if data.tagLinksOK {
			if err := s.syncBrandFlavorTags(ctx, data.tagLinks, brandIDs, tagIDs, summary); err != nil {
				return err
			}
		}
	}

	if data.rankingsOK {
		if err := s.syncRankings(ctx, data.rankings, brandIDs, summary); err != nil {
			return err
		}
	}

	return nil
}

func (s *CatalogSyncService) syncRegions(ctx context.Context, areas []sakenowa.Area, summary *SyncSummary) (map[sakenowa.ExternalID]uuid.UUID, error) {
	ids := make(map[sakenowa.ExternalID]uuid.UUID, len(areas))

	for i, area := range areas {
		if area.ID == "" || area.Name == "" {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping area with missing id or name (id=%q, name=%q)", area.ID, area.Name))
			continue
		}

		id, created, err := s.catalog.FindOrCreateRegion(ctx, area.ID.String(), area.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to sync region %s: %w", area.ID, err)
		}
		if created {
			summary.RegionsCreated++
		}
		ids[area.ID] = id
		s.logProgress("regions", i+1, len(areas))
	}

	return ids, nil
}

func (s *CatalogSyncService) syncBreweries(ctx context.Context, breweries []sakenowa.Brewery, regionIDs map[sakenowa.ExternalID]uuid.UUID, summary *SyncSummary) (map[sakenowa.ExternalID]uuid.UUID, error) {
	ids := make(map[sakenowa.ExternalID]uuid.UUID, len(breweries))

	for i, brewery := range breweries {
		if brewery.ID == "" || brewery.Name == "" {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping brewery with missing id or name (id=%q, name=%q)", brewery.ID, brewery.Name))
			continue
		}

		regionID, ok := regionIDs[brewery.AreaID]
		if !ok {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping brewery %s (%s): unknown area %q", brewery.ID, brewery.Name, brewery.AreaID))
			continue
		}

		id, created, err := s.catalog.FindOrCreateBrewery(ctx, brewery.ID.String(), brewery.Name, regionID)
		if err != nil {
			return nil, fmt.Errorf("failed to sync brewery %s: %w", brewery.ID, err)
		}
		if created {
			summary.BreweriesCreated++
		}
		ids[brewery.ID] = id
		s.logProgress("breweries", i+1, len(breweries))
	}

	return ids, nil
}

func (s *CatalogSyncService) syncBrands(ctx context.Context, brands []sakenowa.Brand, breweryIDs map[sakenowa.ExternalID]uuid.UUID, summary *SyncSummary) (map[sakenowa.ExternalID]uuid.UUID, error) {
	ids := make(map[sakenowa.ExternalID]uuid.UUID, len(brands))

	for i, brand := range brands {
		if brand.ID == "" || brand.Name == "" {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping brand with missing id or name (id=%q, name=%q)", brand.ID, brand.Name))
			continue
		}

		breweryID, ok := breweryIDs[brand.BreweryID]
		if !ok {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping brand %s (%s): unknown brewery %q", brand.ID, brand.Name, brand.BreweryID))
			continue
		}

		id, created, err := s.catalog.FindOrCreateBrand(ctx, brand.ID.String(), brand.Name, breweryID)
		if err != nil {
			return nil, fmt.Errorf("failed to sync brand %s: %w", brand.ID, err)
		}
		if created {
			summary.BrandsCreated++
		}
		ids[brand.ID] = id
		s.logProgress("brands", i+1, len(brands))
	}

	return ids, nil
}

func (s *CatalogSyncService) syncFlavorCharts(ctx context.Context, charts []sakenowa.FlavorChart, brandIDs map[sakenowa.ExternalID]uuid.UUID, summary *SyncSummary) error {
	for i, chart := range charts {
		if chart.BrandID == "" {
			summary.Skipped++
			s.warn(summary, "skipping flavor chart with missing brand id")
			continue
		}
		if chart.Invalid() {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping flavor chart for brand %s: non-numeric axis value", chart.BrandID))
			continue
		}

		brandID, ok := brandIDs[chart.BrandID]
		if !ok {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping flavor chart: unknown brand %q", chart.BrandID))
			continue
		}

		if err := s.catalog.UpsertFlavorChart(ctx, brandID, chart.Axes()); err != nil {
			return fmt.Errorf("failed to sync flavor chart for brand %s: %w", chart.BrandID, err)
		}
		summary.FlavorCharts++
		s.logProgress("flavor charts", i+1, len(charts))
	}

	return nil
}

func (s *CatalogSyncService) syncFlavorTags(ctx context.Context, tags []sakenowa.FlavorTag, summary *SyncSummary) (map[sakenowa.ExternalID]uuid.UUID, error) {
	ids := make(map[sakenowa.ExternalID]uuid.UUID, len(tags))

	for _, tag := range tags {
		if tag.ID == "" || tag.Name == "" {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping flavor tag with missing id or name (id=%q, name=%q)", tag.ID, tag.Name))
			continue
		}

		id, created, err := s.catalog.FindOrCreateFlavorTag(ctx, tag.ID.String(), tag.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to sync flavor tag %s: %w", tag.ID, err)
		}
		if created {
			summary.FlavorTagsCreated++
		}
		ids[tag.ID] = id
	}

	return ids, nil
}

func (s *CatalogSyncService) syncBrandFlavorTags(ctx context.Context, links []sakenowa.BrandFlavorTags, brandIDs, tagIDs map[sakenowa.ExternalID]uuid.UUID, summary *SyncSummary) error {
	for _, link := range links {
		brandID, ok := brandIDs[link.BrandID]
		if !ok {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping tag links: unknown brand %q", link.BrandID))
			continue
		}

		for _, tagExtID := range link.TagIDs {
			tagID, ok := tagIDs[tagExtID]
			if !ok {
				summary.Skipped++
				s.warn(summary, fmt.Sprintf("skipping tag link for brand %s: unknown tag %q", link.BrandID, tagExtID))
				continue
			}

			if err := s.catalog.LinkBrandFlavorTag(ctx, brandID, tagID); err != nil {
				return fmt.Errorf("failed to link brand %s to tag %s: %w", link.BrandID, tagExtID, err)
			}
			summary.BrandTagLinks++
		}
	}

	return nil
}

func (s *CatalogSyncService) syncRankings(ctx context.Context, rankings *sakenowa.Rankings, brandIDs map[sakenowa.ExternalID]uuid.UUID, summary *SyncSummary) error {
	if err := s.syncRankingList(ctx, rankings.Overall, models.RankingCategoryOverall, brandIDs, summary); err != nil {
		return err
	}

	for _, area := range rankings.Areas {
		if area.AreaID == "" {
			summary.Skipped += len(area.Ranking)
			s.warn(summary, "skipping area ranking list with missing area id")
			continue
		}
		category := models.AreaCategory(area.AreaID.String())
		if err := s.syncRankingList(ctx, area.Ranking, category, brandIDs, summary); err != nil {
			return err
		}
	}

	return nil
}

func (s *CatalogSyncService) syncRankingList(ctx context.Context, items []sakenowa.RankingItem, category string, brandIDs map[sakenowa.ExternalID]uuid.UUID, summary *SyncSummary) error {
	for _, item := range items {
		if item.Rank <= 0 {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping %s ranking entry for brand %q: invalid rank %d", category, item.BrandID, item.Rank))
			continue
		}

		brandID, ok := brandIDs[item.BrandID]
		if !ok {
			summary.Skipped++
			s.warn(summary, fmt.Sprintf("skipping %s ranking entry: unknown brand %q", category, item.BrandID))
			continue
		}

		if err := s.catalog.InsertRanking(ctx, brandID, item.Rank, item.ScoreValue(), category); err != nil {
			return fmt.Errorf("failed to insert %s ranking for brand %s: %w", category, item.BrandID, err)
		}
		summary.Rankings++
	}

	return nil
}

func (s *CatalogSyncService) warn(summary *SyncSummary, msg string) {
	s.logger.Warn(msg)
	summary.Warnings = append(summary.Warnings, msg)
}

func (s *CatalogSyncService) logProgress(stage string, done, total int) {
	if done%s.opts.BatchSize == 0 && done < total {
		s.logger.Debug("sync progress", zap.String("stage", stage), zap.Int("done", done), zap.Int("total", total))
	}
}
