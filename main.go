package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/sakenavi/sakenavi-engine/pkg/config"
	"github.com/sakenavi/sakenavi-engine/pkg/database"
	"github.com/sakenavi/sakenavi-engine/pkg/handlers"
	"github.com/sakenavi/sakenavi-engine/pkg/logging"
	"github.com/sakenavi/sakenavi-engine/pkg/middleware"
	"github.com/sakenavi/sakenavi-engine/pkg/repositories"
	"github.com/sakenavi/sakenavi-engine/pkg/sakenowa"
	"github.com/sakenavi/sakenavi-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	syncOnce := flag.Bool("sync", false, "run one catalog sync and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is not actionable

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("sakenowa_base_url", cfg.Sakenowa.BaseURL))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	client, err := sakenowa.NewClient(&sakenowa.Config{
		BaseURL: cfg.Sakenowa.BaseURL,
		Timeout: cfg.Sakenowa.Timeout(),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create catalog client", zap.Error(err))
	}

	catalogRepo := repositories.NewCatalogRepository(db)
	brandRepo := repositories.NewBrandRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	userRepo := repositories.NewUserRepository(db)

	syncService := services.NewCatalogSyncService(db, client, catalogRepo, services.SyncOptions{
		FullRefresh: cfg.Sakenowa.FullRefresh,
		BatchSize:   cfg.Sakenowa.BatchSize,
	}, logger)
	brandService := services.NewBrandService(brandRepo, logger)
	reviewService := services.NewReviewService(reviewRepo, userRepo, brandRepo, logger)

	if *syncOnce {
		summary, err := syncService.Sync(ctx)
		if err != nil {
			logger.Error("Catalog sync failed", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("Catalog sync finished",
			zap.Int("brands_created", summary.BrandsCreated),
			zap.Int("skipped", summary.Skipped),
			zap.Bool("partial", summary.Partial))
		return
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewSyncHandler(syncService, logger).RegisterRoutes(mux)
	handlers.NewCatalogHandler(brandService, logger).RegisterRoutes(mux)
	handlers.NewReviewHandler(reviewService, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	logger.Info("Starting sakenavi-engine",
		zap.String("port", cfg.Port),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(cfg.BindAddr+":"+cfg.Port, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// runMigrations applies pending migrations through database/sql, which
// golang-migrate requires.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger)
}
