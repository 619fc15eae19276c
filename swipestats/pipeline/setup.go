package pipeline

import (
	"context"
	"fmt"

	"github.com/swipestats/migrator/internal/gateways/database/repositories"
	"github.com/swipestats/migrator/swipestats"
	"github.com/swipestats/migrator/swipestats/config"
	"github.com/swipestats/migrator/swipestats/database"
	"github.com/swipestats/migrator/swipestats/legacy"
	"github.com/swipestats/migrator/swipestats/logger"
	"github.com/swipestats/migrator/swipestats/migration"
	"github.com/swipestats/migrator/swipestats/services"
)

// Setup connects every store the configuration asks for and builds the
// pipeline. The returned cleanup closes them.
func Setup(ctx context.Context, cfg *swipestats.Config) (*Pipeline, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	db, err := database.New(ctx, cfg.Target)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to connect to target database: %w", err)
	}
	closers = append(closers, db.Close)

	if cfg.Migration.DryRun {
		logger.LogSystem("Dry run: skipping schema initialization")
	} else if err := db.InitializeSchema(ctx); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to initialize schema: %w", err)
	}

	deps := Deps{
		Target:   db,
		Metadata: repositories.NewProfileMetaRepository(db.BunDB()),
		Cohorts:  repositories.NewCohortRepository(db.BunDB()),
	}

	if !cfg.Migration.StatsOnly {
		source, err := legacy.Open(ctx, legacy.Config{
			URL:           cfg.Legacy.URL,
			MongoDatabase: cfg.Legacy.MongoDatabase,
			Collections:   cfg.Legacy.Collections,
		})
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to open legacy database: %w", err)
		}
		closers = append(closers, func() {
			if err := source.Close(context.Background()); err != nil {
				logger.LogError("Failed to close legacy database", err)
			}
		})
		deps.Source = source

		lookup, err := services.NewProfileLookup(db, config.ProfileLookupCacheSize)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to create profile lookup: %w", err)
		}
		deps.Lookup = lookup
	}

	if cfg.Migration.UploadOriginals && cfg.ObjectStore.Enabled() {
		store, err := services.NewObjectStore(ctx, cfg.ObjectStore)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to create object store: %w", err)
		}
		deps.Store = store
	}

	return New(deps, OptionsFromConfig(cfg)), cleanup, nil
}

func OptionsFromConfig(cfg *swipestats.Config) Options {
	return Options{
		Migration: migration.Options{
			Limit:           cfg.Migration.Limit,
			DryRun:          cfg.Migration.DryRun,
			UseCopy:         cfg.Migration.UseCopy,
			UploadOriginals: cfg.Migration.UploadOriginals,
			QueryBatchSize:  cfg.Legacy.QueryBatchSize,
			BatchSizeFor:    cfg.Migration.BatchSizeFor,
			ReportDir:       cfg.Migration.ReportDir,
		},
		Force:         cfg.Migration.Force,
		MetadataLimit: cfg.Migration.MetadataLimit,
		StatsOnly:     cfg.Migration.StatsOnly,
		Years:         cfg.Stats.Years,
	}
}
