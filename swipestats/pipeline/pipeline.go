// Package pipeline runs the full job: entity copy, profile metadata and
// cohort statistics, in that order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/swipestats/migrator/internal/domain/cohorts"
	"github.com/swipestats/migrator/internal/domain/metadata"
	"github.com/swipestats/migrator/swipestats/legacy"
	"github.com/swipestats/migrator/swipestats/logger"
	"github.com/swipestats/migrator/swipestats/migration"
)

// Deps are the collaborators of one run. Source may be nil when StatsOnly is
// set; Lookup and Store are optional.
type Deps struct {
	Source   legacy.Source
	Target   migration.Target
	Metadata metadata.Repository
	Cohorts  cohorts.Repository
	Lookup   migration.ProfileLookup
	Store    migration.ObjectStore
}

type Options struct {
	Migration migration.Options
	Force     bool
	// MetadataLimit caps the backlog of uncomputed profiles handled after
	// the ones this run migrated. 0 means no cap.
	MetadataLimit int
	StatsOnly     bool
	Years         []int
}

// Result gathers what each phase did.
type Result struct {
	Migration     *migration.MigrationStats `json:"migration,omitempty"`
	Metadata      metadata.Result           `json:"metadata"`
	CohortsSeeded int64                     `json:"cohorts_seeded"`
	Cohorts       cohorts.Result            `json:"cohorts"`
	Took          time.Duration             `json:"took"`
}

// Failed reports whether any record failed. Cohort pair failures are logged
// but do not count.
func (r *Result) Failed() bool {
	return r.Metadata.Failed > 0
}

type Pipeline struct {
	deps Deps
	opts Options

	migrator *migration.Migrator
	metadata metadata.Service
	cohorts  cohorts.Service
}

func New(deps Deps, opts Options) *Pipeline {
	p := &Pipeline{
		deps:     deps,
		opts:     opts,
		metadata: metadata.NewService(deps.Metadata, opts.Migration.DryRun),
		cohorts:  cohorts.NewService(deps.Cohorts, opts.Migration.DryRun),
	}

	if !opts.StatsOnly {
		p.migrator = migration.NewMigrator(deps.Source, deps.Target, opts.Migration)
		if deps.Lookup != nil {
			p.migrator.UseProfileLookup(deps.Lookup)
		}
		if deps.Store != nil {
			p.migrator.UseObjectStore(deps.Store)
		}
	}
	return p
}

// Run executes the phases in order. A copy stage abort stops the run;
// metadata and cohort failures are counted in the result instead.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	logger.LogSystem("Pipeline starting",
		slog.Bool("dry_run", p.opts.Migration.DryRun),
		slog.Bool("stats_only", p.opts.StatsOnly),
		slog.Bool("force", p.opts.Force),
		slog.Int("limit", p.opts.Migration.Limit))

	if p.migrator != nil {
		stats, err := p.migrator.Run(ctx)
		res.Migration = stats
		if err != nil {
			res.Took = time.Since(start)
			return res, err
		}
	} else {
		logger.LogSystem("Stats only: skipping entity copy")
	}

	if err := p.runPhase("profile_metadata", func() error {
		var migrated []string
		if res.Migration != nil {
			migrated = res.Migration.ProfileIDs
		}
		r, err := p.metadata.ComputeAll(ctx, p.opts.Force, p.opts.MetadataLimit, migrated...)
		res.Metadata = r
		return err
	}, nil); err != nil {
		res.Took = time.Since(start)
		return res, err
	}

	if err := p.runPhase("cohort_seed", func() error {
		n, err := p.cohorts.Seed(ctx)
		res.CohortsSeeded = n
		return err
	}, nil); err != nil {
		res.Took = time.Since(start)
		return res, err
	}

	if err := p.runPhase("cohort_stats", func() error {
		r, err := p.cohorts.ComputeAll(ctx, p.opts.Years)
		res.Cohorts = r
		return err
	}, func() []any {
		return []any{
			slog.Int("pairs", res.Cohorts.Pairs),
			slog.Int("skipped", res.Cohorts.Skipped),
		}
	}); err != nil {
		res.Took = time.Since(start)
		return res, err
	}

	res.Took = time.Since(start)
	logger.LogSystem("Pipeline finished",
		slog.Duration("took", res.Took),
		slog.Int("metadata_computed", res.Metadata.Computed),
		slog.Int("metadata_failed", res.Metadata.Failed),
		slog.Int("cohort_stats_computed", res.Cohorts.Computed),
		slog.Int("cohort_stats_failed", res.Cohorts.Failed))
	return res, nil
}

func (p *Pipeline) runPhase(name string, fn func() error, attrs func() []any) error {
	logger.LogStage(name, 0, nil)
	start := time.Now()

	err := fn()

	var extra []any
	if attrs != nil {
		extra = attrs()
	}
	logger.LogStage(name, max(time.Since(start), time.Nanosecond), err, extra...)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
