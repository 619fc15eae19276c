package cohorts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/swipestats/migrator/swipestats/config"
	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/swipestats/migrator/swipestats/logger"
)

var statsNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://swipestats.io/cohort-stats"))

type Service interface {
	Seed(ctx context.Context) (int64, error)
	Compute(ctx context.Context, def *models.CohortDefinition, period Period) (*models.CohortStats, error)
	ComputeAll(ctx context.Context, years []int) (Result, error)
}

type service struct {
	repository Repository
	dryRun     bool
	minSample  int
	now        func() time.Time
}

func NewService(repository Repository, dryRun bool) *service {
	return &service{
		repository: repository,
		dryRun:     dryRun,
		minSample:  config.MinCohortSample,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Seed(ctx context.Context) (int64, error) {
	defs := Definitions()
	if s.dryRun {
		logger.LogBatch("Dry run: would seed cohort definitions", slog.Int("definitions", len(defs)))
		return 0, nil
	}

	added, err := s.repository.SeedDefinitions(ctx, defs)
	if err != nil {
		return 0, fmt.Errorf("failed to seed cohorts: %w", err)
	}
	logger.LogSystem("Cohort definitions seeded",
		slog.Int("definitions", len(defs)),
		slog.Int64("added", added),
		slog.Int("seed_version", config.CohortSeedVersion))
	return added, nil
}

// Compute builds the percentile snapshot of one cohort over one period and
// upserts it. Samples below the minimum return ErrInsufficientSample and
// leave any previous row untouched. Only the all-time period refreshes the
// cohort's cached profile count.
func (s *service) Compute(ctx context.Context, def *models.CohortDefinition, period Period) (*models.CohortStats, error) {
	candidates, err := s.repository.Candidates(ctx, def, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	var likeRates, matchRates, swipesPerDay []float64
	for _, c := range candidates {
		if !matchesGeography(def, c) {
			continue
		}
		likeRates = append(likeRates, c.LikeRate)
		matchRates = append(matchRates, c.MatchRate)
		swipesPerDay = append(swipesPerDay, c.SwipesPerDay)
	}
	n := len(likeRates)
	now := s.now()

	if period.IsAllTime() && !s.dryRun {
		if err := s.repository.UpdateProfileCount(ctx, def.ID, n, now); err != nil {
			return nil, fmt.Errorf("failed to update cohort count: %w", err)
		}
	}

	if n < s.minSample {
		return nil, fmt.Errorf("%w: %d profiles in %s/%s, need %d", ErrInsufficientSample, n, def.ID, period.Key, s.minSample)
	}

	like, match, swipes := Summarize(likeRates), Summarize(matchRates), Summarize(swipesPerDay)
	stats := &models.CohortStats{
		ID:           uuid.NewSHA1(statsNamespace, []byte(def.ID+"|"+period.Key)).String(),
		CohortID:     def.ID,
		Period:       period.Key,
		PeriodStart:  period.Start,
		PeriodEnd:    period.End,
		ProfileCount: n,

		LikeRateP10:  like.P10,
		LikeRateP25:  like.P25,
		LikeRateP50:  like.P50,
		LikeRateP75:  like.P75,
		LikeRateP90:  like.P90,
		LikeRateMean: like.Mean,

		MatchRateP10:  match.P10,
		MatchRateP25:  match.P25,
		MatchRateP50:  match.P50,
		MatchRateP75:  match.P75,
		MatchRateP90:  match.P90,
		MatchRateMean: match.Mean,

		SwipesPerDayP10:  swipes.P10,
		SwipesPerDayP25:  swipes.P25,
		SwipesPerDayP50:  swipes.P50,
		SwipesPerDayP75:  swipes.P75,
		SwipesPerDayP90:  swipes.P90,
		SwipesPerDayMean: swipes.Mean,

		ComputedAt: now,
	}

	if s.dryRun {
		logger.LogBatch("Dry run: would upsert cohort stats",
			slog.String("cohort", def.ID),
			slog.String("period", period.Key),
			slog.Int("profiles", n))
		return stats, nil
	}

	if err := s.repository.UpsertStats(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to store cohort stats: %w", err)
	}
	return stats, nil
}

// ComputeAll covers every cohort for all-time and each year. Failures of a
// single pair are logged and counted; the pass continues.
func (s *service) ComputeAll(ctx context.Context, years []int) (Result, error) {
	var res Result

	defs, err := s.repository.Definitions(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list cohorts: %w", err)
	}
	if s.dryRun && len(defs) == 0 {
		// nothing was seeded on a dry run
		defs = Definitions()
	}

	periods := Periods(years)
	for _, def := range defs {
		for _, period := range periods {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			res.Pairs++

			_, err := s.Compute(ctx, def, period)
			switch {
			case err == nil:
				res.Computed++
			case errors.Is(err, ErrInsufficientSample):
				res.Skipped++
				slog.Debug("Cohort skipped", slog.String("type", "stage"), slog.Any("reason", err))
			default:
				res.Failed++
				res.Failures = append(res.Failures, def.ID+"/"+period.Key)
				logger.LogError("Cohort stats failed", err,
					slog.String("cohort", def.ID),
					slog.String("period", period.Key))
			}
		}
	}

	logger.LogSystem("Cohort stats computed",
		slog.Int("pairs", res.Pairs),
		slog.Int("computed", res.Computed),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed))
	return res, nil
}
