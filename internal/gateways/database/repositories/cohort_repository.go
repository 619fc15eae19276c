package repositories

import (
	"context"
	"time"

	"github.com/swipestats/migrator/internal/domain/cohorts"
	"github.com/swipestats/migrator/internal/domain/logger"
	"github.com/swipestats/migrator/swipestats/config"
	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/uptrace/bun"
)

// statColumns are overwritten on every upsert of a (cohort, period) row.
var statColumns = []string{
	"id", "period_start", "period_end", "profile_count",
	"like_rate_p10", "like_rate_p25", "like_rate_p50", "like_rate_p75", "like_rate_p90", "like_rate_mean",
	"match_rate_p10", "match_rate_p25", "match_rate_p50", "match_rate_p75", "match_rate_p90", "match_rate_mean",
	"swipes_per_day_p10", "swipes_per_day_p25", "swipes_per_day_p50", "swipes_per_day_p75", "swipes_per_day_p90", "swipes_per_day_mean",
	"computed_at",
}

type cohortRepository struct {
	*BaseRepository
}

func NewCohortRepository(db *bun.DB) cohorts.Repository {
	return &cohortRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *cohortRepository) SeedDefinitions(ctx context.Context, defs []*models.CohortDefinition) (int64, error) {
	if len(defs) == 0 {
		return 0, nil
	}
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewInsert().
		Model(&defs).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, r.HandleError("seed", "cohort_definitions", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *cohortRepository) Definitions(ctx context.Context) ([]*models.CohortDefinition, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var defs []*models.CohortDefinition
	err := r.db.NewSelect().
		Model(&defs).
		Order("id ASC").
		Scan(ctx)
	return defs, r.HandleError("select", "cohort_definitions", err)
}

type candidateRow struct {
	ProfileID    string  `bun:"profile_id"`
	Country      *string `bun:"country"`
	Region       *string `bun:"region"`
	LikeRate     float64 `bun:"like_rate"`
	MatchRate    float64 `bun:"match_rate"`
	SwipesPerDay float64 `bun:"swipes_per_day"`
}

func (r *cohortRepository) Candidates(ctx context.Context, def *models.CohortDefinition, period cohorts.Period) ([]cohorts.Candidate, error) {
	ctx, cancel := r.WithCustomTimeout(ctx, config.StatsQueryTimeout)
	defer cancel()

	q := r.candidatesQuery(def, period)
	var rows []candidateRow
	ql := logger.NewQueryLogger("cohort_candidates", q.String())
	err := q.Scan(ctx, &rows)
	ql.Log(err, int64(len(rows)))
	if err != nil {
		return nil, r.HandleErrorWithID("select", "cohort_candidates", def.ID, err)
	}

	out := make([]cohorts.Candidate, len(rows))
	for i, row := range rows {
		out[i] = cohorts.Candidate(row)
	}
	return out, nil
}

// candidatesQuery applies the gender, age and period filters in SQL.
// Geography is left to the caller.
func (r *cohortRepository) candidatesQuery(def *models.CohortDefinition, period cohorts.Period) *bun.SelectQuery {
	q := r.db.NewSelect().
		TableExpr("profiles AS p").
		Join("JOIN profile_meta AS pm ON pm.profile_id = p.id").
		ColumnExpr("p.id AS profile_id, p.country, p.region").
		ColumnExpr("pm.like_rate, pm.match_rate, pm.swipes_per_day")

	if def.Gender != nil {
		q = q.Where("p.gender = ?", *def.Gender)
	}
	if def.AgeMin != nil {
		q = q.Where("p.age_at_upload >= ?", *def.AgeMin)
	}
	if def.AgeMax != nil {
		q = q.Where("p.age_at_upload <= ?", *def.AgeMax)
	}
	if !period.IsAllTime() {
		q = q.Where("p.first_day_on_app < ?", *period.End).
			Where("p.last_day_on_app >= ?", *period.Start)
	}
	return q
}

func (r *cohortRepository) UpsertStats(ctx context.Context, stats *models.CohortStats) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.upsertStatsQuery(stats).Exec(ctx)
	return r.HandleErrorWithID("upsert", "cohort_stats", stats.CohortID+"/"+stats.Period, err)
}

func (r *cohortRepository) upsertStatsQuery(stats *models.CohortStats) *bun.InsertQuery {
	q := r.db.NewInsert().
		Model(stats).
		On("CONFLICT (cohort_id, period) DO UPDATE")
	for _, col := range statColumns {
		q = q.Set(col + " = EXCLUDED." + col)
	}
	return q
}

func (r *cohortRepository) UpdateProfileCount(ctx context.Context, cohortID string, count int, computedAt time.Time) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewUpdate().
		Model((*models.CohortDefinition)(nil)).
		Set("profile_count = ?", count).
		Set("last_computed_at = ?", computedAt).
		Where("id = ?", cohortID).
		Exec(ctx)
	return r.HandleErrorWithID("update", "cohort_definitions", cohortID, err)
}
