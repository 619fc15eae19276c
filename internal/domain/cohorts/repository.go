package cohorts

import (
	"context"
	"time"

	"github.com/swipestats/migrator/swipestats/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	// SeedDefinitions inserts definitions that do not exist yet and returns
	// how many were added.
	SeedDefinitions(ctx context.Context, defs []*models.CohortDefinition) (int64, error)
	Definitions(ctx context.Context) ([]*models.CohortDefinition, error)
	// Candidates applies the gender, age and period filters and joins the
	// profile metadata. Geography is left to the caller.
	Candidates(ctx context.Context, def *models.CohortDefinition, period Period) ([]Candidate, error)
	UpsertStats(ctx context.Context, stats *models.CohortStats) error
	UpdateProfileCount(ctx context.Context, cohortID string, count int, computedAt time.Time) error
}
