package models

import (
	"time"

	"github.com/uptrace/bun"
)

type CohortType string

const (
	CohortTypeSystem CohortType = "SYSTEM"
	CohortTypeUser   CohortType = "USER"
)

// CohortDefinition is a named filter over profile attributes. Nil bounds are
// open ended.
type CohortDefinition struct {
	bun.BaseModel `bun:"table:cohort_definitions,alias:cd"`

	ID          string     `bun:"id,pk,type:text"`
	Name        string     `bun:"name,notnull,type:text"`
	Description string     `bun:"description,notnull,type:text,default:''"`
	Type        CohortType `bun:"type,notnull,type:text"`
	Gender      *Gender    `bun:"gender,type:text"`
	AgeMin      *int       `bun:"age_min"`
	AgeMax      *int       `bun:"age_max"`
	Country     *string    `bun:"country,type:text"`
	Region      *string    `bun:"region,type:text"`
	SeedVersion int        `bun:"seed_version,notnull,default:0"`

	ProfileCount   int        `bun:"profile_count,notnull,default:0"`
	LastComputedAt *time.Time `bun:"last_computed_at"`
	CreatedAt      time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

// CohortStats is the percentile snapshot of one cohort over one period.
type CohortStats struct {
	bun.BaseModel `bun:"table:cohort_stats,alias:cst"`

	ID           string     `bun:"id,pk,type:text"`
	CohortID     string     `bun:"cohort_id,notnull,type:text,unique:cohort_period"`
	Period       string     `bun:"period,notnull,type:text,unique:cohort_period"`
	PeriodStart  *time.Time `bun:"period_start"`
	PeriodEnd    *time.Time `bun:"period_end"`
	ProfileCount int        `bun:"profile_count,notnull"`

	LikeRateP10  float64 `bun:"like_rate_p10,notnull"`
	LikeRateP25  float64 `bun:"like_rate_p25,notnull"`
	LikeRateP50  float64 `bun:"like_rate_p50,notnull"`
	LikeRateP75  float64 `bun:"like_rate_p75,notnull"`
	LikeRateP90  float64 `bun:"like_rate_p90,notnull"`
	LikeRateMean float64 `bun:"like_rate_mean,notnull"`

	MatchRateP10  float64 `bun:"match_rate_p10,notnull"`
	MatchRateP25  float64 `bun:"match_rate_p25,notnull"`
	MatchRateP50  float64 `bun:"match_rate_p50,notnull"`
	MatchRateP75  float64 `bun:"match_rate_p75,notnull"`
	MatchRateP90  float64 `bun:"match_rate_p90,notnull"`
	MatchRateMean float64 `bun:"match_rate_mean,notnull"`

	SwipesPerDayP10  float64 `bun:"swipes_per_day_p10,notnull"`
	SwipesPerDayP25  float64 `bun:"swipes_per_day_p25,notnull"`
	SwipesPerDayP50  float64 `bun:"swipes_per_day_p50,notnull"`
	SwipesPerDayP75  float64 `bun:"swipes_per_day_p75,notnull"`
	SwipesPerDayP90  float64 `bun:"swipes_per_day_p90,notnull"`
	SwipesPerDayMean float64 `bun:"swipes_per_day_mean,notnull"`

	ComputedAt time.Time `bun:"computed_at,notnull"`
}
