package cohorts

import (
	"errors"
	"strconv"
	"time"

	"github.com/swipestats/migrator/swipestats/config"
)

// ErrInsufficientSample marks a cohort and period with too few profiles to
// publish percentiles. No stats row is written for it.
var ErrInsufficientSample = errors.New("insufficient sample")

// Period is a statistics window over [Start, End). Start and End are nil for
// all-time.
type Period struct {
	Key   string
	Start *time.Time
	End   *time.Time
}

func AllTime() Period {
	return Period{Key: config.AllTimePeriod}
}

// Year covers a calendar year in UTC. End is the first instant of the next
// year.
func Year(y int) Period {
	start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return Period{Key: strconv.Itoa(y), Start: &start, End: &end}
}

// Periods returns all-time followed by each year.
func Periods(years []int) []Period {
	out := []Period{AllTime()}
	for _, y := range years {
		out = append(out, Year(y))
	}
	return out
}

func (p Period) IsAllTime() bool {
	return p.Start == nil
}

// Overlaps reports whether a profile active from first to last (inclusive)
// was on the app at some point of the period.
func (p Period) Overlaps(first, last time.Time) bool {
	if p.IsAllTime() {
		return true
	}
	return first.Before(*p.End) && !last.Before(*p.Start)
}

// Candidate is a profile that passed the store-side filters, with the
// metrics the percentiles are taken over.
type Candidate struct {
	ProfileID    string
	Country      *string
	Region       *string
	LikeRate     float64
	MatchRate    float64
	SwipesPerDay float64
}

// Result counts one ComputeAll pass.
type Result struct {
	Pairs    int      `json:"pairs"`
	Computed int      `json:"computed"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Failures []string `json:"failures,omitempty"`
}
