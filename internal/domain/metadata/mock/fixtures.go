package mock

import (
	"time"

	"github.com/swipestats/migrator/swipestats/database/models"
)

func day(d int) time.Time {
	return time.Date(2022, time.January, d, 0, 0, 0, 0, time.UTC)
}

// UsageDays is ten real days (80 likes, 20 passes, 8 matches) plus two
// placeholder days whose counters must be ignored.
var UsageDays = func() []*models.UsageDay {
	var days []*models.UsageDay
	for d := 1; d <= 10; d++ {
		opens := 1
		if d%2 == 0 {
			opens = 0
		}
		days = append(days, &models.UsageDay{
			ID:          models.UsageDayID("p1", day(d)),
			ProfileID:   "p1",
			DateStamp:   day(d),
			AppOpens:    opens,
			SwipeLikes:  8,
			SwipePasses: 2,
			Matches:     boolInt(d <= 8),
			Active:      opens > 0,
		})
	}
	for _, d := range []int{11, 12} {
		days = append(days, &models.UsageDay{
			ID:                      models.UsageDayID("p1", day(d)),
			ProfileID:               "p1",
			DateStamp:               day(d),
			AppOpens:                50,
			SwipeLikes:              500,
			SwipePasses:             500,
			Matches:                 50,
			MissingFromOriginalData: true,
		})
	}
	return days
}()

var Matches = []*models.Match{
	{ID: "m1", ProfileID: "p1", TotalMessageCount: 12},
	{ID: "m2", ProfileID: "p1", TotalMessageCount: 0, Ghosted: true},
	{ID: "m3", ProfileID: "p1", TotalMessageCount: 3},
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
