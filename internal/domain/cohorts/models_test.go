package cohorts

import (
	"testing"
	"time"
)

func TestYear_ExclusiveEnd(t *testing.T) {
	p := Year(2022)
	if want := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC); !p.End.Equal(want) {
		t.Errorf("Year(2022).End = %v, want %v", p.End, want)
	}
	if p.Key != "2022" || p.IsAllTime() {
		t.Errorf("Year(2022) = %+v", p)
	}
}

func TestPeriod_Overlaps(t *testing.T) {
	day := func(y int, m time.Month, d, h, min, s, ns int) time.Time {
		return time.Date(y, m, d, h, min, s, ns, time.UTC)
	}
	y2022 := Year(2022)

	tests := []struct {
		name        string
		period      Period
		first, last time.Time
		want        bool
	}{
		{"inside", y2022, day(2022, 3, 1, 0, 0, 0, 0), day(2022, 4, 1, 0, 0, 0, 0), true},
		{"last second of the year", y2022, day(2021, 6, 1, 0, 0, 0, 0), day(2022, 12, 31, 23, 59, 59, 500_000_000), true},
		{"starts on the next new year", y2022, day(2023, 1, 1, 0, 0, 0, 0), day(2023, 2, 1, 0, 0, 0, 0), false},
		{"ends on the first instant", y2022, day(2021, 5, 1, 0, 0, 0, 0), day(2022, 1, 1, 0, 0, 0, 0), true},
		{"ends the year before", y2022, day(2021, 5, 1, 0, 0, 0, 0), day(2021, 12, 31, 23, 59, 59, 0), false},
		{"spans the whole year", y2022, day(2020, 1, 1, 0, 0, 0, 0), day(2024, 1, 1, 0, 0, 0, 0), true},
		{"all time", AllTime(), day(1999, 1, 1, 0, 0, 0, 0), day(1999, 1, 2, 0, 0, 0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.Overlaps(tt.first, tt.last); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.first, tt.last, got, tt.want)
			}
		})
	}
}
