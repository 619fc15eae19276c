package cohorts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/swipestats/migrator/internal/domain/cohorts"
	"github.com/swipestats/migrator/internal/domain/cohorts/mock"
	"github.com/swipestats/migrator/swipestats/database/models"
	"go.uber.org/mock/gomock"
)

func candidates(n int) []cohorts.Candidate {
	out := make([]cohorts.Candidate, n)
	for i := range out {
		out[i] = cohorts.Candidate{
			ProfileID:    string(rune('a' + i)),
			LikeRate:     float64(i+1) / 10,
			MatchRate:    float64(i+1) / 100,
			SwipesPerDay: float64(10 * (i + 1)),
		}
	}
	return out
}

var everyone = &models.CohortDefinition{ID: "everyone", Name: "Everyone"}

func Test_service_Compute_MinimumSample(t *testing.T) {
	tests := []struct {
		name      string
		profiles  int
		wantSkip  bool
		wantCount int
	}{
		{"four profiles are skipped", 4, true, 4},
		{"five profiles are published", 5, false, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			repo.EXPECT().Candidates(gomock.Any(), everyone, cohorts.AllTime()).Return(candidates(tt.profiles), nil)
			repo.EXPECT().UpdateProfileCount(gomock.Any(), "everyone", tt.wantCount, gomock.Any()).Return(nil)
			if tt.wantSkip {
				repo.EXPECT().UpsertStats(gomock.Any(), gomock.Any()).Times(0)
			} else {
				repo.EXPECT().UpsertStats(gomock.Any(), gomock.Any()).Return(nil)
			}

			s := cohorts.NewService(repo, false)
			stats, err := s.Compute(context.Background(), everyone, cohorts.AllTime())

			if tt.wantSkip {
				if !errors.Is(err, cohorts.ErrInsufficientSample) {
					t.Fatalf("expected ErrInsufficientSample, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if stats.ProfileCount != 5 || stats.Period != "all-time" || stats.PeriodStart != nil {
				t.Errorf("unexpected stats header: %+v", stats)
			}
			if stats.LikeRateP10 != 0.1 || stats.LikeRateP90 != 0.5 || stats.SwipesPerDayP50 != 30 {
				t.Errorf("unexpected percentiles: %+v", stats)
			}
			if stats.LikeRateP10 > stats.LikeRateP50 || stats.LikeRateP50 > stats.LikeRateP90 {
				t.Errorf("percentiles not monotonic: %+v", stats)
			}
		})
	}
}

func Test_service_Compute_YearDoesNotTouchCount(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	year := cohorts.Year(2022)
	repo.EXPECT().Candidates(gomock.Any(), everyone, year).Return(candidates(6), nil)
	repo.EXPECT().UpdateProfileCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	repo.EXPECT().UpsertStats(gomock.Any(), gomock.Any()).Return(nil)

	stats, err := cohorts.NewService(repo, false).Compute(context.Background(), everyone, year)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if stats.Period != "2022" || stats.PeriodStart == nil || stats.PeriodStart.Year() != 2022 {
		t.Errorf("unexpected period on stats: %+v", stats)
	}
}

func Test_service_Compute_GeographyFiltersInProcess(t *testing.T) {
	us := &models.CohortDefinition{ID: "us", Name: "US"}
	country := "United States"
	us.Country = &country

	in := candidates(6)
	usa, norway := "USA", "Norway"
	for i := range in {
		in[i].Country = &usa
	}
	in[0].Country = &norway
	in[1].Country = nil

	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().Candidates(gomock.Any(), us, cohorts.AllTime()).Return(in, nil)
	repo.EXPECT().UpdateProfileCount(gomock.Any(), "us", 4, gomock.Any()).Return(nil)

	_, err := cohorts.NewService(repo, false).Compute(context.Background(), us, cohorts.AllTime())
	if !errors.Is(err, cohorts.ErrInsufficientSample) {
		t.Fatalf("expected 4 matching profiles to be skipped, got %v", err)
	}
}

func Test_service_ComputeAll(t *testing.T) {
	broken := &models.CohortDefinition{ID: "broken", Name: "Broken"}

	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().Definitions(gomock.Any()).Return([]*models.CohortDefinition{everyone, broken}, nil)

	repo.EXPECT().Candidates(gomock.Any(), everyone, cohorts.AllTime()).Return(candidates(5), nil)
	repo.EXPECT().Candidates(gomock.Any(), everyone, cohorts.Year(2023)).Return(candidates(2), nil)
	repo.EXPECT().Candidates(gomock.Any(), broken, gomock.Any()).Times(2).Return(nil, errors.New("timeout"))

	repo.EXPECT().UpdateProfileCount(gomock.Any(), "everyone", 5, gomock.Any()).Return(nil)
	repo.EXPECT().UpsertStats(gomock.Any(), gomock.Any()).Return(nil)

	res, err := cohorts.NewService(repo, false).ComputeAll(context.Background(), []int{2023})
	if err != nil {
		t.Fatalf("ComputeAll() error = %v", err)
	}
	if res.Pairs != 4 || res.Computed != 1 || res.Skipped != 1 || res.Failed != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func Test_service_Seed(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().SeedDefinitions(gomock.Any(), gomock.Len(len(cohorts.Definitions()))).Return(int64(14), nil)

	added, err := cohorts.NewService(repo, false).Seed(context.Background())
	if err != nil || added != 14 {
		t.Fatalf("Seed() = %d, %v", added, err)
	}
}
