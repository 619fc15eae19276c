package metadata

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/swipestats/migrator/internal/domain/metadata/mock"
	"github.com/swipestats/migrator/swipestats/database/models"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestCompute(t *testing.T) {
	meta := Compute("p1", mock.UsageDays, mock.Matches, fixedNow)

	from := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2022, time.January, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"like rate", meta.LikeRate, 0.8},
		{"match rate", meta.MatchRate, 0.1},
		{"swipes per active day", meta.SwipesPerDay, 20.0},
		{"real days", meta.DaysInPeriod, 10},
		{"active days", meta.DaysActive, 5},
		{"likes total", meta.SwipeLikesTotal, 80},
		{"passes total", meta.SwipePassesTotal, 20},
		{"matches total", meta.MatchesTotal, 8},
		{"app opens total", meta.AppOpensTotal, 5},
		{"from", *meta.From, from},
		{"to", *meta.To, to},
		{"conversations", meta.ConversationCount, 3},
		{"with messages", meta.ConversationsWithMessages, 2},
		{"ghosted", meta.GhostedCount, 1},
		{"computed at", meta.ComputedAt, fixedNow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestCompute_ZeroDenominators(t *testing.T) {
	days := []*models.UsageDay{
		{ProfileID: "p", DateStamp: fixedNow, AppOpens: 0},
		{ProfileID: "p", DateStamp: fixedNow.AddDate(0, 0, 1), AppOpens: 9, SwipeLikes: 3, MissingFromOriginalData: true},
	}
	meta := Compute("p", days, nil, fixedNow)

	if meta.LikeRate != 0 || meta.MatchRate != 0 || meta.SwipesPerDay != 0 {
		t.Errorf("expected zero rates, got %v %v %v", meta.LikeRate, meta.MatchRate, meta.SwipesPerDay)
	}
	if meta.DaysInPeriod != 1 || meta.DaysActive != 0 {
		t.Errorf("expected 1 real and 0 active days, got %d and %d", meta.DaysInPeriod, meta.DaysActive)
	}
	if meta.ConversationCount != 0 || meta.GhostedCount != 0 {
		t.Errorf("expected no conversations, got %d", meta.ConversationCount)
	}
}

func TestCompute_OnlyPlaceholderDays(t *testing.T) {
	days := []*models.UsageDay{
		{ProfileID: "p", DateStamp: fixedNow, AppOpens: 4, SwipeLikes: 10, MissingFromOriginalData: true},
	}
	meta := Compute("p", days, nil, fixedNow)

	if meta.From != nil || meta.To != nil {
		t.Errorf("expected no window, got %v - %v", meta.From, meta.To)
	}
	if meta.DaysInPeriod != 0 || meta.SwipeLikesTotal != 0 || meta.AppOpensTotal != 0 {
		t.Errorf("placeholder day leaked into totals: %+v", meta)
	}
}

func TestCompute_Invariants(t *testing.T) {
	meta := Compute("p1", mock.UsageDays, mock.Matches, fixedNow)

	if meta.DaysActive > meta.DaysInPeriod {
		t.Errorf("active days %d exceed real days %d", meta.DaysActive, meta.DaysInPeriod)
	}
	if meta.LikeRate < 0 || meta.LikeRate > 1 {
		t.Errorf("like rate out of bounds: %v", meta.LikeRate)
	}
	if meta.GhostedCount+meta.ConversationsWithMessages != meta.ConversationCount {
		t.Errorf("ghosted %d + with messages %d != conversations %d",
			meta.GhostedCount, meta.ConversationsWithMessages, meta.ConversationCount)
	}
	var ghosted int
	for _, m := range mock.Matches {
		if m.Ghosted {
			ghosted++
		}
	}
	if ghosted != meta.GhostedCount {
		t.Errorf("ghosted flags %d disagree with ghosted count %d", ghosted, meta.GhostedCount)
	}
}

func Test_service_ComputeAll(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().ProfilesToCompute(gomock.Any(), false, 0).Return([]string{"p1", "broken", "p3"}, nil)

	repo.EXPECT().UsageDays(gomock.Any(), "p1").Return(mock.UsageDays, nil)
	repo.EXPECT().Matches(gomock.Any(), "p1").Return(mock.Matches, nil)

	repo.EXPECT().UsageDays(gomock.Any(), "broken").Return(nil, errors.New("connection reset"))

	repo.EXPECT().UsageDays(gomock.Any(), "p3").Return(nil, nil)
	repo.EXPECT().Matches(gomock.Any(), "p3").Return(nil, nil)

	repo.EXPECT().ReplaceMeta(gomock.Any(), gomock.Any()).Times(2).Return(nil)

	s := NewService(repo, false)
	s.now = func() time.Time { return fixedNow }

	got, err := s.ComputeAll(context.Background(), false, 0)
	if err != nil {
		t.Fatalf("ComputeAll() error = %v", err)
	}

	want := Result{Profiles: 3, Computed: 2, Failed: 1, Failures: []string{"broken"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeAll() = %+v, want %+v", got, want)
	}
}

func Test_service_ComputeAll_MigratedProfilesFirst(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().PendingProfiles(gomock.Any(), []string{"z-new", "done"}, false).Return([]string{"z-new"}, nil)
	// z-new is still uncomputed while the backlog is listed; it must not use up the cap of one
	repo.EXPECT().ProfilesToCompute(gomock.Any(), false, 2).Return([]string{"z-new", "a-old"}, nil)

	var order []string
	for _, id := range []string{"z-new", "a-old"} {
		repo.EXPECT().UsageDays(gomock.Any(), id).Return(nil, nil)
		repo.EXPECT().Matches(gomock.Any(), id).Return(nil, nil)
	}
	repo.EXPECT().ReplaceMeta(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(_ context.Context, meta *models.ProfileMeta) error {
			order = append(order, meta.ProfileID)
			return nil
		})

	s := NewService(repo, false)
	got, err := s.ComputeAll(context.Background(), false, 1, "z-new", "done")
	if err != nil {
		t.Fatalf("ComputeAll() error = %v", err)
	}
	if got.Profiles != 2 || got.Computed != 2 {
		t.Errorf("ComputeAll() = %+v, want 2 profiles computed", got)
	}
	if want := []string{"z-new", "a-old"}; !reflect.DeepEqual(order, want) {
		t.Errorf("computed %v, want %v", order, want)
	}
}

func Test_service_ComputeAll_DeduplicatesBacklog(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().PendingProfiles(gomock.Any(), []string{"p1"}, true).Return([]string{"p1"}, nil)
	repo.EXPECT().ProfilesToCompute(gomock.Any(), true, 0).Return([]string{"p1", "p2"}, nil)
	repo.EXPECT().UsageDays(gomock.Any(), gomock.Any()).Times(2).Return(nil, nil)
	repo.EXPECT().Matches(gomock.Any(), gomock.Any()).Times(2).Return(nil, nil)
	repo.EXPECT().ReplaceMeta(gomock.Any(), gomock.Any()).Times(2).Return(nil)

	got, err := NewService(repo, false).ComputeAll(context.Background(), true, 0, "p1")
	if err != nil {
		t.Fatalf("ComputeAll() error = %v", err)
	}
	if got.Profiles != 2 {
		t.Errorf("profiles = %d, want 2", got.Profiles)
	}
}

func Test_service_ComputeProfile_DryRun(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().UsageDays(gomock.Any(), "p1").Return(mock.UsageDays, nil)
	repo.EXPECT().Matches(gomock.Any(), "p1").Return(mock.Matches, nil)
	repo.EXPECT().ReplaceMeta(gomock.Any(), gomock.Any()).Times(0)

	s := NewService(repo, true)
	meta, err := s.ComputeProfile(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ComputeProfile() error = %v", err)
	}
	if meta.ProfileID != "p1" {
		t.Errorf("ProfileID = %s", meta.ProfileID)
	}
}
