package migration

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/swipestats/migrator/internal/testutil/memstore"
	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/swipestats/migrator/swipestats/legacy"
)

var fixedNow = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

func legacyProfile(id string, created time.Time) legacy.Profile {
	return legacy.Profile{
		TinderID:      id,
		CreateDate:    legacy.At(created),
		BirthDate:     legacy.Text("1995-01-01"),
		FirstDayOnApp: legacy.At(created),
		LastDayOnApp:  legacy.At(created.AddDate(0, 1, 0)),
		Gender:        strp("F"),
		CreatedAt:     created,
	}
}

func newTestMigrator(src *memstore.Legacy, store *memstore.Store, opts Options) *Migrator {
	m := NewMigrator(src, store, opts)
	m.SetClock(func() time.Time { return fixedNow })
	return m
}

func TestSelectProfiles_MostRecentFirst(t *testing.T) {
	src := memstore.NewLegacy()
	src.ProfileRows = []legacy.Profile{
		legacyProfile("old", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		legacyProfile("new", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		legacyProfile("mid", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	src.ProfileRows[1].UserID = strp("owner")
	src.ProfileRows[2].UserID = strp("owner")

	sel, err := newTestMigrator(src, memstore.NewStore(), Options{Limit: 2}).SelectProfiles(context.Background())
	if err != nil {
		t.Fatalf("SelectProfiles() error = %v", err)
	}
	if strings.Join(sel.ProfileIDs, ",") != "new,mid" {
		t.Errorf("profiles = %v, want [new mid]", sel.ProfileIDs)
	}
	if len(sel.UserIDs) != 1 || sel.UserIDs[0] != "owner" {
		t.Errorf("users = %v, want [owner]", sel.UserIDs)
	}
	if !sel.From.Equal(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)) || !sel.To.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("range = %v..%v", sel.From, sel.To)
	}
}

func TestRun_NothingToMigrate(t *testing.T) {
	store := memstore.NewStore()
	stats, err := newTestMigrator(memstore.NewLegacy(), store, Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Profiles != 0 || stats.TotalRecords != 0 || len(stats.Tables) != 0 {
		t.Errorf("stats = %+v, want empty", stats)
	}
}

func TestRun_ChunksLegacyQueries(t *testing.T) {
	src := memstore.NewLegacy()
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		src.ProfileRows = append(src.ProfileRows, legacyProfile(id, time.Date(2023, 1, 1+i, 0, 0, 0, 0, time.UTC)))
		src.JobRows = append(src.JobRows, legacy.Job{ID: "job-" + id, ProfileID: id})
	}
	store := memstore.NewStore()

	stats, err := newTestMigrator(src, store, Options{
		QueryBatchSize: 2,
		BatchSizeFor:   func(string) int { return 2 },
	}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := src.Calls["Profiles"]; got != 3 {
		t.Errorf("profile queries = %d, want 3", got)
	}
	if got := src.Calls["Jobs"]; got != 3 {
		t.Errorf("job queries = %d, want 3", got)
	}
	if got := stats.Tables[EntityJobs].Written; got != 5 {
		t.Errorf("jobs written = %d, want 5", got)
	}
	if len(store.Jobs) != 5 {
		t.Errorf("stored jobs = %d, want 5", len(store.Jobs))
	}
}

func TestRun_TransformErrorAbortsStage(t *testing.T) {
	src := memstore.NewLegacy()
	good := legacyProfile("good", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	bad := legacyProfile("bad", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC))
	bad.FirstDayOnApp = legacy.Text("not a date")
	src.ProfileRows = []legacy.Profile{good, bad}
	store := memstore.NewStore()

	stats, err := newTestMigrator(src, store, Options{}).Run(context.Background())

	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want TransformError", err)
	}
	if te.Key != "bad" || te.Field != "firstDayOnApp" {
		t.Errorf("TransformError = %+v", te)
	}
	if stats.FailedStage != EntityProfiles {
		t.Errorf("failed stage = %q, want profiles", stats.FailedStage)
	}
	if len(store.Profiles) != 0 {
		t.Errorf("profiles written despite failure: %d", len(store.Profiles))
	}
	if len(store.Users) != 2 {
		t.Errorf("users written = %d, want 2 from the earlier stage", len(store.Users))
	}
}

func TestRun_UsageDaysThroughCopy(t *testing.T) {
	src := memstore.NewLegacy()
	src.ProfileRows = []legacy.Profile{legacyProfile("p", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))}
	src.UsageDayRows = []legacy.UsageDay{
		{ProfileID: "p", DateStamp: legacy.Text("2023-01-01"), AppOpens: 1},
		{ProfileID: "p", DateStamp: legacy.Text("2023-01-02")},
	}
	store := memstore.NewStore()

	stats, err := newTestMigrator(src, store, Options{UseCopy: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if store.Copies != 1 {
		t.Errorf("copy calls = %d, want 1", store.Copies)
	}
	if got := stats.Tables[EntityUsageDays].Written; got != 2 {
		t.Errorf("usage days written = %d, want 2", got)
	}
}

func TestRun_PurchasesUseLookupForEarlierProfiles(t *testing.T) {
	src := memstore.NewLegacy()
	src.ProfileRows = []legacy.Profile{legacyProfile("current", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))}

	earlier := time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC)
	store := memstore.NewStore()
	earlierID := canonicalFor(t, "1990-01-01", earlier)
	store.Profiles[earlierID] = &models.Profile{ID: earlierID}

	src.PurchaseRows = []legacy.Purchase{
		{ID: "pu-earlier", BirthDate: legacy.Text("1990-01-01"), CreateDate: legacy.At(earlier)},
		{ID: "pu-nobody", BirthDate: legacy.Text("1980-01-01"), CreateDate: legacy.At(earlier)},
	}

	m := newTestMigrator(src, store, Options{})
	m.UseProfileLookup(lookupFunc(store.ProfileExists))
	stats, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	pt := stats.Tables[EntityPurchases]
	if pt.Written != 1 || pt.NotMigrated != 1 {
		t.Errorf("purchases written/not migrated = %d/%d, want 1/1", pt.Written, pt.NotMigrated)
	}
	if _, ok := store.Purchases["pu-earlier"]; !ok {
		t.Errorf("purchase for earlier profile not written")
	}
}

type lookupFunc func(ctx context.Context, id string) (bool, error)

func (f lookupFunc) Exists(ctx context.Context, id string) (bool, error) { return f(ctx, id) }

func canonicalFor(t *testing.T, birth string, create time.Time) string {
	t.Helper()
	p, err := convertPurchase(legacy.Purchase{ID: "pu-1", BirthDate: legacy.Text(birth), CreateDate: legacy.At(create)})
	if err != nil {
		t.Fatalf("convertPurchase() error = %v", err)
	}
	return p.ProfileID
}

func TestRun_DryRunAndReport(t *testing.T) {
	src := memstore.NewLegacy()
	src.ProfileRows = []legacy.Profile{legacyProfile("p", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))}
	src.OriginalFileRows = []legacy.OriginalFile{{ID: "f", ProfileID: "p", File: legacy.RawDocument(`{}`)}}
	store := memstore.NewStore()
	uploads := memstore.NewUploads()
	dir := t.TempDir()

	m := newTestMigrator(src, store, Options{DryRun: true, UploadOriginals: true, ReportDir: dir})
	m.UseObjectStore(uploads)
	stats, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(store.Profiles) != 0 || len(store.Users) != 0 || len(uploads.Objects) != 0 {
		t.Errorf("dry run wrote: profiles %d users %d uploads %d", len(store.Profiles), len(store.Users), len(uploads.Objects))
	}
	if got := stats.Tables[EntityOriginalFiles].Skipped; got != 1 {
		t.Errorf("original files skipped = %d, want 1", got)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "migration_report_*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("report files = %v, err %v", matches, err)
	}
	raw, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	var report MigrationStats
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if !report.DryRun || report.Profiles != 1 || report.Tables[EntityProfiles].Transformed != 1 {
		t.Errorf("report = %+v", report)
	}
	if !strings.Contains(stats.SummaryTable(), EntityProfiles) {
		t.Errorf("summary table misses profiles:\n%s", stats.SummaryTable())
	}
}
