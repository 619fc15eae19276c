package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/swipestats/migrator/swipestats/config"
	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/swipestats/migrator/swipestats/legacy"
	"github.com/swipestats/migrator/swipestats/logger"
)

// Target is the write side of the copy. Every insert must be
// insert-if-absent and report how many rows were actually added.
type Target interface {
	InsertUsers(ctx context.Context, rows []*models.User) (int64, error)
	InsertProfiles(ctx context.Context, rows []*models.Profile) (int64, error)
	InsertJobs(ctx context.Context, rows []*models.Job) (int64, error)
	InsertSchools(ctx context.Context, rows []*models.School) (int64, error)
	InsertMatches(ctx context.Context, rows []*models.Match) (int64, error)
	InsertMessages(ctx context.Context, rows []*models.Message) (int64, error)
	InsertMedia(ctx context.Context, rows []*models.Media) (int64, error)
	InsertUsageDays(ctx context.Context, rows []*models.UsageDay) (int64, error)
	InsertPurchases(ctx context.Context, rows []*models.Purchase) (int64, error)
}

// UsageDayCopier is the optional bulk path for the largest table.
type UsageDayCopier interface {
	CopyUsageDays(ctx context.Context, rows []*models.UsageDay) (int64, error)
}

type ProfileLookup interface {
	Exists(ctx context.Context, profileID string) (bool, error)
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, v any) (string, error)
}

type Options struct {
	Limit           int
	DryRun          bool
	UseCopy         bool
	UploadOriginals bool
	QueryBatchSize  int
	BatchSizeFor    func(entity string) int
	ReportDir       string
}

func (o Options) batchSize(entity string) int {
	if o.BatchSizeFor != nil {
		if n := o.BatchSizeFor(entity); n > 0 {
			return n
		}
	}
	return config.DefaultBatchSize
}

// Selection is the set of legacy profiles picked for one run.
type Selection struct {
	ProfileIDs []string
	UserIDs    []string
	From       *time.Time
	To         *time.Time
}

type runState struct {
	selection    Selection
	userIDs      []string
	profileIDs   []string
	profileSet   map[string]bool
	matchIDs     []string
	matchProfile map[string]string
}

type Migrator struct {
	source legacy.Source
	target Target
	lookup ProfileLookup
	store  ObjectStore
	opts   Options
	stats  *MigrationStats
	now    func() time.Time
}

func NewMigrator(source legacy.Source, target Target, opts Options) *Migrator {
	return &Migrator{
		source: source,
		target: target,
		opts:   opts,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// UseProfileLookup enables purchase linking against profiles from earlier runs.
func (m *Migrator) UseProfileLookup(l ProfileLookup) { m.lookup = l }

// UseObjectStore enables uploading original files.
func (m *Migrator) UseObjectStore(s ObjectStore) { m.store = s }

// SetClock overrides the timestamp source used for created_at columns.
func (m *Migrator) SetClock(now func() time.Time) { m.now = now }

// SelectProfiles picks the most recently created legacy profiles, up to the
// configured limit, and their distinct owners.
func (m *Migrator) SelectProfiles(ctx context.Context) (Selection, error) {
	refs, err := m.source.RecentProfiles(ctx, m.opts.Limit)
	if err != nil {
		return Selection{}, err
	}

	var sel Selection
	seenProfile := make(map[string]bool, len(refs))
	seenUser := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if ref.TinderID == "" || seenProfile[ref.TinderID] {
			continue
		}
		seenProfile[ref.TinderID] = true
		sel.ProfileIDs = append(sel.ProfileIDs, ref.TinderID)

		owner := ownerID(ref.TinderID, ref.UserID)
		if !seenUser[owner] {
			seenUser[owner] = true
			sel.UserIDs = append(sel.UserIDs, owner)
		}

		created := ref.CreatedAt.UTC()
		if sel.From == nil || created.Before(*sel.From) {
			sel.From = &created
		}
		if sel.To == nil || created.After(*sel.To) {
			c := created
			sel.To = &c
		}
	}
	return sel, nil
}

func (m *Migrator) stages() []Stage {
	return []Stage{
		{Name: EntityUsers, Run: m.copyUsers},
		{Name: EntityProfiles, After: []string{EntityUsers}, Run: m.copyProfiles},
		{Name: EntityJobs, After: []string{EntityProfiles}, Run: m.copyJobs},
		{Name: EntitySchools, After: []string{EntityProfiles}, Run: m.copySchools},
		{Name: EntityMatches, After: []string{EntityProfiles}, Run: m.copyMatches},
		{Name: EntityMessages, After: []string{EntityMatches}, Run: m.copyMessages},
		{Name: EntityMedia, After: []string{EntityProfiles}, Run: m.copyMedia},
		{Name: EntityUsageDays, After: []string{EntityProfiles}, Run: m.copyUsageDays},
		{Name: EntityPurchases, After: []string{EntityProfiles}, Run: m.copyPurchases},
		{Name: EntityOriginalFiles, After: []string{EntityProfiles}, Run: m.copyOriginalFiles},
	}
}

// Run copies the selected profiles and everything hanging off them. The
// returned stats are complete up to the stage that failed.
func (m *Migrator) Run(ctx context.Context) (*MigrationStats, error) {
	m.stats = newMigrationStats(m.now(), m.opts.DryRun)

	ordered, err := orderStages(m.stages())
	if err != nil {
		return m.stats, fmt.Errorf("invalid stage graph: %w", err)
	}

	selectStart := time.Now()
	sel, err := m.SelectProfiles(ctx)
	logger.LogStage("select_profiles", time.Since(selectStart), err,
		slog.Int("profiles", len(sel.ProfileIDs)),
		slog.Int("users", len(sel.UserIDs)))
	if err != nil {
		m.fail("select_profiles", err)
		return m.stats, fmt.Errorf("failed to select profiles: %w", err)
	}

	m.stats.Profiles = len(sel.ProfileIDs)
	m.stats.ProfilesFrom, m.stats.ProfilesTo = sel.From, sel.To
	if len(sel.ProfileIDs) == 0 {
		logger.LogSystem("Nothing to migrate")
		m.finish()
		return m.stats, nil
	}

	st := &runState{
		selection:    sel,
		userIDs:      sel.UserIDs,
		profileSet:   make(map[string]bool, len(sel.ProfileIDs)),
		matchProfile: make(map[string]string),
	}

	for _, stage := range ordered {
		logger.LogStage(stage.Name, 0, nil)
		start := time.Now()

		err := stage.Run(ctx, st)

		t := m.stats.table(stage.Name)
		t.Took = time.Since(start)
		logger.LogStage(stage.Name, max(t.Took, time.Nanosecond), err,
			slog.Int("source", t.Source),
			slog.Int("transformed", t.Transformed),
			slog.Int64("written", t.Written),
			slog.Int("skipped", t.Skipped),
			slog.Int("not_migrated", t.NotMigrated))

		if err != nil {
			m.fail(stage.Name, err)
			return m.stats, fmt.Errorf("migration failed at stage %s: %w", stage.Name, err)
		}
	}

	m.stats.ProfileIDs = st.profileIDs
	m.finish()
	return m.stats, nil
}

func (m *Migrator) fail(stage string, err error) {
	m.stats.FailedStage = stage
	m.stats.Error = err.Error()
	m.finish()
}

func (m *Migrator) finish() {
	m.stats.EndTime = m.now()
	m.stats.TotalRecords = 0
	for _, t := range m.stats.Tables {
		m.stats.TotalRecords += t.Written
	}

	m.logSummary()
	if m.opts.ReportDir != "" {
		if _, err := m.writeReport(m.opts.ReportDir); err != nil {
			logger.LogError("Failed to generate migration report", err)
		}
	}
}

// Stats returns the stats of the last run.
func (m *Migrator) Stats() *MigrationStats {
	return m.stats
}
