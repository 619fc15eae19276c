package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/swipestats/migrator/internal/domain/cohorts"
	"github.com/swipestats/migrator/swipestats/database/models"
)

// Store is an in-memory target. Inserts ignore rows whose primary key
// already exists and report only the rows actually added, like
// ON CONFLICT DO NOTHING.
type Store struct {
	mu sync.Mutex

	Users        map[string]*models.User
	Profiles     map[string]*models.Profile
	Jobs         map[string]*models.Job
	Schools      map[string]*models.School
	MatchRows    map[string]*models.Match
	Messages     map[string]*models.Message
	Media        map[string]*models.Media
	UsageDayRows map[string]*models.UsageDay
	Purchases    map[string]*models.Purchase
	Meta         map[string]*models.ProfileMeta // by profile id

	Cohorts map[string]*models.CohortDefinition
	Stats   map[string]*models.CohortStats // by cohort id + "/" + period

	// FailOn makes the named method return Err.
	FailOn string
	Err    error

	Copies        int
	ExistsQueries int
	UpsertedStats int
}

func NewStore() *Store {
	return &Store{
		Users:        make(map[string]*models.User),
		Profiles:     make(map[string]*models.Profile),
		Jobs:         make(map[string]*models.Job),
		Schools:      make(map[string]*models.School),
		MatchRows:    make(map[string]*models.Match),
		Messages:     make(map[string]*models.Message),
		Media:        make(map[string]*models.Media),
		UsageDayRows: make(map[string]*models.UsageDay),
		Purchases:    make(map[string]*models.Purchase),
		Meta:         make(map[string]*models.ProfileMeta),
		Cohorts:      make(map[string]*models.CohortDefinition),
		Stats:        make(map[string]*models.CohortStats),
	}
}

func (s *Store) fail(name string) error {
	if s.FailOn == name {
		return s.Err
	}
	return nil
}

func insertIgnore[T any](s *Store, name string, table map[string]*T, rows []*T, key func(*T) string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(name); err != nil {
		return 0, err
	}
	var n int64
	for _, r := range rows {
		k := key(r)
		if _, ok := table[k]; ok {
			continue
		}
		cp := *r
		table[k] = &cp
		n++
	}
	return n, nil
}

func (s *Store) InsertUsers(ctx context.Context, rows []*models.User) (int64, error) {
	return insertIgnore(s, "InsertUsers", s.Users, rows, func(r *models.User) string { return r.ID })
}

func (s *Store) InsertProfiles(ctx context.Context, rows []*models.Profile) (int64, error) {
	return insertIgnore(s, "InsertProfiles", s.Profiles, rows, func(r *models.Profile) string { return r.ID })
}

func (s *Store) InsertJobs(ctx context.Context, rows []*models.Job) (int64, error) {
	return insertIgnore(s, "InsertJobs", s.Jobs, rows, func(r *models.Job) string { return r.ID })
}

func (s *Store) InsertSchools(ctx context.Context, rows []*models.School) (int64, error) {
	return insertIgnore(s, "InsertSchools", s.Schools, rows, func(r *models.School) string { return r.ID })
}

func (s *Store) InsertMatches(ctx context.Context, rows []*models.Match) (int64, error) {
	return insertIgnore(s, "InsertMatches", s.MatchRows, rows, func(r *models.Match) string { return r.ID })
}

func (s *Store) InsertMessages(ctx context.Context, rows []*models.Message) (int64, error) {
	return insertIgnore(s, "InsertMessages", s.Messages, rows, func(r *models.Message) string { return r.ID })
}

func (s *Store) InsertMedia(ctx context.Context, rows []*models.Media) (int64, error) {
	return insertIgnore(s, "InsertMedia", s.Media, rows, func(r *models.Media) string { return r.ID })
}

func (s *Store) InsertUsageDays(ctx context.Context, rows []*models.UsageDay) (int64, error) {
	return insertIgnore(s, "InsertUsageDays", s.UsageDayRows, rows, func(r *models.UsageDay) string { return r.ID })
}

func (s *Store) CopyUsageDays(ctx context.Context, rows []*models.UsageDay) (int64, error) {
	s.mu.Lock()
	s.Copies++
	s.mu.Unlock()
	return insertIgnore(s, "CopyUsageDays", s.UsageDayRows, rows, func(r *models.UsageDay) string { return r.ID })
}

func (s *Store) InsertPurchases(ctx context.Context, rows []*models.Purchase) (int64, error) {
	return insertIgnore(s, "InsertPurchases", s.Purchases, rows, func(r *models.Purchase) string { return r.ID })
}

func (s *Store) ProfileExists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ExistsQueries++
	if err := s.fail("ProfileExists"); err != nil {
		return false, err
	}
	_, ok := s.Profiles[id]
	return ok, nil
}

// metadata.Repository

func (s *Store) ProfilesToCompute(ctx context.Context, force bool, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ProfilesToCompute"); err != nil {
		return nil, err
	}
	var ids []string
	for id, p := range s.Profiles {
		if force || !p.Computed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *Store) PendingProfiles(ctx context.Context, ids []string, force bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("PendingProfiles"); err != nil {
		return nil, err
	}
	var out []string
	for _, id := range ids {
		if p, ok := s.Profiles[id]; ok && (force || !p.Computed) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *Store) usageDaysOf(profileID string) []*models.UsageDay {
	var out []*models.UsageDay
	for _, d := range s.UsageDayRows {
		if d.ProfileID == profileID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateStamp.Before(out[j].DateStamp) })
	return out
}

func (s *Store) UsageDays(ctx context.Context, profileID string) ([]*models.UsageDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UsageDays"); err != nil {
		return nil, err
	}
	return s.usageDaysOf(profileID), nil
}

func (s *Store) Matches(ctx context.Context, profileID string) ([]*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("Matches"); err != nil {
		return nil, err
	}
	var out []*models.Match
	for _, m := range s.MatchRows {
		if m.ProfileID == profileID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ReplaceMeta(ctx context.Context, meta *models.ProfileMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ReplaceMeta"); err != nil {
		return err
	}
	p, ok := s.Profiles[meta.ProfileID]
	if !ok {
		return fmt.Errorf("profile %s not found", meta.ProfileID)
	}
	cp := *meta
	s.Meta[meta.ProfileID] = &cp
	p.Computed = true
	return nil
}

// cohorts.Repository

func (s *Store) SeedDefinitions(ctx context.Context, defs []*models.CohortDefinition) (int64, error) {
	return insertIgnore(s, "SeedDefinitions", s.Cohorts, defs, func(r *models.CohortDefinition) string { return r.ID })
}

func (s *Store) Definitions(ctx context.Context) ([]*models.CohortDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("Definitions"); err != nil {
		return nil, err
	}
	out := make([]*models.CohortDefinition, 0, len(s.Cohorts))
	for _, d := range s.Cohorts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Candidates(ctx context.Context, def *models.CohortDefinition, period cohorts.Period) ([]cohorts.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("Candidates"); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(s.Profiles))
	for id := range s.Profiles {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var out []cohorts.Candidate
	for _, id := range ids {
		p := s.Profiles[id]
		meta, ok := s.Meta[id]
		if !ok {
			continue
		}
		if def.Gender != nil && p.Gender != *def.Gender {
			continue
		}
		if def.AgeMin != nil && (p.AgeAtUpload == nil || *p.AgeAtUpload < *def.AgeMin) {
			continue
		}
		if def.AgeMax != nil && (p.AgeAtUpload == nil || *p.AgeAtUpload > *def.AgeMax) {
			continue
		}
		if !period.Overlaps(p.FirstDayOnApp, p.LastDayOnApp) {
			continue
		}
		out = append(out, cohorts.Candidate{
			ProfileID:    id,
			Country:      p.Country,
			Region:       p.Region,
			LikeRate:     meta.LikeRate,
			MatchRate:    meta.MatchRate,
			SwipesPerDay: meta.SwipesPerDay,
		})
	}
	return out, nil
}

func (s *Store) UpsertStats(ctx context.Context, stats *models.CohortStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpsertStats"); err != nil {
		return err
	}
	cp := *stats
	s.Stats[StatsKey(stats.CohortID, stats.Period)] = &cp
	s.UpsertedStats++
	return nil
}

func (s *Store) UpdateProfileCount(ctx context.Context, cohortID string, count int, computedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateProfileCount"); err != nil {
		return err
	}
	def, ok := s.Cohorts[cohortID]
	if !ok {
		return fmt.Errorf("cohort %s not found", cohortID)
	}
	def.ProfileCount = count
	t := computedAt
	def.LastComputedAt = &t
	return nil
}

func StatsKey(cohortID, period string) string {
	return strings.Join([]string{cohortID, period}, "/")
}

// Uploads is an in-memory object store.
type Uploads struct {
	mu      sync.Mutex
	Objects map[string]any
}

func NewUploads() *Uploads {
	return &Uploads{Objects: make(map[string]any)}
}

func (u *Uploads) Upload(ctx context.Context, key string, v any) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Objects[key] = v
	return "mem://" + key, nil
}
