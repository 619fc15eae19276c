// Package memstore holds in-memory stand-ins for the legacy source and the
// target store, used by package tests that exercise whole runs.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/swipestats/migrator/swipestats/legacy"
)

// Legacy is a legacy.Source over plain slices.
type Legacy struct {
	mu sync.Mutex

	ProfileRows      []legacy.Profile
	JobRows          []legacy.Job
	SchoolRows       []legacy.School
	MatchRows        []legacy.Match
	MessageRows      []legacy.Message
	MediaRows        []legacy.Media
	UsageDayRows     []legacy.UsageDay
	OriginalFileRows []legacy.OriginalFile
	PurchaseRows     []legacy.Purchase

	// FailOn makes the named call return Err.
	FailOn string
	Err    error

	Calls map[string]int
}

var _ legacy.Source = (*Legacy)(nil)

func NewLegacy() *Legacy {
	return &Legacy{Calls: make(map[string]int)}
}

func (l *Legacy) called(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Calls == nil {
		l.Calls = make(map[string]int)
	}
	l.Calls[name]++
	if l.FailOn == name {
		return l.Err
	}
	return nil
}

func filter[T any](rows []T, keys []string, key func(T) string) []T {
	var out []T
	for _, r := range rows {
		if slices.Contains(keys, key(r)) {
			out = append(out, r)
		}
	}
	return out
}

func (l *Legacy) RecentProfiles(ctx context.Context, limit int) ([]legacy.ProfileRef, error) {
	if err := l.called("RecentProfiles"); err != nil {
		return nil, err
	}
	refs := make([]legacy.ProfileRef, 0, len(l.ProfileRows))
	for _, p := range l.ProfileRows {
		refs = append(refs, legacy.ProfileRef{TinderID: p.TinderID, UserID: p.UserID, CreatedAt: p.CreatedAt})
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].CreatedAt.After(refs[j].CreatedAt)
	})
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

func (l *Legacy) Profiles(ctx context.Context, ids []string) ([]legacy.Profile, error) {
	if err := l.called("Profiles"); err != nil {
		return nil, err
	}
	return filter(l.ProfileRows, ids, func(p legacy.Profile) string { return p.TinderID }), nil
}

func (l *Legacy) Jobs(ctx context.Context, ids []string) ([]legacy.Job, error) {
	if err := l.called("Jobs"); err != nil {
		return nil, err
	}
	return filter(l.JobRows, ids, func(r legacy.Job) string { return r.ProfileID }), nil
}

func (l *Legacy) Schools(ctx context.Context, ids []string) ([]legacy.School, error) {
	if err := l.called("Schools"); err != nil {
		return nil, err
	}
	return filter(l.SchoolRows, ids, func(r legacy.School) string { return r.ProfileID }), nil
}

func (l *Legacy) Matches(ctx context.Context, ids []string) ([]legacy.Match, error) {
	if err := l.called("Matches"); err != nil {
		return nil, err
	}
	var out []legacy.Match
	for _, m := range l.MatchRows {
		// null profile references still come back so the caller can count them
		if m.ProfileID == nil || slices.Contains(ids, *m.ProfileID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (l *Legacy) Messages(ctx context.Context, matchIDs []string) ([]legacy.Message, error) {
	if err := l.called("Messages"); err != nil {
		return nil, err
	}
	return filter(l.MessageRows, matchIDs, func(r legacy.Message) string { return r.MatchID }), nil
}

func (l *Legacy) Media(ctx context.Context, ids []string) ([]legacy.Media, error) {
	if err := l.called("Media"); err != nil {
		return nil, err
	}
	return filter(l.MediaRows, ids, func(r legacy.Media) string { return r.ProfileID }), nil
}

func (l *Legacy) UsageDays(ctx context.Context, ids []string) ([]legacy.UsageDay, error) {
	if err := l.called("UsageDays"); err != nil {
		return nil, err
	}
	return filter(l.UsageDayRows, ids, func(r legacy.UsageDay) string { return r.ProfileID }), nil
}

func (l *Legacy) OriginalFiles(ctx context.Context, ids []string) ([]legacy.OriginalFile, error) {
	if err := l.called("OriginalFiles"); err != nil {
		return nil, err
	}
	return filter(l.OriginalFileRows, ids, func(r legacy.OriginalFile) string { return r.ProfileID }), nil
}

func (l *Legacy) Purchases(ctx context.Context) ([]legacy.Purchase, error) {
	if err := l.called("Purchases"); err != nil {
		return nil, err
	}
	return l.PurchaseRows, nil
}

func (l *Legacy) Close(ctx context.Context) error {
	return nil
}
