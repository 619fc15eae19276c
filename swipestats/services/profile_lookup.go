package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

// CanonicalProfileID derives the profile id from the two dates every legacy
// record carries: hex(sha256("yyyy-mm-dd|yyyy-mm-dd")).
func CanonicalProfileID(birthDate, createDate time.Time) string {
	sum := sha256.Sum256([]byte(birthDate.UTC().Format(time.DateOnly) + "|" + createDate.UTC().Format(time.DateOnly)))
	return hex.EncodeToString(sum[:])
}

type ProfileChecker interface {
	ProfileExists(ctx context.Context, id string) (bool, error)
}

// ProfileLookup answers "is this profile in the target store" with an LRU in
// front of the store. Concurrent lookups of one id share a single query.
type ProfileLookup struct {
	store ProfileChecker
	cache *lru.Cache
	group singleflight.Group
}

func NewProfileLookup(store ProfileChecker, size int) (*ProfileLookup, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile cache: %w", err)
	}
	return &ProfileLookup{store: store, cache: cache}, nil
}

func (l *ProfileLookup) Exists(ctx context.Context, profileID string) (bool, error) {
	if cached, ok := l.cache.Get(profileID); ok {
		return cached.(bool), nil
	}

	v, err, _ := l.group.Do(profileID, func() (any, error) {
		exists, err := l.store.ProfileExists(ctx, profileID)
		if err != nil {
			return false, err
		}
		l.cache.Add(profileID, exists)
		return exists, nil
	})
	if err != nil {
		return false, fmt.Errorf("profile lookup %s: %w", profileID, err)
	}
	return v.(bool), nil
}

// Remember records a profile written during the current run.
func (l *ProfileLookup) Remember(profileID string) {
	l.cache.Add(profileID, true)
}
