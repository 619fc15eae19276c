package legacy

import (
	"context"
	"fmt"
	"strings"
)

// Source reads legacy rows. Key lists are expected to be bounded by the
// caller; adapters issue one round-trip per call.
type Source interface {
	RecentProfiles(ctx context.Context, limit int) ([]ProfileRef, error)
	Profiles(ctx context.Context, ids []string) ([]Profile, error)
	Jobs(ctx context.Context, profileIDs []string) ([]Job, error)
	Schools(ctx context.Context, profileIDs []string) ([]School, error)
	Matches(ctx context.Context, profileIDs []string) ([]Match, error)
	Messages(ctx context.Context, matchIDs []string) ([]Message, error)
	Media(ctx context.Context, profileIDs []string) ([]Media, error)
	UsageDays(ctx context.Context, profileIDs []string) ([]UsageDay, error)
	OriginalFiles(ctx context.Context, profileIDs []string) ([]OriginalFile, error)
	Purchases(ctx context.Context) ([]Purchase, error)
	Close(ctx context.Context) error
}

type Config struct {
	URL           string
	MongoDatabase string
	// Collections renames Mongo collections by kind, e.g. "usage".
	Collections map[string]string
}

// Open picks the adapter from the URL scheme.
func Open(ctx context.Context, cfg Config) (Source, error) {
	switch {
	case strings.HasPrefix(cfg.URL, "postgres://"), strings.HasPrefix(cfg.URL, "postgresql://"):
		return NewPostgresSource(ctx, cfg.URL)
	case strings.HasPrefix(cfg.URL, "mongodb://"), strings.HasPrefix(cfg.URL, "mongodb+srv://"):
		return NewMongoSource(ctx, cfg.URL, cfg.MongoDatabase, cfg.Collections)
	default:
		return nil, fmt.Errorf("unsupported legacy database url scheme: %q", schemeOf(cfg.URL))
	}
}

func schemeOf(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i]
	}
	return ""
}
