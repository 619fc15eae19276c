package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/swipestats/migrator/swipestats/logger"
)

type Service interface {
	ComputeProfile(ctx context.Context, profileID string) (*models.ProfileMeta, error)
	ComputeAll(ctx context.Context, force bool, limit int, first ...string) (Result, error)
}

// Result counts one ComputeAll pass.
type Result struct {
	Profiles int      `json:"profiles"`
	Computed int      `json:"computed"`
	Failed   int      `json:"failed"`
	Failures []string `json:"failures,omitempty"`
}

type service struct {
	repository Repository
	dryRun     bool
	now        func() time.Time
}

func NewService(repository Repository, dryRun bool) *service {
	return &service{
		repository: repository,
		dryRun:     dryRun,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) ComputeProfile(ctx context.Context, profileID string) (*models.ProfileMeta, error) {
	days, err := s.repository.UsageDays(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage days: %w", err)
	}
	matches, err := s.repository.Matches(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	meta := Compute(profileID, days, matches, s.now())

	if s.dryRun {
		logger.LogBatch("Dry run: would write profile metadata",
			slog.String("profile_id", profileID),
			slog.Int("days_in_period", meta.DaysInPeriod))
		return meta, nil
	}

	if err := s.repository.ReplaceMeta(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to store metadata: %w", err)
	}
	return meta, nil
}

// ComputeAll handles the profiles in first (those still pending) and then
// the backlog of uncomputed profiles, at most limit of them. It keeps going
// past per-profile failures; they are logged and counted so the caller can
// decide the exit status.
func (s *service) ComputeAll(ctx context.Context, force bool, limit int, first ...string) (Result, error) {
	var res Result

	var ids []string
	if len(first) > 0 {
		pending, err := s.repository.PendingProfiles(ctx, first, force)
		if err != nil {
			return res, fmt.Errorf("failed to check migrated profiles: %w", err)
		}
		ids = pending
	}

	// the backlog may still list the ids queued above
	fetch := limit
	if limit > 0 {
		fetch += len(ids)
	}
	backlog, err := s.repository.ProfilesToCompute(ctx, force, fetch)
	if err != nil {
		return res, fmt.Errorf("failed to list profiles: %w", err)
	}
	seen := make(map[string]bool, len(ids)+len(backlog))
	for _, id := range ids {
		seen[id] = true
	}
	added := 0
	for _, id := range backlog {
		if seen[id] || (limit > 0 && added >= limit) {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		added++
	}
	res.Profiles = len(ids)

	if len(ids) == 0 {
		logger.LogSystem("No profiles need metadata", slog.Bool("force", force))
		return res, nil
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if _, err := s.ComputeProfile(ctx, id); err != nil {
			res.Failed++
			res.Failures = append(res.Failures, id)
			logger.LogError("Profile metadata failed", err, slog.String("profile_id", id))
			continue
		}
		res.Computed++

		if (i+1)%100 == 0 {
			logger.LogBatch("Profile metadata progress",
				slog.Int("done", i+1),
				slog.Int("total", len(ids)))
		}
	}
	return res, nil
}
