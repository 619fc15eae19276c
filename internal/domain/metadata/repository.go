package metadata

import (
	"context"

	"github.com/swipestats/migrator/swipestats/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	// ProfilesToCompute returns ids of profiles without metadata, or every
	// profile when force is set. limit <= 0 means no limit.
	ProfilesToCompute(ctx context.Context, force bool, limit int) ([]string, error)
	// PendingProfiles narrows ids to the profiles that exist and, unless
	// force is set, still have no metadata.
	PendingProfiles(ctx context.Context, ids []string, force bool) ([]string, error)
	UsageDays(ctx context.Context, profileID string) ([]*models.UsageDay, error)
	Matches(ctx context.Context, profileID string) ([]*models.Match, error)
	// ReplaceMeta swaps the profile's metadata row and marks the profile
	// computed in one transaction.
	ReplaceMeta(ctx context.Context, meta *models.ProfileMeta) error
}
