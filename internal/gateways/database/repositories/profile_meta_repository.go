package repositories

import (
	"context"
	"time"

	"github.com/swipestats/migrator/internal/domain/logger"
	"github.com/swipestats/migrator/internal/domain/metadata"
	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/uptrace/bun"
)

type profileMetaRepository struct {
	*BaseRepository
}

func NewProfileMetaRepository(db *bun.DB) metadata.Repository {
	return &profileMetaRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *profileMetaRepository) ProfilesToCompute(ctx context.Context, force bool, limit int) ([]string, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var ids []string
	q := r.db.NewSelect().
		Model((*models.Profile)(nil)).
		Column("id").
		Order("id ASC")
	if !force {
		q = q.Where("computed = false")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	ql := logger.NewQueryLogger("profiles_to_compute", q.String())
	err := q.Scan(ctx, &ids)
	ql.Log(err, int64(len(ids)))
	return ids, r.HandleError("select", "profiles", err)
}

func (r *profileMetaRepository) PendingProfiles(ctx context.Context, ids []string, force bool) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var found []string
	q := r.pendingQuery(ids, force)
	ql := logger.NewQueryLogger("pending_profiles", q.String())
	err := q.Scan(ctx, &found)
	ql.Log(err, int64(len(found)))
	if err != nil {
		return nil, r.HandleError("select", "profiles", err)
	}

	// keep the caller's order
	pending := make(map[string]bool, len(found))
	for _, id := range found {
		pending[id] = true
	}
	out := make([]string, 0, len(found))
	for _, id := range ids {
		if pending[id] {
			out = append(out, id)
			delete(pending, id)
		}
	}
	return out, nil
}

func (r *profileMetaRepository) pendingQuery(ids []string, force bool) *bun.SelectQuery {
	q := r.db.NewSelect().
		Model((*models.Profile)(nil)).
		Column("id").
		Where("id IN (?)", bun.In(ids))
	if !force {
		q = q.Where("computed = false")
	}
	return q
}

func (r *profileMetaRepository) UsageDays(ctx context.Context, profileID string) ([]*models.UsageDay, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var days []*models.UsageDay
	err := r.db.NewSelect().
		Model(&days).
		Where("profile_id = ?", profileID).
		Order("date_stamp ASC").
		Scan(ctx)
	return days, r.HandleErrorWithID("select", "usage_days", profileID, err)
}

func (r *profileMetaRepository) Matches(ctx context.Context, profileID string) ([]*models.Match, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var matches []*models.Match
	err := r.db.NewSelect().
		Model(&matches).
		Where("profile_id = ?", profileID).
		Scan(ctx)
	return matches, r.HandleErrorWithID("select", "matches", profileID, err)
}

func (r *profileMetaRepository) ReplaceMeta(ctx context.Context, meta *models.ProfileMeta) error {
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.ProfileMeta)(nil)).
			Where("profile_id = ?", meta.ProfileID).
			Exec(ctx); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(meta).Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewUpdate().
			Model((*models.Profile)(nil)).
			Set("computed = ?", true).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", meta.ProfileID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &NotFoundError{Entity: "profile", ID: meta.ProfileID}
		}
		return nil
	})
	return r.HandleErrorWithID("replace", "profile_meta", meta.ProfileID, err)
}
