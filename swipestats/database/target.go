package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swipestats/migrator/swipestats/config"
	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/uptrace/bun"
)

// insertIgnore writes rows with ON CONFLICT DO NOTHING and returns how many
// were actually inserted. Re-running a copy therefore never duplicates or
// overwrites anything.
func insertIgnore[T any](ctx context.Context, db bun.IDB, rows []*T) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	res, err := db.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

func (db *DB) InsertUsers(ctx context.Context, rows []*models.User) (int64, error) {
	return insertIgnore(ctx, db.bunDB, rows)
}

func (db *DB) InsertProfiles(ctx context.Context, rows []*models.Profile) (int64, error) {
	return insertIgnore(ctx, db.bunDB, rows)
}

func (db *DB) InsertJobs(ctx context.Context, rows []*models.Job) (int64, error) {
	return insertIgnore(ctx, db.bunDB, rows)
}

func (db *DB) InsertSchools(ctx context.Context, rows []*models.School) (int64, error) {
	return insertIgnore(ctx, db.bunDB, rows)
}

func (db *DB) InsertMatches(ctx context.Context, rows []*models.Match) (int64, error) {
	return insertIgnore(ctx, db.bunDB, rows)
}

func (db *DB) InsertMessages(ctx context.Context, rows []*models.Message) (int64, error) {
	return insertIgnore(ctx, db.bunDB, rows)
}

func (db *DB) InsertMedia(ctx context.Context, rows []*models.Media) (int64, error) {
	return insertIgnore(ctx, db.bunDB, rows)
}

func (db *DB) InsertUsageDays(ctx context.Context, rows []*models.UsageDay) (int64, error) {
	return insertIgnore(ctx, db.bunDB, rows)
}

func (db *DB) InsertPurchases(ctx context.Context, rows []*models.Purchase) (int64, error) {
	return insertIgnore(ctx, db.bunDB, rows)
}

// CopyUsageDays streams rows into a temp table with COPY and moves them into
// usage_days with an insert-if-absent, all inside one transaction.
func (db *DB) CopyUsageDays(ctx context.Context, rows []*models.UsageDay) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	createSQL := `CREATE TEMP TABLE tmp_usage_days (LIKE usage_days INCLUDING DEFAULTS) ON COMMIT DROP;`
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return 0, fmt.Errorf("failed to create temp table: %w", err)
	}

	columns := []string{
		"id", "profile_id", "date_stamp", "app_opens", "swipe_likes", "swipe_super_likes", "swipe_passes",
		"matches", "messages_sent", "messages_received", "missing_from_original_data", "active",
	}
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			r.ID, r.ProfileID, r.DateStamp, r.AppOpens, r.SwipeLikes, r.SwipeSuperLikes, r.SwipePasses,
			r.Matches, r.MessagesSent, r.MessagesReceived, r.MissingFromOriginalData, r.Active,
		})
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"tmp_usage_days"}, columns, pgx.CopyFromRows(data)); err != nil {
		return 0, fmt.Errorf("copy to temp failed: %w", err)
	}

	tag, err := tx.Exec(ctx, `INSERT INTO usage_days SELECT * FROM tmp_usage_days ON CONFLICT DO NOTHING;`)
	if err != nil {
		return 0, fmt.Errorf("usage_days insert from temp failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit usage_days copy: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ProfileExists reports whether a profile with the given id has been migrated.
func (db *DB) ProfileExists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	return db.bunDB.NewSelect().
		Model((*models.Profile)(nil)).
		Where("id = ?", id).
		Exists(ctx)
}
