package migration

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/swipestats/migrator/swipestats/config"
	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/swipestats/migrator/swipestats/legacy"
	"github.com/swipestats/migrator/swipestats/logger"
)

// fetchChunked issues one legacy query per slice of at most size keys, one
// after the other.
func fetchChunked[T any](ctx context.Context, entity string, keys []string, size int, fetch func(context.Context, []string) ([]T, error)) ([]T, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if size <= 0 {
		size = config.DefaultQueryBatchSize
	}

	var out []T
	for start := 0; start < len(keys); start += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+size, len(keys))
		rows, err := fetch(ctx, keys[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to read legacy %s for keys %d-%d: %w", entity, start, end, err)
		}
		out = append(out, rows...)
	}
	return out, nil
}

// transformRows runs every row through convert. A nil result without error
// means the row was deliberately left out and has already been counted.
func transformRows[L, M any](m *Migrator, entity string, rows []L, convert func(L, *TableStats) (*M, error)) ([]*M, error) {
	t := m.stats.table(entity)
	t.Source += len(rows)

	out := make([]*M, 0, len(rows))
	for _, row := range rows {
		rec, err := convert(row, t)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			out = append(out, rec)
		}
	}
	t.Transformed += len(out)

	if len(out) == 0 && len(rows) > 0 {
		logger.LogWarn("All legacy rows filtered out",
			slog.String("entity", entity),
			slog.Int("source", len(rows)))
	}
	return out, nil
}

// writeRows loads rows through the batch executor, or only reports them on a
// dry run.
func writeRows[M any](ctx context.Context, m *Migrator, entity string, rows []*M, write func(context.Context, []*M) (int64, error)) error {
	if len(rows) == 0 {
		return nil
	}
	t := m.stats.table(entity)

	if m.opts.DryRun {
		logger.LogBatch("Dry run: would write rows",
			slog.String("entity", entity),
			slog.Int("rows", len(rows)))
		return nil
	}

	return ExecuteBatches(ctx, entity, rows, m.opts.batchSize(entity), func(ctx context.Context, chunk []*M) error {
		n, err := write(ctx, chunk)
		if err != nil {
			return err
		}
		t.Written += n
		return nil
	})
}

func (m *Migrator) copyUsers(ctx context.Context, st *runState) error {
	now := m.now()
	users := make([]*models.User, 0, len(st.userIDs))
	for _, id := range st.userIDs {
		users = append(users, convertUser(id, now))
	}

	t := m.stats.table(EntityUsers)
	t.Source += len(users)
	t.Transformed += len(users)
	return writeRows(ctx, m, EntityUsers, users, m.target.InsertUsers)
}

func (m *Migrator) copyProfiles(ctx context.Context, st *runState) error {
	rows, err := fetchChunked(ctx, EntityProfiles, st.selection.ProfileIDs, m.opts.QueryBatchSize, m.source.Profiles)
	if err != nil {
		return err
	}

	now := m.now()
	profiles, err := transformRows(m, EntityProfiles, rows, func(p legacy.Profile, _ *TableStats) (*models.Profile, error) {
		return convertProfile(p, now)
	})
	if err != nil {
		return err
	}

	if err := writeRows(ctx, m, EntityProfiles, profiles, m.target.InsertProfiles); err != nil {
		return err
	}

	for _, p := range profiles {
		st.profileIDs = append(st.profileIDs, p.ID)
		st.profileSet[p.ID] = true
	}
	if r, ok := m.lookup.(interface{ Remember(string) }); ok && !m.opts.DryRun {
		for _, id := range st.profileIDs {
			r.Remember(id)
		}
	}
	return nil
}

func (m *Migrator) copyJobs(ctx context.Context, st *runState) error {
	rows, err := fetchChunked(ctx, EntityJobs, st.profileIDs, m.opts.QueryBatchSize, m.source.Jobs)
	if err != nil {
		return err
	}
	jobs, err := transformRows(m, EntityJobs, rows, func(j legacy.Job, _ *TableStats) (*models.Job, error) {
		return convertJob(j)
	})
	if err != nil {
		return err
	}
	return writeRows(ctx, m, EntityJobs, jobs, m.target.InsertJobs)
}

func (m *Migrator) copySchools(ctx context.Context, st *runState) error {
	rows, err := fetchChunked(ctx, EntitySchools, st.profileIDs, m.opts.QueryBatchSize, m.source.Schools)
	if err != nil {
		return err
	}
	schools, err := transformRows(m, EntitySchools, rows, func(s legacy.School, _ *TableStats) (*models.School, error) {
		return convertSchool(s)
	})
	if err != nil {
		return err
	}
	return writeRows(ctx, m, EntitySchools, schools, m.target.InsertSchools)
}

func (m *Migrator) copyMatches(ctx context.Context, st *runState) error {
	rows, err := fetchChunked(ctx, EntityMatches, st.profileIDs, m.opts.QueryBatchSize, m.source.Matches)
	if err != nil {
		return err
	}
	matches, err := transformRows(m, EntityMatches, rows, func(lm legacy.Match, t *TableStats) (*models.Match, error) {
		if lm.ProfileID == nil || *lm.ProfileID == "" {
			t.skip(lm.ID, "match has no profile")
			return nil, nil
		}
		return convertMatch(lm)
	})
	if err != nil {
		return err
	}

	if err := writeRows(ctx, m, EntityMatches, matches, m.target.InsertMatches); err != nil {
		return err
	}

	for _, match := range matches {
		st.matchIDs = append(st.matchIDs, match.ID)
		st.matchProfile[match.ID] = match.ProfileID
	}
	return nil
}

func (m *Migrator) copyMessages(ctx context.Context, st *runState) error {
	rows, err := fetchChunked(ctx, EntityMessages, st.matchIDs, m.opts.QueryBatchSize, m.source.Messages)
	if err != nil {
		return err
	}
	messages, err := transformRows(m, EntityMessages, rows, func(msg legacy.Message, _ *TableStats) (*models.Message, error) {
		return convertMessage(msg, st.matchProfile)
	})
	if err != nil {
		return err
	}
	return writeRows(ctx, m, EntityMessages, messages, m.target.InsertMessages)
}

func (m *Migrator) copyMedia(ctx context.Context, st *runState) error {
	rows, err := fetchChunked(ctx, EntityMedia, st.profileIDs, m.opts.QueryBatchSize, m.source.Media)
	if err != nil {
		return err
	}
	media, err := transformRows(m, EntityMedia, rows, func(md legacy.Media, _ *TableStats) (*models.Media, error) {
		return convertMedia(md)
	})
	if err != nil {
		return err
	}
	return writeRows(ctx, m, EntityMedia, media, m.target.InsertMedia)
}

func (m *Migrator) copyUsageDays(ctx context.Context, st *runState) error {
	rows, err := fetchChunked(ctx, EntityUsageDays, st.profileIDs, m.opts.QueryBatchSize, m.source.UsageDays)
	if err != nil {
		return err
	}
	days, err := transformRows(m, EntityUsageDays, rows, func(u legacy.UsageDay, _ *TableStats) (*models.UsageDay, error) {
		return convertUsageDay(u)
	})
	if err != nil {
		return err
	}

	write := m.target.InsertUsageDays
	if copier, ok := m.target.(UsageDayCopier); ok && m.opts.UseCopy {
		write = copier.CopyUsageDays
	}
	return writeRows(ctx, m, EntityUsageDays, days, write)
}

func (m *Migrator) copyPurchases(ctx context.Context, st *runState) error {
	rows, err := m.source.Purchases(ctx)
	if err != nil {
		return fmt.Errorf("failed to read legacy purchases: %w", err)
	}

	purchases, err := transformRows(m, EntityPurchases, rows, func(p legacy.Purchase, t *TableStats) (*models.Purchase, error) {
		rec, err := convertPurchase(p)
		if err != nil {
			return nil, err
		}
		exists, err := m.profileMigrated(ctx, st, rec.ProfileID)
		if err != nil {
			return nil, err
		}
		if !exists {
			t.notMigrated(p.ID, "profile "+rec.ProfileID+" not migrated")
			return nil, nil
		}
		return rec, nil
	})
	if err != nil {
		return err
	}
	return writeRows(ctx, m, EntityPurchases, purchases, m.target.InsertPurchases)
}

func (m *Migrator) profileMigrated(ctx context.Context, st *runState, id string) (bool, error) {
	if st.profileSet[id] {
		return true, nil
	}
	if m.lookup == nil {
		return false, nil
	}
	return m.lookup.Exists(ctx, id)
}

// copyOriginalFiles never writes the uploaded documents relationally; they
// are too large for a single row. With an object store attached each one is
// uploaded as a JSON blob instead.
func (m *Migrator) copyOriginalFiles(ctx context.Context, st *runState) error {
	t := m.stats.table(EntityOriginalFiles)
	upload := m.opts.UploadOriginals && m.store != nil
	size := m.opts.batchSize(EntityOriginalFiles)

	for start := 0; start < len(st.profileIDs); start += size {
		end := min(start+size, len(st.profileIDs))
		files, err := fetchChunked(ctx, EntityOriginalFiles, st.profileIDs[start:end], size, m.source.OriginalFiles)
		if err != nil {
			return err
		}
		t.Source += len(files)

		for _, f := range files {
			t.skip(f.ID, "payload too large for relational copy")
			if !upload || f.File.IsEmpty() {
				continue
			}

			key := path.Join(config.OriginalFilesPrefix, f.ProfileID, f.ID+".json")
			if m.opts.DryRun {
				logger.LogBatch("Dry run: would upload original file",
					slog.String("profile_id", f.ProfileID),
					slog.String("key", key))
				continue
			}

			url, err := m.store.Upload(ctx, key, []byte(f.File))
			if err != nil {
				return fmt.Errorf("failed to upload original file %s: %w", f.ID, err)
			}
			t.Uploaded++
			logger.LogSystem("Original file uploaded",
				slog.String("profile_id", f.ProfileID),
				slog.String("url", url))
		}
	}

	if t.Source > 0 {
		logger.LogWarn("Original files were not copied relationally",
			slog.Int("skipped", t.Source),
			slog.Int("uploaded", t.Uploaded),
			slog.Bool("upload_enabled", upload))
	}
	return nil
}
