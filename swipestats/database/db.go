package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swipestats/migrator/swipestats/config"
	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/swipestats/migrator/swipestats/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const schemaVersion = 1 // bump when tables or indexes change

type DBConfig struct {
	URL          string `toml:"url"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
	// FastInit skips schema creation when app_meta already records the
	// current schema version.
	FastInit bool `toml:"fast_init"`
}

type DB struct {
	pool     *pgxpool.Pool
	bunDB    *bun.DB
	fastInit bool
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}
	poolConfig.ConnConfig.ConnectTimeout = config.NetworkDialTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	db := &DB{pool: pool, bunDB: newBunDB(cfg.URL), fastInit: cfg.FastInit}

	for i := 0; i < config.MaxRetries; i++ {
		if err = db.Ping(ctx); err == nil {
			break
		}
		slog.Warn("Target database not reachable yet",
			slog.String("type", "db"),
			slog.Int("attempt", i+1),
			slog.Any("error", err))
		time.Sleep(config.RetryInterval)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", config.MaxRetries, err)
	}

	return db, nil
}

func newBunDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// Ping verifies both database connections are working
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, config.NetworkDialTimeout)
	defer cancel()

	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgxpool ping failed: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}
	return nil
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	logger.LogQuery("exec", sql, result.RowsAffected(), time.Since(start), err)
	return result, err
}

type tableDef struct {
	model       any
	foreignKeys []string
}

// Parents come before children so foreign keys resolve.
var tables = []tableDef{
	{model: (*models.User)(nil)},
	{model: (*models.Profile)(nil), foreignKeys: []string{
		`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Job)(nil), foreignKeys: []string{
		`("profile_id") REFERENCES "profiles" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.School)(nil), foreignKeys: []string{
		`("profile_id") REFERENCES "profiles" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Match)(nil), foreignKeys: []string{
		`("profile_id") REFERENCES "profiles" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Message)(nil), foreignKeys: []string{
		`("match_id") REFERENCES "matches" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Media)(nil), foreignKeys: []string{
		`("profile_id") REFERENCES "profiles" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.UsageDay)(nil), foreignKeys: []string{
		`("profile_id") REFERENCES "profiles" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Purchase)(nil), foreignKeys: []string{
		`("profile_id") REFERENCES "profiles" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.ProfileMeta)(nil), foreignKeys: []string{
		`("profile_id") REFERENCES "profiles" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.CohortDefinition)(nil)},
	{model: (*models.CohortStats)(nil), foreignKeys: []string{
		`("cohort_id") REFERENCES "cohort_definitions" ("id") ON DELETE CASCADE`,
	}},
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_profiles_user_id ON profiles(user_id);",
	"CREATE INDEX IF NOT EXISTS idx_profiles_computed ON profiles(computed) WHERE computed = false;",
	"CREATE INDEX IF NOT EXISTS idx_profiles_gender_age ON profiles(gender, age_at_upload);",
	"CREATE INDEX IF NOT EXISTS idx_profiles_app_window ON profiles(first_day_on_app, last_day_on_app);",
	"CREATE INDEX IF NOT EXISTS idx_jobs_profile_id ON jobs(profile_id);",
	"CREATE INDEX IF NOT EXISTS idx_schools_profile_id ON schools(profile_id);",
	"CREATE INDEX IF NOT EXISTS idx_matches_profile_id ON matches(profile_id);",
	"CREATE INDEX IF NOT EXISTS idx_messages_match_id ON messages(match_id);",
	"CREATE INDEX IF NOT EXISTS idx_media_profile_id ON media(profile_id);",
	"CREATE INDEX IF NOT EXISTS idx_usage_days_profile_date ON usage_days(profile_id, date_stamp);",
	"CREATE INDEX IF NOT EXISTS idx_purchases_profile_id ON purchases(profile_id);",
	"CREATE INDEX IF NOT EXISTS idx_cohort_stats_cohort ON cohort_stats(cohort_id);",
}

// InitializeSchema creates all required tables and indexes
func (db *DB) InitializeSchema(ctx context.Context) error {
	if db.fastInit {
		if err := db.ensureAppMeta(ctx); err == nil {
			if v, _ := db.getAppMeta(ctx, "schema_version"); v == strconv.Itoa(schemaVersion) {
				slog.Info("Fast DB init: schema up-to-date, skipping initialization",
					slog.String("type", "db"),
					slog.Int("schema_version", schemaVersion))
				return nil
			}
		}
	}

	if err := db.ensureUTF8Encoding(ctx); err != nil {
		return fmt.Errorf("failed to ensure UTF-8 encoding: %w", err)
	}

	for _, t := range tables {
		query := db.bunDB.NewCreateTable().
			Model(t.model).
			IfNotExists()
		for _, fk := range t.foreignKeys {
			query = query.ForeignKey(fk)
		}

		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", t.model, err)
		}
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.ensureAppMeta(ctx); err == nil {
		_ = db.setAppMeta(ctx, "schema_version", strconv.Itoa(schemaVersion))
	}

	slog.Info("Target schema ready",
		slog.String("type", "db"),
		slog.Int("tables", len(tables)),
		slog.Int("schema_version", schemaVersion))
	return nil
}

func (db *DB) ensureAppMeta(ctx context.Context) error {
	_, err := db.ExecWithLog(ctx, `CREATE TABLE IF NOT EXISTS app_meta (key TEXT PRIMARY KEY, value TEXT)`)
	return err
}

func (db *DB) getAppMeta(ctx context.Context, key string) (string, error) {
	var v string
	if err := db.pool.QueryRow(ctx, `SELECT value FROM app_meta WHERE key = $1`, key).Scan(&v); err != nil {
		return "", err
	}
	return v, nil
}

func (db *DB) setAppMeta(ctx context.Context, key, value string) error {
	_, err := db.pool.Exec(ctx, `INSERT INTO app_meta(key, value) VALUES($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}

func (db *DB) ensureUTF8Encoding(ctx context.Context) error {
	var encoding string
	if err := db.pool.QueryRow(ctx, "SHOW server_encoding;").Scan(&encoding); err != nil {
		return fmt.Errorf("failed to check database encoding: %w", err)
	}

	// Changing the server encoding needs a superuser, so only warn.
	if encoding != "UTF8" {
		slog.Warn("Database is not using UTF-8 encoding, bios and messages may be mangled",
			slog.String("type", "db"),
			slog.String("current_encoding", encoding))
	}

	if _, err := db.pool.Exec(ctx, "SET client_encoding TO 'UTF8';"); err != nil {
		return fmt.Errorf("failed to set client encoding to UTF-8: %w", err)
	}
	return nil
}
