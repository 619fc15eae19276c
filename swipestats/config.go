package swipestats

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/swipestats/migrator/swipestats/config"
	"github.com/swipestats/migrator/swipestats/database"
	"github.com/swipestats/migrator/swipestats/services"
)

var ErrMissingConfig = errors.New("missing required configuration")

// LoadConfig reads the optional TOML file at path, then applies environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer file.Close()

		if err = toml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: "text",
		},
		Legacy: LegacyConfig{
			QueryBatchSize: config.DefaultQueryBatchSize,
		},
		Migration: MigrationConfig{
			BatchSize: config.DefaultBatchSize,
		},
		Stats: StatsConfig{
			Years: append([]int(nil), config.DefaultStatYears...),
		},
	}
}

type Config struct {
	Log         LogConfig                  `toml:"log"`
	Legacy      LegacyConfig               `toml:"legacy"`
	Target      database.DBConfig          `toml:"target"`
	Migration   MigrationConfig            `toml:"migration"`
	Stats       StatsConfig                `toml:"stats"`
	ObjectStore services.ObjectStoreConfig `toml:"objectstore"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type LegacyConfig struct {
	URL            string `toml:"url"`
	MongoDatabase  string `toml:"mongo_database"`
	QueryBatchSize int    `toml:"query_batch_size"`
	// Collections renames Mongo collections by kind (profiles, usage, ...).
	Collections map[string]string `toml:"collections"`
}

type MigrationConfig struct {
	Limit           int            `toml:"limit"`
	MetadataLimit   int            `toml:"metadata_limit"`
	DryRun          bool           `toml:"dry_run"`
	Force           bool           `toml:"force"`
	StatsOnly       bool           `toml:"stats_only"`
	BatchSize       int            `toml:"batch_size"`
	BatchSizes      map[string]int `toml:"batch_sizes"`
	UseCopy         bool           `toml:"use_copy"`
	UploadOriginals bool           `toml:"upload_originals"`
	ReportDir       string         `toml:"report_dir"`
}

// BatchSizeFor returns the per-entity override, falling back to the default.
func (c MigrationConfig) BatchSizeFor(entity string) int {
	if size, ok := c.BatchSizes[entity]; ok && size > 0 {
		return min(size, config.MaxBatchSize)
	}
	if c.BatchSize > 0 {
		return min(c.BatchSize, config.MaxBatchSize)
	}
	return config.DefaultBatchSize
}

type StatsConfig struct {
	Years []int `toml:"years"`
}

// ApplyEnv overrides fields from environment variables. lookup is os.LookupEnv
// outside of tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			} else {
				slog.Warn("Ignoring invalid integer environment value", slog.String("key", key), slog.String("value", v))
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				*dst = b
			} else {
				slog.Warn("Ignoring invalid boolean environment value", slog.String("key", key), slog.String("value", v))
			}
		}
	}

	str("LEGACY_DATABASE_URL", &c.Legacy.URL)
	str("LEGACY_MONGO_DATABASE", &c.Legacy.MongoDatabase)
	integer("QUERY_BATCH_SIZE", &c.Legacy.QueryBatchSize)

	str("DATABASE_URL", &c.Target.URL)
	integer("DATABASE_POOL_SIZE", &c.Target.PoolSize)
	boolean("DB_FAST_INIT", &c.Target.FastInit)

	integer("MIGRATION_LIMIT", &c.Migration.Limit)
	integer("METADATA_LIMIT", &c.Migration.MetadataLimit)
	boolean("DRY_RUN", &c.Migration.DryRun)
	boolean("FORCE", &c.Migration.Force)
	boolean("STATS_ONLY", &c.Migration.StatsOnly)
	integer("BATCH_SIZE", &c.Migration.BatchSize)
	boolean("USE_COPY", &c.Migration.UseCopy)
	boolean("UPLOAD_ORIGINALS", &c.Migration.UploadOriginals)
	str("REPORT_DIR", &c.Migration.ReportDir)

	for _, entity := range []string{"users", "profiles", "jobs", "schools", "matches", "messages", "media", "usage_days", "purchases", "original_files"} {
		key := "BATCH_SIZE_" + strings.ToUpper(entity)
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				slog.Warn("Ignoring invalid integer environment value", slog.String("key", key), slog.String("value", v))
				continue
			}
			if c.Migration.BatchSizes == nil {
				c.Migration.BatchSizes = make(map[string]int)
			}
			c.Migration.BatchSizes[entity] = n
		}
	}

	if v, ok := lookup("STAT_YEARS"); ok && strings.TrimSpace(v) != "" {
		years, err := parseYears(v)
		if err != nil {
			slog.Warn("Ignoring invalid STAT_YEARS", slog.String("value", v), slog.Any("error", err))
		} else {
			c.Stats.Years = years
		}
	}

	str("S3_KEY", &c.ObjectStore.Key)
	str("S3_SECRET", &c.ObjectStore.Secret)
	str("S3_REGION", &c.ObjectStore.Region)
	str("S3_BUCKET", &c.ObjectStore.Bucket)
	str("S3_ENDPOINT", &c.ObjectStore.Endpoint)
	str("S3_PREFIX", &c.ObjectStore.Prefix)

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err == nil {
			c.Log.Level = level
		}
	}
	str("LOG_FORMAT", &c.Log.Format)
}

// Validate checks the settings required for the selected mode.
func (c *Config) Validate() error {
	if c.Target.URL == "" {
		return fmt.Errorf("%w: DATABASE_URL", ErrMissingConfig)
	}
	if !c.Migration.StatsOnly && c.Legacy.URL == "" {
		return fmt.Errorf("%w: LEGACY_DATABASE_URL", ErrMissingConfig)
	}
	if c.Migration.Limit < 0 {
		return fmt.Errorf("migration limit must not be negative, got %d", c.Migration.Limit)
	}
	if c.Migration.MetadataLimit < 0 {
		return fmt.Errorf("metadata limit must not be negative, got %d", c.Migration.MetadataLimit)
	}
	if c.Migration.UploadOriginals && !c.ObjectStore.Enabled() {
		return fmt.Errorf("%w: S3_BUCKET and S3_REGION are needed to upload original files", ErrMissingConfig)
	}
	return nil
}

func parseYears(v string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", part, err)
		}
		if year < 2000 || year > 2100 {
			return nil, fmt.Errorf("year %d out of range", year)
		}
		years = append(years, year)
	}
	return years, nil
}
