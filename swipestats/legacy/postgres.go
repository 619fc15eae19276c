package legacy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swipestats/migrator/swipestats/config"
	"github.com/swipestats/migrator/swipestats/logger"
)

const (
	selectProfileRefs = `SELECT "tinderId" AS tinder_id, "userId" AS user_id, "createdAt" AS created_at
		FROM "TinderProfile" ORDER BY "createdAt" DESC LIMIT $1`

	selectProfiles = `SELECT "tinderId" AS tinder_id, "userId" AS user_id,
		"createDate" AS create_date, "birthDate" AS birth_date,
		"firstDayOnApp" AS first_day_on_app, "lastDayOnApp" AS last_day_on_app,
		"ageAtUpload" AS age_at_upload, "ageAtLastUsage" AS age_at_last_usage,
		"gender" AS gender, "genderFilter" AS gender_filter, "interestedIn" AS interested_in,
		"ageFilterMin" AS age_filter_min, "ageFilterMax" AS age_filter_max,
		"city" AS city, "country" AS country, "bio" AS bio, "interests" AS interests,
		"daysInProfilePeriod" AS days_in_profile_period, "createdAt" AS created_at
		FROM "TinderProfile" WHERE "tinderId" = ANY($1)`

	selectJobs = `SELECT "id" AS id, "tinderProfileId" AS profile_id, "title" AS title,
		"titleDisplayed" AS title_displayed, "companyName" AS company, "companyDisplayed" AS company_displayed
		FROM "Job" WHERE "tinderProfileId" = ANY($1)`

	selectSchools = `SELECT "id" AS id, "tinderProfileId" AS profile_id, "name" AS name,
		"displayed" AS displayed, "type" AS type
		FROM "School" WHERE "tinderProfileId" = ANY($1)`

	selectMatches = `SELECT "id" AS id, "tinderProfileId" AS profile_id, "order" AS match_order,
		"totalMessageCount" AS total_messages, "matchedAt" AS matched_at, "likedAt" AS liked_at,
		"lastActivityDate" AS last_activity_at
		FROM "Match" WHERE "tinderProfileId" = ANY($1)`

	selectMessages = `SELECT "id" AS id, "matchId" AS match_id, "tinderProfileId" AS profile_id,
		"to" AS direction, "sentDate" AS sent_date, "type" AS type, "content" AS content, "gifUrl" AS gif_url
		FROM "Message" WHERE "matchId" = ANY($1)`

	selectMedia = `SELECT "id" AS id, "tinderProfileId" AS profile_id, "type" AS type, "url" AS url,
		"prompt" AS prompt, "fromSoMe" AS from_so_me
		FROM "Media" WHERE "tinderProfileId" = ANY($1)`

	selectUsageDays = `SELECT "tinderProfileId" AS profile_id, "dateStamp" AS date_stamp,
		COALESCE("appOpens", 0) AS app_opens, COALESCE("swipeLikes", 0) AS swipe_likes,
		COALESCE("swipeSuperLikes", 0) AS swipe_super_likes, COALESCE("swipePasses", 0) AS swipe_passes,
		COALESCE("matches", 0) AS matches, COALESCE("messagesSent", 0) AS messages_sent,
		COALESCE("messagesReceived", 0) AS messages_received,
		COALESCE("dateIsMissingFromOriginalData", false) AS date_is_missing
		FROM "TinderUsage" WHERE "tinderProfileId" = ANY($1)`

	selectOriginalFiles = `SELECT "id" AS id, "tinderProfileId" AS profile_id, "file" AS file, "createdAt" AS created_at
		FROM "OriginalAnonymizedFile" WHERE "tinderProfileId" = ANY($1)`

	selectPurchases = `SELECT "id" AS id, "birthDate" AS birth_date, "createDate" AS create_date,
		"product" AS product, "amountCents" AS amount_cents, "currency" AS currency, "purchasedAt" AS purchased_at
		FROM "Purchase"`
)

// PostgresSource reads the legacy relational schema through a pgx pool.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(ctx context.Context, url string) (*PostgresSource, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse legacy connection string: %w", err)
	}
	poolConfig.ConnConfig.ConnectTimeout = config.NetworkDialTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create legacy pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.NetworkDialTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("legacy database unreachable: %w", err)
	}

	slog.Info("Connected to legacy database",
		slog.String("type", "db"),
		slog.String("driver", "postgres"))
	return &PostgresSource{pool: pool}, nil
}

// query runs sql and maps every row onto T by column name.
func query[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args ...any) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		logger.LogQuery("legacy_query", sql, 0, time.Since(start), err)
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	logger.LogQuery("legacy_query", sql, int64(len(out)), time.Since(start), err)
	return out, err
}

func (s *PostgresSource) RecentProfiles(ctx context.Context, limit int) ([]ProfileRef, error) {
	var lim any
	if limit > 0 {
		lim = limit
	}
	refs, err := query[ProfileRef](ctx, s.pool, selectProfileRefs, lim)
	if err != nil {
		return nil, fmt.Errorf("failed to select recent profiles: %w", err)
	}
	return refs, nil
}

func (s *PostgresSource) Profiles(ctx context.Context, ids []string) ([]Profile, error) {
	return query[Profile](ctx, s.pool, selectProfiles, ids)
}

func (s *PostgresSource) Jobs(ctx context.Context, profileIDs []string) ([]Job, error) {
	return query[Job](ctx, s.pool, selectJobs, profileIDs)
}

func (s *PostgresSource) Schools(ctx context.Context, profileIDs []string) ([]School, error) {
	return query[School](ctx, s.pool, selectSchools, profileIDs)
}

func (s *PostgresSource) Matches(ctx context.Context, profileIDs []string) ([]Match, error) {
	return query[Match](ctx, s.pool, selectMatches, profileIDs)
}

func (s *PostgresSource) Messages(ctx context.Context, matchIDs []string) ([]Message, error) {
	return query[Message](ctx, s.pool, selectMessages, matchIDs)
}

func (s *PostgresSource) Media(ctx context.Context, profileIDs []string) ([]Media, error) {
	return query[Media](ctx, s.pool, selectMedia, profileIDs)
}

func (s *PostgresSource) UsageDays(ctx context.Context, profileIDs []string) ([]UsageDay, error) {
	return query[UsageDay](ctx, s.pool, selectUsageDays, profileIDs)
}

func (s *PostgresSource) OriginalFiles(ctx context.Context, profileIDs []string) ([]OriginalFile, error) {
	return query[OriginalFile](ctx, s.pool, selectOriginalFiles, profileIDs)
}

func (s *PostgresSource) Purchases(ctx context.Context) ([]Purchase, error) {
	return query[Purchase](ctx, s.pool, selectPurchases)
}

func (s *PostgresSource) Close(context.Context) error {
	s.pool.Close()
	return nil
}
