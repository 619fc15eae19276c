package legacy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/swipestats/migrator/swipestats/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSource reads legacy documents from a live MongoDB database.
type MongoSource struct {
	client    *mongo.Client
	db        *mongo.Database
	collNames map[string]string
}

var defaultCollections = map[string]string{
	"profiles":       "tinderprofiles",
	"jobs":           "jobs",
	"schools":        "schools",
	"matches":        "matches",
	"messages":       "messages",
	"media":          "media",
	"usage":          "tinderusages",
	"original_files": "originalanonymizedfiles",
	"purchases":      "purchases",
}

// collectionNames applies overrides to the default collection names.
// Unknown kinds are rejected.
func collectionNames(overrides map[string]string) (map[string]string, error) {
	names := make(map[string]string, len(defaultCollections))
	for kind, name := range defaultCollections {
		names[kind] = name
	}
	for kind, name := range overrides {
		if _, ok := names[kind]; !ok {
			return nil, fmt.Errorf("unknown legacy collection kind %q", kind)
		}
		if name != "" {
			names[kind] = name
		}
	}
	return names, nil
}

func NewMongoSource(ctx context.Context, uri, dbName string, collections map[string]string) (*MongoSource, error) {
	if dbName == "" {
		return nil, fmt.Errorf("mongo database name is required for %s", schemeOf(uri))
	}
	collNames, err := collectionNames(collections)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(config.NetworkDialTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to legacy mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.NetworkDialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("legacy mongo unreachable: %w", err)
	}

	slog.Info("Connected to legacy database",
		slog.String("type", "db"),
		slog.String("driver", "mongo"),
		slog.String("database", dbName))

	return &MongoSource{
		client:    client,
		db:        client.Database(dbName),
		collNames: collNames,
	}, nil
}

func (s *MongoSource) coll(kind string) *mongo.Collection {
	return s.db.Collection(s.collNames[kind])
}

func find[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find on %s failed: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode from %s failed: %w", coll.Name(), err)
	}
	return out, nil
}

func in(field string, keys []string) bson.M {
	return bson.M{field: bson.M{"$in": keys}}
}

func (s *MongoSource) RecentProfiles(ctx context.Context, limit int) ([]ProfileRef, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"tinderId": 1, "userId": 1, "createdAt": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return find[ProfileRef](ctx, s.coll("profiles"), bson.D{}, opts)
}

func (s *MongoSource) Profiles(ctx context.Context, ids []string) ([]Profile, error) {
	return find[Profile](ctx, s.coll("profiles"), in("tinderId", ids))
}

func (s *MongoSource) Jobs(ctx context.Context, profileIDs []string) ([]Job, error) {
	return find[Job](ctx, s.coll("jobs"), in("tinderProfileId", profileIDs))
}

func (s *MongoSource) Schools(ctx context.Context, profileIDs []string) ([]School, error) {
	return find[School](ctx, s.coll("schools"), in("tinderProfileId", profileIDs))
}

func (s *MongoSource) Matches(ctx context.Context, profileIDs []string) ([]Match, error) {
	return find[Match](ctx, s.coll("matches"), in("tinderProfileId", profileIDs))
}

func (s *MongoSource) Messages(ctx context.Context, matchIDs []string) ([]Message, error) {
	return find[Message](ctx, s.coll("messages"), in("matchId", matchIDs))
}

func (s *MongoSource) Media(ctx context.Context, profileIDs []string) ([]Media, error) {
	return find[Media](ctx, s.coll("media"), in("tinderProfileId", profileIDs))
}

func (s *MongoSource) UsageDays(ctx context.Context, profileIDs []string) ([]UsageDay, error) {
	return find[UsageDay](ctx, s.coll("usage"), in("tinderProfileId", profileIDs))
}

func (s *MongoSource) OriginalFiles(ctx context.Context, profileIDs []string) ([]OriginalFile, error) {
	return find[OriginalFile](ctx, s.coll("original_files"), in("tinderProfileId", profileIDs))
}

func (s *MongoSource) Purchases(ctx context.Context) ([]Purchase, error) {
	return find[Purchase](ctx, s.coll("purchases"), bson.D{})
}

func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
