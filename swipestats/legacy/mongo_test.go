package legacy

import (
	"context"
	"testing"
)

func TestCollectionNames(t *testing.T) {
	names, err := collectionNames(map[string]string{"usage": "usage_v2", "jobs": ""})
	if err != nil {
		t.Fatalf("collectionNames() error = %v", err)
	}
	if names["usage"] != "usage_v2" {
		t.Errorf("usage collection = %q, want usage_v2", names["usage"])
	}
	if names["jobs"] != "jobs" || names["profiles"] != "tinderprofiles" {
		t.Errorf("defaults lost: %v", names)
	}
	if defaultCollections["usage"] != "tinderusages" {
		t.Errorf("defaults were modified: %v", defaultCollections)
	}

	if _, err := collectionNames(map[string]string{"usages": "x"}); err == nil {
		t.Error("collectionNames() accepted an unknown kind")
	}
}

func TestNewMongoSource_RejectsBadConfig(t *testing.T) {
	if _, err := NewMongoSource(context.Background(), "mongodb://localhost", "", nil); err == nil {
		t.Error("NewMongoSource() without a database name returned no error")
	}
	if _, err := NewMongoSource(context.Background(), "mongodb://localhost", "swipestats", map[string]string{"nope": "x"}); err == nil {
		t.Error("NewMongoSource() with an unknown collection kind returned no error")
	}
}
