package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingChecker struct {
	known map[string]bool
	calls int
	err   error
}

func (c *countingChecker) ProfileExists(_ context.Context, id string) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.known[id], nil
}

func TestCanonicalProfileID(t *testing.T) {
	birth := time.Date(1994, 5, 17, 23, 0, 0, 0, time.UTC)
	create := time.Date(2021, 1, 2, 8, 30, 0, 0, time.UTC)

	got := CanonicalProfileID(birth, create)
	if len(got) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(got))
	}

	// time of day does not matter
	again := CanonicalProfileID(
		time.Date(1994, 5, 17, 1, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 2, 22, 0, 0, 0, time.UTC))
	if got != again {
		t.Errorf("expected id to depend on dates only, got %s and %s", got, again)
	}

	if other := CanonicalProfileID(create, birth); other == got {
		t.Error("expected argument order to matter")
	}
}

func TestProfileLookup_CachesResults(t *testing.T) {
	checker := &countingChecker{known: map[string]bool{"a": true}}
	lookup, err := NewProfileLookup(checker, 16)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		ok, err := lookup.Exists(context.Background(), "a")
		if err != nil || !ok {
			t.Fatalf("Exists(a) = %v, %v", ok, err)
		}
	}
	ok, err := lookup.Exists(context.Background(), "b")
	if err != nil || ok {
		t.Fatalf("Exists(b) = %v, %v", ok, err)
	}

	if checker.calls != 2 {
		t.Errorf("expected 2 store calls, got %d", checker.calls)
	}
}

func TestProfileLookup_RememberAndErrors(t *testing.T) {
	checker := &countingChecker{err: errors.New("boom")}
	lookup, err := NewProfileLookup(checker, 16)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := lookup.Exists(context.Background(), "x"); err == nil {
		t.Fatal("expected store error")
	}

	lookup.Remember("x")
	ok, err := lookup.Exists(context.Background(), "x")
	if err != nil || !ok {
		t.Fatalf("expected remembered profile, got %v, %v", ok, err)
	}
}
