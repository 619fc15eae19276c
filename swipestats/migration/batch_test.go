package migration

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestExecuteBatches(t *testing.T) {
	tests := []struct {
		name    string
		records []int
		size    int
		want    [][]int
	}{
		{
			name:    "even split",
			records: []int{1, 2, 3, 4},
			size:    2,
			want:    [][]int{{1, 2}, {3, 4}},
		},
		{
			name:    "short last chunk",
			records: []int{1, 2, 3, 4, 5},
			size:    2,
			want:    [][]int{{1, 2}, {3, 4}, {5}},
		},
		{
			name:    "size larger than input",
			records: []int{1, 2},
			size:    10,
			want:    [][]int{{1, 2}},
		},
		{
			name:    "zero size means one chunk",
			records: []int{1, 2, 3},
			size:    0,
			want:    [][]int{{1, 2, 3}},
		},
		{
			name:    "empty input",
			records: nil,
			size:    2,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][]int
			err := ExecuteBatches(context.Background(), "test", tt.records, tt.size, func(_ context.Context, chunk []int) error {
				got = append(got, append([]int(nil), chunk...))
				return nil
			})
			if err != nil {
				t.Fatalf("ExecuteBatches() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("chunks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExecuteBatches_StopsAtFailingChunk(t *testing.T) {
	boom := errors.New("unique violation")
	calls := 0

	err := ExecuteBatches(context.Background(), "profiles", []int{1, 2, 3, 4, 5, 6}, 2, func(_ context.Context, chunk []int) error {
		calls++
		if chunk[0] == 3 {
			return boom
		}
		return nil
	})

	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("error = %v, want *BatchError", err)
	}
	if batchErr.Chunk != 2 || batchErr.Label != "profiles" {
		t.Errorf("BatchError = %+v, want chunk 2 of profiles", batchErr)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error does not wrap the insert error")
	}
	if calls != 2 {
		t.Errorf("insert called %d times, want 2", calls)
	}
}

func TestExecuteBatches_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := ExecuteBatches(ctx, "usage_days", []int{1, 2, 3}, 1, func(_ context.Context, _ []int) error {
		calls++
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("insert called %d times after cancel, want 1", calls)
	}
}

func TestEtaEstimator(t *testing.T) {
	var e etaEstimator
	if got := e.remaining(3); got != 0 {
		t.Errorf("unseeded remaining = %v, want 0", got)
	}

	e.observe(100 * time.Millisecond)
	if got := e.remaining(2); got != 200*time.Millisecond {
		t.Errorf("seeded remaining = %v, want 200ms", got)
	}

	// 0.3*200 + 0.7*100 = 130
	e.observe(200 * time.Millisecond)
	if got := e.remaining(1); (got - 130*time.Millisecond).Abs() > time.Microsecond {
		t.Errorf("smoothed remaining = %v, want 130ms", got)
	}
	if got := e.remaining(0); got != 0 {
		t.Errorf("remaining(0) = %v, want 0", got)
	}
}
