package batch

import (
	"errors"
	"testing"
)

func TestChunkSplitsAtSize(t *testing.T) {
	ids := make([]int, 250)
	for i := range ids {
		ids[i] = i
	}

	chunks := Chunk(ids, 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 250 ids at size 100, got %d", len(chunks))
	}
	if len(chunks[0]) != 100 || len(chunks[1]) != 100 || len(chunks[2]) != 50 {
		t.Fatalf("unexpected chunk sizes %d/%d/%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}

func TestChunkEmptyInput(t *testing.T) {
	if chunks := Chunk([]string(nil), 100); chunks != nil {
		t.Fatalf("expected nil chunks for empty input, got %v", chunks)
	}
}

func TestChunkZeroSizeFallsBackToDefault(t *testing.T) {
	ids := make([]int, DefaultSize+1)
	chunks := Chunk(ids, 0)
	if len(chunks) != 2 {
		t.Fatalf("expected default size batching, got %d chunks", len(chunks))
	}
}

func TestForEachSequentialAndStopsOnError(t *testing.T) {
	ids := make([]int, 250)
	var seen []int
	err := ForEach(ids, 100, func(chunk []int) error {
		seen = append(seen, len(chunk))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 invocations, got %d", len(seen))
	}

	boom := errors.New("boom")
	calls := 0
	err = ForEach(ids, 100, func(chunk []int) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected to stop after failing chunk, got %d calls", calls)
	}
}
