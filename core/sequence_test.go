package core

import (
	"errors"
	"testing"
)

func TestSliceSequence_IsSinglePass(t *testing.T) {
	seq := SliceSequence([]string{"a", "b"})
	items, err := seq.Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if _, err := seq.Collect(); !errors.Is(err, ErrSequenceConsumed) {
		t.Fatalf("expected ErrSequenceConsumed on second pass, got %v", err)
	}
}

func TestSequence_BreakStopsSource(t *testing.T) {
	produced := 0
	seq := NewSequence(func(yield func(int, error) bool) {
		for i := range 10 {
			produced++
			if !yield(i, nil) {
				return
			}
		}
	})
	for item, err := range seq.All() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item == 2 {
			break
		}
	}
	if produced != 3 {
		t.Fatalf("expected source to stop after break, produced %d", produced)
	}
}

func TestErrorSequence_YieldsError(t *testing.T) {
	sentinel := errors.New("boom")
	if _, err := ErrorSequence[int](sentinel).Collect(); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
}
