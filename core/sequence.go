package core

import (
	"iter"
	"sync/atomic"

	"github.com/google/uuid"
)

// Sequence is a lazy, finite, single-pass stream of results. A second
// iteration yields ErrSequenceConsumed instead of replaying.
type Sequence[T any] interface {
	All() iter.Seq2[T, error]
	Collect() ([]T, error)
}

type funcSequence[T any] struct {
	source   iter.Seq2[T, error]
	consumed atomic.Bool
}

// NewSequence wraps source with the single-pass guard. source runs on the
// first iteration only.
func NewSequence[T any](source iter.Seq2[T, error]) Sequence[T] {
	return &funcSequence[T]{source: source}
}

func (s *funcSequence[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if s.consumed.Swap(true) {
			var zero T
			yield(zero, ErrSequenceConsumed)
			return
		}
		if s.source == nil {
			return
		}
		s.source(yield)
	}
}

func (s *funcSequence[T]) Collect() ([]T, error) {
	return collect(s.All())
}

func SliceSequence[T any](items []T) Sequence[T] {
	copied := append([]T(nil), items...)
	return NewSequence(func(yield func(T, error) bool) {
		for _, item := range copied {
			if !yield(item, nil) {
				return
			}
		}
	})
}

// ErrorSequence yields err once.
func ErrorSequence[T any](err error) Sequence[T] {
	return NewSequence(func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	})
}

func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	out := []T{}
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
