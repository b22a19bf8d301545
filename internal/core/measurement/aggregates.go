package measurement

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when two records share a key.
var ErrDuplicateKey = errors.New("duplicate record key")

// Aggregates is an ordered, key-unique, read-only collection of records.
// Iteration follows insertion order.
type Aggregates[R Record] struct {
	keys  []string
	byKey map[string]R
}

// NewAggregates builds a collection from records in order.
func NewAggregates[R Record](records ...R) (*Aggregates[R], error) {
	a := &Aggregates[R]{
		keys:  make([]string, 0, len(records)),
		byKey: make(map[string]R, len(records)),
	}
	for _, rec := range records {
		key := rec.Key()
		if _, exists := a.byKey[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
		a.keys = append(a.keys, key)
		a.byKey[key] = rec
	}
	return a, nil
}

// MustAggregates is NewAggregates for statically known records; it panics on duplicates.
func MustAggregates[R Record](records ...R) *Aggregates[R] {
	a, err := NewAggregates(records...)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Aggregates[R]) Len() int { return len(a.keys) }

// Keys returns a copy of the keys in order.
func (a *Aggregates[R]) Keys() []string {
	return append([]string(nil), a.keys...)
}

func (a *Aggregates[R]) Get(key string) (R, bool) {
	rec, ok := a.byKey[key]
	return rec, ok
}

// Records returns the records in order.
func (a *Aggregates[R]) Records() []R {
	out := make([]R, len(a.keys))
	for i, key := range a.keys {
		out[i] = a.byKey[key]
	}
	return out
}

// First returns the first record in order.
func (a *Aggregates[R]) First() (R, bool) {
	var zero R
	if len(a.keys) == 0 {
		return zero, false
	}
	return a.byKey[a.keys[0]], true
}
