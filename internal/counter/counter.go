// Package counter provides atomic engagement counters. The document store
// has no increment verb, so increments either go through redis INCRBY or
// through a conditional read-modify-write loop against the store.
package counter

import (
	"context"
	"errors"
	"fmt"

	"social-service/internal/store"
)

// Counter atomically adds delta to the numeric field under path and
// returns the resulting value.
type Counter interface {
	Incr(ctx context.Context, path, field string, delta int64) (int64, error)
}

const maxAttempts = 5

type storeCounter struct {
	st *store.Client
}

// NewStore builds a counter on the document store's conditional writes.
// Concurrent increments retry on conflict up to a fixed bound; this is the
// only retry loop in the service and it never crosses a network failure.
func NewStore(st *store.Client) Counter {
	return &storeCounter{st: st}
}

func (c *storeCounter) Incr(ctx context.Context, path, field string, delta int64) (int64, error) {
	leaf := path + "/" + field
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var cur int64
		etag, _, err := c.st.GetWithETag(ctx, leaf, &cur)
		if err != nil {
			return 0, err
		}
		next := cur + delta
		err = c.st.SetIfMatch(ctx, leaf, next, etag)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return 0, err
		}
	}
	return 0, fmt.Errorf("counter %s: gave up after %d conflicts", leaf, maxAttempts)
}
