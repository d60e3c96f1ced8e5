// Package activity records engagement activities and runs the service's
// fire-and-forget background work.
package activity

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"social-service/internal/metrics"
)

// Notifier dispatches post-response work: counter bumps, activity records,
// event publishes. The caller gets its response before any of this runs,
// and failures are logged, never surfaced, never retried.
type Notifier struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewNotifier(timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{timeout: timeout}
}

// Go runs fn on its own goroutine with a fresh context, since the request
// context is gone by the time fn runs.
func (n *Notifier) Go(name string, fn func(ctx context.Context) error) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				metrics.BackgroundFailures.Inc()
				log.Error().Interface("panic", r).Str("task", name).Msg("background task panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			metrics.BackgroundFailures.Inc()
			log.Error().Err(err).Str("task", name).Msg("background task failed")
		}
	}()
}

// Wait blocks until all dispatched tasks finish. Used on shutdown and in
// tests; request handlers never call it.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
