// Package fanout writes denormalized copies of one logical record into the
// index paths that reads are served from, so reads never join collections.
package fanout

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"social-service/internal/metrics"
	"social-service/internal/store"
)

// Target is one index path for a record. The first target of a write is the
// primary and receives the full record; the rest receive a lightweight
// Pointer. Push targets get a server-generated key appended to Path.
type Target struct {
	Path    string
	Pointer bool
	Push    bool
}

// Pointer is the secondary-index shape: just enough for ordered retrieval,
// dereferenced through the primary path on read.
type Pointer struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Timestamp string `json:"timestamp"`
}

type Writer struct {
	st *store.Client
}

func NewWriter(st *store.Client) *Writer {
	return &Writer{st: st}
}

// StoreRecord writes payload at the primary target and ptr at every other
// target. There is no transaction across the writes: a failed primary aborts
// the record, but a failed secondary is logged and the remaining targets are
// still attempted. Readers must tolerate a record present in one index and
// absent from another.
func (w *Writer) StoreRecord(ctx context.Context, kind, id string, payload any, ptr Pointer, targets []Target) error {
	if len(targets) == 0 {
		return fmt.Errorf("fanout %s/%s: no targets", kind, id)
	}
	for i, tgt := range targets {
		var v any = ptr
		if !tgt.Pointer {
			v = payload
		}
		err := w.write(ctx, tgt, v)
		if err == nil {
			metrics.FanoutWrites.WithLabelValues("ok").Inc()
			continue
		}
		metrics.FanoutWrites.WithLabelValues("error").Inc()
		if i == 0 {
			return fmt.Errorf("fanout %s/%s primary: %w", kind, id, err)
		}
		log.Error().Err(err).
			Str("kind", kind).
			Str("id", id).
			Str("path", tgt.Path).
			Msg("fanout index write failed")
	}
	return nil
}

func (w *Writer) write(ctx context.Context, tgt Target, v any) error {
	if tgt.Push {
		_, err := w.st.Push(ctx, tgt.Path, v)
		return err
	}
	return w.st.Set(ctx, tgt.Path, v)
}
