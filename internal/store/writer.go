package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/playperu/treasurehunt/internal/registry"
)

// Writer saves snapshots in the background. Only the latest pending snapshot
// is kept: a newer one replaces an older one that was not written yet.
type Writer struct {
	store  *SessionStore
	logger *slog.Logger

	mu      sync.Mutex
	pending *registry.Snapshot
	wake    chan struct{}
}

func NewWriter(store *SessionStore, logger *slog.Logger) *Writer {
	return &Writer{
		store:  store,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Persist implements registry.Persister. It never blocks.
func (w *Writer) Persist(snap registry.Snapshot) {
	w.mu.Lock()
	w.pending = &snap
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run writes snapshots until ctx is cancelled, then flushes what is pending.
// A write in progress is not interrupted by the cancellation.
func (w *Writer) Run(ctx context.Context) error {
	saveCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			w.flush(saveCtx)
			return nil
		case <-w.wake:
			w.flush(saveCtx)
		}
	}
}

func (w *Writer) flush(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	w.mu.Lock()
	snap := w.pending
	w.pending = nil
	w.mu.Unlock()

	if snap == nil {
		return
	}
	if err := w.store.Save(ctx, *snap); err != nil {
		w.logger.Error("persisting sessions", "sessions", len(snap.Sessions), "error", err)
		return
	}
	w.logger.Debug("persisted sessions", "sessions", len(snap.Sessions))
}
