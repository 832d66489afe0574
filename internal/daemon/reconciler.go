package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/hyprcycle/internal/platform"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// RefresherConfig holds configuration for the refresher.
type RefresherConfig struct {
	Interval time.Duration // 0 disables periodic refreshes
	Debounce time.Duration
	Logger   *slog.Logger
}

// Refresher keeps the store in step with the compositor. It refreshes on a
// ticker and after compositor events, coalescing bursts of events.
type Refresher struct {
	interval time.Duration
	debounce time.Duration
	backend  platform.Backend
	store    *Store
	logger   *slog.Logger
	kick     chan struct{}

	mu sync.Mutex // serializes snapshots
}

// NewRefresher creates a refresher for backend writing into store.
func NewRefresher(cfg RefresherConfig, backend platform.Backend, store *Store) *Refresher {
	return &Refresher{
		interval: cfg.Interval,
		debounce: cfg.Debounce,
		backend:  backend,
		store:    store,
		logger:   cfg.Logger,
		kick:     make(chan struct{}, 1),
	}
}

// Run refreshes once and then loops until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	if _, err := r.RefreshNow(ctx); err != nil {
		r.logger.Warn("initial refresh failed", "error", err)
	}

	if w, ok := r.backend.(platform.Watcher); ok {
		go r.watch(ctx, w)
	}

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	r.logger.Info("refresher started", "backend", r.backend.Name(), "interval", r.interval, "debounce", r.debounce)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopped")
			return
		case <-tick:
			r.refresh(ctx)
		case <-r.kick:
			if r.debounce <= 0 {
				r.refresh(ctx)
				continue
			}
			if settle == nil {
				settle = time.After(r.debounce)
			}
		case <-settle:
			settle = nil
			r.refresh(ctx)
		}
	}
}

// Trigger requests a refresh without blocking.
func (r *Refresher) Trigger() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// RefreshNow takes a snapshot and updates the store synchronously.
func (r *Refresher) RefreshNow(ctx context.Context) (v *switcher.View, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Backend panics become refresh errors.
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("refresh panic recovered", "error", p)
			err = fmt.Errorf("refresh panicked: %v", p)
		}
	}()

	snap, err := r.backend.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return r.store.Update(snap)
}

func (r *Refresher) refresh(ctx context.Context) {
	v, err := r.RefreshNow(ctx)
	if err != nil {
		r.logger.Error("refresh failed", "error", err)
		return
	}
	r.logger.Debug("refreshed", "entries", v.Len(), "selected", v.Selected)
}

// watch forwards compositor events as refresh triggers, reconnecting when the
// event source drops.
func (r *Refresher) watch(ctx context.Context, w platform.Watcher) {
	backoff := time.Second
	for {
		err := w.Watch(ctx, func(ev platform.Event) {
			r.logger.Debug("compositor event", "kind", ev.Kind, "detail", ev.Detail)
			r.Trigger()
		})
		if ctx.Err() != nil {
			return
		}
		r.logger.Warn("event stream ended, reconnecting", "error", err, "in", backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}
