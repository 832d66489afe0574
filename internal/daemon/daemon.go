package daemon

import (
	"context"
	"log/slog"
	"sync"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/platform"
)

// Daemon wires the store, refresher, controller and config watcher.
type Daemon struct {
	Store      *Store
	Refresher  *Refresher
	Controller *Controller

	backend platform.Backend
	loaded  *config.LoadResult
	logger  *slog.Logger
}

// New assembles a daemon for backend using the loaded config.
func New(backend platform.Backend, loaded *config.LoadResult, logger *slog.Logger) *Daemon {
	cfg := loaded.Config
	store := NewStore(cfg, logger)
	refresher := NewRefresher(RefresherConfig{
		Interval: cfg.Daemon.RefreshInterval(),
		Debounce: cfg.Daemon.Debounce(),
		Logger:   logger,
	}, backend, store)

	return &Daemon{
		Store:      store,
		Refresher:  refresher,
		Controller: NewController(backend, store, refresher, loaded.Path, logger),
		backend:    backend,
		loaded:     loaded,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Refresher.Run(ctx)
	}()

	if d.loaded.Config.Daemon.WatchConfig && d.loaded.Path != "" {
		watcher := NewConfigWatcher(d.loaded.Path, d.loaded.Files, func() ([]string, error) {
			res, err := d.Controller.Reload()
			if err != nil {
				return nil, err
			}
			return res.Files, nil
		}, d.logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Run(ctx); err != nil {
				d.logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	wg.Wait()
}
