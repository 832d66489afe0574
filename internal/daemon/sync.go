package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/platform"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// ErrUnknownEntry is returned when an id or label matches no entry.
var ErrUnknownEntry = errors.New("no such entry")

// Controller turns switcher decisions into compositor commands.
type Controller struct {
	backend    platform.Backend
	store      *Store
	refresher  *Refresher
	configPath string
	logger     *slog.Logger
}

// NewController creates a controller. configPath is reloaded by Reload.
func NewController(backend platform.Backend, store *Store, refresher *Refresher, configPath string, logger *slog.Logger) *Controller {
	return &Controller{
		backend:    backend,
		store:      store,
		refresher:  refresher,
		configPath: configPath,
		logger:     logger,
	}
}

// Store returns the backing store.
func (c *Controller) Store() *Store { return c.store }

// View returns the current view, taking a first snapshot if needed.
func (c *Controller) View(ctx context.Context) (*switcher.View, error) {
	v, err := c.store.View()
	if errors.Is(err, ErrNotReady) {
		return c.refresher.RefreshNow(ctx)
	}
	return v, err
}

// Step moves n positions through the cycle: 1 is next, -1 previous.
func (c *Controller) Step(ctx context.Context, n int) (*switcher.Entry, error) {
	v, err := c.fresh(ctx)
	if err != nil {
		return nil, err
	}
	e, err := v.Target(n)
	if err != nil {
		return nil, err
	}
	return c.activate(ctx, *e)
}

// Jump activates the entry carrying jump label k.
func (c *Controller) Jump(ctx context.Context, k int) (*switcher.Entry, error) {
	v, err := c.fresh(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := v.ByLabel(k)
	if !ok {
		return nil, fmt.Errorf("label %d: %w", k, ErrUnknownEntry)
	}
	return c.activate(ctx, *e)
}

// Focus activates the entry with the given id.
func (c *Controller) Focus(ctx context.Context, id string) (*switcher.Entry, error) {
	v, err := c.fresh(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := v.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownEntry)
	}
	return c.activate(ctx, *e)
}

// Reload re-reads the config file and applies it when valid.
func (c *Controller) Reload() (*config.LoadResult, error) {
	res, err := config.LoadFromPath(c.configPath)
	if err != nil {
		return nil, err
	}
	if err := c.store.SetConfig(res.Config); err != nil {
		return nil, err
	}
	c.logger.Info("config reloaded", "path", c.configPath, "files", len(res.Files))
	return res, nil
}

// fresh refreshes before acting so commands never act on a stale order.
func (c *Controller) fresh(ctx context.Context) (*switcher.View, error) {
	v, err := c.refresher.RefreshNow(ctx)
	if err != nil {
		c.logger.Warn("refresh before command failed, using cached view", "error", err)
		return c.store.View()
	}
	return v, nil
}

func (c *Controller) activate(ctx context.Context, e switcher.Entry) (*switcher.Entry, error) {
	switch {
	case e.Window != nil:
		if err := c.backend.FocusWindow(ctx, e.Window.ID); err != nil {
			return nil, fmt.Errorf("focus %s: %w", e.Window.ID, err)
		}
	case e.Workspace != nil:
		if err := c.backend.SwitchWorkspace(ctx, e.Workspace.ID); err != nil {
			return nil, fmt.Errorf("workspace %s: %w", strconv.Itoa(e.Workspace.ID), err)
		}
	default:
		return nil, ErrUnknownEntry
	}
	c.logger.Debug("activated", "id", e.ID(), "index", e.Index)

	if _, err := c.refresher.RefreshNow(ctx); err != nil {
		c.logger.Warn("refresh after activation failed", "error", err)
	}
	return &e, nil
}
