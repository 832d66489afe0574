package daemon

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/1broseidon/hyprcycle/internal/config"
	"github.com/1broseidon/hyprcycle/internal/platform"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// ErrNotReady is returned before the first snapshot has been taken.
var ErrNotReady = errors.New("no snapshot taken yet")

// Store holds the latest snapshot, the config and the view built from both.
// Views handed out are never modified afterwards.
type Store struct {
	mu   sync.RWMutex
	cfg  *config.Config
	snap *platform.Snapshot
	view *switcher.View
	err  error

	subMu  sync.Mutex
	subs   map[int]chan *switcher.View
	nextID int

	logger *slog.Logger
}

func NewStore(cfg *config.Config, logger *slog.Logger) *Store {
	return &Store{
		cfg:    cfg.Clone(),
		subs:   make(map[int]chan *switcher.View),
		logger: logger,
	}
}

// Config returns a copy of the active config.
func (s *Store) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Snapshot returns the latest snapshot, or nil.
func (s *Store) Snapshot() *platform.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// View returns the current view and the error from building it.
func (s *Store) View() (*switcher.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotReady
	}
	return s.view, s.err
}

// Update replaces the snapshot and rebuilds the view.
func (s *Store) Update(snap *platform.Snapshot) (*switcher.View, error) {
	s.mu.Lock()
	s.snap = snap
	v, err := s.rebuildLocked()
	s.mu.Unlock()

	if err == nil {
		s.publish(v)
	}
	return v, err
}

// SetConfig swaps the config and rebuilds the view from the current snapshot.
func (s *Store) SetConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg.Clone()
	if s.snap == nil {
		s.mu.Unlock()
		return nil
	}
	v, err := s.rebuildLocked()
	s.mu.Unlock()

	if err == nil {
		s.publish(v)
	}
	return err
}

func (s *Store) rebuildLocked() (*switcher.View, error) {
	v, err := switcher.Build(s.snap, s.cfg)
	s.view, s.err = v, err
	if err != nil {
		return nil, err
	}
	if v.Dropped != nil {
		s.logger.Warn("windows left out of ordering", "error", v.Dropped)
	}
	return v, nil
}

// Subscribe returns a channel receiving every rebuilt view. Slow subscribers
// miss views instead of blocking the store. Call cancel to unsubscribe.
func (s *Store) Subscribe(buffer int) (<-chan *switcher.View, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan *switcher.View, buffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) publish(v *switcher.View) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- v:
		default:
			s.logger.Debug("subscriber too slow, view dropped", "subscriber", id)
		}
	}
}
