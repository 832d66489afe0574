package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc reloads the config and returns every file it was read from.
type ReloadFunc func() ([]string, error)

// ConfigWatcher reloads the config when one of its files changes.
type ConfigWatcher struct {
	root     string
	files    []string
	reload   ReloadFunc
	debounce time.Duration
	logger   *slog.Logger
}

// NewConfigWatcher watches root (which may not exist yet) and files, and
// calls reload after writes settle. The watched set follows the files each
// successful reload reports, so includes added later are picked up.
func NewConfigWatcher(root string, files []string, reload ReloadFunc, logger *slog.Logger) *ConfigWatcher {
	return &ConfigWatcher{
		root:     root,
		files:    files,
		reload:   reload,
		debounce: 200 * time.Millisecond,
		logger:   logger,
	}
}

// watchSet tracks which files matter and which directories are watched.
// Directories are watched rather than files so editors that replace files
// on save are noticed.
type watchSet struct {
	fw     *fsnotify.Watcher
	names  map[string]bool
	dirs   map[string]bool
	logger *slog.Logger
}

func (s *watchSet) update(files []string) {
	names := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		names[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if s.dirs[dir] {
			continue
		}
		if err := s.fw.Add(dir); err != nil {
			s.logger.Warn("cannot watch config directory", "dir", dir, "error", err)
			delete(dirs, dir)
		}
	}
	for dir := range s.dirs {
		if !dirs[dir] {
			s.fw.Remove(dir)
		}
	}
	s.names, s.dirs = names, dirs
}

// Run blocks until ctx is cancelled.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	set := &watchSet{fw: fw, dirs: map[string]bool{}, logger: w.logger}
	set.update(append([]string{w.root}, w.files...))

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !set.names[ev.Name] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if settle == nil {
				settle = time.After(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)
		case <-settle:
			settle = nil
			files, err := w.reload()
			if err != nil {
				w.logger.Error("config reload rejected, keeping previous config", "error", err)
				continue
			}
			set.update(append([]string{w.root}, files...))
			w.logger.Debug("watching config files", "files", len(set.names))
		}
	}
}
