package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes store activity for observability.
type StoreState struct {
	Dir      string     `json:"dir"`
	Saves    int        `json:"saves"`
	Loads    int        `json:"loads"`
	LastSave *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Dir:      s.dir,
		Saves:    s.saves,
		Loads:    s.loads,
		LastSave: s.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "snapshot-store"
}

// WatcherState reports import counters.
type WatcherState struct {
	Dir      string `json:"dir"`
	Pattern  string `json:"pattern"`
	Active   bool   `json:"active"`
	Imported int64  `json:"imported"`
	Failed   int64  `json:"failed"`
}

// Snapshot returns the watcher counters. State is taken by worker.Worker.
func (w *Watcher) Snapshot() WatcherState {
	return WatcherState{
		Dir:      w.cfg.Dir,
		Pattern:  w.cfg.Pattern,
		Active:   w.active.Load(),
		Imported: w.imported.Load(),
		Failed:   w.failed.Load(),
	}
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
