package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/docbridge/pkg/core"
)

// Importer receives synchronization bytes. *managed.Doc satisfies it.
type Importer interface {
	Import(data []byte) error
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Dir is the directory watched for dropped update files.
	Dir string
	// Pattern is a doublestar glob matched against paths relative to Dir.
	// Defaults to "*.dbrg".
	Pattern string
	// Target receives the bytes of every matching file.
	Target Importer
	// Debounce is the quiet period before a changed file is read.
	Debounce time.Duration
	// Buffer sizes the event channel.
	Buffer       int
	Logger       *slog.Logger
	ErrorHandler func(error)
}

// Watcher imports update files dropped into a directory and reports each
// import as a core.SyncEvent.
type Watcher struct {
	*worker.BaseWorker
	cfg       WatcherConfig
	events    chan core.SyncEvent
	done      chan struct{}
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc

	active   atomic.Bool
	imported atomic.Int64
	failed   atomic.Int64
}

// NewWatcher creates a Watcher. It does nothing until Start.
func NewWatcher(cfg WatcherConfig) *Watcher {
	if cfg.Pattern == "" {
		cfg.Pattern = "*" + Ext
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 50 * time.Millisecond
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 16
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		cfg:        cfg,
		events:     make(chan core.SyncEvent, cfg.Buffer),
		done:       make(chan struct{}),
	}
}

// Events returns the import reports. The channel is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan core.SyncEvent {
	return w.events
}

func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if w.cfg.Target == nil {
		return errors.New("watcher has no import target")
	}
	if !doublestar.ValidatePattern(w.cfg.Pattern) {
		return fmt.Errorf("invalid watch pattern %q", w.cfg.Pattern)
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.addTree(watcher); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(w.cfg.Debounce)
	w.active.Store(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.catchUp(runCtx)

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"dir":               w.cfg.Dir,
			"pattern":           w.cfg.Pattern,
		}
	})
}

// addTree watches Dir and every directory below it.
func (w *Watcher) addTree(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(w.cfg.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// catchUp imports files that were already present before the watcher started.
func (w *Watcher) catchUp(ctx context.Context) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		matches, err := doublestar.Glob(os.DirFS(w.cfg.Dir), w.cfg.Pattern, doublestar.WithFilesOnly())
		if err != nil {
			return err
		}
		for _, rel := range matches {
			if ctx.Err() != nil {
				return nil
			}
			w.schedule(ctx, filepath.Join(w.cfg.Dir, filepath.FromSlash(rel)), rel)
		}
		return nil
	}, lifecycle.WithErrorHandler(w.reportError))
}

// match reports whether path is an update file this watcher handles.
func (w *Watcher) match(path string) (string, bool) {
	if isTempFile(path) {
		return "", false
	}
	rel, err := filepath.Rel(w.cfg.Dir, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	ok, err := doublestar.Match(w.cfg.Pattern, rel)
	return rel, err == nil && ok
}

func (w *Watcher) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	w.cfg.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.reportError(fmt.Errorf("watch %s: %w", event.Name, err))
			}
			return false
		}
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}

	rel, ok := w.match(event.Name)
	if !ok {
		return false
	}
	w.schedule(ctx, event.Name, rel)
	return true
}

// schedule debounces an import of path.
func (w *Watcher) schedule(ctx context.Context, path, rel string) {
	w.debouncer.add(path, func() {
		w.send(ctx, w.importFile(path, rel))
	})
}

func (w *Watcher) importFile(path, rel string) core.SyncEvent {
	ev := core.SyncEvent{Source: rel, Timestamp: time.Now().Unix()}

	data, err := os.ReadFile(path)
	if err != nil {
		ev.Err = fmt.Errorf("read %s: %w", rel, err)
		w.failed.Add(1)
		return ev
	}
	ev.Bytes = len(data)

	if err := w.cfg.Target.Import(data); err != nil {
		ev.Err = fmt.Errorf("import %s: %w", rel, err)
		w.failed.Add(1)
		w.cfg.Logger.Warn("import failed", "file", rel, "error", err)
		return ev
	}
	w.imported.Add(1)
	w.cfg.Logger.Debug("imported update file", "file", rel, "bytes", len(data))
	return ev
}

// send delivers ev unless the watcher is shutting down. events is only
// closed after every scheduled import has returned, so it is never closed
// under a pending send.
func (w *Watcher) send(ctx context.Context, ev core.SyncEvent) {
	select {
	case w.events <- ev:
	case <-w.done:
	case <-ctx.Done():
	}
}

func (w *Watcher) reportError(err error) {
	w.cfg.Logger.Error("watcher error", "error", err)
	if w.cfg.ErrorHandler != nil {
		w.cfg.ErrorHandler(err)
	}
}

func (w *Watcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if w.cfg.Logger.Enabled(ctx, slog.LevelDebug) {
				w.cfg.Logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				w.cfg.Logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
		w.shutdown()
	}()

	return w.mainEventLoop(ctx)
}

// shutdown unblocks pending sends, drains the debouncer and only then
// closes the event channel.
func (w *Watcher) shutdown() {
	close(w.done)
	w.cancel()
	w.debouncer.stopAndWait()
	_ = w.watcher.Close()
	w.active.Store(false)
	close(w.events)
}

func (w *Watcher) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.reportError(wErr)
		}
	}
}
