package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/docbridge/pkg/bridge"
	"github.com/aretw0/docbridge/pkg/core"
	"github.com/aretw0/docbridge/pkg/engine"
	"github.com/aretw0/docbridge/pkg/managed"
)

func newRuntime() *managed.Runtime {
	return managed.NewRuntime(bridge.New(bridge.Config{Engine: engine.Engine()}), nil)
}

// exportText builds a document holding content and returns its update bytes.
func exportText(t *testing.T, rt *managed.Runtime, peer uint64, content string) []byte {
	t.Helper()
	d := rt.NewDoc()
	defer d.Release()
	require.NoError(t, d.SetPeerID(peer))

	txt, err := d.Text("body")
	require.NoError(t, err)
	defer txt.Release()
	require.NoError(t, txt.Insert(0, content))

	data, err := d.ExportUpdates()
	require.NoError(t, err)
	return data
}

func textOf(t *testing.T, d *managed.Doc) string {
	t.Helper()
	txt, err := d.Text("body")
	require.NoError(t, err)
	defer txt.Release()
	return txt.String()
}

func waitEvent(t *testing.T, events <-chan core.SyncEvent) core.SyncEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for sync event")
		return core.SyncEvent{}
	}
}

func TestWatcher_ImportsDroppedFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt := newRuntime()
	target := rt.NewDoc()
	defer target.Release()

	dir := t.TempDir()
	w := NewWatcher(WatcherConfig{Dir: dir, Target: target, Debounce: 10 * time.Millisecond})
	require.NoError(t, w.Start(ctx))

	store := NewStore(Config{Dir: dir})
	require.NoError(t, store.Save("from-peer-1", exportText(t, rt, 1, "hello")))

	ev := waitEvent(t, w.Events())
	require.NoError(t, ev.Err)
	require.Equal(t, "from-peer-1.dbrg", ev.Source)
	require.Positive(t, ev.Bytes)
	require.Equal(t, "hello", textOf(t, target))

	require.NoError(t, w.Stop(context.Background()))
	require.EqualValues(t, 1, w.Snapshot().Imported)
}

func TestWatcher_CatchesUpExistingFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt := newRuntime()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "early.dbrg"), exportText(t, rt, 3, "early"), 0644))

	target := rt.NewDoc()
	defer target.Release()

	w := NewWatcher(WatcherConfig{Dir: dir, Target: target, Debounce: 10 * time.Millisecond})
	require.NoError(t, w.Start(ctx))

	ev := waitEvent(t, w.Events())
	require.NoError(t, ev.Err)
	require.Equal(t, "early", textOf(t, target))
}

func TestWatcher_ReportsCorruptFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt := newRuntime()
	target := rt.NewDoc()
	defer target.Release()

	dir := t.TempDir()
	w := NewWatcher(WatcherConfig{Dir: dir, Target: target, Debounce: 10 * time.Millisecond})
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.dbrg"), []byte("not a frame"), 0644))
	ev := waitEvent(t, w.Events())
	require.Error(t, ev.Err)
	require.Equal(t, "", textOf(t, target))

	// Files outside the pattern are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %v", ev)
	case <-time.After(150 * time.Millisecond):
	}
	require.EqualValues(t, 1, w.Snapshot().Failed)
}

func TestWatcher_StopClosesEvents(t *testing.T) {
	rt := newRuntime()
	target := rt.NewDoc()
	defer target.Release()

	w := NewWatcher(WatcherConfig{Dir: t.TempDir(), Target: target})
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop(context.Background()))

	select {
	case _, ok := <-w.Events():
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
	require.False(t, w.Snapshot().Active)
}

func TestWatcher_RequiresTarget(t *testing.T) {
	w := NewWatcher(WatcherConfig{Dir: t.TempDir()})
	require.Error(t, w.Start(context.Background()))
}

// gatedImporter blocks every Import until release is closed.
type gatedImporter struct {
	started chan struct{}
	release chan struct{}
}

func (g *gatedImporter) Import([]byte) error {
	select {
	case g.started <- struct{}{}:
	default:
	}
	<-g.release
	return nil
}

func TestWatcher_StopWaitsForInFlightImport(t *testing.T) {
	target := &gatedImporter{started: make(chan struct{}, 1), release: make(chan struct{})}
	dir := t.TempDir()

	w := NewWatcher(WatcherConfig{Dir: dir, Target: target, Debounce: 10 * time.Millisecond, Buffer: 1})
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "slow.dbrg"), []byte("x"), 0644))
	select {
	case <-target.started:
	case <-time.After(3 * time.Second):
		t.Fatal("import never started")
	}

	stopped := make(chan error, 1)
	go func() { stopped <- w.Stop(context.Background()) }()

	// The channel stays open while the import is still running.
	select {
	case _, ok := <-w.Events():
		require.True(t, ok, "events closed under an in-flight import")
	case <-time.After(100 * time.Millisecond):
	}

	close(target.release)
	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("stop did not return")
	}

	for range w.Events() {
	}
	require.False(t, w.Snapshot().Active)
}
