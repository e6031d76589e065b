package managed

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docbridge/pkg/bridge"
	"github.com/aretw0/docbridge/pkg/core"
	"github.com/aretw0/docbridge/pkg/engine"
)

func newTestRuntime(t *testing.T) (*Runtime, *bridge.Bridge) {
	t.Helper()
	b := bridge.New(bridge.Config{Engine: engine.Engine(), Registerer: prometheus.NewRegistry()})
	return NewRuntime(b, nil), b
}

func liveHandles(b *bridge.Bridge) int {
	return b.State().(bridge.State).Handles
}

func TestDoc_TextRoundTrip(t *testing.T) {
	rt, _ := newTestRuntime(t)
	doc := rt.NewDoc()
	defer doc.Release()

	txt, err := doc.Text("text")
	require.NoError(t, err)
	defer txt.Release()

	require.True(t, txt.IsEmpty())
	require.NoError(t, txt.Insert(0, "hello"))
	require.Equal(t, "hello", txt.String())
	require.NoError(t, txt.Delete(0, 2))
	require.Equal(t, "llo", txt.String())
	require.Equal(t, 3, txt.Len())
}

func TestDoc_ErrorsCarryMessages(t *testing.T) {
	rt, _ := newTestRuntime(t)
	doc := rt.NewDoc()
	txt, err := doc.Text("text")
	require.NoError(t, err)
	require.NoError(t, txt.Insert(0, "abc"))

	err = txt.Delete(10, 1)
	var me *Error
	require.True(t, errors.As(err, &me))
	require.Contains(t, me.Message, "out of range")
	require.False(t, errors.Is(err, core.ErrOutOfRange), "structured kind must not leak")
	require.Equal(t, "abc", txt.String())

	err = doc.SetPeerID(0)
	require.True(t, errors.As(err, &me))
	require.Contains(t, me.Message, "invalid peer id")
}

func TestDoc_RefCountDestroysAtZero(t *testing.T) {
	rt, b := newTestRuntime(t)

	doc := rt.NewDoc()
	clone, err := doc.Clone()
	require.NoError(t, err)
	txt, err := doc.Text("text")
	require.NoError(t, err)
	again, err := clone.Text("text")
	require.NoError(t, err)
	require.Equal(t, 2, liveHandles(b))

	doc.Release()
	doc.Release()
	clone.Release()
	require.Equal(t, 2, liveHandles(b), "containers keep the document alive")

	require.NoError(t, txt.Insert(0, "still here"))
	txt.Release()
	require.Equal(t, "still here", again.String())

	again.Release()
	require.Equal(t, 0, liveHandles(b))

	require.Error(t, txt.Insert(0, "x"))
	require.Equal(t, uint64(0), doc.PeerID())
	_, err = doc.Clone()
	require.Error(t, err)
}

func TestDoc_ContainerReacquiredAfterRelease(t *testing.T) {
	rt, b := newTestRuntime(t)
	doc := rt.NewDoc()
	defer doc.Release()

	m, err := doc.Map("meta")
	require.NoError(t, err)
	require.NoError(t, m.InsertString("a", "1"))
	m.Release()
	require.Equal(t, 1, liveHandles(b))

	m, err = doc.Map("meta")
	require.NoError(t, err)
	defer m.Release()
	v, ok := m.GetJSON("a")
	require.True(t, ok)
	require.Equal(t, `"1"`, v)
}

func TestMap_LastWriteWins(t *testing.T) {
	rt, _ := newTestRuntime(t)
	doc := rt.NewDoc()
	m, err := doc.Map("meta")
	require.NoError(t, err)

	require.NoError(t, m.InsertString("a", "1"))
	require.NoError(t, m.InsertString("a", "2"))
	require.Equal(t, []string{"a"}, m.Keys())
	v, ok := m.GetJSON("a")
	require.True(t, ok)
	require.Equal(t, `"2"`, v)
	require.Error(t, m.Delete("zzz"))
	require.NoError(t, m.Delete("a"))
	require.True(t, m.IsEmpty())
}

func TestList_Operations(t *testing.T) {
	rt, _ := newTestRuntime(t)
	doc := rt.NewDoc()
	l, err := doc.List("items")
	require.NoError(t, err)

	require.NoError(t, l.InsertString(0, "a"))
	require.NoError(t, l.Insert(1, map[string]any{"n": 1}))
	require.Error(t, l.Insert(5, "x"))
	require.Equal(t, 2, l.Len())

	v, ok := l.GetJSON(1)
	require.True(t, ok)
	require.JSONEq(t, `{"n": 1}`, v)
	_, ok = l.GetJSON(7)
	require.False(t, ok)

	require.NoError(t, l.Delete(0, 2))
	require.True(t, l.IsEmpty())
}

func TestDelete_HugeLengthFailsWithoutChange(t *testing.T) {
	rt, _ := newTestRuntime(t)
	doc := rt.NewDoc()
	defer doc.Release()

	txt, err := doc.Text("text")
	require.NoError(t, err)
	defer txt.Release()
	require.NoError(t, txt.Insert(0, "abc"))

	l, err := doc.List("items")
	require.NoError(t, err)
	defer l.Release()
	require.NoError(t, l.InsertString(0, "a"))
	require.NoError(t, l.InsertString(1, "b"))

	require.NotPanics(t, func() {
		err = txt.Delete(1, math.MaxInt)
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of range")

	require.NotPanics(t, func() {
		err = l.Delete(1, math.MaxInt)
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of range")

	require.Equal(t, "abc", txt.String())
	require.Equal(t, 2, l.Len())
}

func TestDoc_SyncIsIdempotent(t *testing.T) {
	rt, _ := newTestRuntime(t)
	src := rt.NewDoc()
	txt, _ := src.Text("text")
	require.NoError(t, txt.Insert(0, "hello"))

	snap, err := src.Export()
	require.NoError(t, err)
	updates, err := src.ExportUpdates()
	require.NoError(t, err)

	dst := rt.NewDoc()
	require.NoError(t, dst.Import(snap))
	require.NoError(t, dst.Import(updates))
	require.NoError(t, dst.Import(snap))

	out, err := dst.ToJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"text": "hello"}`, out)

	require.Error(t, dst.Import(nil))
	require.Error(t, dst.Import([]byte("junk")))
}

func TestDoc_ConcurrentCallersAreSerialized(t *testing.T) {
	rt, _ := newTestRuntime(t)
	doc := rt.NewDoc()
	defer doc.Release()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := doc.Clone()
			if err != nil {
				errs <- err
				return
			}
			defer d.Release()
			txt, err := d.Text("text")
			if err != nil {
				errs <- err
				return
			}
			defer txt.Release()
			errs <- txt.Insert(0, fmt.Sprint(i%10))
			_, err = d.ExportUpdates()
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	txt, err := doc.Text("text")
	require.NoError(t, err)
	require.Equal(t, workers, txt.Len())
}

func TestWrap_AllocationIsFatal(t *testing.T) {
	require.Panics(t, func() {
		_ = wrap(fmt.Errorf("copy result: %w", core.ErrAllocation))
	})
	require.NoError(t, wrap(nil))
}
