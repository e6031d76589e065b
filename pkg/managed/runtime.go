// Package managed is the reference-counted call surface.
//
// Wrappers (Doc, Text, List, Map) each hold one reference on a shared
// handle. Clone adds a reference, Release drops it, and the underlying
// handle is destroyed when the last reference goes away. A wrapper the host
// forgets to release is released when the garbage collector reclaims it.
// Containers keep their document alive.
//
// Concurrent calls through wrappers sharing a document are serialized by
// the bridge; callers need no locking of their own. Calls must not be
// re-entered on the same document from inside another call.
package managed

import (
	"log/slog"
	"runtime"

	"github.com/aretw0/docbridge/pkg/bridge"
	"github.com/aretw0/docbridge/pkg/core"
)

// Runtime connects wrappers to a shared bridge.
type Runtime struct {
	bridge     *bridge.Bridge
	logger     *slog.Logger
	containers registry
}

// NewRuntime creates a Runtime over b.
func NewRuntime(b *bridge.Bridge, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runtime{
		bridge:     b,
		logger:     logger,
		containers: registry{refs: make(map[bridge.Handle]*ref)},
	}
}

// NewDoc creates a document holding one reference.
func (rt *Runtime) NewDoc() *Doc {
	h := rt.bridge.Create()
	r := newRef(h, func(r *ref) {
		rt.logger.Debug("last document reference released", "handle", r.h)
		rt.bridge.Destroy(r.h)
	})
	return rt.docFor(&lease{r: r})
}

func (rt *Runtime) docFor(l *lease) *Doc {
	d := &Doc{rt: rt, l: l}
	runtime.AddCleanup(d, (*lease).release, l)
	return d
}

// container returns a lease on the shared ref for the named container.
// The lease also holds a reference on the owning document.
func (rt *Runtime) container(doc *lease, kind core.ContainerKind, name string) (*lease, error) {
	dh, err := doc.handle()
	if err != nil {
		return nil, err
	}
	if !doc.r.retain() {
		return nil, &Error{Message: errReleased.Error()}
	}
	parent := &lease{r: doc.r}

	rt.containers.mu.Lock()
	defer rt.containers.mu.Unlock()

	var h bridge.Handle
	switch kind {
	case core.KindText:
		h, err = rt.bridge.Text(dh, name)
	case core.KindList:
		h, err = rt.bridge.List(dh, name)
	default:
		h, err = rt.bridge.Map(dh, name)
	}
	if err != nil {
		parent.release()
		return nil, wrap(err)
	}

	if r, ok := rt.containers.refs[h]; ok && r.retain() {
		return &lease{r: r, parent: parent}, nil
	}
	r := newRef(h, rt.releaseContainer)
	rt.containers.refs[h] = r
	return &lease{r: r, parent: parent}, nil
}

// releaseContainer runs when a container's count reaches zero. A newer ref
// may already have replaced it for the same handle; then the handle stays.
func (rt *Runtime) releaseContainer(r *ref) {
	rt.containers.mu.Lock()
	defer rt.containers.mu.Unlock()
	if rt.containers.refs[r.h] != r {
		return
	}
	delete(rt.containers.refs, r.h)
	rt.bridge.Release(r.h)
}
