// Package bridge is the shared core behind both call surfaces.
//
// Every document owns one mutex that also guards all of its containers.
// Each operation resolves its handle, takes that mutex for the whole call
// and releases it on every exit path, so operations on one document are
// linearizable. Operations must not be re-entered on the same document
// from inside a call; doing so deadlocks.
//
// Lock order is document mutex, then handle table. The table lock is never
// held while waiting for a document mutex.
package bridge

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/docbridge/pkg/core"
	"github.com/aretw0/docbridge/pkg/handle"
)

// Handle is re-exported for adapters.
type Handle = handle.Handle

// Config holds the collaborators of a Bridge.
type Config struct {
	Engine     core.Engine
	Logger     *slog.Logger
	Registerer prometheus.Registerer
}

// document is a replica plus the lock shared with its containers.
type document struct {
	mu         sync.Mutex
	doc        core.Doc
	containers map[core.ContainerID]Handle
	closed     bool
}

// ref is a handle table entry. A zero id.Kind marks a document handle.
type ref struct {
	doc *document
	id  core.ContainerID
}

func (r ref) isDocument() bool { return r.id.Kind == 0 }

// Bridge owns the handle table and the per-document locks.
type Bridge struct {
	engine  core.Engine
	logger  *slog.Logger
	table   *handle.Table[ref]
	metrics *metrics

	docs       atomic.Int64
	containers atomic.Int64
}

// New creates a Bridge. A nil Engine is a programming error.
func New(cfg Config) *Bridge {
	if cfg.Engine == nil {
		panic("bridge: nil engine")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bridge{
		engine:  cfg.Engine,
		logger:  logger,
		table:   handle.NewTable[ref](),
		metrics: newMetrics(cfg.Registerer),
	}
}

// Create allocates a new document and returns its handle. It never fails.
func (b *Bridge) Create() Handle {
	d := &document{
		doc:        b.engine.New(),
		containers: make(map[core.ContainerID]Handle),
	}
	h := b.table.Register(ref{doc: d})
	b.docs.Add(1)
	b.metrics.handles.WithLabelValues("document").Inc()
	b.logger.Debug("document created", "handle", h, "peer", d.doc.PeerID())
	return h
}

// Destroy releases a document and every container handle issued for it.
// Null, unknown and container handles are ignored. Destroy must not race
// with other operations on the same document.
func (b *Bridge) Destroy(h Handle) {
	r, err := b.table.Resolve(h)
	if err != nil || !r.isDocument() {
		return
	}
	if _, ok := b.table.Remove(h); !ok {
		return
	}

	r.doc.mu.Lock()
	r.doc.closed = true
	owned := make([]Handle, 0, len(r.doc.containers))
	for _, ch := range r.doc.containers {
		owned = append(owned, ch)
	}
	r.doc.containers = nil
	r.doc.mu.Unlock()

	for _, ch := range owned {
		if _, ok := b.table.Remove(ch); ok {
			b.containers.Add(-1)
			b.metrics.handles.WithLabelValues("container").Dec()
		}
	}
	b.docs.Add(-1)
	b.metrics.handles.WithLabelValues("document").Dec()
	b.logger.Debug("document destroyed", "handle", h, "containers", len(owned))
}

// SetPeerID reassigns the document's peer id.
func (b *Bridge) SetPeerID(h Handle, id core.PeerID) error {
	return b.withDoc(h, "set_peer_id", func(d core.Doc) error {
		return d.SetPeerID(id)
	})
}

// PeerID returns the document's peer id, or core.NoPeer for null and
// unknown handles.
func (b *Bridge) PeerID(h Handle) core.PeerID {
	id := core.NoPeer
	_ = b.withDoc(h, "peer_id", func(d core.Doc) error {
		id = d.PeerID()
		return nil
	})
	return id
}

// Commit flushes pending local edits into the document history.
func (b *Bridge) Commit(h Handle) error {
	return b.withDoc(h, "commit", func(d core.Doc) error {
		d.Commit()
		return nil
	})
}

// ToJSON renders every container of the document as one JSON object.
func (b *Bridge) ToJSON(h Handle) (string, error) {
	var out string
	err := b.withDoc(h, "to_json", func(d core.Doc) error {
		s, ok := encodeValue(d.DeepValue())
		if !ok {
			return fmt.Errorf("%w: document value is not representable as JSON", core.ErrEngine)
		}
		out = s
		return nil
	})
	return out, err
}

// resolveDoc returns the document behind a document handle.
func (b *Bridge) resolveDoc(h Handle) (*document, error) {
	r, err := b.table.Resolve(h)
	if err != nil {
		return nil, err
	}
	if !r.isDocument() {
		return nil, fmt.Errorf("%w: handle %d is a %s container", core.ErrKindMismatch, h, r.id.Kind)
	}
	return r.doc, nil
}

// withDoc runs fn under the document lock.
func (b *Bridge) withDoc(h Handle, op string, fn func(core.Doc) error) error {
	d, err := b.resolveDoc(h)
	if err != nil {
		b.metrics.observe(op, err)
		return err
	}
	err = d.locked(h, fn)
	b.metrics.observe(op, err)
	return err
}

func (d *document) locked(h Handle, fn func(core.Doc) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("%w: %d was destroyed", core.ErrNotFound, h)
	}
	return engineError(fn(d.doc))
}

// engineError files engine failures under the shared taxonomy.
func engineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrOutOfRange),
		errors.Is(err, core.ErrNullInput),
		errors.Is(err, core.ErrNotFound),
		errors.Is(err, core.ErrEngine),
		errors.Is(err, core.ErrAllocation):
		return err
	default:
		return fmt.Errorf("%w: %w", core.ErrEngine, err)
	}
}
