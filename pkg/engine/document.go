package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"unicode/utf8"

	"github.com/aretw0/docbridge/pkg/core"
)

var (
	// ErrInvalidPeer is returned by SetPeerID for reserved ids.
	ErrInvalidPeer = errors.New("invalid peer id")

	// ErrKeyNotFound is returned when deleting an absent map key.
	ErrKeyNotFound = errors.New("key not found")
)

// Document is a single replica.
type Document struct {
	peer    uint64
	lamport uint64
	// vv holds the next expected counter per peer.
	vv map[uint64]uint64

	texts map[string]*sequence[rune]
	lists map[string]*sequence[any]
	maps  map[string]*mapState

	pending []Op
	history []Change
	waiting []remoteOp
}

// New returns an empty document with a random peer id.
func New() *Document {
	return &Document{
		peer:  randomPeer(),
		vv:    make(map[uint64]uint64),
		texts: make(map[string]*sequence[rune]),
		lists: make(map[string]*sequence[any]),
		maps:  make(map[string]*mapState),
	}
}

// Engine returns a core.Engine backed by this package.
func Engine() core.Engine {
	return core.EngineFunc(func() core.Doc { return New() })
}

func randomPeer() uint64 {
	for {
		if id := rand.Uint64(); validPeer(id) {
			return id
		}
	}
}

func validPeer(id uint64) bool {
	return id != core.NoPeer && id != math.MaxUint64
}

// PeerID implements core.Doc.
func (d *Document) PeerID() core.PeerID { return d.peer }

// SetPeerID implements core.Doc. Pending edits are committed under the old id.
func (d *Document) SetPeerID(id core.PeerID) error {
	if !validPeer(id) {
		return fmt.Errorf("%w: %d is reserved", ErrInvalidPeer, id)
	}
	d.Commit()
	d.peer = id
	return nil
}

// Commit implements core.Doc.
func (d *Document) Commit() {
	if len(d.pending) == 0 {
		return
	}
	d.history = append(d.history, Change{Peer: d.peer, Ops: d.pending})
	d.pending = nil
}

// Export implements core.Doc. Pending edits are committed first.
func (d *Document) Export(mode core.ExportMode) ([]byte, error) {
	d.Commit()
	return encodeChanges(d.history, mode)
}

// Import implements core.Doc.
func (d *Document) Import(data []byte) error {
	changes, err := decodeChanges(data)
	if err != nil {
		return err
	}
	d.Commit()

	queued := make(map[ID]bool, len(d.waiting))
	for _, w := range d.waiting {
		queued[newID(w.peer, w.op.Counter)] = true
	}
	queue := d.waiting
	for _, c := range changes {
		for _, op := range c.Ops {
			if op.Counter < d.vv[c.Peer] || queued[newID(c.Peer, op.Counter)] {
				continue
			}
			queued[newID(c.Peer, op.Counter)] = true
			queue = append(queue, remoteOp{peer: c.Peer, op: op})
		}
	}

	for progress := true; progress; {
		progress = false
		rest := queue[:0]
		for _, r := range queue {
			switch {
			case r.op.Counter < d.vv[r.peer]:
				// Already applied through another path.
			case r.op.Counter == d.vv[r.peer] && d.applyRemote(r):
				progress = true
			default:
				rest = append(rest, r)
			}
		}
		queue = rest
	}
	d.waiting = append([]remoteOp(nil), queue...)
	return nil
}

// Pending reports how many imported operations are waiting for dependencies.
func (d *Document) Pending() int { return len(d.waiting) }

// DeepValue implements core.Doc.
func (d *Document) DeepValue() map[string]any {
	out := make(map[string]any, len(d.texts)+len(d.lists)+len(d.maps))
	for name, s := range d.texts {
		out[name] = string(s.values())
	}
	for name, s := range d.lists {
		out[name] = s.values()
	}
	for name, m := range d.maps {
		out[name] = m.value()
	}
	return out
}

// Text implements core.Doc.
func (d *Document) Text(name string) core.Text {
	d.text(name)
	return &Text{doc: d, name: name}
}

// List implements core.Doc.
func (d *Document) List(name string) core.List {
	d.list(name)
	return &List{doc: d, name: name}
}

// Map implements core.Doc.
func (d *Document) Map(name string) core.Map {
	d.mapState(name)
	return &Map{doc: d, name: name}
}

func (d *Document) text(name string) *sequence[rune] {
	s, ok := d.texts[name]
	if !ok {
		s = &sequence[rune]{}
		d.texts[name] = s
	}
	return s
}

func (d *Document) list(name string) *sequence[any] {
	s, ok := d.lists[name]
	if !ok {
		s = &sequence[any]{}
		d.lists[name] = s
	}
	return s
}

func (d *Document) mapState(name string) *mapState {
	m, ok := d.maps[name]
	if !ok {
		m = newMapState()
		d.maps[name] = m
	}
	return m
}

// local stamps op with the next counter and timestamp, applies it and
// queues it for the next commit.
func (d *Document) local(op Op) {
	op.Counter = d.vv[d.peer]
	op.Lamport = d.lamport
	if !d.apply(d.peer, op) {
		panic("engine: local operation with missing dependency")
	}
	d.advance(d.peer, op)
	d.pending = append(d.pending, op)
}

func (d *Document) applyRemote(r remoteOp) bool {
	if !d.apply(r.peer, r.op) {
		return false
	}
	d.advance(r.peer, r.op)
	if n := len(d.history); n > 0 && d.history[n-1].Peer == r.peer {
		d.history[n-1].Ops = append(d.history[n-1].Ops, r.op)
	} else {
		d.history = append(d.history, Change{Peer: r.peer, Ops: []Op{r.op}})
	}
	return true
}

func (d *Document) advance(peer uint64, op Op) {
	span := op.span()
	d.vv[peer] = op.Counter + span
	if end := op.Lamport + span; end > d.lamport {
		d.lamport = end
	}
}

// apply mutates container state. It reports false when a dependency is missing.
func (d *Document) apply(peer uint64, op Op) bool {
	switch op.Kind {
	case core.KindText:
		s := d.text(op.Name)
		switch op.Action {
		case actInsert:
			return s.insertRun(peer, op.Counter, op.Lamport, op.Origin, []rune(op.Text))
		case actDelete:
			if !s.ready(op.Targets) {
				return false
			}
			s.remove(op.Targets)
			return true
		}
	case core.KindList:
		s := d.list(op.Name)
		switch op.Action {
		case actInsert:
			return s.insertRun(peer, op.Counter, op.Lamport, op.Origin, op.Values)
		case actDelete:
			if !s.ready(op.Targets) {
				return false
			}
			s.remove(op.Targets)
			return true
		}
	case core.KindMap:
		m := d.mapState(op.Name)
		switch op.Action {
		case actSet:
			m.apply(peer, op.Lamport, op.Key, op.Value, false)
			return true
		case actRemove:
			m.apply(peer, op.Lamport, op.Key, nil, true)
			return true
		}
	}
	// Unknown operations are dropped so newer peers cannot wedge the queue.
	return true
}

// Text is a handle to a text container.
type Text struct {
	doc  *Document
	name string
}

// Insert implements core.Text. pos counts Unicode scalar values.
func (t *Text) Insert(pos int, s string) error {
	seq := t.doc.text(t.name)
	origin, err := seq.originFor(pos)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(s) == 0 {
		return nil
	}
	t.doc.local(Op{Kind: core.KindText, Name: t.name, Action: actInsert, Origin: origin, Text: s})
	return nil
}

// Delete implements core.Text.
func (t *Text) Delete(start, n int) error {
	seq := t.doc.text(t.name)
	ids, err := seq.targets(start, n)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	t.doc.local(Op{Kind: core.KindText, Name: t.name, Action: actDelete, Targets: ids})
	return nil
}

// String implements core.Text.
func (t *Text) String() string { return string(t.doc.text(t.name).values()) }

// Len implements core.Text.
func (t *Text) Len() int { return t.doc.text(t.name).len() }

// List is a handle to a list container.
type List struct {
	doc  *Document
	name string
}

// Insert implements core.List.
func (l *List) Insert(pos int, v any) error {
	val, err := normalize(v)
	if err != nil {
		return err
	}
	origin, err := l.doc.list(l.name).originFor(pos)
	if err != nil {
		return err
	}
	l.doc.local(Op{Kind: core.KindList, Name: l.name, Action: actInsert, Origin: origin, Values: []any{val}})
	return nil
}

// Delete implements core.List.
func (l *List) Delete(start, n int) error {
	ids, err := l.doc.list(l.name).targets(start, n)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	l.doc.local(Op{Kind: core.KindList, Name: l.name, Action: actDelete, Targets: ids})
	return nil
}

// Get implements core.List.
func (l *List) Get(index int) (any, bool) { return l.doc.list(l.name).get(index) }

// Len implements core.List.
func (l *List) Len() int { return l.doc.list(l.name).len() }

// Map is a handle to a map container.
type Map struct {
	doc  *Document
	name string
}

// Insert implements core.Map.
func (m *Map) Insert(key string, v any) error {
	val, err := normalize(v)
	if err != nil {
		return err
	}
	m.doc.local(Op{Kind: core.KindMap, Name: m.name, Action: actSet, Key: key, Value: val})
	return nil
}

// Delete implements core.Map.
func (m *Map) Delete(key string) error {
	if _, ok := m.doc.mapState(m.name).get(key); !ok {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	m.doc.local(Op{Kind: core.KindMap, Name: m.name, Action: actRemove, Key: key})
	return nil
}

// Get implements core.Map.
func (m *Map) Get(key string) (any, bool) { return m.doc.mapState(m.name).get(key) }

// Keys implements core.Map.
func (m *Map) Keys() []string { return m.doc.mapState(m.name).keys() }

// Len implements core.Map.
func (m *Map) Len() int { return len(m.doc.mapState(m.name).keys()) }

var (
	_ core.Doc  = (*Document)(nil)
	_ core.Text = (*Text)(nil)
	_ core.List = (*List)(nil)
	_ core.Map  = (*Map)(nil)
)
