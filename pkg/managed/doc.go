package managed

import (
	"runtime"

	"github.com/aretw0/docbridge/pkg/core"
)

// Doc is a reference to a shared document.
type Doc struct {
	rt *Runtime
	l  *lease
}

// Clone returns a new reference to the same document.
func (d *Doc) Clone() (*Doc, error) {
	if _, err := d.l.handle(); err != nil {
		return nil, err
	}
	if !d.l.r.retain() {
		return nil, &Error{Message: errReleased.Error()}
	}
	return d.rt.docFor(&lease{r: d.l.r}), nil
}

// Release drops this reference. The document is destroyed when no Doc,
// Text, List or Map refers to it any more. Extra calls are ignored.
func (d *Doc) Release() {
	d.l.release()
}

// PeerID returns the peer id, or 0 if this reference was released.
func (d *Doc) PeerID() uint64 {
	h, err := d.l.handle()
	if err != nil {
		return core.NoPeer
	}
	defer runtime.KeepAlive(d)
	return d.rt.bridge.PeerID(h)
}

// SetPeerID assigns the peer id.
func (d *Doc) SetPeerID(id uint64) error {
	h, err := d.l.handle()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	return wrap(d.rt.bridge.SetPeerID(h, id))
}

// Commit flushes pending edits into history.
func (d *Doc) Commit() error {
	h, err := d.l.handle()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	return wrap(d.rt.bridge.Commit(h))
}

// Export returns a snapshot of the document.
func (d *Doc) Export() ([]byte, error) {
	return d.export(core.ModeSnapshot)
}

// ExportSnapshot is Export under its explicit name.
func (d *Doc) ExportSnapshot() ([]byte, error) {
	return d.export(core.ModeSnapshot)
}

// ExportUpdates returns the full update history.
func (d *Doc) ExportUpdates() ([]byte, error) {
	return d.export(core.ModeUpdates)
}

func (d *Doc) export(mode core.ExportMode) ([]byte, error) {
	h, err := d.l.handle()
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(d)
	data, err := d.rt.bridge.Export(h, mode)
	return data, wrap(err)
}

// Import merges updates or a snapshot produced by any document.
func (d *Doc) Import(data []byte) error {
	h, err := d.l.handle()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	if data == nil {
		data = []byte{}
	}
	return wrap(d.rt.bridge.Import(h, data))
}

// ToJSON renders every container as one JSON object.
func (d *Doc) ToJSON() (string, error) {
	h, err := d.l.handle()
	if err != nil {
		return "", err
	}
	defer runtime.KeepAlive(d)
	out, err := d.rt.bridge.ToJSON(h)
	return out, wrap(err)
}

// Text returns the named text container.
func (d *Doc) Text(name string) (*Text, error) {
	l, err := d.rt.container(d.l, core.KindText, name)
	if err != nil {
		return nil, err
	}
	runtime.KeepAlive(d)
	t := &Text{rt: d.rt, l: l}
	runtime.AddCleanup(t, (*lease).release, l)
	return t, nil
}

// List returns the named list container.
func (d *Doc) List(name string) (*List, error) {
	l, err := d.rt.container(d.l, core.KindList, name)
	if err != nil {
		return nil, err
	}
	runtime.KeepAlive(d)
	ls := &List{rt: d.rt, l: l}
	runtime.AddCleanup(ls, (*lease).release, l)
	return ls, nil
}

// Map returns the named map container.
func (d *Doc) Map(name string) (*Map, error) {
	l, err := d.rt.container(d.l, core.KindMap, name)
	if err != nil {
		return nil, err
	}
	runtime.KeepAlive(d)
	m := &Map{rt: d.rt, l: l}
	runtime.AddCleanup(m, (*lease).release, l)
	return m, nil
}
