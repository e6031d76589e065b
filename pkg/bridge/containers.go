package bridge

import (
	"fmt"
	"unicode/utf8"

	"github.com/aretw0/docbridge/pkg/core"
)

// Text returns the handle of the named text container, creating it if absent.
func (b *Bridge) Text(doc Handle, name string) (Handle, error) {
	return b.container(doc, core.ContainerID{Kind: core.KindText, Name: name})
}

// List returns the handle of the named list container, creating it if absent.
func (b *Bridge) List(doc Handle, name string) (Handle, error) {
	return b.container(doc, core.ContainerID{Kind: core.KindList, Name: name})
}

// Map returns the handle of the named map container, creating it if absent.
func (b *Bridge) Map(doc Handle, name string) (Handle, error) {
	return b.container(doc, core.ContainerID{Kind: core.KindMap, Name: name})
}

func (b *Bridge) container(doc Handle, id core.ContainerID) (Handle, error) {
	d, err := b.resolveDoc(doc)
	if err != nil {
		b.metrics.observe("get_"+id.Kind.String(), err)
		return 0, err
	}

	var h Handle
	err = d.locked(doc, func(eng core.Doc) error {
		if existing, ok := d.containers[id]; ok {
			h = existing
			return nil
		}
		switch id.Kind {
		case core.KindText:
			eng.Text(id.Name)
		case core.KindList:
			eng.List(id.Name)
		case core.KindMap:
			eng.Map(id.Name)
		}
		h = b.table.Register(ref{doc: d, id: id})
		d.containers[id] = h
		b.containers.Add(1)
		b.metrics.handles.WithLabelValues("container").Inc()
		b.logger.Debug("container handle issued", "document", doc, "container", id.String(), "handle", h)
		return nil
	})
	b.metrics.observe("get_"+id.Kind.String(), err)
	return h, err
}

// Release drops a single container handle. The container's content is kept
// and a later lookup by name issues a new handle. Null, unknown and document
// handles are ignored.
func (b *Bridge) Release(h Handle) {
	r, err := b.table.Resolve(h)
	if err != nil || r.isDocument() {
		return
	}
	r.doc.mu.Lock()
	if r.doc.containers[r.id] == h {
		delete(r.doc.containers, r.id)
	}
	r.doc.mu.Unlock()

	if _, ok := b.table.Remove(h); ok {
		b.containers.Add(-1)
		b.metrics.handles.WithLabelValues("container").Dec()
	}
}

// withContainer runs fn under the owning document's lock after checking
// that h refers to a container of the expected kind.
func (b *Bridge) withContainer(h Handle, kind core.ContainerKind, op string, fn func(core.Doc, string) error) error {
	op = kind.String() + "_" + op
	r, err := b.table.Resolve(h)
	if err == nil && r.id.Kind != kind {
		err = fmt.Errorf("%w: handle %d is not a %s container", core.ErrKindMismatch, h, kind)
	}
	if err != nil {
		b.metrics.observe(op, err)
		return err
	}
	err = r.doc.locked(h, func(d core.Doc) error {
		return fn(d, r.id.Name)
	})
	b.metrics.observe(op, err)
	return err
}

// TextInsert inserts s at pos, counted in Unicode scalar values.
func (b *Bridge) TextInsert(h Handle, pos int, s string) error {
	return b.withContainer(h, core.KindText, "insert", func(d core.Doc, name string) error {
		if !utf8.ValidString(s) {
			return fmt.Errorf("%w: text is not valid UTF-8", core.ErrEngine)
		}
		return d.Text(name).Insert(pos, s)
	})
}

// TextDelete removes n scalar values starting at start.
func (b *Bridge) TextDelete(h Handle, start, n int) error {
	return b.withContainer(h, core.KindText, "delete", func(d core.Doc, name string) error {
		return d.Text(name).Delete(start, n)
	})
}

// TextString returns the full content of the text container.
func (b *Bridge) TextString(h Handle) (string, error) {
	var out string
	err := b.withContainer(h, core.KindText, "to_string", func(d core.Doc, name string) error {
		out = d.Text(name).String()
		return nil
	})
	return out, err
}

// TextLen returns the length in Unicode scalar values.
func (b *Bridge) TextLen(h Handle) (int, error) {
	var n int
	err := b.withContainer(h, core.KindText, "len", func(d core.Doc, name string) error {
		n = d.Text(name).Len()
		return nil
	})
	return n, err
}

// ListInsert inserts v at pos.
func (b *Bridge) ListInsert(h Handle, pos int, v any) error {
	return b.withContainer(h, core.KindList, "insert", func(d core.Doc, name string) error {
		return d.List(name).Insert(pos, v)
	})
}

// ListInsertJSON decodes raw and inserts the value at pos.
func (b *Bridge) ListInsertJSON(h Handle, pos int, raw string) error {
	return b.withContainer(h, core.KindList, "insert", func(d core.Doc, name string) error {
		v, err := decodeValue(raw)
		if err != nil {
			return err
		}
		return d.List(name).Insert(pos, v)
	})
}

// ListDelete removes n items starting at start.
func (b *Bridge) ListDelete(h Handle, start, n int) error {
	return b.withContainer(h, core.KindList, "delete", func(d core.Doc, name string) error {
		return d.List(name).Delete(start, n)
	})
}

// ListGet returns the item at index as JSON. ok is false when the index is
// out of range or the value cannot be serialized.
func (b *Bridge) ListGet(h Handle, index int) (out string, ok bool, err error) {
	err = b.withContainer(h, core.KindList, "get", func(d core.Doc, name string) error {
		if v, found := d.List(name).Get(index); found {
			out, ok = encodeValue(v)
		}
		return nil
	})
	return out, ok, err
}

// ListLen returns the number of items.
func (b *Bridge) ListLen(h Handle) (int, error) {
	var n int
	err := b.withContainer(h, core.KindList, "len", func(d core.Doc, name string) error {
		n = d.List(name).Len()
		return nil
	})
	return n, err
}

// MapInsert sets key to v, replacing any previous value.
func (b *Bridge) MapInsert(h Handle, key string, v any) error {
	return b.withContainer(h, core.KindMap, "insert", func(d core.Doc, name string) error {
		return d.Map(name).Insert(key, v)
	})
}

// MapInsertJSON decodes raw and sets key to the value.
func (b *Bridge) MapInsertJSON(h Handle, key, raw string) error {
	return b.withContainer(h, core.KindMap, "insert", func(d core.Doc, name string) error {
		v, err := decodeValue(raw)
		if err != nil {
			return err
		}
		return d.Map(name).Insert(key, v)
	})
}

// MapDelete removes key. It fails when the key is absent.
func (b *Bridge) MapDelete(h Handle, key string) error {
	return b.withContainer(h, core.KindMap, "delete", func(d core.Doc, name string) error {
		return d.Map(name).Delete(key)
	})
}

// MapGet returns the value under key as JSON.
func (b *Bridge) MapGet(h Handle, key string) (out string, ok bool, err error) {
	err = b.withContainer(h, core.KindMap, "get", func(d core.Doc, name string) error {
		if v, found := d.Map(name).Get(key); found {
			out, ok = encodeValue(v)
		}
		return nil
	})
	return out, ok, err
}

// MapKeys returns every key. Order is unspecified.
func (b *Bridge) MapKeys(h Handle) ([]string, error) {
	var keys []string
	err := b.withContainer(h, core.KindMap, "keys", func(d core.Doc, name string) error {
		keys = d.Map(name).Keys()
		return nil
	})
	return keys, err
}

// MapLen returns the number of keys.
func (b *Bridge) MapLen(h Handle) (int, error) {
	var n int
	err := b.withContainer(h, core.KindMap, "len", func(d core.Doc, name string) error {
		n = d.Map(name).Len()
		return nil
	})
	return n, err
}
