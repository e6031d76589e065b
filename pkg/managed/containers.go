package managed

import (
	"runtime"
)

// Text is a reference to a shared text container.
type Text struct {
	rt *Runtime
	l  *lease
}

// Release drops this reference.
func (t *Text) Release() { t.l.release() }

// Insert inserts s at pos, counted in Unicode scalar values.
func (t *Text) Insert(pos int, s string) error {
	h, err := t.l.handle()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(t)
	return wrap(t.rt.bridge.TextInsert(h, pos, s))
}

// Delete removes n scalar values starting at pos.
func (t *Text) Delete(pos, n int) error {
	h, err := t.l.handle()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(t)
	return wrap(t.rt.bridge.TextDelete(h, pos, n))
}

// String returns the content. A released reference reads as empty.
func (t *Text) String() string {
	h, err := t.l.handle()
	if err != nil {
		return ""
	}
	defer runtime.KeepAlive(t)
	s, _ := t.rt.bridge.TextString(h)
	return s
}

// Len returns the length in Unicode scalar values.
func (t *Text) Len() int {
	h, err := t.l.handle()
	if err != nil {
		return 0
	}
	defer runtime.KeepAlive(t)
	n, _ := t.rt.bridge.TextLen(h)
	return n
}

// IsEmpty reports whether the text has no content.
func (t *Text) IsEmpty() bool { return t.Len() == 0 }

// List is a reference to a shared list container.
type List struct {
	rt *Runtime
	l  *lease
}

// Release drops this reference.
func (l *List) Release() { l.l.release() }

// Insert inserts a JSON-compatible value at pos.
func (l *List) Insert(pos int, v any) error {
	h, err := l.l.handle()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(l)
	return wrap(l.rt.bridge.ListInsert(h, pos, v))
}

// InsertString inserts a string value at pos.
func (l *List) InsertString(pos int, s string) error {
	return l.Insert(pos, s)
}

// Delete removes n items starting at pos.
func (l *List) Delete(pos, n int) error {
	h, err := l.l.handle()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(l)
	return wrap(l.rt.bridge.ListDelete(h, pos, n))
}

// GetJSON returns the item at index as JSON.
func (l *List) GetJSON(index int) (string, bool) {
	h, err := l.l.handle()
	if err != nil {
		return "", false
	}
	defer runtime.KeepAlive(l)
	out, ok, err := l.rt.bridge.ListGet(h, index)
	return out, ok && err == nil
}

// Len returns the number of items.
func (l *List) Len() int {
	h, err := l.l.handle()
	if err != nil {
		return 0
	}
	defer runtime.KeepAlive(l)
	n, _ := l.rt.bridge.ListLen(h)
	return n
}

// IsEmpty reports whether the list has no items.
func (l *List) IsEmpty() bool { return l.Len() == 0 }

// Map is a reference to a shared map container.
type Map struct {
	rt *Runtime
	l  *lease
}

// Release drops this reference.
func (m *Map) Release() { m.l.release() }

// Insert sets key to a JSON-compatible value.
func (m *Map) Insert(key string, v any) error {
	h, err := m.l.handle()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(m)
	return wrap(m.rt.bridge.MapInsert(h, key, v))
}

// InsertString sets key to a string value.
func (m *Map) InsertString(key, value string) error {
	return m.Insert(key, value)
}

// Delete removes key. It fails when the key is absent.
func (m *Map) Delete(key string) error {
	h, err := m.l.handle()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(m)
	return wrap(m.rt.bridge.MapDelete(h, key))
}

// GetJSON returns the value under key as JSON.
func (m *Map) GetJSON(key string) (string, bool) {
	h, err := m.l.handle()
	if err != nil {
		return "", false
	}
	defer runtime.KeepAlive(m)
	out, ok, err := m.rt.bridge.MapGet(h, key)
	return out, ok && err == nil
}

// Keys returns every key. Order is unspecified.
func (m *Map) Keys() []string {
	h, err := m.l.handle()
	if err != nil {
		return nil
	}
	defer runtime.KeepAlive(m)
	keys, _ := m.rt.bridge.MapKeys(h)
	return keys
}

// Len returns the number of keys.
func (m *Map) Len() int {
	h, err := m.l.handle()
	if err != nil {
		return 0
	}
	defer runtime.KeepAlive(m)
	n, _ := m.rt.bridge.MapLen(h)
	return n
}

// IsEmpty reports whether the map has no keys.
func (m *Map) IsEmpty() bool { return m.Len() == 0 }
