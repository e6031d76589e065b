// Package handle maps opaque caller-visible identifiers to live objects.
//
// Identifiers come from a monotonic counter and are never reused, so a
// handle that was removed resolves to ErrNotFound instead of aliasing a
// newer object.
package handle

import (
	"fmt"
	"sync"

	"github.com/aretw0/docbridge/pkg/core"
)

// Handle is an opaque identifier. The zero value is the null handle.
type Handle uint64

// Null is the handle that never resolves.
const Null Handle = 0

// Table is a registry of live objects. It is safe for concurrent use.
type Table[T any] struct {
	mu      sync.RWMutex
	next    Handle
	entries map[Handle]T
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{entries: make(map[Handle]T)}
}

// Register stores obj and returns a fresh handle for it.
func (t *Table[T]) Register(obj T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	h := t.next
	t.entries[h] = obj
	return h
}

// Resolve returns the object behind h.
func (t *Table[T]) Resolve(h Handle) (T, error) {
	var zero T
	if h == Null {
		return zero, core.ErrNullInput
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	obj, ok := t.entries[h]
	if !ok {
		return zero, fmt.Errorf("%w: %d", core.ErrNotFound, h)
	}
	return obj, nil
}

// Remove drops h and returns the object it referred to. Unknown handles are
// ignored. A handle must not be used concurrently with or after its removal.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	var zero T
	if h == Null {
		return zero, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	obj, ok := t.entries[h]
	if !ok {
		return zero, false
	}
	delete(t.entries, h)
	return obj, true
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
