package capi

import (
	"fmt"
	"sync"

	"github.com/aretw0/docbridge/pkg/core"
)

// Allocator provides the memory handed to callers. Alloc must return a
// slice of length n whose capacity is at least 1, so even empty results are
// non-null. Free receives a slice returned by Alloc (possibly re-sliced to
// a shorter length) and reports whether it recognized the allocation.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte) bool
}

// GoAllocator allocates from the Go heap and tracks every live buffer so
// leaks, double frees and foreign frees are observable.
type GoAllocator struct {
	mu    sync.Mutex
	live  map[*byte]int
	total int
	limit int
}

// NewGoAllocator returns a tracking allocator. A positive limit caps the
// number of bytes that may be live at once; allocations beyond it fail.
func NewGoAllocator(limit int) *GoAllocator {
	return &GoAllocator{live: make(map[*byte]int), limit: limit}
}

// Alloc implements Allocator.
func (a *GoAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", core.ErrAllocation, n)
	}
	size := max(n, 1)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.limit > 0 && a.total+size > a.limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit %d", core.ErrAllocation, a.total+size, a.limit)
	}
	buf := make([]byte, size)
	a.live[&buf[0]] = size
	a.total += size
	return buf[:n], nil
}

// Free implements Allocator.
func (a *GoAllocator) Free(b []byte) bool {
	if cap(b) == 0 {
		return false
	}
	p := &b[:1][0]

	a.mu.Lock()
	defer a.mu.Unlock()
	size, ok := a.live[p]
	if !ok {
		return false
	}
	delete(a.live, p)
	a.total -= size
	return true
}

// Live returns the number of buffers not yet freed.
func (a *GoAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

var _ Allocator = (*GoAllocator)(nil)
