//go:build cgo

package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/aretw0/docbridge/pkg/core"
)

// cAllocator hands out C heap memory so buffers may outlive the call that
// returned them. Live pointers are tracked so double and foreign frees are
// ignored instead of corrupting the heap.
type cAllocator struct {
	mu   sync.Mutex
	live map[uintptr]int
}

func newCAllocator() *cAllocator {
	return &cAllocator{live: make(map[uintptr]int)}
}

func (a *cAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", core.ErrAllocation, n)
	}
	size := max(n, 1)
	p := C.malloc(C.size_t(size))
	if p == nil {
		return nil, fmt.Errorf("%w: malloc(%d)", core.ErrAllocation, size)
	}

	a.mu.Lock()
	a.live[uintptr(p)] = size
	a.mu.Unlock()
	return unsafe.Slice((*byte)(p), size)[:n], nil
}

func (a *cAllocator) Free(b []byte) bool {
	if cap(b) == 0 {
		return false
	}
	p := unsafe.Pointer(&b[:1][0])

	a.mu.Lock()
	_, ok := a.live[uintptr(p)]
	delete(a.live, uintptr(p))
	a.mu.Unlock()

	if ok {
		C.free(p)
	}
	return ok
}

func (a *cAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}
