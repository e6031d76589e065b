package managed

import (
	"sync"
	"sync/atomic"

	"github.com/aretw0/docbridge/pkg/bridge"
)

// ref is the reference-counted core of one bridge handle. When the count
// reaches zero the handle is destroyed exactly once.
type ref struct {
	h       bridge.Handle
	count   atomic.Int64
	destroy func(*ref)
}

func newRef(h bridge.Handle, destroy func(*ref)) *ref {
	r := &ref{h: h, destroy: destroy}
	r.count.Store(1)
	return r
}

// retain adds a reference. It fails once the count has reached zero.
func (r *ref) retain() bool {
	for {
		n := r.count.Load()
		if n <= 0 {
			return false
		}
		if r.count.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// drop removes a reference and destroys the handle on the last one.
func (r *ref) drop() {
	for {
		n := r.count.Load()
		if n <= 0 {
			return
		}
		if r.count.CompareAndSwap(n, n-1) {
			if n == 1 {
				r.destroy(r)
			}
			return
		}
	}
}

// lease is one wrapper's claim on a ref. Releasing it is idempotent, so an
// explicit Release and the GC cleanup never drop the same claim twice.
type lease struct {
	r    *ref
	done atomic.Bool
	// parent is the document lease a container keeps alive.
	parent *lease
}

func (l *lease) handle() (bridge.Handle, error) {
	if l == nil || l.done.Load() {
		return 0, &Error{Message: errReleased.Error()}
	}
	return l.r.h, nil
}

func (l *lease) release() {
	if l == nil || !l.done.CompareAndSwap(false, true) {
		return
	}
	l.r.drop()
	l.parent.release()
}

// registry tracks container refs so wrappers for the same container share
// one bridge handle.
type registry struct {
	mu   sync.Mutex
	refs map[bridge.Handle]*ref
}
