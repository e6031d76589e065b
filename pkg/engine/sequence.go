package engine

import (
	"fmt"

	"github.com/aretw0/docbridge/pkg/core"
)

type elem[T any] struct {
	id      ID
	lamport uint64
	val     T
	deleted bool
}

// after reports whether e wins the position right of a shared origin over o.
func (e elem[T]) after(o elem[T]) bool {
	if e.lamport != o.lamport {
		return e.lamport > o.lamport
	}
	return e.id.Peer > o.id.Peer
}

// sequence is a replicated growable array.
type sequence[T any] struct {
	elems   []elem[T]
	visible int
}

func (s *sequence[T]) len() int { return s.visible }

// slot returns the internal index of the visible element at pos, or -1.
func (s *sequence[T]) slot(pos int) int {
	seen := 0
	for i := range s.elems {
		if s.elems[i].deleted {
			continue
		}
		if seen == pos {
			return i
		}
		seen++
	}
	return -1
}

func (s *sequence[T]) find(id ID) int {
	for i := range s.elems {
		if s.elems[i].id == id {
			return i
		}
	}
	return -1
}

func (s *sequence[T]) has(id ID) bool { return s.find(id) >= 0 }

// originFor returns the id of the visible element left of pos.
func (s *sequence[T]) originFor(pos int) (*ID, error) {
	if pos < 0 || pos > s.visible {
		return nil, fmt.Errorf("%w: position %d, length %d", core.ErrOutOfRange, pos, s.visible)
	}
	if pos == 0 {
		return nil, nil
	}
	id := s.elems[s.slot(pos-1)].id
	return &id, nil
}

// targets returns the ids of n visible elements starting at start.
func (s *sequence[T]) targets(start, n int) ([]ID, error) {
	if start < 0 || n < 0 || start > s.visible || n > s.visible-start {
		return nil, fmt.Errorf("%w: delete %d at %d, length %d", core.ErrOutOfRange, n, start, s.visible)
	}
	ids := make([]ID, 0, n)
	seen := 0
	for i := range s.elems {
		if len(ids) == n {
			break
		}
		if s.elems[i].deleted {
			continue
		}
		if seen >= start {
			ids = append(ids, s.elems[i].id)
		}
		seen++
	}
	return ids, nil
}

// integrate places e right of origin. It reports false when origin is unknown.
func (s *sequence[T]) integrate(e elem[T], origin *ID) bool {
	i := 0
	if origin != nil {
		o := s.find(*origin)
		if o < 0 {
			return false
		}
		i = o + 1
	}
	for i < len(s.elems) && s.elems[i].after(e) {
		i++
	}
	s.elems = append(s.elems, elem[T]{})
	copy(s.elems[i+1:], s.elems[i:])
	s.elems[i] = e
	s.visible++
	return true
}

// insertRun integrates vals as consecutive elements starting at first.
func (s *sequence[T]) insertRun(peer, counter, lamport uint64, origin *ID, vals []T) bool {
	if origin != nil && !s.has(*origin) {
		return false
	}
	for k, v := range vals {
		e := elem[T]{
			id:      newID(peer, counter+uint64(k)),
			lamport: lamport + uint64(k),
			val:     v,
		}
		s.integrate(e, origin)
		id := e.id
		origin = &id
	}
	return true
}

// ready reports whether every id is present.
func (s *sequence[T]) ready(ids []ID) bool {
	for _, id := range ids {
		if !s.has(id) {
			return false
		}
	}
	return true
}

func (s *sequence[T]) remove(ids []ID) {
	for _, id := range ids {
		i := s.find(id)
		if i < 0 || s.elems[i].deleted {
			continue
		}
		s.elems[i].deleted = true
		s.visible--
	}
}

func (s *sequence[T]) values() []T {
	out := make([]T, 0, s.visible)
	for _, e := range s.elems {
		if !e.deleted {
			out = append(out, e.val)
		}
	}
	return out
}

func (s *sequence[T]) get(index int) (T, bool) {
	var zero T
	if index < 0 || index >= s.visible {
		return zero, false
	}
	return s.elems[s.slot(index)].val, true
}
