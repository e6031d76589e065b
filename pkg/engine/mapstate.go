package engine

import "sort"

type entry struct {
	lamport uint64
	peer    uint64
	value   any
	deleted bool
}

type mapState struct {
	entries map[string]entry
}

func newMapState() *mapState {
	return &mapState{entries: make(map[string]entry)}
}

// apply records a write unless a later one is already known.
func (m *mapState) apply(peer, lamport uint64, key string, value any, deleted bool) {
	if cur, ok := m.entries[key]; ok {
		if cur.lamport > lamport || (cur.lamport == lamport && cur.peer >= peer) {
			return
		}
	}
	m.entries[key] = entry{lamport: lamport, peer: peer, value: value, deleted: deleted}
}

func (m *mapState) get(key string) (any, bool) {
	e, ok := m.entries[key]
	if !ok || e.deleted {
		return nil, false
	}
	return e.value, true
}

func (m *mapState) keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k, e := range m.entries {
		if !e.deleted {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (m *mapState) value() map[string]any {
	out := make(map[string]any, len(m.entries))
	for k, e := range m.entries {
		if !e.deleted {
			out[k] = e.value
		}
	}
	return out
}
