package engine

import (
	"unicode/utf8"

	"github.com/aretw0/docbridge/pkg/core"
)

// ID identifies one element or operation.
type ID struct {
	_       struct{} `cbor:",toarray"`
	Peer    uint64
	Counter uint64
}

func newID(peer, counter uint64) ID {
	return ID{Peer: peer, Counter: counter}
}

type action uint8

const (
	actInsert action = iota + 1
	actDelete
	actSet
	actRemove
)

// Op is a single replicated operation. It consumes span() consecutive
// counters and Lamport timestamps starting at Counter and Lamport.
type Op struct {
	_         struct{} `cbor:",toarray"`
	Counter   uint64
	Lamport   uint64
	Kind      core.ContainerKind
	Name      string
	Action    action
	Origin    *ID
	Text      string
	Values    []any
	Targets   []ID
	Key       string
	Value     any
}

func (o Op) span() uint64 {
	if o.Action != actInsert {
		return 1
	}
	if o.Kind == core.KindText {
		return uint64(utf8.RuneCountInString(o.Text))
	}
	return uint64(len(o.Values))
}

func (o Op) container() core.ContainerID {
	return core.ContainerID{Kind: o.Kind, Name: o.Name}
}

// Change is a run of operations authored by one peer and committed together.
type Change struct {
	_    struct{} `cbor:",toarray"`
	Peer uint64
	Ops  []Op
}

// remoteOp is an operation waiting for its dependencies.
type remoteOp struct {
	peer uint64
	op   Op
}
