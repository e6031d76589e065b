// Package core defines the domain types and the document engine contract
// shared by the call surfaces.
package core

import "fmt"

// PeerID distinguishes one collaborating replica from another.
type PeerID = uint64

const (
	// NoPeer is returned for null or unknown handles. It is never a valid assigned id.
	NoPeer PeerID = 0
)

// ContainerKind is the variant of a named container.
type ContainerKind uint8

const (
	KindText ContainerKind = iota + 1
	KindList
	KindMap
)

func (k ContainerKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ContainerID identifies a container within a document. A Text and a List
// may share a name without colliding.
type ContainerID struct {
	Kind ContainerKind
	Name string
}

func (c ContainerID) String() string {
	return c.Kind.String() + ":" + c.Name
}

// ExportMode selects the representation produced by Doc.Export.
type ExportMode uint8

const (
	// ModeUpdates exports the full causal history as a sequence of changes.
	ModeUpdates ExportMode = iota
	// ModeSnapshot exports the same history as a single compressed blob.
	ModeSnapshot
)

func (m ExportMode) String() string {
	if m == ModeSnapshot {
		return "snapshot"
	}
	return "updates"
}

// SyncEvent reports a synchronization performed on behalf of a document.
type SyncEvent struct {
	Source    string
	Bytes     int
	Err       error
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e SyncEvent) String() string {
	if e.Err != nil {
		return fmt.Sprintf("sync %s failed: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("sync %s (%d bytes)", e.Source, e.Bytes)
}
