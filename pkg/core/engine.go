package core

// Engine creates documents. It is the collaborator that owns merge and
// ordering semantics; the boundary layer only serializes access to it.
type Engine interface {
	New() Doc
}

// EngineFunc adapts a plain constructor to the Engine interface.
type EngineFunc func() Doc

// New implements Engine.
func (f EngineFunc) New() Doc { return f() }

// Doc is a single collaborative replica. Implementations need not be safe
// for concurrent use: callers hold the document lock for every call,
// including calls on containers obtained from it.
type Doc interface {
	PeerID() PeerID
	SetPeerID(id PeerID) error

	Text(name string) Text
	List(name string) List
	Map(name string) Map

	// Commit flushes pending local edits into history. No-op when nothing is pending.
	Commit()
	Export(mode ExportMode) ([]byte, error)
	// Import merges foreign bytes. Re-importing identical bytes has no effect.
	Import(data []byte) error

	// DeepValue returns every container's value keyed by container name.
	DeepValue() map[string]any
}

// Text is an ordered sequence of Unicode scalar values.
type Text interface {
	Insert(pos int, s string) error
	Delete(start, n int) error
	String() string
	Len() int
}

// List is an ordered sequence of values.
type List interface {
	Insert(pos int, v any) error
	Delete(start, n int) error
	Get(index int) (any, bool)
	Len() int
}

// Map maps string keys to values, last write wins.
type Map interface {
	Insert(key string, v any) error
	Delete(key string) error
	Get(key string) (any, bool)
	Keys() []string
	Len() int
}
