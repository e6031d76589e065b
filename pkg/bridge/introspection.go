package bridge

import (
	"fmt"

	"github.com/aretw0/introspection"
)

// State is a point-in-time view of the bridge.
type State struct {
	Documents  int64  `json:"documents"`
	Containers int64  `json:"containers"`
	Handles    int    `json:"handles"`
	Engine     string `json:"engine"`
}

// State implements introspection.Introspectable.
func (b *Bridge) State() any {
	return State{
		Documents:  b.docs.Load(),
		Containers: b.containers.Load(),
		Handles:    b.table.Len(),
		Engine:     fmt.Sprintf("%T", b.engine),
	}
}

// ComponentType implements introspection.Component.
func (b *Bridge) ComponentType() string {
	return "bridge"
}

var _ introspection.Introspectable = (*Bridge)(nil)
var _ introspection.Component = (*Bridge)(nil)
