package managed

import (
	"errors"

	"github.com/aretw0/docbridge/pkg/core"
)

// Error carries the engine's description of a failure. The structured
// kind is deliberately not exposed to managed callers.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// errReleased is reported for calls on a wrapper whose reference was dropped.
var errReleased = errors.New("handle already released")

// wrap converts a core error into the managed form. Allocation failures are
// fatal: reporting them as ordinary errors would hide a broken process.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if core.Classify(err) == core.KindAllocation {
		panic("managed: " + err.Error())
	}
	return &Error{Message: err.Error()}
}
