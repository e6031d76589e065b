package core

import "errors"

// Failure taxonomy shared by every call surface. Adapters translate these
// into their own convention (status codes or textual errors).
var (
	// ErrNullInput is returned when a required handle, pointer or out-parameter is absent.
	ErrNullInput = errors.New("null input")

	// ErrNotFound is returned when a non-null handle is unknown or was already released.
	ErrNotFound = errors.New("handle not found")

	// ErrOutOfRange is returned when a position, length or index violates container bounds.
	ErrOutOfRange = errors.New("out of range")

	// ErrEngine is returned when the document engine rejected the call.
	ErrEngine = errors.New("engine error")

	// ErrAllocation is returned when a return buffer could not be allocated.
	ErrAllocation = errors.New("allocation failure")

	// ErrKindMismatch is returned when a container handle is used as another kind.
	ErrKindMismatch = errors.New("container kind mismatch")
)

// ErrorKind names the class of a failure.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindNullInput  ErrorKind = "null_input"
	KindNotFound   ErrorKind = "not_found"
	KindOutOfRange ErrorKind = "out_of_range"
	KindEngine     ErrorKind = "engine"
	KindAllocation ErrorKind = "allocation"
)

// Classify maps err onto the taxonomy. Unknown errors count as engine errors.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNullInput):
		return KindNullInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrOutOfRange):
		return KindOutOfRange
	case errors.Is(err, ErrAllocation):
		return KindAllocation
	default:
		return KindEngine
	}
}
