package capi

import (
	"errors"
	"fmt"

	"github.com/aretw0/docbridge/pkg/core"
)

// Status is the three-valued result of the manual surface.
type Status int32

const (
	StatusOK        Status = 0
	StatusError     Status = 1
	StatusNullInput Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusNullInput:
		return "null_input"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// StatusOf collapses err into a Status. Only a missing input stays
// distinguishable; every other failure is StatusError.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, core.ErrNullInput):
		return StatusNullInput
	default:
		return StatusError
	}
}
