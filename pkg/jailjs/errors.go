package jailjs

import (
	"fmt"

	"github.com/badlogic/jailjs/internal/interp"
)

// ThrownError is a script `throw` (or an internal abstract-operation
// failure) that reached the top level uncaught. Value holds the thrown
// value already unwrapped via FromValue.
type ThrownError struct {
	Value any
}

func (e *ThrownError) Error() string {
	return fmt.Sprintf("uncaught exception: %v", e.Value)
}

// TimeoutExceededError reports that Eval's operation-count ceiling was
// exceeded. It is always returned as a distinct type from ThrownError
// precisely because it was never catchable by script in the first place.
type TimeoutExceededError struct {
	MaxOps int
}

func (e *TimeoutExceededError) Error() string {
	return fmt.Sprintf("execution timeout: maximum operations exceeded (%d)", e.MaxOps)
}

// translateError maps the internal/interp error vocabulary onto the public
// facade's, so embedders never need to import internal/interp themselves
// to discriminate on error kind.
func translateError(err error) error {
	switch e := err.(type) {
	case *interp.ThrownException:
		return &ThrownError{Value: FromValue(e.Value)}
	case *interp.TimeoutError:
		return &TimeoutExceededError{MaxOps: e.MaxOps}
	default:
		return err
	}
}
