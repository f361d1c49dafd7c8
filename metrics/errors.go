package metrics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue is returned when a recording is rejected.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidState is returned for timer misuse (stop before start, ...).
	ErrInvalidState = errors.New("invalid state")
	// ErrUnknownExtra is returned for an extra key the event does not allow.
	ErrUnknownExtra = errors.New("unknown extra key")
	// ErrExtraType is returned for an extra value of the wrong kind.
	ErrExtraType = errors.New("extra type mismatch")
	// ErrFieldType is returned when a record field is given a value of the wrong type.
	ErrFieldType = errors.New("field type mismatch")
)

// UnsupportedKindError is returned when a metric of an unimplemented kind is used.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("the metric type %q is not supported", e.Kind)
}
