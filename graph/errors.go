package graph

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateName = errors.New("graph: duplicate pass name")
	ErrUnknownPort   = errors.New("graph: unknown port")
	ErrMalformedPort = errors.New("graph: malformed port reference")
	ErrNilPass       = errors.New("graph: nil pass instance")
)

// DuplicateNameError is returned by AddPass when a pass with the same name
// is already registered.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("graph: pass %q is already registered", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

// UnknownPortError is returned when an edge or output marker references a
// pass that has not been registered.
type UnknownPortError struct {
	Ref  string
	Pass string
}

func (e *UnknownPortError) Error() string {
	return fmt.Sprintf("graph: %q references unknown pass %q", e.Ref, e.Pass)
}

func (e *UnknownPortError) Is(target error) bool { return target == ErrUnknownPort }

// MalformedPortError is returned for references that cannot be split into a
// pass name and an optional port name.
type MalformedPortError struct {
	Ref    string
	Reason string
}

func (e *MalformedPortError) Error() string {
	return fmt.Sprintf("graph: malformed reference %q: %s", e.Ref, e.Reason)
}

func (e *MalformedPortError) Is(target error) bool { return target == ErrMalformedPort }
