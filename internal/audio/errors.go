package audio

import (
	"errors"
	"fmt"
)

// ErrNoDevices is returned when a selection is needed but no endpoint is active
var ErrNoDevices = errors.New("no audio devices found")

// ErrUnsupportedPlatform is returned by the backend on operating systems without
// an endpoint policy interface
var ErrUnsupportedPlatform = errors.New("default device control is not supported on this platform")

// EnumerationError reports a failed OS enumeration call
type EnumerationError struct {
	Op  string
	Err error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// BindError reports that the endpoint policy object could not be created.
// It reflects the OS build and is never retried.
type BindError struct {
	Err error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to create policy config: %v", e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// CommitError reports the role whose default could not be set.
// Roles earlier in the commit order are left committed.
type CommitError struct {
	Role Role
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("failed to set %s default: %v", e.Role, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
