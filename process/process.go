// Package process walks operating-system snapshots of running processes and their loaded modules.
package process

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrNoMoreEntries is returned by a Source step when the snapshot is exhausted.
	// It terminates iteration and is never surfaced to callers of the enumerators.
	ErrNoMoreEntries = errors.New("no more entries")

	// ErrRecordSize is returned by a Source when a record's Size field does not match its shape.
	ErrRecordSize = errors.New("record size mismatch")

	// ErrInvalidHandle is reported when a Source returns InvalidHandle without an error.
	ErrInvalidHandle = errors.New("invalid snapshot handle")

	// ErrUnknownHandle is returned by a Source for a handle it did not issue or already closed.
	ErrUnknownHandle = errors.New("unknown snapshot handle")

	// SkipAll may be returned by a ProcessFunc or ModuleFunc to stop the walk early.
	// The enumerator then returns nil.
	SkipAll = errors.New("skip remaining entries")
)

// OSError reports a failing snapshot primitive together with the platform error code.
type OSError struct {
	Op   string
	Code uint32
	Err  error
}

func newOSError(op string, err error) *OSError {
	e := &OSError{Op: op, Err: err}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Code = uint32(errno)
	}
	return e
}

func (e *OSError) Error() string {
	return fmt.Sprintf("%s failed (code %d): %v", e.Op, e.Code, e.Err)
}

func (e *OSError) Unwrap() error {
	return e.Err
}
