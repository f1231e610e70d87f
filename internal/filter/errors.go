package filter

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds, matched with errors.Is.
var (
	// ErrLoad means the input could not be opened or decoded.
	ErrLoad = errors.New("load failed")
	// ErrBackend means a raster operation failed. The raster is left as the
	// backend left it.
	ErrBackend = errors.New("backend operation failed")
	// ErrWrite means persisting the result failed.
	ErrWrite = errors.New("write failed")
	// ErrReleased means the pipeline was used after Release.
	ErrReleased = errors.New("pipeline has been released")
	// ErrInvalidArgument means a size, quality or format was out of range.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error records which operation failed, the kind of failure and its cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("filter: %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("filter: %s: %v: %v", e.Op, e.Kind, e.Err)
}

// Is matches the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func invalidArgument(op, format string, args ...interface{}) error {
	return newError(op, ErrInvalidArgument, errors.Errorf(format, args...))
}
