package cloud

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a Manager matches exactly one of
// them with errors.Is, except failures writing the local side of a download.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrNotFound       = errors.New("not found")
	ErrInvalidPath    = errors.New("invalid path")
	ErrRemoteIO       = errors.New("remote i/o error")
)

// Make sure *OpError satisfies error interface.
var _ error = (*OpError)(nil)

// OpError records the operation and path that failed, the kind of failure
// and the underlying backend error.
type OpError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func newOpError(op, path string, kind, err error) *OpError {
	return &OpError{
		Op:   op,
		Path: path,
		Kind: kind,
		Err:  err,
	}
}

func (e *OpError) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, path, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the backend error.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsNotFound checks whether err means the remote path does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ErrorKind returns a short label for the kind of err, suitable for metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, ErrRemoteIO):
		return "remote_io"
	default:
		return "local_io"
	}
}
