package cloud

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpError(t *testing.T) {
	cause := errors.New("path/not_found/..")
	err := newOpError("ls", "/tests", ErrNotFound, cause)

	assert.Equal(t, "ls /tests: not found: path/not_found/..", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrRemoteIO)

	wrapped := fmt.Errorf("listing failed: %w", err)
	assert.True(t, IsNotFound(wrapped))

	var opErr *OpError
	assert.True(t, errors.As(wrapped, &opErr))
	assert.Equal(t, "ls", opErr.Op)
}

func TestOpErrorRootAndNilCause(t *testing.T) {
	err := newOpError("upload", "", ErrInvalidPath, nil)

	assert.Equal(t, "upload /: invalid path", err.Error())
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "ok", ErrorKind(nil))
	assert.Equal(t, "authentication", ErrorKind(newOpError("ls", "", ErrAuthentication, nil)))
	assert.Equal(t, "not_found", ErrorKind(newOpError("ls", "", ErrNotFound, nil)))
	assert.Equal(t, "invalid_path", ErrorKind(newOpError("ls", "", ErrInvalidPath, nil)))
	assert.Equal(t, "remote_io", ErrorKind(newOpError("ls", "", ErrRemoteIO, nil)))
	assert.Equal(t, "local_io", ErrorKind(errors.New("disk full")))
}
