package transport

import (
	"errors"
	"syscall"
)

// classifyWriteErr maps a raw write error from the kernel into
// ErrBrokenPipe when the kernel distinguishes a broken pipe from a more
// general connection failure, and otherwise returns it unchanged so callers
// further up see the original error itself.
func classifyWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.EPIPE) {
		return ErrBrokenPipe
	}
	return err
}
