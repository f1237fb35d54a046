package rpc

import (
	"errors"
	"fmt"

	"github.com/jinzhongjia/nvimrpc/pkg/value"
)

// A uniform error taxonomy: sentinel errors for the no-payload kinds, a
// carrying type for NvimError, and transparent wrapping of the
// codec/transport layers' own errors.
var (
	ErrUnsupportedTransport = errors.New("rpc: no transport option selected")
	ErrAlreadyConnected     = errors.New("rpc: already connected")
	ErrNotConnected         = errors.New("rpc: not connected")
	ErrConnectionClosed     = errors.New("rpc: connection closed")
	ErrBrokenPipe           = errors.New("rpc: broken pipe")
	ErrUnexpectedMessage    = errors.New("rpc: unexpected message")
)

// NvimError carries a non-nil Response.error payload back to the caller.
// When a Response carries both a non-nil error and a non-nil result, the
// error always wins.
type NvimError struct {
	Payload value.Value
}

func (e *NvimError) Error() string {
	return fmt.Sprintf("rpc: nvim error: %v", describeValue(e.Payload))
}

func describeValue(v value.Value) string {
	switch v.Kind() {
	case value.KindStr:
		s, _ := v.ExpectStr()
		return s
	default:
		return v.Kind().String()
	}
}

// IoError wraps an underlying transport error not otherwise classified.
type IoError struct {
	cause error
}

func (e *IoError) Error() string { return fmt.Sprintf("rpc: io: %v", e.cause) }
func (e *IoError) Unwrap() error { return e.cause }

func newIoError(cause error) error {
	if cause == nil {
		return nil
	}
	return &IoError{cause: cause}
}
