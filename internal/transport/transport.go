// Package transport implements the four byte-carrier backends a Client
// can speak MessagePack-RPC over: a Unix domain socket, a TCP socket, the
// process's own standard I/O, and a spawned child process. Each satisfies
// the Transport interface so pkg/rpc can treat them uniformly.
package transport

import "errors"

// ErrConnectionClosed is returned by Read when the peer closed the
// connection in an orderly way (an EOF), and by either Read or Write once
// a transport has observed that closure and refuses further I/O.
var ErrConnectionClosed = errors.New("transport: connection closed")

// ErrBrokenPipe is the write-side analogue of ErrConnectionClosed for
// transports whose underlying kernel object distinguishes the two; callers
// may treat it identically to ErrConnectionClosed.
var ErrBrokenPipe = errors.New("transport: broken pipe")

// Transport is the capability interface shared by all four backends:
// connect, disconnect, read, write, and a liveness check. endpoint's
// meaning is transport-specific: UnixSocket uses it as the socket path
// when it was constructed without one; the other backends ignore it.
type Transport interface {
	Connect(endpoint string) error
	Disconnect() error
	Read(buf []byte) (int, error)
	Write(data []byte) error
	IsConnected() bool
}
