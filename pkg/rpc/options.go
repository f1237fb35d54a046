package rpc

import "time"

// Options configures a Client's transport and behavior. It is a plain
// struct validated by New rather than a builder/functional-options API.
type Options struct {
	// SocketPath, if non-empty, selects UnixSocket.
	SocketPath string

	// TcpAddress + TcpPort, if TcpAddress is non-empty, selects TcpSocket.
	TcpAddress string
	TcpPort    uint16

	// UseStdio selects Stdio.
	UseStdio bool

	// SpawnProcess selects ChildProcess.
	SpawnProcess bool
	// NvimPath is the executable spawned when SpawnProcess is set.
	// Defaults to "nvim".
	NvimPath string
	// ShutdownTimeout bounds ChildProcess's graceful-shutdown wait. The
	// zero value means "use the default" (5s) rather than "wait forever"
	// — Go's zero value can't distinguish "unset" from an explicit 0, so
	// an explicit "wait forever" is requested with the WaitForever
	// sentinel instead.
	ShutdownTimeout time.Duration

	// SkipAPIInfo is accepted and stored but never triggers an RPC call
	// from this module: editor capability probing is left to a caller
	// layering a higher-level façade over this client, which can carry
	// the flag without needing a second config type.
	SkipAPIInfo bool
}

const defaultShutdownTimeout = 5 * time.Second

// WaitForever requests an unbounded ChildProcess shutdown wait, distinct
// from the struct's zero value which means "apply the default" (see
// ShutdownTimeout's doc comment).
const WaitForever time.Duration = -1

// childShutdownTimeout converts a resolved ShutdownTimeout into the
// sentinel the transport package uses for "wait forever" (0).
func (o Options) childShutdownTimeout() time.Duration {
	if o.ShutdownTimeout == WaitForever {
		return 0
	}
	return o.ShutdownTimeout
}

// resolve fills in defaults and validates that exactly one transport
// selector is set, returning ErrUnsupportedTransport otherwise.
func (o Options) resolve() (Options, error) {
	if o.NvimPath == "" {
		o.NvimPath = "nvim"
	}
	if o.ShutdownTimeout == 0 {
		o.ShutdownTimeout = defaultShutdownTimeout
	}

	selected := 0
	if o.SocketPath != "" {
		selected++
	}
	if o.TcpAddress != "" {
		selected++
	}
	if o.UseStdio {
		selected++
	}
	if o.SpawnProcess {
		selected++
	}

	if selected != 1 {
		return o, ErrUnsupportedTransport
	}
	return o, nil
}
