// Package rpc implements a synchronous MessagePack-RPC client that
// allocates message ids, serializes requests, and reads from its
// transport until the matching reply arrives.
package rpc

import (
	"sync"
	"sync/atomic"

	"github.com/jinzhongjia/nvimrpc/internal/transport"
	"github.com/jinzhongjia/nvimrpc/pkg/codec"
	"github.com/jinzhongjia/nvimrpc/pkg/message"
	log "github.com/jinzhongjia/nvimrpc/pkg/minilog"
	"github.com/jinzhongjia/nvimrpc/pkg/value"
)

const readChunkSize = 4096

// maxNotificationBacklog bounds the ring DrainNotifications reads from,
// mirroring pkg/minilog.Ring's fixed-size retention policy.
const maxNotificationBacklog = 256

// Client owns a transport, a growable receive buffer, an atomic id
// counter, and a single mutex guarding the full write+read-until-
// matching-response critical section, so concurrent callers serialize
// cleanly around one connection instead of racing on its buffer.
type Client struct {
	opts      Options
	transport transport.Transport

	nextID atomic.Uint32

	mu        sync.Mutex
	recvBuf   []byte
	connected bool

	notifications *notificationRing
}

// New validates opts and constructs the selected transport, without
// performing any I/O.
func New(opts Options) (*Client, error) {
	resolved, err := opts.resolve()
	if err != nil {
		return nil, err
	}

	var tr transport.Transport
	switch {
	case resolved.SocketPath != "":
		tr = transport.NewUnixSocket(resolved.SocketPath)
	case resolved.TcpAddress != "":
		tr = transport.NewTcpSocket(resolved.TcpAddress, resolved.TcpPort)
	case resolved.UseStdio:
		tr = transport.NewStdio(nil, nil)
	case resolved.SpawnProcess:
		args := append([]string{}, transport.EmbedArgs...)
		tr = transport.NewChildProcess(resolved.NvimPath, resolved.childShutdownTimeout(), args...)
	}

	return &Client{
		opts:          resolved,
		transport:     tr,
		notifications: newNotificationRing(maxNotificationBacklog),
	}, nil
}

// newWithTransport builds a Client around an already-constructed
// transport, bypassing Options resolution. Used by tests to inject
// transporttest.Mock.
func newWithTransport(tr transport.Transport) *Client {
	return &Client{transport: tr, notifications: newNotificationRing(maxNotificationBacklog)}
}

// Connect dials the configured transport. Refuses if already connected.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return ErrAlreadyConnected
	}

	if err := c.transport.Connect(""); err != nil {
		return newIoError(err)
	}

	c.connected = true
	c.recvBuf = c.recvBuf[:0]
	return nil
}

// Disconnect is idempotent and safe from any state.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false
	return newIoError(c.transport.Disconnect())
}

// IsConnected returns the cached connection flag.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// NextMessageID atomically returns-and-increments the id counter. It
// wraps at math.MaxUint32 without failing; callers must accept wraparound.
func (c *Client) NextMessageID() uint32 {
	return c.nextID.Add(1) - 1
}

// DrainNotifications returns and clears Notifications buffered while a
// Request was in flight. Calling this is optional: Request never
// requires a caller to drain the ring to make progress.
func (c *Client) DrainNotifications() []message.Notification {
	return c.notifications.drain()
}

// Request sends method(params) and blocks until the matching Response
// arrives, returning its result on success.
func (c *Client) Request(method string, params value.Value) (value.Value, error) {
	// Allocated before the mutex: id allocation and mutex acquisition
	// are independent, so two concurrent callers may send their requests
	// out of id order. Correctness only requires that ids be unique, not
	// that they reach the wire in order.
	id := c.NextMessageID()
	req := codec.EncodeRequest(id, method, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return value.Nil(), ErrNotConnected
	}

	log.Debug("rpc request: id=%v method=%v", id, method)

	if err := c.writeLocked(req); err != nil {
		return value.Nil(), err
	}

	return c.awaitResponseLocked(id)
}

// Notify sends a fire-and-forget Notification and returns immediately.
func (c *Client) Notify(method string, params value.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return ErrNotConnected
	}

	log.Debug("rpc notify: method=%v", method)

	return c.writeLocked(codec.EncodeNotification(method, params))
}

func (c *Client) writeLocked(b []byte) error {
	if err := c.transport.Write(b); err != nil {
		return c.classifyIOErrLocked(err)
	}
	return nil
}

// awaitResponseLocked decodes what is already buffered, dispatches it,
// and reads more off the transport only when the decoder reports
// NeedMore.
func (c *Client) awaitResponseLocked(wantID uint32) (value.Value, error) {
	staging := make([]byte, readChunkSize)

	for {
		msg, consumed, needMore, err := codec.Decode(c.recvBuf)
		if err != nil {
			c.recvBuf = nil
			return value.Nil(), err
		}

		if !needMore {
			c.recvBuf = c.recvBuf[consumed:]

			result, done, rerr := c.dispatchLocked(msg, wantID)
			if done {
				return result, rerr
			}
			continue
		}

		n, rerr := c.transport.Read(staging)
		if n > 0 {
			c.recvBuf = append(c.recvBuf, staging[:n]...)
		}
		if rerr != nil {
			return value.Nil(), c.classifyIOErrLocked(rerr)
		}
		if n == 0 {
			c.connected = false
			return value.Nil(), ErrConnectionClosed
		}
	}
}

// dispatchLocked interprets one decoded message against the id the
// caller is waiting on. done is true once the caller's answer (result,
// rerr) is ready; otherwise the receive loop continues.
func (c *Client) dispatchLocked(msg message.Message, wantID uint32) (value.Value, bool, error) {
	switch m := msg.(type) {
	case message.Response:
		if m.ID != wantID {
			return value.Nil(), true, ErrUnexpectedMessage
		}
		if !m.Error.IsNil() {
			return value.Nil(), true, &NvimError{Payload: m.Error}
		}
		return m.Result, true, nil
	case message.Notification:
		log.Debug("rpc: buffering unsolicited notification: %v", m.Method)
		c.notifications.push(m)
		return value.Nil(), false, nil
	case message.Request:
		log.Debug("rpc: dropping unsolicited request: %v", m.Method)
		return value.Nil(), false, nil
	default:
		return value.Nil(), true, ErrUnexpectedMessage
	}
}

func (c *Client) classifyIOErrLocked(err error) error {
	switch err {
	case transport.ErrConnectionClosed:
		c.connected = false
		return ErrConnectionClosed
	case transport.ErrBrokenPipe:
		return ErrBrokenPipe
	default:
		return newIoError(err)
	}
}
