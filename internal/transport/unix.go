package transport

import (
	"io"
	"net"
	"sync"

	log "github.com/jinzhongjia/nvimrpc/pkg/minilog"
)

// UnixSocket connects to a filesystem Unix domain socket.
type UnixSocket struct {
	path string

	mu   sync.Mutex
	conn net.Conn
}

// NewUnixSocket constructs a transport bound to path. Connect's argument
// is ignored if path is non-empty.
func NewUnixSocket(path string) *UnixSocket {
	return &UnixSocket{path: path}
}

func (u *UnixSocket) Connect(endpoint string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	path := u.path
	if path == "" {
		path = endpoint
	}

	log.Debug("unix connect: %v", path)
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	u.conn = conn
	u.path = path
	return nil
}

func (u *UnixSocket) Disconnect() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.conn == nil {
		return nil
	}
	err := u.conn.Close()
	u.conn = nil
	return err
}

func (u *UnixSocket) Read(buf []byte) (int, error) {
	u.mu.Lock()
	conn := u.conn
	u.mu.Unlock()

	if conn == nil {
		return 0, ErrConnectionClosed
	}

	n, err := conn.Read(buf)
	if err == io.EOF {
		return n, ErrConnectionClosed
	}
	return n, err
}

func (u *UnixSocket) Write(data []byte) error {
	u.mu.Lock()
	conn := u.conn
	u.mu.Unlock()

	if conn == nil {
		return ErrConnectionClosed
	}

	_, err := conn.Write(data)
	if err != nil {
		return classifyWriteErr(err)
	}
	return nil
}

func (u *UnixSocket) IsConnected() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.conn != nil
}
