package transport

import (
	"fmt"
	"io"
	"net"
	"sync"

	log "github.com/jinzhongjia/nvimrpc/pkg/minilog"
)

// TcpSocket connects to a MessagePack-RPC peer over TCP. It copies the
// host string at construction so later mutation of a caller's buffer
// can't retroactively change the dial target.
type TcpSocket struct {
	host string
	port uint16

	mu   sync.Mutex
	conn net.Conn
}

func NewTcpSocket(host string, port uint16) *TcpSocket {
	return &TcpSocket{host: string([]byte(host)), port: port}
}

func (t *TcpSocket) Connect(endpoint string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	addr := fmt.Sprintf("%s:%d", t.host, t.port)
	log.Debug("tcp connect: %v", addr)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	t.conn = conn
	return nil
}

func (t *TcpSocket) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

func (t *TcpSocket) Read(buf []byte) (int, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return 0, ErrConnectionClosed
	}

	n, err := conn.Read(buf)
	if err == io.EOF {
		return n, ErrConnectionClosed
	}
	return n, err
}

func (t *TcpSocket) Write(data []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return ErrConnectionClosed
	}

	_, err := conn.Write(data)
	if err != nil {
		return classifyWriteErr(err)
	}
	return nil
}

func (t *TcpSocket) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}
