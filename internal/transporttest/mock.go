// Package transporttest provides an in-memory transport.Transport double
// used by pkg/rpc's tests to script inbound bytes (a canned Response, a
// simulated EOF) without a real socket or subprocess.
package transporttest

import (
	"bytes"
	"sync"

	"github.com/jinzhongjia/nvimrpc/internal/transport"
)

// Mock is a Transport whose inbound bytes are pre-seeded by the test and
// whose outbound bytes (everything written by the client under test) are
// captured for inspection.
type Mock struct {
	mu        sync.Mutex
	connected bool
	inbound   bytes.Buffer
	outbound  bytes.Buffer
	eof       bool
}

// NewMock returns a Mock that is not yet connected.
func NewMock() *Mock {
	return &Mock{}
}

// Feed appends bytes the next Read calls will return.
func (m *Mock) Feed(b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbound.Write(b)
}

// FeedEOF arranges for the next Read, once the fed bytes are exhausted,
// to report transport.ErrConnectionClosed.
func (m *Mock) FeedEOF() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eof = true
}

// Written returns everything written to the mock so far.
func (m *Mock) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.outbound.Bytes()...)
}

func (m *Mock) Connect(_ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = true
	return nil
}

func (m *Mock) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *Mock) Read(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return 0, transport.ErrConnectionClosed
	}
	if m.inbound.Len() == 0 {
		if m.eof {
			return 0, transport.ErrConnectionClosed
		}
		return 0, nil
	}
	return m.inbound.Read(buf)
}

func (m *Mock) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return transport.ErrConnectionClosed
	}
	m.outbound.Write(data)
	return nil
}

var _ transport.Transport = (*Mock)(nil)
