package transport

import (
	"io"
	"os"
	"sync"
)

// Stdio wraps the process's own standard input and output, for the case
// where this module's host program is itself launched embedded by
// another process (the mirror image of ChildProcess).
type Stdio struct {
	in  io.ReadCloser
	out io.WriteCloser

	mu        sync.Mutex
	connected bool
}

// NewStdio wraps in/out. Passing nil for either uses os.Stdin/os.Stdout.
func NewStdio(in io.ReadCloser, out io.WriteCloser) *Stdio {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Stdio{in: in, out: out}
}

func (s *Stdio) Connect(_ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return nil
}

func (s *Stdio) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}
	s.connected = false

	var err error
	if e := s.in.Close(); e != nil {
		err = e
	}
	if e := s.out.Close(); e != nil && err == nil {
		err = e
	}
	return err
}

func (s *Stdio) Read(buf []byte) (int, error) {
	s.mu.Lock()
	connected := s.connected
	s.mu.Unlock()

	if !connected {
		return 0, ErrConnectionClosed
	}

	n, err := s.in.Read(buf)
	if err == io.EOF {
		return n, ErrConnectionClosed
	}
	return n, err
}

func (s *Stdio) Write(data []byte) error {
	s.mu.Lock()
	connected := s.connected
	s.mu.Unlock()

	if !connected {
		return ErrConnectionClosed
	}

	_, err := s.out.Write(data)
	return classifyWriteErr(err)
}

func (s *Stdio) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
