package transport

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestUnixSocketRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sock := filepath.Join(dir, "test.sock")

	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	tr := NewUnixSocket(sock)
	if tr.IsConnected() {
		t.Fatal("expected not connected before Connect")
	}
	if err := tr.Connect(""); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !tr.IsConnected() {
		t.Fatal("expected connected after Connect")
	}

	server := <-accepted
	defer server.Close()

	if err := tr.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf := make([]byte, 16)
	n, err := server.Read(buf)
	if err != nil || string(buf[:n]) != "hello" {
		t.Fatalf("server read: %q err=%v", buf[:n], err)
	}

	if _, err := server.Write([]byte("world")); err != nil {
		t.Fatalf("server write: %v", err)
	}
	n, err = tr.Read(buf)
	if err != nil || string(buf[:n]) != "world" {
		t.Fatalf("client read: %q err=%v", buf[:n], err)
	}

	if err := tr.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if tr.IsConnected() {
		t.Fatal("expected not connected after Disconnect")
	}
	// idempotent
	if err := tr.Disconnect(); err != nil {
		t.Fatalf("second disconnect: %v", err)
	}

	if _, err := tr.Read(buf); err != ErrConnectionClosed {
		t.Fatalf("read after disconnect: %v", err)
	}
	if err := tr.Write([]byte("x")); err != ErrConnectionClosed {
		t.Fatalf("write after disconnect: %v", err)
	}
}

func TestTcpSocketRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	addr := ln.Addr().(*net.TCPAddr)

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	tr := NewTcpSocket("127.0.0.1", uint16(addr.Port))
	if err := tr.Connect(""); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer tr.Disconnect()

	server := <-accepted
	defer server.Close()

	if err := tr.Write([]byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf := make([]byte, 16)
	n, err := server.Read(buf)
	if err != nil || string(buf[:n]) != "ping" {
		t.Fatalf("server read: %q err=%v", buf[:n], err)
	}
}

func TestUnixSocketReadReturnsConnectionClosedOnEOF(t *testing.T) {
	dir := t.TempDir()
	sock := filepath.Join(dir, "test.sock")

	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	tr := NewUnixSocket(sock)
	if err := tr.Connect(""); err != nil {
		t.Fatalf("connect: %v", err)
	}

	server := <-accepted
	server.Close() // orderly close from the peer

	buf := make([]byte, 16)
	if _, err := tr.Read(buf); err != ErrConnectionClosed {
		t.Fatalf("expected ErrConnectionClosed on peer EOF, got %v", err)
	}
}

func TestChildProcessRoundTripWithCat(t *testing.T) {
	if _, err := os.Stat("/bin/cat"); err != nil {
		t.Skip("no /bin/cat available")
	}

	cp := NewChildProcess("/bin/cat", 2*time.Second)
	if err := cp.Connect(""); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !cp.IsConnected() {
		t.Fatal("expected connected")
	}

	if err := cp.Write([]byte("echo me\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, 32)
	n, err := cp.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf[:n]) != "echo me\n" {
		t.Fatalf("unexpected echo: %q", buf[:n])
	}

	if err := cp.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if cp.IsConnected() {
		t.Fatal("expected not connected after disconnect")
	}
	// idempotent
	if err := cp.Disconnect(); err != nil {
		t.Fatalf("second disconnect: %v", err)
	}
}

func TestChildProcessShutdownTimeoutForcesKill(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh available")
	}

	// A script that ignores stdin closing and never exits on its own,
	// forcing Shutdown's timeout-then-kill path.
	cp := NewChildProcess("/bin/sh", 200*time.Millisecond, "-c", "trap '' HUP; while true; do sleep 1; done")
	if err := cp.Connect(""); err != nil {
		t.Fatalf("connect: %v", err)
	}

	start := time.Now()
	if err := cp.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("disconnect took too long: %v", elapsed)
	}
}
