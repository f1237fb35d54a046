package rpc

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/jinzhongjia/nvimrpc/internal/transporttest"
	"github.com/jinzhongjia/nvimrpc/pkg/codec"
	"github.com/jinzhongjia/nvimrpc/pkg/value"
)

func TestNewRejectsNoTransport(t *testing.T) {
	_, err := New(Options{})
	if !errors.Is(err, ErrUnsupportedTransport) {
		t.Fatalf("expected ErrUnsupportedTransport, got %v", err)
	}
}

func TestConnectTwiceIsAlreadyConnected(t *testing.T) {
	c, err := New(Options{SpawnProcess: true, NvimPath: "nvim"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mock := transporttest.NewMock()
	c.transport = mock

	if err := c.Connect(); err != nil {
		t.Fatalf("first connect: %v", err)
	}
	if err := c.Connect(); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("expected ErrAlreadyConnected, got %v", err)
	}
}

func TestRequestReturnsNvimError(t *testing.T) {
	mock := transporttest.NewMock()
	c := newWithTransport(mock)
	c.Connect()

	mock.Feed(codec.EncodeResponse(0, value.Str("Invalid arguments"), value.Nil()))

	_, err := c.Request("x", value.Array())
	var nerr *NvimError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *NvimError, got %v", err)
	}
	if !c.IsConnected() {
		t.Fatal("expected connected to remain true after an NvimError")
	}
}

func TestRequestOnConnectionCloseSetsDisconnected(t *testing.T) {
	mock := transporttest.NewMock()
	c := newWithTransport(mock)
	c.Connect()
	mock.FeedEOF()

	_, err := c.Request("x", value.Array())
	if !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
	if c.IsConnected() {
		t.Fatal("expected IsConnected false after ConnectionClosed")
	}
}

func TestRequestNotConnected(t *testing.T) {
	mock := transporttest.NewMock()
	c := newWithTransport(mock)

	_, err := c.Request("x", value.Array())
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestRequestMismatchedIDIsUnexpectedMessage(t *testing.T) {
	mock := transporttest.NewMock()
	c := newWithTransport(mock)
	c.Connect()

	// the client's first request gets id 0; feed a response for id 99
	mock.Feed(codec.EncodeResponse(99, value.Nil(), value.Int(1)))

	_, err := c.Request("x", value.Array())
	if !errors.Is(err, ErrUnexpectedMessage) {
		t.Fatalf("expected ErrUnexpectedMessage, got %v", err)
	}
}

func TestRequestBuffersUnsolicitedNotifications(t *testing.T) {
	mock := transporttest.NewMock()
	c := newWithTransport(mock)
	c.Connect()

	mock.Feed(codec.EncodeNotification("redraw", value.Array()))
	mock.Feed(codec.EncodeResponse(0, value.Nil(), value.Str("ok")))

	result, err := c.Request("x", value.Array())
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	s, _ := result.ExpectStr()
	if s != "ok" {
		t.Fatalf("unexpected result: %v", s)
	}

	notifs := c.DrainNotifications()
	if len(notifs) != 1 || notifs[0].Method != "redraw" {
		t.Fatalf("expected one buffered 'redraw' notification, got %+v", notifs)
	}

	// draining clears the ring
	if notifs2 := c.DrainNotifications(); len(notifs2) != 0 {
		t.Fatalf("expected drain to be empty after previous drain, got %+v", notifs2)
	}
}

func TestNotifyWritesWithoutReading(t *testing.T) {
	mock := transporttest.NewMock()
	c := newWithTransport(mock)
	c.Connect()

	if err := c.Notify("nvim_command", value.Array(value.Str("echo 1"))); err != nil {
		t.Fatalf("notify: %v", err)
	}

	want := codec.EncodeNotification("nvim_command", value.Array(value.Str("echo 1")))
	if string(mock.Written()) != string(want) {
		t.Fatalf("unexpected bytes written: % x, want % x", mock.Written(), want)
	}
}

func TestNextMessageIDUniqueUnderConcurrency(t *testing.T) {
	c := newWithTransport(transporttest.NewMock())

	const goroutines = 32
	const perGoroutine = 10000

	ids := make([][]uint32, goroutines)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			local := make([]uint32, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				local[i] = c.NextMessageID()
			}
			ids[g] = local
		}(g)
	}
	wg.Wait()

	all := make([]uint32, 0, goroutines*perGoroutine)
	for _, l := range ids {
		all = append(all, l...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	if len(all) != goroutines*perGoroutine {
		t.Fatalf("expected %d ids, got %d", goroutines*perGoroutine, len(all))
	}
	for i, id := range all {
		if id != uint32(i) {
			t.Fatalf("expected sorted ids to be [0..N), mismatch at index %d: %d", i, id)
		}
	}
}
