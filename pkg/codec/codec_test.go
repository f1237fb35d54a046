package codec

import (
	"testing"

	"github.com/jinzhongjia/nvimrpc/pkg/message"
	"github.com/jinzhongjia/nvimrpc/pkg/value"
)

func TestEncodeRequestScenario(t *testing.T) {
	b := EncodeRequest(1, "nvim_get_mode", value.Array())

	want := []byte{0x94, 0x00, 0x01}
	if len(b) < 3 {
		t.Fatalf("encoded request too short: % x", b)
	}
	for i, w := range want {
		if b[i] != w {
			t.Fatalf("byte %d: got %#x, want %#x (full: % x)", i, b[i], w, b)
		}
	}

	msg, consumed, needMore, err := Decode(b)
	if needMore || err != nil {
		t.Fatalf("decode failed: needMore=%v err=%v", needMore, err)
	}
	if consumed != len(b) {
		t.Fatalf("consumed %d, want %d", consumed, len(b))
	}
	req, ok := msg.(message.Request)
	if !ok {
		t.Fatalf("expected Request, got %T", msg)
	}
	if req.ID != 1 || req.Method != "nvim_get_mode" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestDecodeInvalidMessageType(t *testing.T) {
	b := []byte{0x94, 0xcc, 0xFF, 0x00, 0xa0, 0x90}
	_, _, needMore, err := Decode(b)
	if needMore {
		t.Fatal("expected terminal error, got NeedMore")
	}
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != InvalidMessageType {
		t.Fatalf("expected InvalidMessageType, got %v", err)
	}
}

func TestDecodeInvalidFieldType(t *testing.T) {
	b := []byte{0x94, 0x00, 0xff, 0xa0, 0x90}
	_, _, needMore, err := Decode(b)
	if needMore {
		t.Fatal("expected terminal error, got NeedMore")
	}
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != InvalidFieldType {
		t.Fatalf("expected InvalidFieldType, got %v", err)
	}
}

func TestDecodeNestedDepth100(t *testing.T) {
	var b []byte
	for i := 0; i < 100; i++ {
		b = append(b, 0x91)
	}
	b = append(b, 0x00)

	// Not itself a valid 3/4-length RPC envelope, but decodeValue (the
	// internal building block) must still handle it without crashing or
	// looping forever.
	r := newReader(b)
	v, needMore, err := decodeValue(r)
	if needMore || err != nil {
		t.Fatalf("decodeValue failed: needMore=%v err=%v", needMore, err)
	}
	depth := 0
	cur := v
	for cur.Kind() == value.KindArray {
		arr, _ := cur.ExpectArray()
		if len(arr) != 1 {
			t.Fatalf("unexpected shape at depth %d", depth)
		}
		cur = arr[0]
		depth++
	}
	if depth != 100 {
		t.Fatalf("expected depth 100, got %d", depth)
	}
}

func TestStreamingNeedMoreAtEverySplit(t *testing.T) {
	full := EncodeRequest(42, "nvim_command", value.Array(value.Str("echo 1")))

	for k := 0; k < len(full); k++ {
		prefix := full[:k]
		_, _, needMore, err := Decode(prefix)
		if err != nil {
			// A prefix may itself be a structurally complete-but-wrong
			// envelope only once k == len(full); for any k < len(full) a
			// hard error (rather than NeedMore) is a bug.
			t.Fatalf("split %d/%d: unexpected error %v (expected NeedMore)", k, len(full), err)
		}
		if !needMore {
			t.Fatalf("split %d/%d: expected NeedMore", k, len(full))
		}
	}

	msg, consumed, needMore, err := Decode(full)
	if needMore || err != nil {
		t.Fatalf("full buffer failed to decode: needMore=%v err=%v", needMore, err)
	}
	if consumed != len(full) {
		t.Fatalf("consumed %d, want %d", consumed, len(full))
	}
	if _, ok := msg.(message.Request); !ok {
		t.Fatalf("expected Request, got %T", msg)
	}
}

func TestDecodeCoalescedMessages(t *testing.T) {
	a := EncodeNotification("nvim_buf_lines_event", value.Array())
	b := EncodeRequest(7, "nvim_get_mode", value.Array())

	buf := append(append([]byte{}, a...), b...)

	msg1, n1, needMore, err := Decode(buf)
	if needMore || err != nil {
		t.Fatalf("first decode failed: %v %v", needMore, err)
	}
	if _, ok := msg1.(message.Notification); !ok {
		t.Fatalf("expected Notification first, got %T", msg1)
	}

	msg2, n2, needMore, err := Decode(buf[n1:])
	if needMore || err != nil {
		t.Fatalf("second decode failed: %v %v", needMore, err)
	}
	if _, ok := msg2.(message.Request); !ok {
		t.Fatalf("expected Request second, got %T", msg2)
	}
	if n1+n2 != len(buf) {
		t.Fatalf("consumed %d+%d != %d", n1, n2, len(buf))
	}
}

func TestRoundTripResponseWithErrorAndResult(t *testing.T) {
	b := EncodeResponse(9, value.Str("Invalid arguments"), value.Int(42))
	msg, _, needMore, err := Decode(b)
	if needMore || err != nil {
		t.Fatalf("decode failed: %v %v", needMore, err)
	}
	resp, ok := msg.(message.Response)
	if !ok {
		t.Fatalf("expected Response, got %T", msg)
	}
	if resp.Error.IsNil() || resp.Result.IsNil() {
		t.Fatalf("expected both error and result to survive the round trip: %+v", resp)
	}
}

func TestRoundTripExtensionType(t *testing.T) {
	params := value.Array(value.MakeExt(0, []byte{0x01, 0x02, 0x03}))
	b := EncodeNotification("nvim_buf_changed", params)

	msg, _, needMore, err := Decode(b)
	if needMore || err != nil {
		t.Fatalf("decode failed: %v %v", needMore, err)
	}
	n, ok := msg.(message.Notification)
	if !ok {
		t.Fatalf("expected Notification, got %T", msg)
	}
	arr, _ := n.Params.ExpectArray()
	ext, err := arr[0].ExpectExt()
	if err != nil {
		t.Fatalf("expected ext value: %v", err)
	}
	if ext.Type != 0 || string(ext.Data) != "\x01\x02\x03" {
		t.Fatalf("unexpected ext: %+v", ext)
	}
}

func TestRoundTripTimestamp(t *testing.T) {
	params := value.Array(value.MakeTimestamp(1700000000, 123456789))
	b := EncodeNotification("x", params)

	msg, _, needMore, err := Decode(b)
	if needMore || err != nil {
		t.Fatalf("decode failed: %v %v", needMore, err)
	}
	n := msg.(message.Notification)
	arr, _ := n.Params.ExpectArray()
	ts, err := arr[0].ExpectTimestamp()
	if err != nil {
		t.Fatalf("expected timestamp: %v", err)
	}
	if ts.Seconds != 1700000000 || ts.Nanoseconds != 123456789 {
		t.Fatalf("unexpected timestamp: %+v", ts)
	}
}

func TestFuzzRandomBytesNeverCrash(t *testing.T) {
	seed := uint64(1)
	next := func() byte {
		seed = seed*6364136223846793005 + 1442695040888963407
		return byte(seed >> 56)
	}

	for i := 0; i < 10000; i++ {
		n := int(next()) % 200
		buf := make([]byte, n)
		for j := range buf {
			buf[j] = next()
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Decode panicked on input % x: %v", buf, r)
				}
			}()
			Decode(buf)
		}()
	}
}
