package codec

import "encoding/binary"

// reader is a cursor over an undecoded MessagePack buffer. Every read
// primitive checks availability before consuming bytes, so a partially
// read value never corrupts the cursor in a way the caller needs to
// unwind: on NeedMore the whole Decode call is abandoned and retried
// against a larger buffer from byte 0.
type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) peek() (byte, bool) {
	if r.remaining() < 1 {
		return 0, false
	}
	return r.buf[r.pos], true
}

func (r *reader) takeByte() (byte, bool) {
	if r.remaining() < 1 {
		return 0, false
	}
	b := r.buf[r.pos]
	r.pos++
	return b, true
}

func (r *reader) takeN(n int) ([]byte, bool) {
	if n < 0 || r.remaining() < n {
		return nil, false
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, true
}

func (r *reader) takeUint16() (uint16, bool) {
	b, ok := r.takeN(2)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint16(b), true
}

func (r *reader) takeUint32() (uint32, bool) {
	b, ok := r.takeN(4)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint32(b), true
}

func (r *reader) takeUint64() (uint64, bool) {
	b, ok := r.takeN(8)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint64(b), true
}
