// Package codec implements a streaming MessagePack-RPC encoder and
// decoder: the wire encoding of Request, Response and Notification
// messages, tolerant of reads that split a message across multiple
// buffers or coalesce several messages into one.
//
// The low-level MessagePack framing (format bytes, length headers,
// the timestamp and generic extension families) is implemented directly
// against encoding/binary rather than a third-party MessagePack package:
// no decoder in the examined ecosystem exposes both (a) the exact
// bytes-consumed-on-success / NeedMore-on-truncation contract this
// package's callers depend on, and (b) generic decoding of arbitrary,
// unregistered extension type tags, which Neovim uses for buffer/window/
// tabpage handles. See DESIGN.md.
package codec

import (
	"errors"

	"github.com/jinzhongjia/nvimrpc/pkg/message"
	"github.com/jinzhongjia/nvimrpc/pkg/value"
)

// Decode attempts to decode exactly one MessagePack-RPC message from the
// front of buf.
//
//   - If buf is a strict prefix of a valid encoded message, Decode
//     returns (nil, 0, true, nil): the caller should read more bytes from
//     the transport, append them to buf, and retry.
//   - If buf's prefix is a complete, valid message, Decode returns the
//     message, the number of bytes it occupied (the caller removes that
//     many bytes from the front of its buffer), false, and a nil error.
//   - Otherwise Decode returns a *DecodeError classifying the failure.
func Decode(buf []byte) (message.Message, int, bool, error) {
	r := newReader(buf)

	n, needMore, err := readEnvelopeLen(r)
	if needMore || err != nil {
		return nil, 0, needMore, err
	}

	elems := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		v, needMore, err := decodeValue(r)
		if needMore {
			return nil, 0, true, nil
		}
		if err != nil {
			return nil, 0, false, classify(err)
		}
		elems = append(elems, v)
	}

	typ, err := elems[0].ExpectI64()
	if err != nil || typ < 0 || typ > 2 {
		return nil, 0, false, newDecodeError(InvalidMessageType, err)
	}

	if (typ == 2 && n != 3) || (typ != 2 && n != 4) {
		return nil, 0, false, newDecodeError(InvalidMessageFormat, nil)
	}

	var msg message.Message
	switch typ {
	case 0:
		req, err := message.NewRequest(elems[1], elems[2], elems[3])
		if err != nil {
			return nil, 0, false, newDecodeError(InvalidFieldType, err)
		}
		msg = req
	case 1:
		resp, err := message.NewResponse(elems[1], elems[2], elems[3])
		if err != nil {
			return nil, 0, false, newDecodeError(InvalidFieldType, err)
		}
		msg = resp
	default: // 2
		notif, err := message.NewNotification(elems[1], elems[2])
		if err != nil {
			return nil, 0, false, newDecodeError(InvalidFieldType, err)
		}
		msg = notif
	}

	return msg, r.pos, false, nil
}

// readEnvelopeLen reads and validates the outer array header: it must be
// a fixarray/array16/array32 of length 3 or 4.
func readEnvelopeLen(r *reader) (int, bool, error) {
	b, ok := r.peek()
	if !ok {
		return 0, true, nil
	}

	var n uint32
	switch {
	case b >= fixArrayMin && b <= fixArrayMax:
		r.takeByte()
		n = uint32(b & 0x0f)
	case b == fmtArray16:
		r.takeByte()
		v, ok := r.takeUint16()
		if !ok {
			return 0, true, nil
		}
		n = uint32(v)
	case b == fmtArray32:
		r.takeByte()
		v, ok := r.takeUint32()
		if !ok {
			return 0, true, nil
		}
		n = v
	default:
		return 0, false, newDecodeError(InvalidMessageFormat, nil)
	}

	if n != 3 && n != 4 {
		return 0, false, newDecodeError(InvalidMessageFormat, nil)
	}
	return int(n), false, nil
}

// classify maps the codec package's internal terminal-error sentinels to
// the public DecodeError taxonomy.
func classify(err error) error {
	if errors.Is(err, errNonStringKey) {
		return newDecodeError(InvalidFieldType, err)
	}
	return newDecodeError(InvalidMessageFormat, err)
}
