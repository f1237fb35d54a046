package codec

import (
	"errors"
	"math"

	"github.com/jinzhongjia/nvimrpc/pkg/value"
)

// errNonStringKey is a terminal, internal error: a wire map used a
// non-string key, which pkg/value's map representation cannot hold.
// Decode translates it to InvalidFieldType.
var errNonStringKey = errors.New("codec: map key is not a string")

// errMalformed is a terminal, internal error for a format byte or
// length/value combination that is not valid MessagePack at all (as
// opposed to merely truncated). Decode translates it to
// InvalidMessageFormat.
var errMalformed = errors.New("codec: malformed MessagePack value")

// decodeValue decodes one MessagePack value starting at r's cursor.
// It returns (value, false, nil) on success, (zero, true, nil) when the
// buffer is a strict prefix of a valid value (NeedMore), or (zero,
// false, err) when the bytes present are not a valid MessagePack value.
func decodeValue(r *reader) (value.Value, bool, error) {
	b, ok := r.peek()
	if !ok {
		return value.Value{}, true, nil
	}

	switch {
	case b == fmtNilCode:
		r.takeByte()
		return value.Nil(), false, nil
	case b == fmtFalse:
		r.takeByte()
		return value.Bool(false), false, nil
	case b == fmtTrue:
		r.takeByte()
		return value.Bool(true), false, nil
	case b == fmtBin8:
		return decodeBin(r, 1)
	case b == fmtBin16:
		return decodeBin(r, 2)
	case b == fmtBin32:
		return decodeBin(r, 4)
	case b == fmtExt8:
		return decodeExt(r, 1)
	case b == fmtExt16:
		return decodeExt(r, 2)
	case b == fmtExt32:
		return decodeExt(r, 4)
	case b == fmtFloat32:
		return decodeFloat32(r)
	case b == fmtFloat64:
		return decodeFloat64(r)
	case b == fmtUint8:
		return decodeUint(r, 1)
	case b == fmtUint16:
		return decodeUint(r, 2)
	case b == fmtUint32:
		return decodeUint(r, 4)
	case b == fmtUint64:
		return decodeUint(r, 8)
	case b == fmtInt8:
		return decodeInt(r, 1)
	case b == fmtInt16:
		return decodeInt(r, 2)
	case b == fmtInt32:
		return decodeInt(r, 4)
	case b == fmtInt64:
		return decodeInt(r, 8)
	case b == fmtFixExt1:
		return decodeFixExt(r, 1)
	case b == fmtFixExt2:
		return decodeFixExt(r, 2)
	case b == fmtFixExt4:
		return decodeFixExt(r, 4)
	case b == fmtFixExt8:
		return decodeFixExt(r, 8)
	case b == fmtFixExt16:
		return decodeFixExt(r, 16)
	case b == fmtStr8:
		return decodeStr(r, 1)
	case b == fmtStr16:
		return decodeStr(r, 2)
	case b == fmtStr32:
		return decodeStr(r, 4)
	case b == fmtArray16:
		return decodeArray(r, 2)
	case b == fmtArray32:
		return decodeArray(r, 4)
	case b == fmtMap16:
		return decodeMap(r, 2)
	case b == fmtMap32:
		return decodeMap(r, 4)
	case b >= fixMapMin && b <= fixMapMax:
		r.takeByte()
		return decodeMapBody(r, int(b&0x0f))
	case b >= fixArrayMin && b <= fixArrayMax:
		r.takeByte()
		return decodeArrayBody(r, int(b&0x0f))
	case b >= fixStrMin && b <= fixStrMax:
		r.takeByte()
		return decodeStrBody(r, int(b&0x1f))
	case b <= fixIntPosMax:
		r.takeByte()
		return value.Int(int64(b)), false, nil
	case b >= fixIntNegMin:
		r.takeByte()
		return value.Int(int64(int8(b))), false, nil
	default:
		return value.Value{}, false, errMalformed
	}
}

// lenHeader reads a big-endian length field of the given width (1, 2 or
// 4 bytes), assuming the format byte itself has already been consumed.
func lenHeader(r *reader, width int) (uint32, bool) {
	switch width {
	case 1:
		b, ok := r.takeByte()
		return uint32(b), ok
	case 2:
		u, ok := r.takeUint16()
		return uint32(u), ok
	case 4:
		return r.takeUint32()
	}
	return 0, false
}

func decodeBin(r *reader, width int) (value.Value, bool, error) {
	r.takeByte() // format byte, already peeked present
	n, ok := lenHeader(r, width)
	if !ok {
		return value.Value{}, true, nil
	}
	data, ok := r.takeN(int(n))
	if !ok {
		return value.Value{}, true, nil
	}
	return value.Bin(data), false, nil
}

func decodeStr(r *reader, width int) (value.Value, bool, error) {
	r.takeByte()
	n, ok := lenHeader(r, width)
	if !ok {
		return value.Value{}, true, nil
	}
	return decodeStrBody(r, int(n))
}

func decodeStrBody(r *reader, n int) (value.Value, bool, error) {
	data, ok := r.takeN(n)
	if !ok {
		return value.Value{}, true, nil
	}
	return value.Str(string(data)), false, nil
}

func decodeFloat32(r *reader) (value.Value, bool, error) {
	r.takeByte()
	u, ok := r.takeUint32()
	if !ok {
		return value.Value{}, true, nil
	}
	return value.Float(float64(math.Float32frombits(u))), false, nil
}

func decodeFloat64(r *reader) (value.Value, bool, error) {
	r.takeByte()
	u, ok := r.takeUint64()
	if !ok {
		return value.Value{}, true, nil
	}
	return value.Float(math.Float64frombits(u)), false, nil
}

func decodeUint(r *reader, width int) (value.Value, bool, error) {
	r.takeByte()
	switch width {
	case 1:
		b, ok := r.takeByte()
		if !ok {
			return value.Value{}, true, nil
		}
		return value.Uint(uint64(b)), false, nil
	case 2:
		u, ok := r.takeUint16()
		if !ok {
			return value.Value{}, true, nil
		}
		return value.Uint(uint64(u)), false, nil
	case 4:
		u, ok := r.takeUint32()
		if !ok {
			return value.Value{}, true, nil
		}
		return value.Uint(uint64(u)), false, nil
	default:
		u, ok := r.takeUint64()
		if !ok {
			return value.Value{}, true, nil
		}
		return value.Uint(u), false, nil
	}
}

func decodeInt(r *reader, width int) (value.Value, bool, error) {
	r.takeByte()
	switch width {
	case 1:
		b, ok := r.takeByte()
		if !ok {
			return value.Value{}, true, nil
		}
		return value.Int(int64(int8(b))), false, nil
	case 2:
		u, ok := r.takeUint16()
		if !ok {
			return value.Value{}, true, nil
		}
		return value.Int(int64(int16(u))), false, nil
	case 4:
		u, ok := r.takeUint32()
		if !ok {
			return value.Value{}, true, nil
		}
		return value.Int(int64(int32(u))), false, nil
	default:
		u, ok := r.takeUint64()
		if !ok {
			return value.Value{}, true, nil
		}
		return value.Int(int64(u)), false, nil
	}
}

func decodeArray(r *reader, width int) (value.Value, bool, error) {
	r.takeByte()
	n, ok := lenHeader(r, width)
	if !ok {
		return value.Value{}, true, nil
	}
	return decodeArrayBody(r, int(n))
}

func decodeArrayBody(r *reader, n int) (value.Value, bool, error) {
	capHint := n
	if capHint > r.remaining() {
		capHint = r.remaining()
	}
	if capHint < 0 {
		capHint = 0
	}
	elems := make([]value.Value, 0, capHint)
	for i := 0; i < n; i++ {
		v, needMore, err := decodeValue(r)
		if needMore {
			return value.Value{}, true, nil
		}
		if err != nil {
			return value.Value{}, false, err
		}
		elems = append(elems, v)
	}
	return value.ArrayOf(elems), false, nil
}

func decodeMap(r *reader, width int) (value.Value, bool, error) {
	r.takeByte()
	n, ok := lenHeader(r, width)
	if !ok {
		return value.Value{}, true, nil
	}
	return decodeMapBody(r, int(n))
}

func decodeMapBody(r *reader, n int) (value.Value, bool, error) {
	capHint := n
	if max := r.remaining() / 2; capHint > max {
		capHint = max
	}
	if capHint < 0 {
		capHint = 0
	}
	m := make(map[string]value.Value, capHint)
	for i := 0; i < n; i++ {
		k, needMore, err := decodeValue(r)
		if needMore {
			return value.Value{}, true, nil
		}
		if err != nil {
			return value.Value{}, false, err
		}
		key, err := k.ExpectStr()
		if err != nil {
			return value.Value{}, false, errNonStringKey
		}
		v, needMore, err := decodeValue(r)
		if needMore {
			return value.Value{}, true, nil
		}
		if err != nil {
			return value.Value{}, false, err
		}
		m[key] = v
	}
	return value.Map(m), false, nil
}

func decodeFixExt(r *reader, n int) (value.Value, bool, error) {
	r.takeByte()
	return decodeExtBody(r, n)
}

func decodeExt(r *reader, width int) (value.Value, bool, error) {
	r.takeByte()
	n, ok := lenHeader(r, width)
	if !ok {
		return value.Value{}, true, nil
	}
	return decodeExtBody(r, int(n))
}

func decodeExtBody(r *reader, n int) (value.Value, bool, error) {
	typByte, ok := r.takeByte()
	if !ok {
		return value.Value{}, true, nil
	}
	typ := int8(typByte)
	data, ok := r.takeN(n)
	if !ok {
		return value.Value{}, true, nil
	}

	if typ == extTimestamp {
		ts, err := decodeTimestamp(data)
		if err != nil {
			return value.Value{}, false, err
		}
		return ts, false, nil
	}

	return value.MakeExt(typ, data), false, nil
}

// decodeTimestamp interprets the three MessagePack timestamp extension
// payload widths: 4 bytes (seconds only), 8 bytes (30-bit nanoseconds
// packed with 34-bit seconds) and 12 bytes (32-bit nanoseconds plus
// 64-bit signed seconds).
func decodeTimestamp(data []byte) (value.Value, error) {
	switch len(data) {
	case 4:
		sec := uint32FromBytes(data)
		return value.MakeTimestamp(int64(sec), 0), nil
	case 8:
		packed := uint64FromBytes(data)
		nsec := uint32(packed >> 34)
		sec := int64(packed & 0x3ffffffff)
		return value.MakeTimestamp(sec, nsec), nil
	case 12:
		nsec := uint32FromBytes(data[0:4])
		sec := int64(uint64FromBytes(data[4:12]))
		return value.MakeTimestamp(sec, nsec), nil
	default:
		return value.Value{}, errMalformed
	}
}

func uint32FromBytes(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func uint64FromBytes(b []byte) uint64 {
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	return u
}
