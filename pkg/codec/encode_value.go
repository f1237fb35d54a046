package codec

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/jinzhongjia/nvimrpc/pkg/value"
)

func encodeValue(buf *bytes.Buffer, v value.Value) {
	switch v.Kind() {
	case value.KindNil:
		buf.WriteByte(fmtNilCode)
	case value.KindBool:
		b, _ := v.ExpectBool()
		if b {
			buf.WriteByte(fmtTrue)
		} else {
			buf.WriteByte(fmtFalse)
		}
	case value.KindInt:
		i, _ := v.ExpectI64()
		encodeInt(buf, i)
	case value.KindUint:
		u, _ := v.ExpectU64()
		encodeUint(buf, u)
	case value.KindFloat:
		f, _ := v.ExpectF64()
		encodeFloat(buf, f)
	case value.KindStr:
		s, _ := v.ExpectStr()
		encodeStr(buf, s)
	case value.KindBin:
		b, _ := v.ExpectBin()
		encodeBin(buf, b)
	case value.KindArray:
		arr, _ := v.ExpectArray()
		encodeArrayHeader(buf, len(arr))
		for _, e := range arr {
			encodeValue(buf, e)
		}
	case value.KindMap:
		m, _ := v.ExpectMap()
		encodeMapHeader(buf, len(m))
		for k, e := range m {
			encodeStr(buf, k)
			encodeValue(buf, e)
		}
	case value.KindExt:
		ext, _ := v.ExpectExt()
		encodeExt(buf, ext.Type, ext.Data)
	case value.KindTimestamp:
		ts, _ := v.ExpectTimestamp()
		encodeTimestamp(buf, ts)
	}
}

func encodeInt(buf *bytes.Buffer, i int64) {
	switch {
	case i >= 0 && i <= fixIntPosMax:
		buf.WriteByte(byte(i))
	case i < 0 && i >= -32:
		buf.WriteByte(byte(int8(i)))
	case i >= math.MinInt8 && i <= math.MaxInt8:
		buf.WriteByte(fmtInt8)
		buf.WriteByte(byte(int8(i)))
	case i >= math.MinInt16 && i <= math.MaxInt16:
		buf.WriteByte(fmtInt16)
		writeUint16(buf, uint16(int16(i)))
	case i >= math.MinInt32 && i <= math.MaxInt32:
		buf.WriteByte(fmtInt32)
		writeUint32(buf, uint32(int32(i)))
	default:
		buf.WriteByte(fmtInt64)
		writeUint64(buf, uint64(i))
	}
}

func encodeUint(buf *bytes.Buffer, u uint64) {
	switch {
	case u <= fixIntPosMax:
		buf.WriteByte(byte(u))
	case u <= math.MaxUint8:
		buf.WriteByte(fmtUint8)
		buf.WriteByte(byte(u))
	case u <= math.MaxUint16:
		buf.WriteByte(fmtUint16)
		writeUint16(buf, uint16(u))
	case u <= math.MaxUint32:
		buf.WriteByte(fmtUint32)
		writeUint32(buf, uint32(u))
	default:
		buf.WriteByte(fmtUint64)
		writeUint64(buf, u)
	}
}

func encodeFloat(buf *bytes.Buffer, f float64) {
	buf.WriteByte(fmtFloat64)
	writeUint64(buf, math.Float64bits(f))
}

func encodeStr(buf *bytes.Buffer, s string) {
	n := len(s)
	switch {
	case n <= 31:
		buf.WriteByte(byte(fixStrMin | n))
	case n <= math.MaxUint8:
		buf.WriteByte(fmtStr8)
		buf.WriteByte(byte(n))
	case n <= math.MaxUint16:
		buf.WriteByte(fmtStr16)
		writeUint16(buf, uint16(n))
	default:
		buf.WriteByte(fmtStr32)
		writeUint32(buf, uint32(n))
	}
	buf.WriteString(s)
}

func encodeBin(buf *bytes.Buffer, b []byte) {
	n := len(b)
	switch {
	case n <= math.MaxUint8:
		buf.WriteByte(fmtBin8)
		buf.WriteByte(byte(n))
	case n <= math.MaxUint16:
		buf.WriteByte(fmtBin16)
		writeUint16(buf, uint16(n))
	default:
		buf.WriteByte(fmtBin32)
		writeUint32(buf, uint32(n))
	}
	buf.Write(b)
}

func encodeArrayHeader(buf *bytes.Buffer, n int) {
	switch {
	case n <= 15:
		buf.WriteByte(byte(fixArrayMin | n))
	case n <= math.MaxUint16:
		buf.WriteByte(fmtArray16)
		writeUint16(buf, uint16(n))
	default:
		buf.WriteByte(fmtArray32)
		writeUint32(buf, uint32(n))
	}
}

func encodeMapHeader(buf *bytes.Buffer, n int) {
	switch {
	case n <= 15:
		buf.WriteByte(byte(fixMapMin | n))
	case n <= math.MaxUint16:
		buf.WriteByte(fmtMap16)
		writeUint16(buf, uint16(n))
	default:
		buf.WriteByte(fmtMap32)
		writeUint32(buf, uint32(n))
	}
}

func encodeExt(buf *bytes.Buffer, typ int8, data []byte) {
	n := len(data)
	switch n {
	case 1:
		buf.WriteByte(fmtFixExt1)
	case 2:
		buf.WriteByte(fmtFixExt2)
	case 4:
		buf.WriteByte(fmtFixExt4)
	case 8:
		buf.WriteByte(fmtFixExt8)
	case 16:
		buf.WriteByte(fmtFixExt16)
	default:
		switch {
		case n <= math.MaxUint8:
			buf.WriteByte(fmtExt8)
			buf.WriteByte(byte(n))
		case n <= math.MaxUint16:
			buf.WriteByte(fmtExt16)
			writeUint16(buf, uint16(n))
		default:
			buf.WriteByte(fmtExt32)
			writeUint32(buf, uint32(n))
		}
	}
	buf.WriteByte(byte(typ))
	buf.Write(data)
}

// encodeTimestamp always uses the widest (12-byte, ext8) timestamp
// encoding: simplicity over wire-size optimality, and it round-trips
// every (seconds, nanoseconds) pair exactly including negative seconds.
func encodeTimestamp(buf *bytes.Buffer, ts value.Timestamp) {
	data := make([]byte, 12)
	binary.BigEndian.PutUint32(data[0:4], ts.Nanoseconds)
	binary.BigEndian.PutUint64(data[4:12], uint64(ts.Seconds))

	typ := int8(extTimestamp)
	buf.WriteByte(fmtExt8)
	buf.WriteByte(12)
	buf.WriteByte(byte(typ))
	buf.Write(data)
}

func writeUint16(buf *bytes.Buffer, u uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], u)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, u uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], u)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, u uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], u)
	buf.Write(b[:])
}
