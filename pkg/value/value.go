// Package value implements the owned MessagePack value tree shared by the
// codec, message and rpc packages: nil, bool, signed/unsigned integers,
// floats, strings, binary blobs, arrays, string-keyed maps, extension
// types and timestamps.
package value

import (
	"fmt"
	"math"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindStr
	KindBin
	KindArray
	KindMap
	KindExt
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindBin:
		return "bin"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindExt:
		return "ext"
	case KindTimestamp:
		return "timestamp"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Ext is the payload of an extension-typed Value: an 8-bit type tag plus
// opaque bytes, used by editors to encode handles to buffers, windows and
// tabpages.
type Ext struct {
	Type int8
	Data []byte
}

// Timestamp is the payload of a timestamp-typed Value.
type Timestamp struct {
	Seconds     int64
	Nanoseconds uint32
}

// Value is a tagged, acyclic tree of MessagePack data. A container Value
// (Array, Map) takes ownership of its elements; cloning a Value deep-copies
// everything reachable from it, so mutating a clone never affects its
// source.
type Value struct {
	kind Kind

	b   bool
	i   int64
	u   uint64
	f   float64
	str string
	bin []byte
	arr []Value
	m   map[string]Value
	ext Ext
	ts  Timestamp
}

// Nil returns the nil Value.
func Nil() Value { return Value{kind: KindNil} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a signed integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Uint wraps an unsigned integer.
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }

// Float wraps a 64-bit float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str wraps a string. The bytes are by convention UTF-8 but this is not
// enforced.
func Str(s string) Value { return Value{kind: KindStr, str: s} }

// Bin wraps a binary blob, copying the input so the Value owns its bytes.
func Bin(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBin, bin: cp}
}

// Array wraps a sequence of Values, taking ownership of the slice and its
// elements without copying.
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// ArrayOf is equivalent to Array but accepts an existing slice directly,
// taking ownership of it.
func ArrayOf(vs []Value) Value { return Value{kind: KindArray, arr: vs} }

// Map wraps a string-keyed mapping, taking ownership of the map.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, m: m}
}

// MakeExt wraps an extension type tag plus opaque bytes, copying the bytes.
func MakeExt(typ int8, data []byte) Value {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Value{kind: KindExt, ext: Ext{Type: typ, Data: cp}}
}

// MakeTimestamp wraps a MessagePack timestamp extension value.
func MakeTimestamp(seconds int64, nanoseconds uint32) Value {
	return Value{kind: KindTimestamp, ts: Timestamp{Seconds: seconds, Nanoseconds: nanoseconds}}
}

// Kind reports which variant this Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether this Value is the Nil variant.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Clone deep-copies v: containers get new backing storage, so a mutation of
// the clone's elements never reaches v's.
func (v Value) Clone() Value {
	switch v.kind {
	case KindBin:
		return Bin(v.bin)
	case KindArray:
		out := make([]Value, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Clone()
		}
		return ArrayOf(out)
	case KindMap:
		out := make(map[string]Value, len(v.m))
		for k, e := range v.m {
			out[k] = e.Clone()
		}
		return Map(out)
	case KindExt:
		return MakeExt(v.ext.Type, v.ext.Data)
	default:
		return v
	}
}

// Equal reports deep equality. Array element order matters; map key order
// does not.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindUint:
		return v.u == o.u
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindStr:
		return v.str == o.str
	case KindBin:
		return string(v.bin) == string(o.bin)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, e := range v.m {
			oe, ok := o.m[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	case KindExt:
		return v.ext.Type == o.ext.Type && string(v.ext.Data) == string(o.ext.Data)
	case KindTimestamp:
		return v.ts == o.ts
	}
	return false
}
