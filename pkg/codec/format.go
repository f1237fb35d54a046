package codec

// MessagePack format tags, per the official spec.
const (
	fmtNilCode   = 0xc0
	fmtFalse     = 0xc2
	fmtTrue      = 0xc3
	fmtBin8      = 0xc4
	fmtBin16     = 0xc5
	fmtBin32     = 0xc6
	fmtExt8      = 0xc7
	fmtExt16     = 0xc8
	fmtExt32     = 0xc9
	fmtFloat32   = 0xca
	fmtFloat64   = 0xcb
	fmtUint8     = 0xcc
	fmtUint16    = 0xcd
	fmtUint32    = 0xce
	fmtUint64    = 0xcf
	fmtInt8      = 0xd0
	fmtInt16     = 0xd1
	fmtInt32     = 0xd2
	fmtInt64     = 0xd3
	fmtFixExt1   = 0xd4
	fmtFixExt2   = 0xd5
	fmtFixExt4   = 0xd6
	fmtFixExt8   = 0xd7
	fmtFixExt16  = 0xd8
	fmtStr8      = 0xd9
	fmtStr16     = 0xda
	fmtStr32     = 0xdb
	fmtArray16   = 0xdc
	fmtArray32   = 0xdd
	fmtMap16     = 0xde
	fmtMap32     = 0xdf

	fixIntPosMax  = 0x7f
	fixIntNegMin  = 0xe0
	fixMapMin     = 0x80
	fixMapMax     = 0x8f
	fixArrayMin   = 0x90
	fixArrayMax   = 0x9f
	fixStrMin     = 0xa0
	fixStrMax     = 0xbf

	extTimestamp = -1
)
