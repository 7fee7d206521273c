package bundlepack

// Layout of an artifact. Everything is little-endian.
//
//	offset 0: uint32 magic (selects the entropy transform)
//	offset 4: int32  original length
//	offset 8: body (the instruction stream, possibly transformed)
const (
	MagicSize        = 4
	LengthFieldSize  = 4
	HeaderSize       = MagicSize + LengthFieldSize
	MaxOriginalSize  = 1<<31 - 1
	ControlFieldSize = 4
	SourceFieldSize  = 4
)

// CopyFlag is set in a record's control word when the record is a
// backreference rather than a literal run. The remaining 31 bits hold the
// length.
const CopyFlag = 0x80000000

// LengthMask extracts the length from a control word.
const LengthMask = CopyFlag - 1

// MinCopyLength is the shortest backreference worth emitting. A copy record
// costs 8 bytes and splits the surrounding literal run, which adds another 4
// bytes of header.
const MinCopyLength = 16

// MarkerPrefixSize is the size of the little-endian length that precedes the
// name bytes of a serialized marker.
const MarkerPrefixSize = 4
