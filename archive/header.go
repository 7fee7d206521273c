package archive

import (
	"encoding/binary"

	"github.com/dargueta/bundlepack"
	"github.com/dargueta/bundlepack/utilities/compression"
)

// Header is the fixed 8-byte prefix of every artifact.
type Header struct {
	Mode           compression.Mode
	OriginalLength int
}

// AppendTo serializes the header onto the end of `buf`.
func (h Header) AppendTo(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, h.Mode.Magic())
	return binary.LittleEndian.AppendUint32(buf, uint32(h.OriginalLength))
}

// ParseHeader reads the header at the start of an artifact and returns it
// along with the body that follows.
func ParseHeader(artifact []byte) (Header, []byte, error) {
	if len(artifact) < bundlepack.HeaderSize {
		return Header{}, nil, bundlepack.WithMessagef(
			bundlepack.ErrTruncatedInput,
			"header needs %d bytes, got %d",
			bundlepack.HeaderSize,
			len(artifact),
		)
	}

	mode, err := compression.ModeFromMagic(binary.LittleEndian.Uint32(artifact))
	if err != nil {
		return Header{}, nil, err
	}

	// Stored as a signed 32-bit value.
	length := int32(binary.LittleEndian.Uint32(artifact[bundlepack.MagicSize:]))
	if length < 0 {
		return Header{}, nil, bundlepack.WithMessagef(
			bundlepack.ErrInvariantViolation, "header declares negative length %d", length)
	}

	header := Header{Mode: mode, OriginalLength: int(length)}
	return header, artifact[bundlepack.HeaderSize:], nil
}
