package compression

import (
	"fmt"
	"strings"

	"github.com/dargueta/bundlepack"
)

// Mode identifies the entropy transform applied to an instruction stream. The
// set is closed; each mode carries the magic number that tags artifacts it
// produced.
type Mode int

const (
	// Raw stores the instruction stream as-is.
	Raw Mode = iota
	// Deflate applies raw DEFLATE (RFC 1951), no zlib or gzip framing.
	Deflate
	// Lzma applies LZMA with a 1 MiB dictionary. The body starts with the 5
	// LZMA property bytes and a 32-bit uncompressed length.
	Lzma
	// Zstd applies a single Zstandard frame.
	Zstd
	// Lz4 applies a single LZ4 frame.
	Lz4
)

// Magic numbers written at the start of an artifact. These are format
// constants; changing them breaks every existing artifact.
const (
	MagicRaw     uint32 = 0x99ee0000
	MagicDeflate uint32 = 0x99ee0001
	MagicLzma    uint32 = 0x99ee0002
	MagicZstd    uint32 = 0x99ee0003
	MagicLz4     uint32 = 0x99ee0004
)

// Options tunes the encoders. Decoding never needs options.
type Options struct {
	// DeflateLevel is passed to the DEFLATE encoder. Zero means best
	// compression.
	DeflateLevel int
	// LzmaDictSize is the LZMA dictionary capacity in bytes. Zero means 1 MiB.
	LzmaDictSize int
}

type transform struct {
	name   string
	magic  uint32
	encode func(data []byte, opts Options) ([]byte, error)
	decode func(data []byte) ([]byte, error)
}

var transforms = [...]transform{
	Raw:     {"raw", MagicRaw, encodeRaw, decodeRaw},
	Deflate: {"deflate", MagicDeflate, encodeDeflate, decodeDeflate},
	Lzma:    {"lzma", MagicLzma, encodeLzma, decodeLzma},
	Zstd:    {"zstd", MagicZstd, encodeZstd, decodeZstd},
	Lz4:     {"lz4", MagicLz4, encodeLz4, decodeLz4},
}

// AllModes lists every supported mode in tag order.
func AllModes() []Mode {
	modes := make([]Mode, len(transforms))
	for i := range transforms {
		modes[i] = Mode(i)
	}
	return modes
}

func (m Mode) lookup() (*transform, error) {
	if m < 0 || int(m) >= len(transforms) {
		return nil, bundlepack.WithMessagef(
			bundlepack.ErrUnsupportedTransform, "no transform for mode %d", int(m))
	}
	return &transforms[m], nil
}

// Valid reports whether `m` names a supported transform.
func (m Mode) Valid() bool {
	_, err := m.lookup()
	return err == nil
}

// String returns the mode's name as accepted by [ParseMode].
func (m Mode) String() string {
	t, err := m.lookup()
	if err != nil {
		return fmt.Sprintf("unknown(%d)", int(m))
	}
	return t.name
}

// Magic returns the artifact tag for the mode, or 0 for an invalid mode.
func (m Mode) Magic() uint32 {
	t, err := m.lookup()
	if err != nil {
		return 0
	}
	return t.magic
}

// Encode compresses `data` with default options.
func (m Mode) Encode(data []byte) ([]byte, error) {
	return m.EncodeWithOptions(data, Options{})
}

// EncodeWithOptions compresses `data` using the given encoder settings.
func (m Mode) EncodeWithOptions(data []byte, opts Options) ([]byte, error) {
	t, err := m.lookup()
	if err != nil {
		return nil, err
	}
	encoded, err := t.encode(data, opts)
	if err != nil {
		return nil, bundlepack.CastToCodecError(err, bundlepack.ErrTransformFailed)
	}
	return encoded, nil
}

// Decode reverses [Mode.Encode].
func (m Mode) Decode(data []byte) ([]byte, error) {
	t, err := m.lookup()
	if err != nil {
		return nil, err
	}
	decoded, err := t.decode(data)
	if err != nil {
		return nil, bundlepack.CastToCodecError(err, bundlepack.ErrTransformFailed)
	}
	return decoded, nil
}

// Configure binds encoder options to a mode, giving a value usable anywhere a
// [bundlepack.TaggedTransformer] is expected.
func (m Mode) Configure(opts Options) bundlepack.TaggedTransformer {
	return configuredMode{mode: m, opts: opts}
}

type configuredMode struct {
	mode Mode
	opts Options
}

func (c configuredMode) Encode(data []byte) ([]byte, error) {
	return c.mode.EncodeWithOptions(data, c.opts)
}

func (c configuredMode) Decode(data []byte) ([]byte, error) {
	return c.mode.Decode(data)
}

func (c configuredMode) Magic() uint32 {
	return c.mode.Magic()
}

// ParseMode converts a mode name (case-insensitive) to a [Mode].
func ParseMode(name string) (Mode, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for i, t := range transforms {
		if t.name == lowered {
			return Mode(i), nil
		}
	}
	return 0, bundlepack.WithMessagef(
		bundlepack.ErrUnsupportedTransform, "unknown mode %q", name)
}

// ModeFromMagic returns the mode whose tag is `magic`.
func ModeFromMagic(magic uint32) (Mode, error) {
	for i, t := range transforms {
		if t.magic == magic {
			return Mode(i), nil
		}
	}
	return 0, bundlepack.WithMessagef(
		bundlepack.ErrUnknownFormatTag, "%#08x", magic)
}

func encodeRaw(data []byte, _ Options) ([]byte, error) {
	return data, nil
}

func decodeRaw(data []byte) ([]byte, error) {
	return data, nil
}
