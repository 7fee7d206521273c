package compression_test

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/dargueta/bundlepack"
	c "github.com/dargueta/bundlepack/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transformTestData struct {
	Name string
	Data []byte
}

func TestRoundTripAllModes(t *testing.T) {
	randomData := make([]byte, 119)
	rand.Read(randomData)

	testData := []transformTestData{
		{"homogenous", bytes.Repeat([]byte{100}, 9174)},
		{"empty", []byte{}},
		{"heterogenous", randomData},
		{"text", bytes.Repeat([]byte("m_Name\x00m_Texture\x00"), 300)},
	}

	for _, mode := range c.AllModes() {
		mode := mode
		t.Run(
			mode.String(),
			func(tSub *testing.T) {
				for _, data := range testData {
					data := data
					tSub.Run(
						data.Name,
						func(tSubSub *testing.T) {
							runRoundTripTest(tSubSub, mode, data.Data)
						},
					)
				}
			},
		)
	}
}

func runRoundTripTest(t *testing.T, mode c.Mode, original []byte) {
	encoded, err := mode.Encode(original)
	require.NoError(t, err, "unexpected error while encoding")
	t.Logf("%s: %d -> %d", mode, len(original), len(encoded))

	decoded, err := mode.Decode(encoded)
	require.NoError(t, err, "unexpected error while decoding")
	assert.Equal(t, len(original), len(decoded), "decoded data has wrong size")
	assert.True(t, bytes.Equal(original, decoded), "decoded data is wrong")
}

func TestModeNamesAndMagic(t *testing.T) {
	tests := []struct {
		Mode  c.Mode
		Name  string
		Magic uint32
	}{
		{c.Raw, "raw", 0x99ee0000},
		{c.Deflate, "deflate", 0x99ee0001},
		{c.Lzma, "lzma", 0x99ee0002},
		{c.Zstd, "zstd", 0x99ee0003},
		{c.Lz4, "lz4", 0x99ee0004},
	}

	for _, test := range tests {
		assert.Equal(t, test.Name, test.Mode.String())
		assert.Equal(t, test.Magic, test.Mode.Magic())
		assert.True(t, test.Mode.Valid())

		parsed, err := c.ParseMode(test.Name)
		require.NoError(t, err)
		assert.Equal(t, test.Mode, parsed)

		fromMagic, err := c.ModeFromMagic(test.Magic)
		require.NoError(t, err)
		assert.Equal(t, test.Mode, fromMagic)
	}
}

func TestParseMode__CaseInsensitive(t *testing.T) {
	mode, err := c.ParseMode("  LZMA ")
	require.NoError(t, err)
	assert.Equal(t, c.Lzma, mode)
}

func TestParseMode__Unknown(t *testing.T) {
	_, err := c.ParseMode("brotli")
	assert.ErrorIs(t, err, bundlepack.ErrUnsupportedTransform)
}

func TestModeFromMagic__Unknown(t *testing.T) {
	_, err := c.ModeFromMagic(0x12345678)
	assert.ErrorIs(t, err, bundlepack.ErrUnknownFormatTag)
}

func TestInvalidMode(t *testing.T) {
	bad := c.Mode(42)
	assert.False(t, bad.Valid())
	assert.Equal(t, "unknown(42)", bad.String())
	assert.Zero(t, bad.Magic())

	_, err := bad.Encode([]byte{1, 2, 3})
	assert.ErrorIs(t, err, bundlepack.ErrUnsupportedTransform)
	_, err = bad.Decode([]byte{1, 2, 3})
	assert.ErrorIs(t, err, bundlepack.ErrUnsupportedTransform)
}

func TestLzmaBodyLayout(t *testing.T) {
	original := bytes.Repeat([]byte("abcdefgh"), 512)
	encoded, err := c.Lzma.Encode(original)
	require.NoError(t, err)
	require.Greater(t, len(encoded), 9)

	// Bytes 1-4 of the properties are the dictionary size, then the
	// uncompressed size.
	assert.EqualValues(t, c.DefaultLzmaDictSize, binary.LittleEndian.Uint32(encoded[1:5]))
	assert.EqualValues(t, len(original), binary.LittleEndian.Uint32(encoded[5:9]))
}

func TestLzma__CustomDictionary(t *testing.T) {
	original := bytes.Repeat([]byte("xyz"), 1000)
	transformer := c.Lzma.Configure(c.Options{LzmaDictSize: 1 << 16})
	assert.Equal(t, c.MagicLzma, transformer.Magic())

	encoded, err := transformer.Encode(original)
	require.NoError(t, err)
	assert.EqualValues(t, 1<<16, binary.LittleEndian.Uint32(encoded[1:5]))

	decoded, err := transformer.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestLzma__TruncatedHeader(t *testing.T) {
	_, err := c.Lzma.Decode([]byte{0x5d, 0, 0, 0x10})
	assert.ErrorIs(t, err, bundlepack.ErrTruncatedInput)
}

func TestDeflate__CorruptInput(t *testing.T) {
	encoded, err := c.Deflate.Encode(bytes.Repeat([]byte{7, 8, 9}, 4000))
	require.NoError(t, err)

	_, err = c.Deflate.Decode(encoded[:len(encoded)/2])
	assert.ErrorIs(t, err, bundlepack.ErrTransformFailed)
}

func TestDeflate__Level(t *testing.T) {
	original := bytes.Repeat([]byte("0123456789"), 2000)
	fast, err := c.Deflate.EncodeWithOptions(original, c.Options{DeflateLevel: 1})
	require.NoError(t, err)

	decoded, err := c.Deflate.Decode(fast)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestRaw__Passthrough(t *testing.T) {
	data := []byte{9, 8, 7}
	encoded, err := c.Raw.Encode(data)
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
}

func TestModeIsTransformer(t *testing.T) {
	var transformer bundlepack.TaggedTransformer = c.Zstd
	assert.Equal(t, c.MagicZstd, transformer.Magic())
}

func TestLzma__TinyInputs(t *testing.T) {
	for _, size := range []int{0, 1, 2, 5} {
		runRoundTripTest(t, c.Lzma, bytes.Repeat([]byte{0}, size))
	}
}

func TestLzma__ZeroLengthBody(t *testing.T) {
	// Properties for lc=3 lp=0 pb=2 and a 1 MiB dictionary, declared size 0,
	// then the range coder's flush bytes.
	body := []byte{0x5d, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	decoded, err := c.Lzma.Decode(body)
	require.NoError(t, err)
	assert.Empty(t, decoded)

	decoded, err = c.Lzma.Decode(body[:9])
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
