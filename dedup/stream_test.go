package dedup_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/dargueta/bundlepack"
	"github.com/dargueta/bundlepack/dedup"
	bptest "github.com/dargueta/bundlepack/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamBuilder assembles instruction streams by hand for decoder tests.
type streamBuilder struct {
	buf []byte
}

func (b *streamBuilder) literal(data string) *streamBuilder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(len(data)))
	b.buf = append(b.buf, data...)
	return b
}

func (b *streamBuilder) copy(src, length int) *streamBuilder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(length)|bundlepack.CopyFlag)
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(src))
	return b
}

func (b *streamBuilder) raw(data ...byte) *streamBuilder {
	b.buf = append(b.buf, data...)
	return b
}

// repeatedBlob returns 20 bytes X, 4 bytes Y, then X again.
func repeatedBlob() []byte {
	x := bptest.RandomBytes(20, 20)
	blob := append([]byte{}, x...)
	blob = append(blob, 'Y', 'Y', 'Y', 'Y')
	return append(blob, x...)
}

func TestEncodeStream__ExactBytes(t *testing.T) {
	blob := repeatedBlob()
	copies := dedup.CopyList{{Src: 0, Dst: 24, Length: 20}}

	stream, err := dedup.EncodeStream(blob, copies)
	require.NoError(t, err)

	expected := (&streamBuilder{}).literal(string(blob[:24])).copy(0, 20).buf
	assert.Equal(t, expected, stream)
	assert.Equal(t, 36, len(stream))
	assert.Equal(t, len(stream), dedup.EncodedSize(len(blob), copies))

	decoded, err := dedup.DecodeStream(stream, len(blob))
	require.NoError(t, err)
	assert.Equal(t, blob, decoded)
}

func TestEncodeStream__NoCopiesIsOneLiteral(t *testing.T) {
	blob := bptest.RandomBytes(21, 300)

	stream, err := dedup.EncodeStream(blob, nil)
	require.NoError(t, err)
	require.Len(t, stream, bundlepack.ControlFieldSize+len(blob))
	assert.EqualValues(t, len(blob), binary.LittleEndian.Uint32(stream))
	assert.True(t, bytes.Equal(blob, stream[bundlepack.ControlFieldSize:]))
}

func TestEncodeStream__EmptyBlob(t *testing.T) {
	stream, err := dedup.EncodeStream([]byte{}, nil)
	require.NoError(t, err)
	assert.Empty(t, stream)

	decoded, err := dedup.DecodeStream(stream, 0)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestEncodeStream__CopyAtEndHasNoTrailingLiteral(t *testing.T) {
	blob := repeatedBlob()
	stream, err := dedup.EncodeStream(blob, dedup.CopyList{{Src: 0, Dst: 24, Length: 20}})
	require.NoError(t, err)

	records, err := dedup.Records(stream)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, dedup.CopyRecord, records[1].Kind)
}

func TestEncodeStream__RejectsBadCopies(t *testing.T) {
	blob := bptest.RandomBytes(22, 100)

	tests := []struct {
		Name   string
		Copies dedup.CopyList
	}{
		{"bytes differ", dedup.CopyList{{Src: 0, Dst: 50, Length: 20}}},
		{"overlapping", dedup.CopyList{{Src: 0, Dst: 30, Length: 20}, {Src: 0, Dst: 40, Length: 20}}},
		{"out of order", dedup.CopyList{{Src: 0, Dst: 60, Length: 5}, {Src: 0, Dst: 30, Length: 5}}},
		{"past end", dedup.CopyList{{Src: 0, Dst: 90, Length: 20}}},
	}

	for _, test := range tests {
		test := test
		t.Run(
			test.Name,
			func(t *testing.T) {
				_, err := dedup.EncodeStream(blob, test.Copies)
				assert.ErrorIs(t, err, bundlepack.ErrInvariantViolation)
			},
		)
	}
}

func TestEncodeStream__RejectsForwardReference(t *testing.T) {
	blob := repeatedBlob()
	_, err := dedup.EncodeStream(blob, dedup.CopyList{{Src: 24, Dst: 0, Length: 20}})
	assert.ErrorIs(t, err, bundlepack.ErrInvariantViolation)
}

func TestRecords__TileOutput(t *testing.T) {
	blob := repeatedBlob()
	stream, err := dedup.EncodeStream(blob, dedup.CopyList{{Src: 0, Dst: 24, Length: 20}})
	require.NoError(t, err)

	records, err := dedup.Records(stream)
	require.NoError(t, err)
	assert.Equal(
		t,
		[]dedup.Record{
			{Kind: dedup.LiteralRecord, Offset: 0, Length: 24, PayloadOffset: 0},
			{Kind: dedup.CopyRecord, Offset: 24, Length: 20, Src: 0, PayloadOffset: 28},
		},
		records,
	)
	assert.NoError(t, dedup.CheckCoverage(records, len(blob)))
}

func TestDecodeStream__ZeroLengthLiteral(t *testing.T) {
	stream := (&streamBuilder{}).literal("abcd").literal("").copy(0, 4).buf

	decoded, err := dedup.DecodeStream(stream, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdabcd"), decoded)
}

func TestDecodeStream__OverlappingCopy(t *testing.T) {
	stream := (&streamBuilder{}).literal("ab").copy(0, 6).buf

	decoded, err := dedup.DecodeStream(stream, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte("abababab"), decoded)
}

type decodeErrorTestCase struct {
	Name     string
	Stream   []byte
	Length   int
	Expected error
}

func TestDecodeStream__Errors(t *testing.T) {
	tests := []decodeErrorTestCase{
		{
			"truncated control word",
			(&streamBuilder{}).raw(1, 0).buf,
			1,
			bundlepack.ErrTruncatedInput,
		},
		{
			"truncated literal",
			(&streamBuilder{}).raw(5, 0, 0, 0, 'a', 'b').buf,
			5,
			bundlepack.ErrTruncatedInput,
		},
		{
			"truncated copy source",
			(&streamBuilder{}).literal("abcd").raw(4, 0, 0, 0x80, 0, 0).buf,
			8,
			bundlepack.ErrTruncatedInput,
		},
		{
			"source not yet written",
			(&streamBuilder{}).literal("ab").copy(2, 2).buf,
			4,
			bundlepack.ErrInvariantViolation,
		},
		{
			"output longer than declared",
			(&streamBuilder{}).literal("abcd").buf,
			2,
			bundlepack.ErrInvariantViolation,
		},
		{
			"output shorter than declared",
			(&streamBuilder{}).literal("ab").buf,
			4,
			bundlepack.ErrInvariantViolation,
		},
		{
			"negative length",
			nil,
			-1,
			bundlepack.ErrInvalidArgument,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(
			test.Name,
			func(t *testing.T) {
				_, err := dedup.DecodeStream(test.Stream, test.Length)
				assert.ErrorIs(t, err, test.Expected)
			},
		)
	}
}

func TestDecodeStream__TruncationIsUnexpectedEOF(t *testing.T) {
	_, err := dedup.Records((&streamBuilder{}).raw(9).buf)
	assert.ErrorIs(t, err, bundlepack.ErrTruncatedInput)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRecordKind__String(t *testing.T) {
	assert.Equal(t, "literal", dedup.LiteralRecord.String())
	assert.Equal(t, "copy", dedup.CopyRecord.String())
	assert.Equal(t, "unknown(7)", dedup.RecordKind(7).String())
}

// Full pipeline over a synthetic bundle: whatever the matcher picks, the
// stream must decode back to the input and its records must tile the output.
func TestStream__SpriteBundleRoundTrip(t *testing.T) {
	blob, names := bptest.SpriteBundle(t, 10, bptest.RandomBytes(23, 200))
	regions := dedup.Segment(dedup.Locate(dedup.BuildMarkers(names), blob), len(blob))
	copies, err := dedup.Match(regions, blob, bundlepack.MinCopyLength)
	require.NoError(t, err)

	stream, err := dedup.EncodeStream(blob, copies)
	require.NoError(t, err)
	assert.Less(t, len(stream), len(blob))
	assert.Equal(t, dedup.EncodedSize(len(blob), copies), len(stream))

	records, err := dedup.Records(stream)
	require.NoError(t, err)
	require.NoError(t, dedup.CheckCoverage(records, len(blob)))

	decoded, err := dedup.DecodeStream(stream, len(blob))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(blob, decoded))
}

// A short stream claiming the largest possible output must fail without
// materializing that output.
func TestDecodeStream__HugeDeclaredLength(t *testing.T) {
	stream := (&streamBuilder{}).literal("abcd").buf
	_, err := dedup.DecodeStream(stream, 0x7fffffff)
	assert.ErrorIs(t, err, bundlepack.ErrInvariantViolation)

	_, err = dedup.DecodeStream(nil, 0x7fffffff)
	assert.ErrorIs(t, err, bundlepack.ErrInvariantViolation)
}
