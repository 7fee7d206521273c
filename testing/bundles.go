package testing

import (
	"bytes"
	"io"
	"math/rand"
	"strconv"
	"testing"

	"github.com/dargueta/bundlepack/archive"
	"github.com/dargueta/bundlepack/dedup"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// BundleRecord is one serialized record of a synthetic bundle: the marker for
// Name followed by Body.
type BundleRecord struct {
	Name string
	Body []byte
}

// BuildBundle serializes `records` after `preamble`. The result looks like a
// real bundle as far as the marker search is concerned: each record body is
// preceded by its length-prefixed name.
func BuildBundle(preamble []byte, records ...BundleRecord) []byte {
	var buffer bytes.Buffer
	buffer.Write(preamble)
	for _, record := range records {
		buffer.Write(dedup.EncodeMarkerName(record.Name))
		buffer.Write(record.Body)
	}
	return buffer.Bytes()
}

// RandomBytes returns `size` pseudorandom bytes. The same seed always gives
// the same bytes, so failures are reproducible.
func RandomBytes(seed int64, size int) []byte {
	data := make([]byte, size)
	rand.New(rand.NewSource(seed)).Read(data)
	return data
}

// Mutate returns a copy of `data` with the byte at each of `positions`
// inverted.
func Mutate(data []byte, positions ...int) []byte {
	mutated := make([]byte, len(data))
	copy(mutated, data)
	for _, p := range positions {
		mutated[p] ^= 0xff
	}
	return mutated
}

// SpriteBundle builds a bundle of `count` records named "sprite_0",
// "sprite_1", ..., whose bodies are all `body` with the middle byte replaced by
// the record's index. It returns the bundle and the marker names.
//
// The shared body is what a matcher should find; the middle byte keeps the
// records from being exact copies.
func SpriteBundle(t *testing.T, count int, body []byte) ([]byte, []string) {
	require.GreaterOrEqual(t, len(body), 2, "sprite body too short to mutate")

	names := make([]string, count)
	records := make([]BundleRecord, count)
	for i := 0; i < count; i++ {
		recordBody := make([]byte, len(body))
		copy(recordBody, body)
		recordBody[len(body)/2] = byte(i)

		names[i] = "sprite_" + strconv.Itoa(i)
		records[i] = BundleRecord{Name: names[i], Body: recordBody}
	}
	return BuildBundle(RandomBytes(int64(count), 37), records...), names
}

// LoadArtifact decompresses an artifact and returns a stream over the original
// bytes, failing the test if anything goes wrong.
//
//   - Writes to the stream do not affect `artifact`.
//   - The stream's size is fixed to the decompressed size.
func LoadArtifact(t *testing.T, artifact []byte, expectedSize int) io.ReadWriteSeeker {
	require.Greater(t, len(artifact), 0, "artifact is empty")

	original, err := archive.Decompress(artifact)
	require.NoError(t, err)
	require.Equal(t, expectedSize, len(original), "decompressed artifact is wrong size")
	return bytesextra.NewReadWriteSeeker(original)
}

// RequireRoundTrip checks that `artifact` decompresses to exactly `blob`.
func RequireRoundTrip(t *testing.T, blob []byte, artifact []byte) {
	stream := LoadArtifact(t, artifact, len(blob))
	restored, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.True(t, bytes.Equal(blob, restored), "round trip changed the data")
}
