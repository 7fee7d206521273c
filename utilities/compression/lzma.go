package compression

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dargueta/bundlepack"
	"github.com/ulikunitz/xz/lzma"
)

// DefaultLzmaDictSize is the dictionary capacity used when [Options] doesn't
// set one.
const DefaultLzmaDictSize = 1 << 20

// The classic .lzma header is 5 property bytes (lc/lp/pb and the dictionary
// size) and a 64-bit uncompressed size. Artifacts store the property bytes
// followed by a 32-bit size instead.
const (
	lzmaPropertiesSize  = 5
	lzmaClassicSizeSize = 8
	lzmaClassicHeader   = lzmaPropertiesSize + lzmaClassicSizeSize
	lzmaBodyHeader      = lzmaPropertiesSize + 4
)

func encodeLzma(data []byte, opts Options) ([]byte, error) {
	dictSize := opts.LzmaDictSize
	if dictSize == 0 {
		dictSize = DefaultLzmaDictSize
	}

	var classic bytes.Buffer
	config := lzma.WriterConfig{
		DictCap:      dictSize,
		SizeInHeader: true,
		Size:         int64(len(data)),
	}
	writer, err := config.NewWriter(&classic)
	if err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}
	if _, err = writer.Write(data); err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}

	raw := classic.Bytes()
	if len(raw) < lzmaClassicHeader {
		return nil, bundlepack.WithMessagef(
			bundlepack.ErrInvariantViolation, "lzma encoder wrote only %d bytes", len(raw))
	}

	body := make([]byte, 0, lzmaBodyHeader+len(raw)-lzmaClassicHeader)
	body = append(body, raw[:lzmaPropertiesSize]...)
	body = binary.LittleEndian.AppendUint32(body, uint32(len(data)))
	body = append(body, raw[lzmaClassicHeader:]...)
	return body, nil
}

func decodeLzma(data []byte) ([]byte, error) {
	if len(data) < lzmaBodyHeader {
		return nil, bundlepack.WithMessagef(
			bundlepack.ErrTruncatedInput,
			"lzma header needs %d bytes, got %d",
			lzmaBodyHeader,
			len(data),
		)
	}

	size := binary.LittleEndian.Uint32(data[lzmaPropertiesSize:])
	// The encoder still flushes the range coder for empty input, but the
	// reader refuses to consume those bytes when the declared size is zero.
	if size == 0 {
		return []byte{}, nil
	}

	header := make([]byte, lzmaClassicHeader)
	copy(header, data[:lzmaPropertiesSize])
	binary.LittleEndian.PutUint64(header[lzmaPropertiesSize:], uint64(size))

	reader, err := lzma.NewReader(
		io.MultiReader(bytes.NewReader(header), bytes.NewReader(data[lzmaBodyHeader:])))
	if err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}
	if len(decoded) != int(size) {
		return nil, bundlepack.WithMessagef(
			bundlepack.ErrTruncatedInput,
			"lzma stream decoded to %d bytes, header says %d",
			len(decoded),
			size,
		)
	}
	return decoded, nil
}
