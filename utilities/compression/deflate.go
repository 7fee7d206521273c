package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

func encodeDeflate(data []byte, opts Options) ([]byte, error) {
	level := opts.DeflateLevel
	if level == 0 {
		// The inputs are build artifacts compressed once and shipped many
		// times, so encode time doesn't matter much.
		level = flate.BestCompression
	}

	var buffer bytes.Buffer
	writer, err := flate.NewWriter(&buffer, level)
	if err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if _, err = writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	return buffer.Bytes(), nil
}

func decodeDeflate(data []byte) ([]byte, error) {
	reader := flate.NewReader(bytes.NewReader(data))
	defer reader.Close()

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return decoded, nil
}
