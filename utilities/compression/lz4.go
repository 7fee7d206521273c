package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

func encodeLz4(data []byte, _ Options) ([]byte, error) {
	var buffer bytes.Buffer
	writer := lz4.NewWriter(&buffer)
	if err := writer.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	return buffer.Bytes(), nil
}

func decodeLz4(data []byte) ([]byte, error) {
	decoded, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	return decoded, nil
}
