package main

import (
	"bytes"
	"io"
	"os"
)

// writeOutputFile runs `produce` against an in-memory buffer and only creates
// the file at `path` once it succeeds, so a failed run leaves nothing behind.
func writeOutputFile(path string, produce func(io.Writer) (int64, error)) (int64, error) {
	var buffer bytes.Buffer
	written, err := produce(&buffer)
	if err != nil {
		return 0, err
	}
	return written, os.WriteFile(path, buffer.Bytes(), 0o644)
}
