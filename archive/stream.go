package archive

import (
	"io"

	"github.com/dargueta/bundlepack/utilities/compression"
)

// CompressStream reads a whole bundle from `input`, compresses it as
// [Compress] does, and writes the artifact to `output`.
//
// The returned int64 gives the number of bytes written to the output stream. If
// an error occurred, the value is undefined and should not be used.
func CompressStream(
	input io.Reader,
	output io.Writer,
	markerNames []string,
	mode compression.Mode,
	opts ...Option,
) (int64, error) {
	// The matcher needs random access to the whole blob, so there's no point
	// in streaming the input.
	blob, err := io.ReadAll(input)
	if err != nil {
		return 0, err
	}

	artifact, err := Compress(blob, markerNames, mode, opts...)
	if err != nil {
		return 0, err
	}
	return writeAll(output, artifact)
}

// DecompressStream reads an artifact from `input` and writes the original
// bundle to `output`.
//
// The returned int64 gives the number of bytes written to the output (i.e. the
// decompressed size of the bundle). If an error occurred, the value is
// undefined and should not be used.
func DecompressStream(input io.Reader, output io.Writer, opts ...Option) (int64, error) {
	artifact, err := io.ReadAll(input)
	if err != nil {
		return 0, err
	}

	blob, err := Decompress(artifact, opts...)
	if err != nil {
		return 0, err
	}
	return writeAll(output, blob)
}

func writeAll(output io.Writer, data []byte) (int64, error) {
	n, err := output.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}
