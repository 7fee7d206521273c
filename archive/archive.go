// Package archive produces and reads the artifact format: an 8-byte header
// followed by a deduplicated instruction stream, optionally passed through one
// of the transforms in [compression].
package archive

import (
	"github.com/dargueta/bundlepack"
	"github.com/dargueta/bundlepack/dedup"
	"github.com/dargueta/bundlepack/utilities/compression"
)

// Stats summarizes a single call to [CompressWithStats].
type Stats struct {
	Mode compression.Mode
	// InputSize is the size of the original blob.
	InputSize int
	// StreamSize is the size of the instruction stream before the transform.
	StreamSize int
	// OutputSize is the size of the finished artifact, header included.
	OutputSize int
	// Markers is the number of distinct marker names searched for.
	Markers int
	// Occurrences is the number of distinct record bodies found.
	Occurrences int
	Regions     int
	Copies      int
	CopiedBytes int
}

// Ratio returns the output size as a percentage of the input size.
func (s Stats) Ratio() float64 {
	if s.InputSize == 0 {
		return 100.0
	}
	return 100.0 * float64(s.OutputSize) / float64(s.InputSize)
}

// Compress deduplicates `input` using records introduced by `markerNames`,
// applies `mode`, and returns the finished artifact.
func Compress(
	input []byte, markerNames []string, mode compression.Mode, opts ...Option,
) ([]byte, error) {
	output, _, err := CompressWithStats(input, markerNames, mode, opts...)
	return output, err
}

// CompressWithStats is [Compress] but also returns statistics about the run.
// On error the statistics are incomplete and the output is nil.
func CompressWithStats(
	input []byte, markerNames []string, mode compression.Mode, opts ...Option,
) ([]byte, Stats, error) {
	cfg := buildConfig(opts)
	stats := Stats{Mode: mode, InputSize: len(input)}

	if !mode.Valid() {
		return nil, stats, bundlepack.WithMessagef(
			bundlepack.ErrUnsupportedTransform, "mode %d", int(mode))
	}
	if len(input) > bundlepack.MaxOriginalSize {
		return nil, stats, bundlepack.WithMessagef(
			bundlepack.ErrInvalidArgument,
			"input is %d bytes, the format allows at most %d",
			len(input),
			bundlepack.MaxOriginalSize,
		)
	}
	if cfg.minCopyLength < 1 {
		return nil, stats, bundlepack.WithMessagef(
			bundlepack.ErrInvalidArgument,
			"minimum copy length must be positive, got %d",
			cfg.minCopyLength,
		)
	}

	names := cleanMarkerNames(markerNames, cfg)
	markers := dedup.BuildMarkers(names)
	offsets := dedup.Locate(markers, input)
	regions := dedup.Segment(offsets, len(input))
	stats.Markers = len(markers)
	stats.Occurrences = len(offsets)
	stats.Regions = len(regions)

	matcher := dedup.NewMatcher()
	matcher.MinLength = cfg.minCopyLength
	matcher.SetLogger(cfg.logger)

	copies, err := matcher.Match(regions, input)
	if err != nil {
		return nil, stats, err
	}
	stats.Copies = len(copies)
	stats.CopiedBytes = copies.CopiedBytes()

	stream, err := dedup.EncodeStream(input, copies)
	if err != nil {
		return nil, stats, err
	}
	stats.StreamSize = len(stream)

	body, err := mode.EncodeWithOptions(stream, cfg.transform)
	if err != nil {
		return nil, stats, err
	}

	header := Header{Mode: mode, OriginalLength: len(input)}
	output := make([]byte, 0, bundlepack.HeaderSize+len(body))
	output = header.AppendTo(output)
	output = append(output, body...)
	stats.OutputSize = len(output)

	cfg.logger.Infow(
		"compressed bundle",
		"mode", mode.String(),
		"ratio", stats.Ratio(),
		"inputSize", stats.InputSize,
		"streamSize", stats.StreamSize,
		"outputSize", stats.OutputSize,
		"markers", stats.Markers,
		"regions", stats.Regions,
		"copies", stats.Copies,
		"copiedBytes", stats.CopiedBytes,
	)
	return output, stats, nil
}

// Decompress reverses [Compress]. The transform is selected by the artifact's
// magic number, so only logging options have any effect.
func Decompress(artifact []byte, opts ...Option) ([]byte, error) {
	cfg := buildConfig(opts)

	header, body, err := ParseHeader(artifact)
	if err != nil {
		return nil, err
	}

	stream, err := header.Mode.Decode(body)
	if err != nil {
		return nil, err
	}

	output, err := dedup.DecodeStream(stream, header.OriginalLength)
	if err != nil {
		return nil, err
	}

	cfg.logger.Infow(
		"decompressed bundle",
		"mode", header.Mode.String(),
		"artifactSize", len(artifact),
		"streamSize", len(stream),
		"outputSize", len(output),
	)
	return output, nil
}

// cleanMarkerNames applies the asset path option and drops empty names. An
// empty name serializes to four zero bytes, which would turn every run of
// zeros in the blob into a record boundary.
func cleanMarkerNames(markerNames []string, cfg config) []string {
	names := markerNames
	if cfg.assetPaths {
		names = dedup.AssetNames(markerNames)
	}

	cleaned := make([]string, 0, len(names))
	for i, name := range names {
		if name == "" {
			cfg.logger.Warnw("ignoring empty marker name", "marker", markerNames[i])
			continue
		}
		cleaned = append(cleaned, name)
	}
	return cleaned
}
