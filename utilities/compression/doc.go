// Package compression wraps the general-purpose compressors that can be layered
// on top of a deduplicated instruction stream.
//
// Each [Mode] is a pure byte-slice transform with a fixed magic number. The
// dedup pass removes long-distance repeats between records; whatever is left
// (short repeats inside a record, skewed byte distributions) is the entropy
// coder's job.
//
// LZMA bodies don't use the .lzma container. They start with the 5 property
// bytes, then the uncompressed size as a 32-bit little-endian integer, then
// the raw LZMA stream:
//
//	props[0]   lc/lp/pb
//	props[1:5] dictionary size
//	[5:9]      uncompressed size
//	[9:]       LZMA data
//
// Deflate is raw RFC 1951 data with no zlib or gzip wrapper. Zstd and Lz4 use
// their standard single-frame formats.

package compression
