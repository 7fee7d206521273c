// Package dedup rewrites a blob as literal runs and backreferences to earlier
// bytes, looking for repeats only at known record boundaries.
//
// Asset bundles are mostly a sequence of serialized records, each introduced
// by its name stored as a 32-bit little-endian length followed by the name
// bytes. Bundles built from similar assets (two sprites sharing a material,
// say) contain records that are nearly identical byte for byte. A general LZ
// compressor with a small window misses these because the copies can be
// megabytes apart.
//
// Instead of searching every offset, we:
//
//  1. Find every occurrence of every known record name ([BuildMarkers],
//     [Locate]). Each occurrence marks the start of a record body.
//  2. Cut the blob into regions, one per body, running up to the next body
//     ([Segment]).
//  3. Compare every pair of regions at the same relative offsets and keep runs
//     of identical bytes of at least [bundlepack.MinCopyLength] bytes
//     ([FindCandidates]).
//  4. Trim overlapping candidates until no two write the same destination
//     bytes ([Resolve]).
//  5. Emit the result as an instruction stream ([EncodeStream]).
//
// The instruction stream is a sequence of records, each starting with a 32-bit
// little-endian control word. If the high bit is clear the word is a literal
// length N and N raw bytes follow. If it's set, the low 31 bits are a copy
// length L and a 32-bit source offset follows; the decoder copies L bytes of
// already-decoded output starting at that offset:
//
//	blob:   AAAA xxxx AAAA
//	stream: [8] AAAAxxxx [0x80000004] [0]
//
// Pairwise comparison is quadratic in the number of regions. That's fine for
// bundles with a few hundred records; this isn't a general compressor.
package dedup
