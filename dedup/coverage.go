package dedup

import (
	"cmp"
	"slices"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/bundlepack"
)

// Validate checks that the copies are sorted by destination, that no two
// destinations overlap, that every copy is at least `minLength` bytes, and that
// all ranges lie inside a blob of `blobLength` bytes. It doesn't compare bytes;
// see [VerifyCopies] for that.
func (list CopyList) Validate(blobLength, minLength int) error {
	claimed := bitmap.New(blobLength)
	lastDst := -1

	for i, c := range list {
		if c.Length < minLength || c.Length < 1 {
			return bundlepack.WithMessagef(
				bundlepack.ErrInvariantViolation,
				"copy %d is %d bytes, minimum is %d",
				i,
				c.Length,
				minLength,
			)
		}
		if c.Src < 0 || c.Dst < 0 || c.Src+c.Length > blobLength || c.DstEnd() > blobLength {
			return bundlepack.WithMessagef(
				bundlepack.ErrInvariantViolation,
				"copy %d (%d -> %d, %d bytes) out of bounds for %d-byte blob",
				i,
				c.Src,
				c.Dst,
				c.Length,
				blobLength,
			)
		}
		if c.Dst < lastDst {
			return bundlepack.WithMessagef(
				bundlepack.ErrInvariantViolation,
				"copy %d at %d is out of order (previous at %d)",
				i,
				c.Dst,
				lastDst,
			)
		}
		lastDst = c.Dst

		for b := c.Dst; b < c.DstEnd(); b++ {
			if claimed.Get(b) {
				return bundlepack.WithMessagef(
					bundlepack.ErrInvariantViolation,
					"copy %d overlaps an earlier copy at byte %d",
					i,
					b,
				)
			}
			claimed.Set(b, true)
		}
	}
	return nil
}

// VerifyCopies checks that every copy's source and destination bytes are
// actually identical in `blob`, and that its source is already materialized by
// the time a decoder reaches its destination.
func VerifyCopies(blob []byte, list CopyList) error {
	for i, c := range list {
		if c.Src >= c.Dst {
			return bundlepack.WithMessagef(
				bundlepack.ErrInvariantViolation,
				"copy %d reads from %d, which isn't before its destination %d",
				i,
				c.Src,
				c.Dst,
			)
		}
		for j := 0; j < c.Length; j++ {
			if blob[c.Src+j] != blob[c.Dst+j] {
				return bundlepack.WithMessagef(
					bundlepack.ErrInvariantViolation,
					"copy %d claims byte %d equals byte %d but %#02x != %#02x",
					i,
					c.Dst+j,
					c.Src+j,
					blob[c.Dst+j],
					blob[c.Src+j],
				)
			}
		}
	}
	return nil
}

// CheckCoverage verifies that the output ranges of `records` tile
// [0, length) exactly: no byte written twice, none left unwritten. It only
// looks at record boundaries, so `length` may come from an untrusted header.
func CheckCoverage(records []Record, length int) error {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		if n := cmp.Compare(a.Offset, b.Offset); n != 0 {
			return n
		}
		return cmp.Compare(a.Length, b.Length)
	})

	cursor := 0
	for _, r := range sorted {
		if r.Offset < 0 || r.Length < 0 || r.Length > length-r.Offset {
			return bundlepack.WithMessagef(
				bundlepack.ErrInvariantViolation,
				"record at stream offset %d covers [%d, %d), outside [0, %d)",
				r.PayloadOffset,
				r.Offset,
				r.Offset+r.Length,
				length,
			)
		}
		if r.Offset < cursor {
			return bundlepack.WithMessagef(
				bundlepack.ErrInvariantViolation,
				"record at stream offset %d rewrites byte %d",
				r.PayloadOffset,
				r.Offset,
			)
		}
		if r.Offset > cursor {
			return bundlepack.WithMessagef(
				bundlepack.ErrInvariantViolation, "bytes [%d, %d) never written", cursor, r.Offset)
		}
		cursor += r.Length
	}

	if cursor != length {
		return bundlepack.WithMessagef(
			bundlepack.ErrInvariantViolation,
			"records cover %d of %d bytes",
			cursor,
			length,
		)
	}
	return nil
}
