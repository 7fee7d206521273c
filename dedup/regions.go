package dedup

// Region is the half-open byte range [Start, End) between one marker
// occurrence and the next, or the end of the blob for the last one.
type Region struct {
	Start int
	End   int
}

// Len returns the size of the region in bytes.
func (r Region) Len() int {
	return r.End - r.Start
}

// Segment splits `[offsets[0], blobLength)` into contiguous regions, one per
// offset. `offsets` must be sorted and free of duplicates, which is what
// [Locate] returns. An offset at or past the end of the blob can't start a
// non-empty region and is ignored.
func Segment(offsets []int, blobLength int) []Region {
	regions := make([]Region, 0, len(offsets))
	for i, start := range offsets {
		if start >= blobLength {
			break
		}

		end := blobLength
		if i+1 < len(offsets) && offsets[i+1] < blobLength {
			end = offsets[i+1]
		}
		regions = append(regions, Region{Start: start, End: end})
	}
	return regions
}
