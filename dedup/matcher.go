package dedup

import (
	"cmp"
	"slices"

	"github.com/dargueta/bundlepack"
	"go.uber.org/zap"
)

// Copy is a backreference: the bytes at [Dst, Dst+Length) are identical to the
// bytes at [Src, Src+Length).
type Copy struct {
	Src    int
	Dst    int
	Length int
}

// DstEnd returns the first destination offset after the copy.
func (c Copy) DstEnd() int {
	return c.Dst + c.Length
}

// CopyList is a set of copies sorted by destination offset.
type CopyList []Copy

// CopiedBytes returns the total number of destination bytes the copies cover.
func (list CopyList) CopiedBytes() int {
	total := 0
	for _, c := range list {
		total += c.Length
	}
	return total
}

func compareCopies(a, b Copy) int {
	if n := cmp.Compare(a.Dst, b.Dst); n != 0 {
		return n
	}
	if n := cmp.Compare(a.Src, b.Src); n != 0 {
		return n
	}
	return cmp.Compare(a.Length, b.Length)
}

// Matcher finds backreferences between the regions of a blob.
type Matcher struct {
	// MinLength is the shortest copy that will be kept. Zero means
	// [bundlepack.MinCopyLength].
	MinLength int
	logger    *zap.SugaredLogger
}

// NewMatcher returns a Matcher with the default minimum copy length and no
// logging.
func NewMatcher() *Matcher {
	return &Matcher{
		MinLength: bundlepack.MinCopyLength,
		logger:    zap.NewNop().Sugar(),
	}
}

// SetLogger sets the logger used for resolution statistics.
func (m *Matcher) SetLogger(logger *zap.SugaredLogger) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	m.logger = logger
}

func (m *Matcher) minLength() int {
	if m.MinLength == 0 {
		return bundlepack.MinCopyLength
	}
	return m.MinLength
}

// Match returns the disjoint, destination-sorted set of copies found between
// every pair of regions.
func (m *Matcher) Match(regions []Region, blob []byte) (CopyList, error) {
	minLength := m.minLength()
	if minLength < 1 {
		return nil, bundlepack.WithMessagef(
			bundlepack.ErrInvalidArgument, "minimum copy length must be positive, got %d", minLength)
	}

	candidates, err := FindCandidates(regions, blob, minLength)
	if err != nil {
		return nil, err
	}

	resolved, err := Resolve(candidates, minLength)
	if err != nil {
		return nil, err
	}

	if m.logger != nil {
		m.logger.Debugw(
			"resolved backreferences",
			"regions", len(regions),
			"candidates", len(candidates),
			"copies", len(resolved),
			"copiedBytes", resolved.CopiedBytes(),
		)
	}
	return resolved, nil
}

// Match is shorthand for a [Matcher] with the given minimum length and no
// logging.
func Match(regions []Region, blob []byte, minLength int) (CopyList, error) {
	if minLength < 1 {
		return nil, bundlepack.WithMessagef(
			bundlepack.ErrInvalidArgument, "minimum copy length must be positive, got %d", minLength)
	}
	m := NewMatcher()
	m.MinLength = minLength
	return m.Match(regions, blob)
}

// FindCandidates compares every pair of regions position by position and
// returns a copy for every run of at least `minLength` equal bytes. The copy
// always points from the earlier region to the later one. Candidates may
// overlap each other arbitrarily.
func FindCandidates(regions []Region, blob []byte, minLength int) ([]Copy, error) {
	for _, r := range regions {
		if r.Start < 0 || r.Start > r.End || r.End > len(blob) {
			return nil, bundlepack.WithMessagef(
				bundlepack.ErrInvalidArgument,
				"region [%d, %d) not within blob of %d bytes",
				r.Start,
				r.End,
				len(blob),
			)
		}
	}

	var candidates []Copy
	for i := 0; i < len(regions)-1; i++ {
		src := regions[i]
		for j := i + 1; j < len(regions); j++ {
			dst := regions[j]
			window := min(src.Len(), dst.Len())

			emit := func(runStart, runEnd int) {
				if runEnd-runStart >= minLength {
					candidates = append(candidates, Copy{
						Src:    src.Start + runStart,
						Dst:    dst.Start + runStart,
						Length: runEnd - runStart,
					})
				}
			}

			runStart := -1
			for k := 0; k < window; k++ {
				if blob[src.Start+k] == blob[dst.Start+k] {
					if runStart < 0 {
						runStart = k
					}
				} else if runStart >= 0 {
					emit(runStart, k)
					runStart = -1
				}
			}
			if runStart >= 0 {
				emit(runStart, window)
			}
		}
	}
	return candidates, nil
}

// Resolve trims and drops candidates until no two destinations overlap. Where
// two copies collide the longer one survives intact; between equal lengths the
// one with the larger source offset (the closer source) survives. A trimmed
// copy that drops below `minLength` is discarded.
//
// The input slice is not modified. The result is sorted by destination offset.
func Resolve(candidates []Copy, minLength int) (CopyList, error) {
	copies := make(CopyList, len(candidates))
	copy(copies, candidates)
	sortCopies(copies)

	// Every mutation shortens or removes a copy, so the loop terminates, but
	// the number of rounds isn't obviously linear. Cap it and report a bug
	// instead of spinning.
	budget := 3 * len(copies)
	if budget < 1 {
		budget = 1
	}

	for i := 1; i < len(copies); {
		prev := &copies[i-1]
		cur := &copies[i]

		collision := prev.DstEnd() - cur.Dst
		if collision <= 0 {
			i++
			continue
		}

		budget--
		if budget < 0 {
			return nil, bundlepack.WithMessagef(
				bundlepack.ErrInvariantViolation,
				"overlap resolution did not converge for %d candidates",
				len(candidates),
			)
		}

		var trimCur bool
		if prev.Length == cur.Length {
			trimCur = prev.Src > cur.Src
		} else {
			trimCur = prev.Length > cur.Length
		}

		if trimCur {
			cur.Src += collision
			cur.Dst += collision
			cur.Length -= collision
			if cur.Length < minLength {
				copies = append(copies[:i], copies[i+1:]...)
			} else {
				reinsertForward(copies, i)
			}
		} else {
			// The overlap is at prev's tail, so shortening it keeps the order.
			prev.Length -= collision
			if prev.Length < minLength {
				copies = append(copies[:i-1], copies[i:]...)
				if i > 1 {
					i--
				}
			}
		}
	}
	return copies, nil
}

func sortCopies(copies []Copy) {
	slices.SortFunc(copies, compareCopies)
}

// reinsertForward restores sort order after the element at `i` had its key
// increased. Nothing before `i` moves.
func reinsertForward(copies []Copy, i int) {
	for j := i; j+1 < len(copies) && compareCopies(copies[j], copies[j+1]) > 0; j++ {
		copies[j], copies[j+1] = copies[j+1], copies[j]
	}
}
