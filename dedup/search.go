package dedup

import (
	"github.com/dargueta/bundlepack"
)

// NotFound is returned by [Search] and [Searcher.Find] when the needle doesn't
// occur in the searched range.
const NotFound = -1

// Searcher finds all occurrences of a single fixed needle. Building one
// computes the skip table once so repeated searches for the same marker don't
// pay for it again.
type Searcher struct {
	needle []byte
	skip   [256]int
}

// NewSearcher prepares a skip table for `needle`. Empty needles are rejected
// because every offset would match.
func NewSearcher(needle []byte) (*Searcher, error) {
	if len(needle) == 0 {
		return nil, bundlepack.ErrInvalidArgument.WithMessage("search needle is empty")
	}

	s := &Searcher{needle: needle}
	for i := range s.skip {
		s.skip[i] = len(needle)
	}
	// Later positions win, so each byte maps to its distance from the end of
	// its rightmost occurrence. The last byte maps to 0 but is never used as a
	// skip, since a last-byte hit goes through verification instead.
	for i, b := range needle {
		s.skip[b] = len(needle) - i - 1
	}
	return s, nil
}

// Needle returns the byte sequence this searcher looks for.
func (s *Searcher) Needle() []byte {
	return s.needle
}

// Find returns the lowest offset at or after `start` where the needle occurs in
// `haystack`, or [NotFound].
func (s *Searcher) Find(haystack []byte, start int) int {
	if start < 0 {
		start = 0
	}

	needleLen := len(s.needle)
	lastByte := s.needle[needleLen-1]

	// `index` is the haystack position aligned with the needle's last byte.
	index := start + needleLen - 1
	for index < len(haystack) {
		current := haystack[index]
		if current != lastByte {
			index += s.skip[current]
			continue
		}

		base := index - needleLen + 1
		found := true
		for j := needleLen - 2; j >= 0; j-- {
			if haystack[base+j] != s.needle[j] {
				found = false
				break
			}
		}
		if found {
			return base
		}
		index++
	}
	return NotFound
}

// Search is a one-shot version of [Searcher.Find]. It returns [NotFound] for an
// empty needle.
func Search(haystack []byte, start int, needle []byte) int {
	s, err := NewSearcher(needle)
	if err != nil {
		return NotFound
	}
	return s.Find(haystack, start)
}
