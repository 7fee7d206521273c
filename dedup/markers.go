package dedup

import (
	"encoding/binary"
	"path"
	"slices"
	"strings"

	"github.com/dargueta/bundlepack"
)

// Marker is a record name as it appears serialized inside a bundle: a 32-bit
// little-endian length followed by the name bytes.
type Marker struct {
	Name    string
	Encoded []byte
	// Offsets holds the position of the first byte after each occurrence of
	// Encoded, i.e. where the record body presumably starts. Filled in by
	// [Locate].
	Offsets []int
}

// EncodeMarkerName serializes a name the way bundles store it.
func EncodeMarkerName(name string) []byte {
	encoded := make([]byte, bundlepack.MarkerPrefixSize+len(name))
	binary.LittleEndian.PutUint32(encoded, uint32(len(name)))
	copy(encoded[bundlepack.MarkerPrefixSize:], name)
	return encoded
}

// BuildMarkers creates one [Marker] per distinct name, in order of first
// appearance.
func BuildMarkers(names []string) []Marker {
	seen := make(map[string]struct{}, len(names))
	markers := make([]Marker, 0, len(names))

	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		markers = append(markers, Marker{
			Name:    name,
			Encoded: EncodeMarkerName(name),
		})
	}
	return markers
}

// AssetName reduces an asset path such as "Assets/Chars/hero_01.png" to the
// name bundles store for it ("hero_01"): no directory and no extension. Both
// slash styles are accepted as separators.
func AssetName(assetPath string) string {
	base := path.Base(strings.ReplaceAll(assetPath, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// AssetNames applies [AssetName] to every path.
func AssetNames(assetPaths []string) []string {
	names := make([]string, len(assetPaths))
	for i, p := range assetPaths {
		names[i] = AssetName(p)
	}
	return names
}

// Locate finds every occurrence of every marker in `blob`. Each marker's
// Offsets field is replaced with the body-start offsets of its own hits, and
// the merged, sorted, de-duplicated offsets of all markers are returned.
func Locate(markers []Marker, blob []byte) []int {
	var collected []int

	for i := range markers {
		marker := &markers[i]
		marker.Offsets = nil

		searcher, err := NewSearcher(marker.Encoded)
		if err != nil {
			// Only possible for a hand-built Marker with no bytes at all.
			continue
		}

		next := 0
		for {
			hit := searcher.Find(blob, next)
			if hit == NotFound {
				break
			}
			bodyStart := hit + len(marker.Encoded)
			marker.Offsets = append(marker.Offsets, bodyStart)
			collected = append(collected, bodyStart)
			next = bodyStart
		}
	}

	slices.Sort(collected)
	return slices.Compact(collected)
}
