package bundlepack

// Transformer is a general-purpose byte-stream compressor applied to an
// instruction stream after deduplication. Implementations must be pure: the
// same input always produces the same output, and Decode(Encode(x)) == x.
type Transformer interface {
	// Encode compresses `data` and returns the encoded bytes. The input slice
	// is never modified.
	Encode(data []byte) ([]byte, error)
	// Decode reverses Encode. Truncated or corrupted input must produce an
	// error rather than short output.
	Decode(data []byte) ([]byte, error)
}

// TaggedTransformer is a Transformer that identifies itself in the artifact
// header.
type TaggedTransformer interface {
	Transformer
	// Magic returns the 32-bit value written at the start of an artifact to
	// record which transform produced the body.
	Magic() uint32
}
