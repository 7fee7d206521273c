package dedup

import (
	"encoding/binary"
	"fmt"

	"github.com/dargueta/bundlepack"
	"github.com/noxer/bytewriter"
)

// RecordKind distinguishes literal runs from backreferences in an instruction
// stream.
type RecordKind int

const (
	LiteralRecord RecordKind = iota
	CopyRecord
)

func (k RecordKind) String() string {
	switch k {
	case LiteralRecord:
		return "literal"
	case CopyRecord:
		return "copy"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Record describes one entry of an instruction stream.
type Record struct {
	Kind RecordKind
	// Offset is where the record's bytes land in the decoded output.
	Offset int
	// Length is the number of output bytes the record produces.
	Length int
	// Src is the output offset copied from. Only meaningful for copies.
	Src int
	// PayloadOffset is the position of the record's control word in the
	// stream.
	PayloadOffset int
}

// EncodedSize returns the exact size of the instruction stream [EncodeStream]
// produces for a blob of `blobLength` bytes.
func EncodedSize(blobLength int, copies CopyList) int {
	size := 0
	cursor := 0
	for _, c := range copies {
		if c.Dst > cursor {
			size += bundlepack.ControlFieldSize + c.Dst - cursor
		}
		size += bundlepack.ControlFieldSize + bundlepack.SourceFieldSize
		cursor = c.DstEnd()
	}
	if cursor < blobLength {
		size += bundlepack.ControlFieldSize + blobLength - cursor
	}
	return size
}

// EncodeStream rewrites `blob` as literal runs and the given copies. `copies`
// must be sorted and disjoint, as returned by [Resolve]; every copy is checked
// against the blob before anything is emitted.
func EncodeStream(blob []byte, copies CopyList) ([]byte, error) {
	if len(blob) > bundlepack.MaxOriginalSize {
		return nil, bundlepack.WithMessagef(
			bundlepack.ErrInvalidArgument,
			"blob is %d bytes, maximum is %d",
			len(blob),
			bundlepack.MaxOriginalSize,
		)
	}
	if err := copies.Validate(len(blob), 1); err != nil {
		return nil, err
	}
	if err := VerifyCopies(blob, copies); err != nil {
		return nil, err
	}

	output := make([]byte, EncodedSize(len(blob), copies))
	writer := bytewriter.New(output)

	writeLiteral := func(start, end int) error {
		err := binary.Write(writer, binary.LittleEndian, uint32(end-start))
		if err != nil {
			return err
		}
		_, err = writer.Write(blob[start:end])
		return err
	}

	cursor := 0
	for _, c := range copies {
		if c.Dst > cursor {
			if err := writeLiteral(cursor, c.Dst); err != nil {
				return nil, bundlepack.ErrInvariantViolation.Wrap(err)
			}
		}

		header := [2]uint32{uint32(c.Length) | bundlepack.CopyFlag, uint32(c.Src)}
		if err := binary.Write(writer, binary.LittleEndian, header); err != nil {
			return nil, bundlepack.ErrInvariantViolation.Wrap(err)
		}
		cursor = c.DstEnd()
	}

	if cursor < len(blob) {
		if err := writeLiteral(cursor, len(blob)); err != nil {
			return nil, bundlepack.ErrInvariantViolation.Wrap(err)
		}
	}
	return output, nil
}

// streamReader walks the records of an instruction stream.
type streamReader struct {
	payload []byte
	pos     int
	// produced is the number of output bytes described so far.
	produced int
}

func (r *streamReader) done() bool {
	return r.pos >= len(r.payload)
}

func (r *streamReader) readWord(what string) (uint32, error) {
	if len(r.payload)-r.pos < 4 {
		return 0, bundlepack.WithMessagef(
			bundlepack.ErrTruncatedInput,
			"%s at stream offset %d needs 4 bytes, %d left",
			what,
			r.pos,
			len(r.payload)-r.pos,
		)
	}
	value := binary.LittleEndian.Uint32(r.payload[r.pos:])
	r.pos += 4
	return value, nil
}

// next decodes one record. For literals it also returns the literal bytes,
// which alias the payload.
func (r *streamReader) next() (Record, []byte, error) {
	record := Record{PayloadOffset: r.pos, Offset: r.produced}

	control, err := r.readWord("control word")
	if err != nil {
		return record, nil, err
	}

	if control&bundlepack.CopyFlag == 0 {
		record.Kind = LiteralRecord
		record.Length = int(control)
		if len(r.payload)-r.pos < record.Length {
			return record, nil, bundlepack.WithMessagef(
				bundlepack.ErrTruncatedInput,
				"literal at stream offset %d declares %d bytes, %d left",
				record.PayloadOffset,
				record.Length,
				len(r.payload)-r.pos,
			)
		}
		literal := r.payload[r.pos : r.pos+record.Length]
		r.pos += record.Length
		r.produced += record.Length
		return record, literal, nil
	}

	record.Kind = CopyRecord
	record.Length = int(control & bundlepack.LengthMask)
	src, err := r.readWord("copy source")
	if err != nil {
		return record, nil, err
	}
	record.Src = int(src)
	r.produced += record.Length
	return record, nil, nil
}

// Records lists the records of an instruction stream without materializing
// any output.
func Records(payload []byte) ([]Record, error) {
	reader := streamReader{payload: payload}
	var records []Record

	for !reader.done() {
		record, _, err := reader.next()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// DecodeStream rebuilds the original blob from an instruction stream. The
// stream must decode to exactly `originalLength` bytes. The output grows as
// records are applied, so a header that overstates the length can't force a
// large allocation on its own.
func DecodeStream(payload []byte, originalLength int) ([]byte, error) {
	if originalLength < 0 {
		return nil, bundlepack.WithMessagef(
			bundlepack.ErrInvalidArgument, "negative output length %d", originalLength)
	}

	output := make([]byte, 0, min(originalLength, len(payload)))
	reader := streamReader{payload: payload}

	for !reader.done() {
		record, literal, err := reader.next()
		if err != nil {
			return nil, err
		}

		if record.Length > originalLength-record.Offset {
			return nil, bundlepack.WithMessagef(
				bundlepack.ErrInvariantViolation,
				"%s record at stream offset %d writes [%d, %d), past declared length %d",
				record.Kind,
				record.PayloadOffset,
				record.Offset,
				record.Offset+record.Length,
				originalLength,
			)
		}

		if record.Kind == LiteralRecord {
			output = append(output, literal...)
			continue
		}

		if record.Length == 0 {
			continue
		}
		if record.Src >= len(output) {
			return nil, bundlepack.WithMessagef(
				bundlepack.ErrInvariantViolation,
				"copy at stream offset %d reads from %d, output only has %d bytes",
				record.PayloadOffset,
				record.Src,
				len(output),
			)
		}

		if record.Src+record.Length <= len(output) {
			output = append(output, output[record.Src:record.Src+record.Length]...)
		} else {
			// Source runs into the destination; replicate byte by byte.
			for i := 0; i < record.Length; i++ {
				output = append(output, output[record.Src+i])
			}
		}
	}

	if len(output) != originalLength {
		return nil, bundlepack.WithMessagef(
			bundlepack.ErrInvariantViolation,
			"stream decoded to %d bytes, expected %d",
			len(output),
			originalLength,
		)
	}
	return output, nil
}
