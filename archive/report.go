package archive

import (
	"io"
	"strconv"

	"github.com/dargueta/bundlepack/dedup"
	"github.com/gocarina/gocsv"
)

// Report describes the contents of an artifact without decoding it fully.
type Report struct {
	Header       Header
	ArtifactSize int
	BodySize     int
	StreamSize   int
	Records      []dedup.Record

	LiteralRecords int
	CopyRecords    int
	LiteralBytes   int
	CopiedBytes    int
}

// RecordRow is one line of the CSV written by [Report.WriteCSV].
type RecordRow struct {
	Index        int    `csv:"index"`
	Kind         string `csv:"kind"`
	Offset       int    `csv:"offset"`
	Length       int    `csv:"length"`
	Source       string `csv:"source"`
	StreamOffset int    `csv:"stream_offset"`
}

// Inspect parses an artifact's header, inverts its transform, and lists the
// records of the instruction stream. It fails if the records don't tile the
// declared output exactly.
func Inspect(artifact []byte) (*Report, error) {
	header, body, err := ParseHeader(artifact)
	if err != nil {
		return nil, err
	}

	stream, err := header.Mode.Decode(body)
	if err != nil {
		return nil, err
	}

	records, err := dedup.Records(stream)
	if err != nil {
		return nil, err
	}
	if err = dedup.CheckCoverage(records, header.OriginalLength); err != nil {
		return nil, err
	}

	report := &Report{
		Header:       header,
		ArtifactSize: len(artifact),
		BodySize:     len(body),
		StreamSize:   len(stream),
		Records:      records,
	}
	for _, record := range records {
		if record.Kind == dedup.CopyRecord {
			report.CopyRecords++
			report.CopiedBytes += record.Length
		} else {
			report.LiteralRecords++
			report.LiteralBytes += record.Length
		}
	}
	return report, nil
}

// Rows converts the report's records to CSV rows.
func (r *Report) Rows() []RecordRow {
	rows := make([]RecordRow, len(r.Records))
	for i, record := range r.Records {
		rows[i] = RecordRow{
			Index:        i,
			Kind:         record.Kind.String(),
			Offset:       record.Offset,
			Length:       record.Length,
			StreamOffset: record.PayloadOffset,
		}
		if record.Kind == dedup.CopyRecord {
			rows[i].Source = strconv.Itoa(record.Src)
		}
	}
	return rows
}

// WriteCSV writes one row per record, with a header line.
func (r *Report) WriteCSV(w io.Writer) error {
	rows := r.Rows()
	return gocsv.Marshal(&rows, w)
}
