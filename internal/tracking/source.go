package tracking

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/poorstock/stockreport/internal"
	"github.com/poorstock/stockreport/internal/instant"
)

const sourceName = "tracking-log"

// Required header columns. retry_count and any other extra columns are
// ignored for forward compatibility.
var requiredColumns = []string{"filename", "last_update_time", "success", "process_time"}

type SourceOption func(*Source)

func WithLogger(logger *zap.Logger) SourceOption {
	return func(s *Source) {
		s.logger = logger
	}
}

func WithNormalizer(n *instant.Normalizer) SourceOption {
	return func(s *Source) {
		s.normalizer = n
	}
}

// Source reads tracking records from a CSV file on disk. The file is read as
// a snapshot in one pass; the source never writes.
type Source struct {
	Path string

	normalizer *instant.Normalizer
	logger     *zap.Logger
}

func NewSource(path string, opts ...SourceOption) *Source {
	s := &Source{
		Path:   path,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.normalizer == nil {
		s.normalizer = instant.NewNormalizer(nil, nil)
	}
	return s
}

// Open validates the header and returns a scan over the rows.
//
// A missing file is an AbsentInputError so callers can degrade to zero
// records. A present file whose required columns cannot be located is a
// FormatError: that input produces no records at all.
func (s *Source) Open() (*Scan, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &internal.AbsentInputError{Source: sourceName, Path: s.Path}
		}
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		f.Close()
		return nil, &internal.FormatError{Source: sourceName, Reason: "file is empty, header row missing"}
	}
	if err != nil {
		f.Close()
		return nil, &internal.FormatError{Source: sourceName, Reason: err.Error()}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			f.Close()
			return nil, &internal.FormatError{
				Source: sourceName,
				Reason: fmt.Sprintf("required column %q missing from header", col),
			}
		}
	}

	s.logger.Debug("tracking log opened",
		zap.String("path", s.Path),
		zap.Strings("header", header),
	)

	return &Scan{
		closer:     f,
		reader:     r,
		index:      index,
		normalizer: s.normalizer,
		line:       1,
	}, nil
}

// Scan iterates the rows of one tracking-log snapshot. Malformed rows are
// skipped and recorded as issues; a single bad row never aborts the scan.
type Scan struct {
	closer     io.Closer
	reader     *csv.Reader
	index      map[string]int
	normalizer *instant.Normalizer
	line       int
	issues     []internal.Issue
}

func (sc *Scan) Close() error {
	return sc.closer.Close()
}

// Issues returns the per-row diagnostics accumulated so far.
func (sc *Scan) Issues() []internal.Issue {
	return sc.issues
}

// Next returns the next well-formed record, or io.EOF when the snapshot is
// exhausted.
func (sc *Scan) Next() (*Record, error) {
	for {
		row, err := sc.reader.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		sc.line++
		if err != nil {
			sc.issues = append(sc.issues, internal.Issue{
				Kind:   internal.IssueRow,
				Source: sourceName,
				Line:   sc.line,
				Detail: err.Error(),
			})
			continue
		}

		rec, rowErr := sc.parse(row)
		if rowErr != "" {
			sc.issues = append(sc.issues, internal.Issue{
				Kind:   internal.IssueRow,
				Source: sourceName,
				Line:   sc.line,
				Detail: rowErr,
			})
			continue
		}
		return rec, nil
	}
}

func (sc *Scan) parse(row []string) (*Record, string) {
	field := func(name string) (string, bool) {
		i := sc.index[name]
		if i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	name, ok := field("filename")
	if !ok || name == "" {
		return nil, "filename missing"
	}
	lastUpdate, ok := field("last_update_time")
	if !ok {
		return nil, "last_update_time missing"
	}
	success, ok := field("success")
	if !ok {
		return nil, "success missing"
	}
	processTime, ok := field("process_time")
	if !ok {
		return nil, "process_time missing"
	}

	return &Record{
		Line:         sc.line,
		ArtifactName: name,
		LastUpdate:   sc.normalizer.Normalize(lastUpdate),
		Outcome:      ParseOutcome(success),
		ProcessTime:  sc.normalizer.Normalize(processTime),
	}, ""
}

// ReadAll drains the scan into a slice. The tracking log tops out at a few
// thousand rows, one per stock, so buffering the snapshot is fine.
func (sc *Scan) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := sc.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}
