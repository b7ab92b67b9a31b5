package kestrel

import (
	"fmt"
	"io"
	"time"
)

// Series is an ordered, read-only collection of records in file order.
type Series struct {
	recs []Record
}

// NewSeries wraps recs. The slice must not be modified afterwards.
func NewSeries(recs []Record) *Series {
	return &Series{recs: recs}
}

// Load reads every record of the Kestrel export at filePath.
func Load(filePath string, opts Options) (*Series, error) {
	s, err := NewScanner(filePath, opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	series, err := readAll(s)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", filePath, err)
	}
	return series, nil
}

// Read reads every record available from r.
func Read(r io.Reader, opts Options) (*Series, error) {
	return readAll(NewReaderScanner(r, opts))
}

func readAll(s *Scanner) (*Series, error) {
	var recs []Record
	for s.Scan() {
		recs = append(recs, s.Record())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return NewSeries(recs), nil
}

// Len returns the number of records.
func (s *Series) Len() int {
	return len(s.recs)
}

// At returns the i-th record.
func (s *Series) At(i int) Record {
	return s.recs[i]
}

// Column extracts one value per record.
func (s *Series) Column(get func(Record) float64) []float64 {
	out := make([]float64, len(s.recs))
	for i, r := range s.recs {
		out[i] = get(r)
	}
	return out
}

// Timestamps returns the raw elapsed-seconds column.
func (s *Series) Timestamps() []float64 {
	return s.Column(func(r Record) float64 { return r.Timestamp })
}

// Times converts every timestamp to wall clock time relative to epoch.
func (s *Series) Times(epoch time.Time) []time.Time {
	out := make([]time.Time, len(s.recs))
	for i, r := range s.recs {
		out[i] = ToTime(epoch, r.Timestamp)
	}
	return out
}

// Summary returns the summary information about the series suitable for
// logging.
func (s *Series) Summary(epoch time.Time) []any {
	kv := []any{
		"columns", columnNames[:],
		"recCnt", len(s.recs),
	}
	if len(s.recs) > 0 {
		kv = append(kv,
			"first", ToTime(epoch, s.recs[0].Timestamp),
			"last", ToTime(epoch, s.recs[len(s.recs)-1].Timestamp),
		)
	}
	return kv
}

// Range is a half-open [Start, End) interval of record indexes.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indexes in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Check returns an error unless r is a non-empty range within [0, n).
func (r Range) Check(n int) error {
	if r.Start < 0 || r.End > n || r.Start >= r.End {
		return fmt.Errorf("range [%d, %d) is outside of [0, %d) or empty", r.Start, r.End, n)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
