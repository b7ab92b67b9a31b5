package kestrel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Options control how a Kestrel text export is parsed.
type Options struct {
	// HeaderLines is the number of physical lines skipped before any
	// parsing takes place, comments and blank lines included.
	HeaderLines int
	// Comment starts a comment that runs to the end of the line.
	Comment string
	// Delimiter separates the columns of a row.
	Delimiter string
}

// DefaultOptions matches the meter's "export to text" layout.
var DefaultOptions = Options{
	HeaderLines: 4,
	Comment:     "#",
	Delimiter:   ",",
}

// Scanner reads records from a Kestrel text export one row at a time.
type Scanner struct {
	r      *bufio.Scanner
	closer io.Closer
	opts   Options
	line   int
	rec    Record
	err    error
}

// NewScanner opens the file at filePath for scanning.
func NewScanner(filePath string, opts Options) (*Scanner, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open kestrel file: %w", err)
	}
	s := NewReaderScanner(f, opts)
	s.closer = f
	return s, nil
}

// NewReaderScanner creates a scanner reading from r.
func NewReaderScanner(r io.Reader, opts Options) *Scanner {
	if opts.Delimiter == "" {
		opts.Delimiter = DefaultOptions.Delimiter
	}
	return &Scanner{r: bufio.NewScanner(r), opts: opts}
}

// Close closes the underlying file, if any.
func (s *Scanner) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Scan advances to the next data row. It returns false at the end of the
// input or on the first error, which is then available through Err.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for s.r.Scan() {
		s.line++
		if s.line <= s.opts.HeaderLines {
			continue
		}
		text := s.r.Text()
		if s.opts.Comment != "" {
			if i := strings.Index(text, s.opts.Comment); i >= 0 {
				text = text[:i]
			}
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		rec, err := parseRow(text, s.opts.Delimiter)
		if err != nil {
			s.err = fmt.Errorf("line %d: %w", s.line, err)
			return false
		}
		s.rec = rec
		return true
	}
	if err := s.r.Err(); err != nil {
		s.err = fmt.Errorf("line %d: %w", s.line+1, err)
	}
	return false
}

// Record returns the record read by the last successful Scan.
func (s *Scanner) Record() Record {
	return s.rec
}

// Line returns the 1-based physical line number of the last row read.
func (s *Scanner) Line() int {
	return s.line
}

// Err returns the first error encountered while scanning.
func (s *Scanner) Err() error {
	return s.err
}

func parseRow(text, delim string) (Record, error) {
	fields := strings.Split(text, delim)
	if len(fields) != numColumns {
		return Record{}, fmt.Errorf("got %d columns; want %d", len(fields), numColumns)
	}
	var v [numColumns]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Record{}, fmt.Errorf("column %q: %w", columnNames[i], err)
		}
		v[i] = x
	}
	return recordFromValues(v), nil
}
