package kestrel

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `Kestrel 5400
Device Name,K5400
Serial,2301234
FORMATTED DATE_TIME,WSPD,TEMP,WCHL,RELH,HEAT,DEWP,WETB,PRES,ALTI,DALT
# logging started
556641072,0.0,88.1,88.1,55.2,95.0,70.3,74.6,993.6,1025.3,2620
556641074,1.2,88.3,88.3,55.0,95.2,70.2,74.6,993.6,1025.3,2625 # sensor shaded

556641076,0.8,88.2,88.2,54.9,95.1,70.1,74.5,993.5,1025.2,2623
`

func TestReadSkipsHeaderAndComments(t *testing.T) {
	s, err := Read(strings.NewReader(sample), DefaultOptions)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got, want := s.Len(), 3; got != want {
		t.Fatalf("Len() = %d; want %d", got, want)
	}
	want := Record{
		Timestamp:        556641074,
		WindSpeed:        1.2,
		Temperature:      88.3,
		WindChill:        88.3,
		RelativeHumidity: 55.0,
		HeatIndex:        95.2,
		Dewpoint:         70.2,
		WetBulb:          74.6,
		StationPressure:  993.6,
		Altimeter:        1025.3,
		DensityAltitude:  2625,
	}
	if got := s.At(1); got != want {
		t.Errorf("At(1) = %+v; want %+v", got, want)
	}
}

func TestColumnsHaveEqualLength(t *testing.T) {
	var b strings.Builder
	const header, rows = 4, 25
	for i := 0; i < header; i++ {
		b.WriteString("header\n")
	}
	for i := 0; i < rows; i++ {
		b.WriteString("1,2,3,4,5,6,7,8,9,10,11\n")
	}
	s, err := Read(strings.NewReader(b.String()), DefaultOptions)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	getters := []func(Record) float64{
		func(r Record) float64 { return r.Timestamp },
		func(r Record) float64 { return r.WindSpeed },
		func(r Record) float64 { return r.Temperature },
		func(r Record) float64 { return r.WindChill },
		func(r Record) float64 { return r.RelativeHumidity },
		func(r Record) float64 { return r.HeatIndex },
		func(r Record) float64 { return r.Dewpoint },
		func(r Record) float64 { return r.WetBulb },
		func(r Record) float64 { return r.StationPressure },
		func(r Record) float64 { return r.Altimeter },
		func(r Record) float64 { return r.DensityAltitude },
	}
	for col, get := range getters {
		vals := s.Column(get)
		if len(vals) != rows {
			t.Fatalf("column %d has %d values; want %d", col, len(vals), rows)
		}
		for _, v := range vals {
			if v != float64(col+1) {
				t.Fatalf("column %d value = %v; want %v", col, v, col+1)
			}
		}
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"too few columns", "h\nh\nh\nh\n1,2,3\n", "line 5: got 3 columns; want 11"},
		{"too many columns", "h\nh\nh\nh\n1,2,3,4,5,6,7,8,9,10,11\n1,2,3,4,5,6,7,8,9,10,11,12\n", "line 6: got 12 columns"},
		{"not a number", "h\nh\nh\nh\n1,2,x,4,5,6,7,8,9,10,11\n", `line 5: column "temp"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.body), DefaultOptions)
			if err == nil {
				t.Fatal("Read succeeded; want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q; want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kestrel.txt")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path, DefaultOptions)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d; want 3", s.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"), DefaultOptions)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load error = %v; want fs.ErrNotExist", err)
	}
}

func TestScannerLine(t *testing.T) {
	s := NewReaderScanner(strings.NewReader(sample), DefaultOptions)
	var lines []int
	for s.Scan() {
		lines = append(lines, s.Line())
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	want := []int{6, 7, 9}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v; want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("lines = %v; want %v", lines, want)
		}
	}
}
