package meteogram

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"

	"github.com/rtm0/meteogram/internal/kestrel"
)

// Eclipse is one shaded phase of the eclipse.
type Eclipse struct {
	Label   string
	Start   time.Time
	End     time.Time
	Opacity float64
}

// Station describes where the record was taken.
type Station struct {
	Place       string
	Location    orb.Point // lon, lat
	ElevationFt int
	// Zone is the abbreviation printed after local times.
	Zone string
}

// Config holds every parameter of a run.
type Config struct {
	// Dir is prepended to relative paths below.
	Dir string

	InputPath string
	Input     kestrel.Options
	Epoch     time.Time
	// GapThreshold is the largest pause between records, in seconds, that
	// is not reported as a gap.
	GapThreshold float64

	// Segments are plotted as separate lines. They are chosen by hand and
	// are not derived from the detected gaps.
	Segments []kestrel.Range
	// ExtremaRange is searched for the annotated minimum temperature and
	// maximum dewpoint.
	ExtremaRange kestrel.Range

	Partial Eclipse
	Total   Eclipse

	Title   string
	Station Station
	Credit  string

	TempMin, TempMax, TempTickStep float64
	PresMin, PresMax, PresTickStep float64
	TimeTickEvery                  time.Duration

	ShapefilePath string
	// StatesShapefilePath, when set, supplies the land polygons of the
	// inset map, drawn over water. Without it the map is all land.
	StatesShapefilePath string
	// LakesShapefilePath, when set, supplies water polygons drawn over the
	// land.
	LakesShapefilePath string
	// MapHalfWidth and MapHalfHeight extend the inset map around the
	// station, in degrees.
	MapHalfWidth  float64
	MapHalfHeight float64

	Width  int
	Height int

	OutputPath string
	// NetCDFPath, when set, receives the plotted columns.
	NetCDFPath string
	// MetricsPath, when set, receives run metrics in the Prometheus text
	// format.
	MetricsPath string
}

// DefaultConfig returns the parameters of the 21 August 2017 observation
// at Vonore, Tennessee.
func DefaultConfig() Config {
	day := func(h, m, s int) time.Time {
		return time.Date(2017, time.August, 21, h, m, s, 0, time.UTC)
	}
	return Config{
		InputPath:    "kestrel_20170821_eclipse.txt",
		Input:        kestrel.DefaultOptions,
		Epoch:        kestrel.Epoch,
		GapThreshold: 10,
		// Records before 131 were biased warm by the sun on the sensor.
		// The meter powered down for 15 minutes after record 219.
		Segments:     []kestrel.Range{{Start: 131, End: 220}, {Start: 220, End: 2297}},
		ExtremaRange: kestrel.Range{Start: 220, End: 2297},
		Partial:      Eclipse{Label: "Partial Eclipse", Start: day(13, 4, 32), End: day(15, 58, 59), Opacity: 0.1},
		Total:        Eclipse{Label: "Total Eclipse", Start: day(14, 33, 10), End: day(14, 35, 40), Opacity: 0.4},
		Title:        "21 August 2017 Total Solar Eclipse",
		Station: Station{
			Place:       "Vonore, TN, USA",
			Location:    orb.Point{-84.2164, 35.5798},
			ElevationFt: 858,
			Zone:        "EDT",
		},
		Credit:        "Plot by Massey Bartolini",
		TempMin:       55,
		TempMax:       103,
		TempTickStep:  5,
		PresMin:       989,
		PresMax:       998,
		PresTickStep:  1,
		TimeTickEvery: 15 * time.Minute,
		ShapefilePath: filepath.Join("shapefiles", "upath17.shp"),
		MapHalfWidth:  4,
		MapHalfHeight: 2,
		Width:         1200,
		Height:        700,
		OutputPath:    "eclipse_20170821.png",
	}
}

// Validate checks the parameters that do not depend on the input data.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input path is empty")
	}
	if c.OutputPath == "" {
		return errors.New("output path is empty")
	}
	if c.ShapefilePath == "" {
		return errors.New("shapefile path is empty")
	}
	if len(c.Segments) == 0 {
		return errors.New("no segments to plot")
	}
	for _, e := range []Eclipse{c.Partial, c.Total} {
		if !e.End.After(e.Start) {
			return fmt.Errorf("%s ends at %v, before it starts at %v", e.Label, e.End, e.Start)
		}
	}
	if !(c.TempMax > c.TempMin) || !(c.PresMax > c.PresMin) {
		return errors.New("axis limits are inverted")
	}
	if c.MapHalfWidth <= 0 || c.MapHalfHeight <= 0 {
		return errors.New("inset map extent must be positive")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size %dx%d is invalid", c.Width, c.Height)
	}
	return nil
}

// checkData validates the index ranges against the number of records.
func (c *Config) checkData(n int) error {
	for _, seg := range c.Segments {
		if err := seg.Check(n); err != nil {
			return fmt.Errorf("segment: %w", err)
		}
	}
	if err := c.ExtremaRange.Check(n); err != nil {
		return fmt.Errorf("extrema range: %w", err)
	}
	return nil
}

func (c *Config) path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
