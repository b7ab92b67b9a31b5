package render

import (
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

// plotArea maps data and axes-fraction coordinates to pixels for one
// rendering pass.
type plotArea struct {
	box    chart.Box
	xrange chart.Range
	yrange chart.Range
}

func (p plotArea) x(t time.Time) int {
	return p.box.Left + p.xrange.Translate(float64(chart.TimeToFloat64(t)))
}

func (p plotArea) y(v float64) int {
	return p.box.Bottom - p.yrange.Translate(v)
}

// fraction maps axes-fraction coordinates, origin at the bottom left.
func (p plotArea) fraction(fx, fy float64) (int, int) {
	return p.box.Left + int(math.Round(fx*float64(p.box.Width()))),
		p.box.Bottom - int(math.Round(fy*float64(p.box.Height())))
}

// Side selects the y-axis a line or annotation is scaled against.
type Side int

const (
	Left Side = iota
	Right
)

// yAxis maps s to a go-chart axis. go-chart draws its primary axis on the
// right and its secondary axis on the left.
func (s Side) yAxis() chart.YAxisType {
	if s == Right {
		return chart.YAxisPrimary
	}
	return chart.YAxisSecondary
}

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// tickRange is a fixed range that supplies its own ticks. go-chart narrows a
// range to the outermost explicit axis tick, and builds the secondary range
// from the primary axis ticks, so ticks are never set on the axes directly.
type tickRange struct {
	*chart.ContinuousRange
	ticks []chart.Tick
}

var _ chart.TicksProvider = tickRange{}

func (r tickRange) GetTicks(chart.Renderer, chart.Style, chart.ValueFormatter) []chart.Tick {
	return r.ticks
}

// fixedRange returns a range spanning [lo, hi]. Without ticks go-chart
// generates its own.
func fixedRange(lo, hi float64, ticks []chart.Tick) chart.Range {
	cr := &chart.ContinuousRange{Min: lo, Max: hi}
	if len(ticks) == 0 {
		return cr
	}
	return tickRange{ContinuousRange: cr, ticks: ticks}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
