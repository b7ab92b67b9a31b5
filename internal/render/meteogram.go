package render

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rtm0/meteogram/internal/kestrel"
)

// Line is one plotted variable.
type Line struct {
	Name   string
	Values []float64
	Color  drawing.Color
	// Axis selects the y-axis the line is scaled against.
	Axis Side
}

// Axis describes a fixed y-axis.
type Axis struct {
	Name string
	Min  float64
	Max  float64
	// TickStep, when positive, places a labelled tick on every multiple of
	// it between Min and Max.
	TickStep float64
}

// Meteogram is a multi-variable time chart. It holds everything needed to
// build the chart; nothing is taken from global state.
type Meteogram struct {
	Title []string
	Times []time.Time
	Lines []Line
	// Segments are drawn as separate polylines so gaps in the record stay
	// visible.
	Segments    []kestrel.Range
	Intervals   []Interval
	Annotations []Annotation
	Notes       []Note
	Inset       *Inset

	XName      string
	XTickEvery time.Duration
	XTickFmt   string
	Left       Axis
	Right      Axis

	Width     int
	Height    int
	FontSize  float64
	LineWidth float64
	Font      *truetype.Font
}

const (
	titlePadding  = 64
	sidePadding   = 16
	bottomPadding = 16
)

// Validate checks that lines and segments are consistent with the time axis.
func (m *Meteogram) Validate() error {
	n := len(m.Times)
	if n == 0 {
		return errors.New("no samples to plot")
	}
	if len(m.Lines) == 0 {
		return errors.New("no lines to plot")
	}
	if len(m.Segments) == 0 {
		return errors.New("no segments to plot")
	}
	for _, l := range m.Lines {
		if len(l.Values) != n {
			return fmt.Errorf("line %q has %d values; want %d", l.Name, len(l.Values), n)
		}
	}
	for _, seg := range m.Segments {
		if err := seg.Check(n); err != nil {
			return fmt.Errorf("segment: %w", err)
		}
		if seg.Len() < 2 {
			return fmt.Errorf("segment %v must hold at least two samples", seg)
		}
	}
	for _, a := range []Axis{m.Left, m.Right} {
		if !(a.Max > a.Min) {
			return fmt.Errorf("axis %q: max %v must exceed min %v", a.Name, a.Max, a.Min)
		}
	}
	return nil
}

// Chart builds the go-chart chart for m.
func (m *Meteogram) Chart() (*chart.Chart, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	font := m.Font
	if font == nil {
		f, err := chart.GetDefaultFont()
		if err != nil {
			return nil, fmt.Errorf("cannot load font: %w", err)
		}
		font = f
	}
	fontSize := m.FontSize
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	ts := textStyle{font: font, size: fontSize, color: Black}

	xmin, xmax := m.timeExtent()
	xr := fixedRange(float64(chart.TimeToFloat64(xmin)), float64(chart.TimeToFloat64(xmax)), timeTicks(xmin, xmax, m.XTickEvery, m.XTickFmt))
	left := fixedRange(m.Left.Min, m.Left.Max, valueTicks(m.Left))
	right := fixedRange(m.Right.Min, m.Right.Max, valueTicks(m.Right))

	var series []chart.Series
	for _, iv := range m.Intervals {
		series = append(series, spanSeries{interval: iv})
	}
	lw := m.LineWidth
	if lw <= 0 {
		lw = 1.5
	}
	for _, l := range m.Lines {
		for _, seg := range m.Segments {
			series = append(series, chart.TimeSeries{
				Name:    l.Name,
				YAxis:   l.Axis.yAxis(),
				XValues: m.Times[seg.Start:seg.End],
				YValues: l.Values[seg.Start:seg.End],
				Style: chart.Style{
					StrokeColor: l.Color,
					StrokeWidth: lw,
				},
			})
		}
	}
	if m.Inset != nil {
		series = append(series, insetSeries{inset: *m.Inset})
	}

	grid := chart.Style{StrokeColor: WithOpacity(GridGray, 0.5), StrokeWidth: 1}
	axisName := chart.Style{Font: font, FontSize: fontSize, FontColor: Black}
	c := &chart.Chart{
		Width:  m.Width,
		Height: m.Height,
		Font:   font,
		Background: chart.Style{
			FillColor: White,
			Padding:   chart.Box{Top: titlePadding, Left: sidePadding, Right: sidePadding, Bottom: bottomPadding},
		},
		XAxis: chart.XAxis{
			Name:           m.XName,
			NameStyle:      axisName,
			Range:          xr,
			GridMajorStyle: grid,
			GridMinorStyle: chart.Style{Hidden: true},
		},
		YAxis: chart.YAxis{
			Name:           m.Right.Name,
			NameStyle:      axisName,
			Range:          right,
			GridMajorStyle: chart.Style{Hidden: true},
			GridMinorStyle: chart.Style{Hidden: true},
		},
		YAxisSecondary: chart.YAxis{
			Name:           m.Left.Name,
			NameStyle:      axisName,
			Range:          left,
			GridMajorStyle: grid,
			GridMinorStyle: chart.Style{Hidden: true},
		},
		Series: series,
	}

	var legend []legendEntry
	seen := make(map[string]bool)
	for _, l := range m.Lines {
		if seen[l.Name] {
			continue
		}
		seen[l.Name] = true
		legend = append(legend, legendEntry{label: l.Name, color: l.Color})
	}
	for _, iv := range m.Intervals {
		legend = append(legend, legendEntry{label: iv.Label, color: iv.fill(), patch: true})
	}

	c.Elements = append(c.Elements, legendElement(legend, ts))
	for _, n := range m.Notes {
		c.Elements = append(c.Elements, noteElement(n, ts))
	}
	for _, a := range m.Annotations {
		yr := left
		if a.Axis == Right {
			yr = right
		}
		c.Elements = append(c.Elements, annotationElement(a, xr, yr, ts))
	}
	title := ts
	title.size = fontSize * 1.2
	c.Elements = append(c.Elements, titleElement(m.Title, title))
	return c, nil
}

// timeExtent spans every plotted segment and every interval.
func (m *Meteogram) timeExtent() (time.Time, time.Time) {
	var lo, hi time.Time
	extend := func(t time.Time) {
		if lo.IsZero() || t.Before(lo) {
			lo = t
		}
		if hi.IsZero() || t.After(hi) {
			hi = t
		}
	}
	for _, seg := range m.Segments {
		extend(m.Times[seg.Start])
		extend(m.Times[seg.End-1])
	}
	for _, iv := range m.Intervals {
		extend(iv.Start)
		extend(iv.End)
	}
	return lo, hi
}

// timeTicks labels every multiple of step within [lo, hi].
func timeTicks(lo, hi time.Time, step time.Duration, layout string) []chart.Tick {
	if step <= 0 {
		return nil
	}
	var ticks []chart.Tick
	t := lo.Truncate(step)
	if t.Before(lo) {
		t = t.Add(step)
	}
	for ; !t.After(hi); t = t.Add(step) {
		ticks = append(ticks, chart.Tick{Value: float64(chart.TimeToFloat64(t)), Label: t.Format(layout)})
	}
	return ticks
}

// valueTicks labels every multiple of a.TickStep within the axis limits.
func valueTicks(a Axis) []chart.Tick {
	if a.TickStep <= 0 {
		return nil
	}
	var ticks []chart.Tick
	first := math.Ceil(a.Min/a.TickStep) * a.TickStep
	for i := 0; ; i++ {
		v := first + float64(i)*a.TickStep
		if v > a.Max+1e-9 {
			break
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return ticks
}
