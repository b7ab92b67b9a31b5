package render

import (
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Interval is a shaded time window, such as an eclipse phase.
type Interval struct {
	Label   string
	Start   time.Time
	End     time.Time
	Color   drawing.Color
	Opacity float64
}

func (iv Interval) fill() drawing.Color {
	return WithOpacity(iv.Color, iv.Opacity)
}

// spanSeries shades an interval across the full height of the plot area.
type spanSeries struct {
	interval Interval
}

var _ chart.Series = spanSeries{}

func (s spanSeries) GetName() string { return s.interval.Label }

func (s spanSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (s spanSeries) GetStyle() chart.Style { return chart.Style{FillColor: s.interval.fill()} }

func (s spanSeries) Validate() error { return nil }

func (s spanSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	p := plotArea{box: canvasBox, xrange: xrange, yrange: yrange}
	x0 := clampInt(p.x(s.interval.Start), canvasBox.Left, canvasBox.Right)
	x1 := clampInt(p.x(s.interval.End), canvasBox.Left, canvasBox.Right)
	if x1 <= x0 {
		return
	}
	r.ResetStyle()
	r.SetFillColor(s.interval.fill())
	r.SetStrokeWidth(0)
	r.MoveTo(x0, canvasBox.Top)
	r.LineTo(x1, canvasBox.Top)
	r.LineTo(x1, canvasBox.Bottom)
	r.LineTo(x0, canvasBox.Bottom)
	r.Close()
	r.Fill()
	r.ResetStyle()
}
