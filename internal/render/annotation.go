package render

import (
	"math"
	"strings"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Annotation labels a data point with text placed at axes-fraction
// coordinates and an arrow pointing from the text to the point.
type Annotation struct {
	Text  string
	At    time.Time
	Value float64
	// Axis is the y-axis Value is read against.
	Axis Side
	// TextX and TextY locate the bottom left corner of the text block as a
	// fraction of the plot area.
	TextX float64
	TextY float64
}

// Note is text placed at axes-fraction coordinates.
type Note struct {
	Text string
	X    float64
	Y    float64
}

const (
	defaultFontSize  = 10.0
	lineSpacing      = 1.3
	arrowHeadLength  = 10.0
	arrowHeadHalfWid = 4.0
	arrowGap         = 3.0
)

type textStyle struct {
	font  *truetype.Font
	size  float64
	color drawing.Color
}

func (ts textStyle) apply(r chart.Renderer) {
	r.SetFont(ts.font)
	r.SetFontSize(ts.size)
	r.SetFontColor(ts.color)
}

// lineHeight returns the baseline to baseline distance in pixels.
func (ts textStyle) lineHeight(r chart.Renderer) int {
	ts.apply(r)
	h := r.MeasureText("Ag").Height()
	return int(math.Ceil(float64(h) * lineSpacing))
}

// textBlock draws multi-line text whose last baseline sits at y and returns
// the box it occupies.
func textBlock(r chart.Renderer, ts textStyle, body string, x, y int) chart.Box {
	lines := strings.Split(body, "\n")
	lh := ts.lineHeight(r)
	ts.apply(r)
	box := chart.Box{Left: x, Right: x, Bottom: y, Top: y - lh*len(lines)}
	for i, line := range lines {
		by := y - lh*(len(lines)-1-i)
		r.Text(line, x, by)
		if w := r.MeasureText(line).Width(); x+w > box.Right {
			box.Right = x + w
		}
	}
	box.Bottom = y + lh/4
	return box
}

// annotationElement draws a on top of the series and the legend. xr and yr
// are the chart ranges, which hold the plot area domain by the time elements
// are rendered.
func annotationElement(a Annotation, xr, yr chart.Range, ts textStyle) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, _ chart.Style) {
		p := plotArea{box: canvasBox, xrange: xr, yrange: yr}
		tx, ty := p.fraction(a.TextX, a.TextY)
		r.ResetStyle()
		box := textBlock(r, ts, a.Text, tx, ty)
		drawArrow(r, box, float64(p.x(a.At)), float64(p.y(a.Value)), ts.color)
		r.ResetStyle()
	}
}

// drawArrow draws a line from the edge of box to (x, y) ending in a filled
// head.
func drawArrow(r chart.Renderer, box chart.Box, x, y float64, c drawing.Color) {
	cx := float64(box.Left+box.Right) / 2
	cy := float64(box.Top+box.Bottom) / 2
	dx, dy := x-cx, y-cy
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return
	}
	ux, uy := dx/dist, dy/dist

	// Leave the text block where the ray from its centre crosses its edge.
	exit := math.Inf(1)
	if ux != 0 {
		exit = math.Min(exit, float64(box.Width())/2/math.Abs(ux))
	}
	if uy != 0 {
		exit = math.Min(exit, float64(box.Height())/2/math.Abs(uy))
	}
	start := exit + arrowGap
	end := dist - arrowGap
	if end-start < arrowHeadLength {
		return
	}
	sx, sy := cx+ux*start, cy+uy*start
	tipX, tipY := cx+ux*end, cy+uy*end
	baseX, baseY := tipX-ux*arrowHeadLength, tipY-uy*arrowHeadLength

	r.SetStrokeColor(c)
	r.SetStrokeWidth(1)
	r.MoveTo(round(sx), round(sy))
	r.LineTo(round(baseX), round(baseY))
	r.Stroke()

	r.SetFillColor(c)
	r.SetStrokeWidth(0)
	r.MoveTo(round(tipX), round(tipY))
	r.LineTo(round(baseX-uy*arrowHeadHalfWid), round(baseY+ux*arrowHeadHalfWid))
	r.LineTo(round(baseX+uy*arrowHeadHalfWid), round(baseY-ux*arrowHeadHalfWid))
	r.Close()
	r.Fill()
}

func round(v float64) int {
	return int(math.Round(v))
}

// noteElement draws a Note.
func noteElement(n Note, ts textStyle) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, _ chart.Style) {
		p := plotArea{box: canvasBox}
		x, y := p.fraction(n.X, n.Y)
		r.ResetStyle()
		textBlock(r, ts, n.Text, x, y)
		r.ResetStyle()
	}
}
