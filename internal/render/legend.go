package render

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// legendEntry is either a line sample or a filled patch.
type legendEntry struct {
	label string
	color drawing.Color
	patch bool
}

const (
	legendPad    = 6
	legendSwatch = 22
	legendGap    = 6
	legendMargin = 8
)

// legendElement draws the entries in a framed box centred on the left edge
// of the plot area.
func legendElement(entries []legendEntry, ts textStyle) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, _ chart.Style) {
		if len(entries) == 0 {
			return
		}
		r.ResetStyle()
		lh := ts.lineHeight(r)
		ts.apply(r)
		textW := 0
		for _, e := range entries {
			if w := r.MeasureText(e.label).Width(); w > textW {
				textW = w
			}
		}
		w := 2*legendPad + legendSwatch + legendGap + textW
		h := 2*legendPad + lh*len(entries)
		left := canvasBox.Left + legendMargin
		top := canvasBox.Top + (canvasBox.Height()-h)/2

		r.SetFillColor(WithOpacity(White, 0.8))
		r.SetStrokeColor(GridGray)
		r.SetStrokeWidth(1)
		r.MoveTo(left, top)
		r.LineTo(left+w, top)
		r.LineTo(left+w, top+h)
		r.LineTo(left, top+h)
		r.Close()
		r.FillStroke()

		for i, e := range entries {
			rowTop := top + legendPad + i*lh
			mid := rowTop + lh/2
			sx := left + legendPad
			if e.patch {
				r.SetFillColor(e.color)
				r.SetStrokeWidth(0)
				r.MoveTo(sx, mid-lh/4)
				r.LineTo(sx+legendSwatch, mid-lh/4)
				r.LineTo(sx+legendSwatch, mid+lh/4)
				r.LineTo(sx, mid+lh/4)
				r.Close()
				r.Fill()
			} else {
				r.SetStrokeColor(e.color)
				r.SetStrokeWidth(2)
				r.MoveTo(sx, mid)
				r.LineTo(sx+legendSwatch, mid)
				r.Stroke()
			}
			ts.apply(r)
			r.Text(e.label, sx+legendSwatch+legendGap, rowTop+lh*3/4)
		}
		r.ResetStyle()
	}
}

// titleElement draws centred lines of text above the plot area.
func titleElement(lines []string, ts textStyle) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, _ chart.Style) {
		if len(lines) == 0 {
			return
		}
		r.ResetStyle()
		lh := ts.lineHeight(r)
		ts.apply(r)
		cx := canvasBox.Left + canvasBox.Width()/2
		for i, line := range lines {
			w := r.MeasureText(line).Width()
			y := canvasBox.Top - legendMargin - lh*(len(lines)-1-i)
			r.Text(line, cx-w/2, y)
		}
		r.ResetStyle()
	}
}
