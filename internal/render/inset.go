package render

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rtm0/meteogram/internal/geo"
)

// Inset is a small locator map drawn inside the plot area.
type Inset struct {
	// Marker is the observation site in lon/lat degrees.
	Marker orb.Point
	// Bound is the lon/lat extent of the map.
	Bound orb.Bound
	// Land is drawn above a water background, clipped to Bound. Without a
	// land layer the whole map is land.
	Land []geo.Feature
	// Water is drawn above Land, clipped to Bound.
	Water []geo.Feature
	// Overlay is drawn above Land, clipped to Bound.
	Overlay []geo.Feature
	// Size of the inset as a fraction of the plot area.
	WidthFraction  float64
	HeightFraction float64
}

const (
	insetMargin      = 6
	markerRadius     = 8.0
	markerInnerRatio = 0.382
)

var (
	waterFill    = Blue
	landFill     = Goldenrod
	landEdge     = Black
	overlayFill  = WithOpacity(DarkGray, 0.6)
	overlayEdge  = WithOpacity(White, 0.6)
	markerFill   = Red
	mapFrameEdge = Black
)

// insetSeries draws an Inset anchored to the right edge of the plot area,
// vertically centred, keeping the aspect ratio of the projected map.
type insetSeries struct {
	inset Inset
	proj  geo.Miller
}

var _ chart.Series = insetSeries{}

func (s insetSeries) GetName() string { return "inset" }

func (s insetSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (s insetSeries) GetStyle() chart.Style { return chart.Style{} }

func (s insetSeries) Validate() error { return nil }

// mapFrame converts projected coordinates to pixels.
type mapFrame struct {
	pb    orb.Bound
	scale float64
	left  float64
	top   float64
}

func (f mapFrame) point(p orb.Point) (int, int) {
	return round(f.left + (p[0]-f.pb.Min[0])*f.scale), round(f.top + (f.pb.Max[1]-p[1])*f.scale)
}

func (s insetSeries) frame(canvasBox chart.Box) (mapFrame, bool) {
	w := float64(canvasBox.Width()) * s.inset.WidthFraction
	h := float64(canvasBox.Height()) * s.inset.HeightFraction
	pb := s.proj.ProjectBound(s.inset.Bound)
	pw, ph := pb.Max[0]-pb.Min[0], pb.Max[1]-pb.Min[1]
	if w <= 0 || h <= 0 || pw <= 0 || ph <= 0 {
		return mapFrame{}, false
	}
	scale := math.Min(w/pw, h/ph)
	mw, mh := pw*scale, ph*scale
	right := float64(canvasBox.Right - insetMargin)
	mid := float64(canvasBox.Top) + float64(canvasBox.Height())/2
	return mapFrame{pb: pb, scale: scale, left: right - mw, top: mid - mh/2}, true
}

func (s insetSeries) Render(r chart.Renderer, canvasBox chart.Box, _, _ chart.Range, _ chart.Style) {
	f, ok := s.frame(canvasBox)
	if !ok {
		return
	}
	r.ResetStyle()

	x0, y0 := f.point(s.proj.Project(s.inset.Bound.Min))
	x1, y1 := f.point(s.proj.Project(s.inset.Bound.Max))
	r.SetFillColor(s.background())
	r.SetStrokeColor(mapFrameEdge)
	r.SetStrokeWidth(1)
	r.MoveTo(x0, y1)
	r.LineTo(x1, y1)
	r.LineTo(x1, y0)
	r.LineTo(x0, y0)
	r.Close()
	r.FillStroke()

	s.features(r, f, s.inset.Land, landFill, landEdge, 1)
	s.features(r, f, s.inset.Water, waterFill, landEdge, 1)
	s.features(r, f, s.inset.Overlay, overlayFill, overlayEdge, 1.5)

	mx, my := f.point(s.proj.Project(s.inset.Marker))
	drawStar(r, float64(mx), float64(my), markerRadius, markerFill)
	r.ResetStyle()
}

func (s insetSeries) background() drawing.Color {
	if len(s.inset.Land) == 0 {
		return landFill
	}
	return waterFill
}

func (s insetSeries) features(r chart.Renderer, f mapFrame, feats []geo.Feature, fill, edge drawing.Color, width float64) {
	for _, feat := range feats {
		if len(feat.Polygon) == 0 {
			continue
		}
		r.SetFillColor(fill)
		r.SetStrokeColor(edge)
		r.SetStrokeWidth(width)
		for _, ring := range feat.Polygon {
			if len(ring) < 3 {
				continue
			}
			for i, pt := range ring {
				x, y := f.point(s.proj.Project(pt))
				if i == 0 {
					r.MoveTo(x, y)
				} else {
					r.LineTo(x, y)
				}
			}
			r.Close()
		}
		r.FillStroke()
	}
}

// drawStar draws a filled five pointed star centred on (cx, cy).
func drawStar(r chart.Renderer, cx, cy, radius float64, c drawing.Color) {
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(1)
	for i := 0; i < 10; i++ {
		rad := radius
		if i%2 == 1 {
			rad *= markerInnerRatio
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		x, y := round(cx+rad*math.Cos(a)), round(cy+rad*math.Sin(a))
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.Close()
	r.FillStroke()
}
