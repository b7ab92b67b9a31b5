package geo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
)

// Feature is a named polygon read from a shapefile, in lon/lat degrees.
type Feature struct {
	Name    string
	Polygon orb.Polygon
}

// Layer is the polygon content of one shapefile.
type Layer struct {
	Name     string
	Features []Feature
}

// nameField is the attribute holding the feature name.
const nameField = "Name"

// LoadShapefile reads every polygon of the shapefile at filePath. Coordinates
// are expected in geographic lon/lat degrees. The attribute table (.dbf) must
// carry a Name field.
func LoadShapefile(filePath string) (*Layer, error) {
	r, err := shp.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open shapefile: %w", err)
	}
	defer r.Close()

	nameIdx := -1
	for i, f := range r.Fields() {
		if strings.EqualFold(f.String(), nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("%s: no %q attribute; is the .dbf file missing?", filePath, nameField)
	}

	l := &Layer{Name: strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))}
	for r.Next() {
		n, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			return nil, fmt.Errorf("%s: shape %d is %T; want *shp.Polygon", filePath, n, shape)
		}
		l.Features = append(l.Features, Feature{
			Name:    strings.Trim(r.ReadAttribute(n, nameIdx), " \x00"),
			Polygon: polygonRings(poly),
		})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("cannot read shapefile %s: %w", filePath, err)
	}
	return l, nil
}

func polygonRings(p *shp.Polygon) orb.Polygon {
	out := make(orb.Polygon, 0, len(p.Parts))
	for i, start := range p.Parts {
		end := int32(len(p.Points))
		if i+1 < len(p.Parts) {
			end = p.Parts[i+1]
		}
		ring := make(orb.Ring, 0, end-start)
		for _, pt := range p.Points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		out = append(out, ring)
	}
	return out
}

// Clip returns the features of l cut to b. Features falling entirely outside
// of b are dropped.
func (l *Layer) Clip(b orb.Bound) []Feature {
	var out []Feature
	for _, f := range l.Features {
		if !f.Polygon.Bound().Intersects(b) {
			continue
		}
		p := clip.Polygon(b, f.Polygon.Clone())
		if len(p) == 0 || len(p[0]) < 3 {
			continue
		}
		out = append(out, Feature{Name: f.Name, Polygon: p})
	}
	return out
}
