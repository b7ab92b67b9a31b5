package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Miller is the Miller cylindrical projection on the unit sphere.
type Miller struct{}

// Project maps a lon/lat point in degrees to projected x/y.
func (Miller) Project(p orb.Point) orb.Point {
	lon := p.Lon() * math.Pi / 180
	lat := p.Lat() * math.Pi / 180
	return orb.Point{lon, 1.25 * math.Log(math.Tan(math.Pi/4+0.4*lat))}
}

// ProjectBound projects the corners of b. Meridians and parallels are
// straight lines under Miller, so the result is exact.
func (m Miller) ProjectBound(b orb.Bound) orb.Bound {
	return orb.Bound{Min: m.Project(b.Min), Max: m.Project(b.Max)}
}

// BoundAround returns the lon/lat box extending dLon and dLat degrees on each
// side of center.
func BoundAround(center orb.Point, dLon, dLat float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{center.Lon() - dLon, center.Lat() - dLat},
		Max: orb.Point{center.Lon() + dLon, center.Lat() + dLat},
	}
}
