// Package geotest writes small shapefile fixtures for tests.
package geotest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
)

// Polygon is a named single-ring polygon in lon/lat degrees.
type Polygon struct {
	Name string
	Ring [][2]float64
}

// WriteShapefile writes polys to a polygon shapefile at path (which should
// end in .shp) with a "Name" attribute column.
func WriteShapefile(t testing.TB, path string, polys []Polygon) {
	t.Helper()
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		t.Fatalf("cannot create shapefile: %v", err)
	}
	if err := w.SetFields([]shp.Field{shp.StringField("Name", 32)}); err != nil {
		w.Close()
		t.Fatalf("cannot set shapefile fields: %v", err)
	}
	for _, p := range polys {
		pts := make([]shp.Point, len(p.Ring))
		for i, c := range p.Ring {
			pts[i] = shp.Point{X: c[0], Y: c[1]}
		}
		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{pts}))
		n := w.Write(&poly)
		if err := w.WriteAttribute(int(n), 0, p.Name); err != nil {
			w.Close()
			t.Fatalf("cannot write shapefile attribute: %v", err)
		}
	}
	w.Close()

	// The writer names the attribute table "<base>dbf", dropping the dot the
	// reader expects.
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if _, err := os.Stat(base + "dbf"); err == nil {
		if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
			t.Fatalf("cannot rename attribute table: %v", err)
		}
	}
}

// DBFPath returns the attribute table path of the shapefile at path.
func DBFPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".dbf"
}

// Box returns a closed rectangular ring.
func Box(minLon, minLat, maxLon, maxLat float64) [][2]float64 {
	return [][2]float64{
		{minLon, minLat}, {minLon, maxLat}, {maxLon, maxLat}, {maxLon, minLat}, {minLon, minLat},
	}
}
