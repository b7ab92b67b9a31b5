package meteogram

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rtm0/meteogram/internal/geo/geotest"
	"github.com/rtm0/meteogram/internal/kestrel"
	"github.com/rtm0/meteogram/internal/render"
)

const (
	testRows = 2300
	// 2017-08-21 12:00:00 in meter seconds.
	noon = 556632000
)

// writeFixture lays out an input file, a totality shapefile and a states
// shapefile under dir.
func writeFixture(t *testing.T, dir string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("Kestrel 5500 Weather Meter\nDevice,K5500\nSerial,2251234\n")
	b.WriteString("times,wspd,temp,wchl,relh,heat,dewp,wetb,pres,alti,dalt\n")
	b.WriteString("# exported log\n")
	ts := float64(noon)
	for i := 0; i < testRows; i++ {
		if i == 220 {
			ts += 900
		}
		temp := 88.0
		switch {
		case i >= 1500 && i < 1510:
			temp = 71.6
		case i >= 1400 && i < 1600:
			temp = 74.0
		}
		dewp := 70.0
		if i == 1620 {
			dewp = 72.4
		}
		fmt.Fprintf(&b, "%.0f,1.2,%.1f,%.1f,55.0,%.1f,%.1f,74.6,%.1f,1025.3,2620\n",
			ts, temp, temp, temp+6, dewp, 993.5+float64(i%5)/10)
		ts += 5
	}
	if err := os.WriteFile(filepath.Join(dir, "kestrel.txt"), []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "shapefiles"), 0o755); err != nil {
		t.Fatal(err)
	}
	geotest.WriteShapefile(t, filepath.Join(dir, "shapefiles", "upath17.shp"), []geotest.Polygon{
		{Name: "Umbra", Ring: [][2]float64{{-90, 34.5}, {-90, 36.6}, {-80, 35.4}, {-80, 33.3}, {-90, 34.5}}},
	})
	geotest.WriteShapefile(t, filepath.Join(dir, "shapefiles", "states.shp"), []geotest.Polygon{
		{Name: "Tennessee", Ring: geotest.Box(-90, 35, -81.6, 36.7)},
		{Name: "Georgia", Ring: geotest.Box(-85.6, 30.4, -80.8, 35)},
	})
}

func testConfig(dir string) Config {
	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.InputPath = "kestrel.txt"
	cfg.StatesShapefilePath = filepath.Join("shapefiles", "states.shp")
	cfg.OutputPath = "eclipse.png"
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	cfg := testConfig(dir)
	cfg.NetCDFPath = "eclipse.nc"
	cfg.MetricsPath = "meteogram.prom"

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	if err := Run(context.Background(), logger, cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "eclipse.png"))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	// The crop only trims the white margin.
	if b := img.Bounds(); b.Dx() < cfg.Width*8/10 || b.Dy() < cfg.Height*8/10 || b.Dx() > cfg.Width || b.Dy() > cfg.Height {
		t.Errorf("image bounds = %v; want close to %dx%d", b, cfg.Width, cfg.Height)
	}
	// Lines are antialiased, area fills are exact.
	for _, c := range []struct {
		name  string
		color color.RGBA
		tol   int
	}{
		{"heat index", color.RGBA{R: 191, B: 191, A: 255}, 70},
		{"temperature", color.RGBA{R: 255, A: 255}, 70},
		{"dewpoint", color.RGBA{G: 128, A: 255}, 70},
		{"land", color.RGBA{R: 218, G: 165, B: 32, A: 255}, 20},
	} {
		if n := countNear(img, c.color, c.tol); n < 100 {
			t.Errorf("%s: %d pixels of %v; want the colour drawn", c.name, n, c.color)
		}
	}

	for _, name := range []string{"eclipse.nc", "meteogram.prom"} {
		if fi, err := os.Stat(filepath.Join(dir, name)); err != nil || fi.Size() == 0 {
			t.Errorf("%s was not written: %v", name, err)
		}
	}
	prom, err := os.ReadFile(filepath.Join(dir, "meteogram.prom"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(prom), "meteogram_samples_loaded 2300") {
		t.Errorf("metrics lack the sample count:\n%s", prom)
	}

	out := logs.String()
	if !strings.Contains(out, "indexes=[220]") {
		t.Errorf("gap 220 was not logged:\n%s", out)
	}
	if strings.Contains(out, "do not match") {
		t.Errorf("unexpected gap mismatch warning:\n%s", out)
	}
}

func TestRunDefaultInsetIsLand(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	cfg := testConfig(dir)
	cfg.StatesShapefilePath = ""

	if err := Run(context.Background(), discardLogger(), cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, cfg.OutputPath))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	// Most of the map is bare land; the rest is under the totality path.
	if n := countNear(img, color.RGBA{R: 218, G: 165, B: 32, A: 255}, 20); n < 2000 {
		t.Errorf("got %d land pixels; want the inset filled as land", n)
	}
	if n := countNear(img, color.RGBA{R: 103, G: 82, B: 28, A: 255}, 20); n < 500 {
		t.Errorf("got %d totality path pixels over land", n)
	}
}

func TestBuildMeteogramAxes(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	cfg := testConfig(dir)
	series, err := kestrel.Load(cfg.path(cfg.InputPath), cfg.Input)
	if err != nil {
		t.Fatal(err)
	}
	m, err := buildMeteogram(&cfg, series)
	if err != nil {
		t.Fatalf("buildMeteogram: %v", err)
	}
	if !strings.Contains(m.Left.Name, "°F") || !strings.Contains(m.Right.Name, "hPa") {
		t.Errorf("left axis %q, right axis %q; want °F on the left", m.Left.Name, m.Right.Name)
	}
	for _, l := range m.Lines {
		want := render.Left
		if l.Name == "Stn. Pressure" {
			want = render.Right
		}
		if l.Axis != want {
			t.Errorf("%s is on the %v axis; want %v", l.Name, l.Axis, want)
		}
	}
	for _, a := range m.Annotations {
		if a.Axis != render.Left {
			t.Errorf("annotation %q is on the %v axis; want left", a.Text, a.Axis)
		}
	}
	if got := len(m.Inset.Land); got == 0 {
		t.Error("states layer produced no land")
	}
}

// countNear counts the pixels within tol of want in every channel.
func countNear(img image.Image, want color.RGBA, tol int) int {
	within := func(got uint32, want uint8) bool {
		d := int(got>>8) - int(want)
		return d >= -tol && d <= tol
	}
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if within(r, want.R) && within(g, want.G) && within(bl, want.B) {
				n++
			}
		}
	}
	return n
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	cfg := testConfig(dir)

	if err := Run(context.Background(), discardLogger(), cfg); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(dir, cfg.OutputPath))
	if err != nil {
		t.Fatal(err)
	}
	if err := Run(context.Background(), discardLogger(), cfg); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(dir, cfg.OutputPath))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two runs over the same input produced different images")
	}
}

func TestRunWarnsOnGapMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	cfg := testConfig(dir)
	cfg.Segments = []kestrel.Range{{Start: 131, End: 230}, {Start: 230, End: 2297}}

	var logs bytes.Buffer
	if err := Run(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)), cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(logs.String(), "do not match") {
		t.Errorf("no mismatch warning logged:\n%s", logs.String())
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(dir string, cfg *Config)
		want   string
	}{
		{"missing input", func(_ string, cfg *Config) { cfg.InputPath = "nope.txt" }, "cannot open kestrel file"},
		{"missing shapefile", func(_ string, cfg *Config) { cfg.ShapefilePath = "nope.shp" }, "cannot open shapefile"},
		{"segment past end", func(_ string, cfg *Config) { cfg.Segments[1].End = 5000 }, "segment"},
		{"unwritable output", func(_ string, cfg *Config) { cfg.OutputPath = filepath.Join("missing", "x.png") }, "cannot create output file"},
		{"malformed row", func(dir string, cfg *Config) {
			f, err := os.OpenFile(filepath.Join(dir, "kestrel.txt"), os.O_APPEND|os.O_WRONLY, 0)
			if err != nil {
				panic(err)
			}
			defer f.Close()
			f.WriteString("1,2,3\n")
		}, "got 3 columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFixture(t, dir)
			cfg := testConfig(dir)
			cfg.Segments = append([]kestrel.Range(nil), cfg.Segments...)
			tt.mutate(dir, &cfg)
			err := Run(context.Background(), discardLogger(), cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run error = %v; want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, discardLogger(), testConfig(dir)); err != context.Canceled {
		t.Errorf("Run error = %v; want context.Canceled", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "eclipse.png")); !os.IsNotExist(err) {
		t.Errorf("output written after cancellation: %v", err)
	}
}
