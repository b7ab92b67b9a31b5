package meteogram

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rtm0/meteogram/internal/export"
	"github.com/rtm0/meteogram/internal/geo"
	"github.com/rtm0/meteogram/internal/kestrel"
	"github.com/rtm0/meteogram/internal/output"
	"github.com/rtm0/meteogram/internal/render"
)

const clockFmt = "15:04:05"

// Run loads the weather meter log described by cfg, renders the meteogram
// and writes it to cfg.OutputPath. Optional exports follow when configured.
func Run(ctx context.Context, logger *slog.Logger, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	metrics := export.NewMetrics()
	stage := func(name string, start time.Time) {
		d := time.Since(start)
		metrics.ObserveStage(name, d)
		logger.Debug("stage done", "stage", name, "in", d)
	}

	start := time.Now()
	series, err := kestrel.Load(cfg.path(cfg.InputPath), cfg.Input)
	if err != nil {
		return err
	}
	stage("load", start)
	logger.Info("Kestrel summary", series.Summary(cfg.Epoch)...)
	metrics.SetSamples(series.Len())
	if err := cfg.checkData(series.Len()); err != nil {
		return err
	}

	gaps := kestrel.Gaps(series.Timestamps(), cfg.GapThreshold)
	metrics.SetGaps(len(gaps))
	logger.Info("data gaps", "indexes", gaps, "threshold", cfg.GapThreshold, "recCnt", series.Len())
	if !boundaryMatchesGap(cfg.Segments, gaps) {
		logger.Warn("segment boundaries do not match any detected gap", "segments", cfg.Segments, "gaps", gaps)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start = time.Now()
	m, err := buildMeteogram(&cfg, series)
	if err != nil {
		return err
	}
	c, err := m.Chart()
	if err != nil {
		return fmt.Errorf("cannot build chart: %w", err)
	}
	metrics.SetSegments(len(cfg.Segments))
	if err := ctx.Err(); err != nil {
		return err
	}
	bounds, err := output.WritePNG(c, cfg.path(cfg.OutputPath))
	if err != nil {
		return err
	}
	stage("render", start)
	logger.Info("meteogram written", "path", cfg.path(cfg.OutputPath), "width", bounds.Dx(), "height", bounds.Dy())

	if cfg.NetCDFPath != "" {
		start = time.Now()
		if err := export.WriteNetCDF(cfg.path(cfg.NetCDFPath), dataset(&cfg, series, gaps)); err != nil {
			return err
		}
		stage("netcdf", start)
		logger.Info("netcdf written", "path", cfg.path(cfg.NetCDFPath))
	}
	if cfg.MetricsPath != "" {
		metrics.MarkSuccess(time.Now())
		if err := metrics.WriteTextfile(cfg.path(cfg.MetricsPath)); err != nil {
			return err
		}
	}
	return nil
}

// boundaryMatchesGap reports whether some segment starts right after a
// detected gap. Segments are never adjusted to the gaps.
func boundaryMatchesGap(segments []kestrel.Range, gaps []int) bool {
	for _, seg := range segments {
		for _, g := range gaps {
			if seg.Start == g {
				return true
			}
		}
	}
	return false
}

func buildMeteogram(cfg *Config, series *kestrel.Series) (*render.Meteogram, error) {
	times := series.Times(cfg.Epoch)
	temp := series.Column(func(r kestrel.Record) float64 { return r.Temperature })
	heat := series.Column(func(r kestrel.Record) float64 { return r.HeatIndex })
	dewp := series.Column(func(r kestrel.Record) float64 { return r.Dewpoint })
	pres := series.Column(func(r kestrel.Record) float64 { return r.StationPressure })

	ext, err := render.FindExtrema(temp, dewp, cfg.ExtremaRange)
	if err != nil {
		return nil, err
	}
	inset, err := buildInset(cfg)
	if err != nil {
		return nil, err
	}

	zone := cfg.Station.Zone
	annotate := func(label string, i int, values []float64, x, y float64) render.Annotation {
		return render.Annotation{
			Text:  fmt.Sprintf("%s: %s °F\nTime: %s %s", label, formatReading(values[i]), times[i].Format(clockFmt), zone),
			At:    times[i],
			Value: values[i],
			TextX: x,
			TextY: y,
			Axis:  render.Left,
		}
	}
	window := func(e Eclipse) string {
		return fmt.Sprintf("%s: %s to %s %s", e.Label, e.Start.Format(clockFmt), e.End.Format(clockFmt), zone)
	}

	return &render.Meteogram{
		Title: []string{
			cfg.Title,
			fmt.Sprintf("%s (%s N, %s W, Elevation: %d ft.)", cfg.Station.Place,
				formatCoord(cfg.Station.Location.Lat()), formatCoord(math.Abs(cfg.Station.Location.Lon())), cfg.Station.ElevationFt),
		},
		Times: times,
		Lines: []render.Line{
			{Name: "Heat Index", Values: heat, Color: render.Magenta, Axis: render.Left},
			{Name: "Temperature", Values: temp, Color: render.Red, Axis: render.Left},
			{Name: "Dewpoint", Values: dewp, Color: render.Green, Axis: render.Left},
			{Name: "Stn. Pressure", Values: pres, Color: render.Blue, Axis: render.Right},
		},
		Segments: cfg.Segments,
		Intervals: []render.Interval{
			interval(cfg.Partial),
			interval(cfg.Total),
		},
		Annotations: []render.Annotation{
			annotate("First Min. Temp.", ext.FirstMinTemp, temp, 0.25, 0.5),
			annotate("Last Min. Temp.", ext.LastMinTemp, temp, 0.25, 0.43),
			annotate("Max. Dewp.", ext.MaxDewpoint, dewp, 0.6, 0.46),
		},
		Notes: []render.Note{
			{Text: window(cfg.Partial), X: 0.01, Y: 0.085},
			{Text: window(cfg.Total), X: 0.01, Y: 0.05},
			{Text: cfg.Credit, X: 0.01, Y: 0.015},
		},
		Inset:      inset,
		XName:      fmt.Sprintf("Time (%s)", zone),
		XTickEvery: cfg.TimeTickEvery,
		XTickFmt:   "15:04",
		Left:       render.Axis{Name: "Heat Index / Temperature / Dewpoint (°F)", Min: cfg.TempMin, Max: cfg.TempMax, TickStep: cfg.TempTickStep},
		Right:      render.Axis{Name: "Station Pressure (hPa)", Min: cfg.PresMin, Max: cfg.PresMax, TickStep: cfg.PresTickStep},
		Width:      cfg.Width,
		Height:     cfg.Height,
	}, nil
}

func interval(e Eclipse) render.Interval {
	return render.Interval{Label: e.Label, Start: e.Start, End: e.End, Color: render.Black, Opacity: e.Opacity}
}

func buildInset(cfg *Config) (*render.Inset, error) {
	bound := geo.BoundAround(cfg.Station.Location, cfg.MapHalfWidth, cfg.MapHalfHeight)
	path, err := geo.LoadShapefile(cfg.path(cfg.ShapefilePath))
	if err != nil {
		return nil, err
	}
	inset := &render.Inset{
		Marker:         cfg.Station.Location,
		Bound:          bound,
		Overlay:        path.Clip(bound),
		WidthFraction:  0.2,
		HeightFraction: 0.2,
	}
	if cfg.StatesShapefilePath != "" {
		states, err := geo.LoadShapefile(cfg.path(cfg.StatesShapefilePath))
		if err != nil {
			return nil, err
		}
		inset.Land = states.Clip(bound)
	}
	if cfg.LakesShapefilePath != "" {
		lakes, err := geo.LoadShapefile(cfg.path(cfg.LakesShapefilePath))
		if err != nil {
			return nil, err
		}
		inset.Water = lakes.Clip(bound)
	}
	return inset, nil
}

// formatReading prints a reading the way the meter displays it, always with
// a decimal part.
func formatReading(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dataset(cfg *Config, series *kestrel.Series, gaps []int) *export.Dataset {
	col := func(get func(kestrel.Record) float64) []float64 { return series.Column(get) }
	return &export.Dataset{
		TimeUnits: "seconds since " + cfg.Epoch.Format("2006-01-02 15:04:05"),
		Time:      series.Timestamps(),
		Variables: []export.Variable{
			{Name: "temperature", Units: "degF", Values: col(func(r kestrel.Record) float64 { return r.Temperature })},
			{Name: "heat_index", Units: "degF", Values: col(func(r kestrel.Record) float64 { return r.HeatIndex })},
			{Name: "dewpoint", Units: "degF", Values: col(func(r kestrel.Record) float64 { return r.Dewpoint })},
			{Name: "station_pressure", Units: "hPa", Values: col(func(r kestrel.Record) float64 { return r.StationPressure })},
		},
		Gaps: gaps,
		Global: map[string]string{
			"title":   cfg.Title,
			"station": cfg.Station.Place,
			"source":  "Kestrel weather meter",
		},
	}
}
