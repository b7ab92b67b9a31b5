package export

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics summarises one meteogram run in Prometheus form, for the node
// exporter textfile collector.
type Metrics struct {
	registry *prometheus.Registry

	samples     prometheus.Gauge
	gaps        prometheus.Gauge
	segments    prometheus.Gauge
	stageTime   *prometheus.GaugeVec
	lastSuccess prometheus.Gauge
}

// NewMetrics creates the run metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meteogram_samples_loaded",
			Help: "Number of records read from the weather meter log.",
		}),
		gaps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meteogram_gaps_detected",
			Help: "Number of recording gaps longer than the threshold.",
		}),
		segments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meteogram_segments_rendered",
			Help: "Number of line segments drawn per variable.",
		}),
		stageTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "meteogram_stage_duration_seconds",
			Help: "Wall time spent in each pipeline stage.",
		}, []string{"stage"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meteogram_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
	}
	m.registry.MustRegister(m.samples, m.gaps, m.segments, m.stageTime, m.lastSuccess)
	return m
}

// SetSamples records the number of loaded records.
func (m *Metrics) SetSamples(n int) {
	m.samples.Set(float64(n))
}

// SetGaps records the number of detected gaps.
func (m *Metrics) SetGaps(n int) {
	m.gaps.Set(float64(n))
}

// SetSegments records the number of rendered segments.
func (m *Metrics) SetSegments(n int) {
	m.segments.Set(float64(n))
}

// ObserveStage records how long stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageTime.WithLabelValues(stage).Set(d.Seconds())
}

// MarkSuccess records the completion time of the run.
func (m *Metrics) MarkSuccess(t time.Time) {
	m.lastSuccess.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics in the Prometheus text format.
func (m *Metrics) WriteTextfile(filePath string) error {
	if err := prometheus.WriteToTextfile(filePath, m.registry); err != nil {
		return fmt.Errorf("cannot write metrics: %w", err)
	}
	return nil
}
