// Package metrics counts wave activity in a prometheus registry.
package metrics

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/TFMV/wavegraph/traveler"
	"github.com/TFMV/wavegraph/wave"
)

const namespace = "wavegraph"

// Metrics is a wave.Observer that records wave events.
type Metrics struct {
	wave.NopObserver

	reg       *prometheus.Registry
	Waves     prometheus.Counter
	Retired   prometheus.Counter
	Spawned   prometheus.Counter
	Completed *prometheus.CounterVec // by outcome: arrived, truncated
	Active    prometheus.Gauge       // live waves
	Travelers prometheus.Gauge       // live travelers
	Visited   prometheus.Histogram   // visited set size of retired waves
	Frames    prometheus.Counter
}

// New creates metrics registered in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Waves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "waves_started_total", Help: "Waves started by a click.",
		}),
		Retired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "waves_retired_total", Help: "Waves removed from the collection.",
		}),
		Spawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "travelers_spawned_total", Help: "Travelers spawned.",
		}),
		Completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "travelers_completed_total", Help: "Travelers that finished, by outcome.",
		}, []string{"outcome"}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "waves_active", Help: "Live waves.",
		}),
		Travelers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "travelers_active", Help: "Live travelers.",
		}),
		Visited: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "wave_visited_nodes", Help: "Nodes visited by a retired wave.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "frames_total", Help: "Frames stepped.",
		}),
	}
	m.reg.MustRegister(m.Waves, m.Retired, m.Spawned, m.Completed, m.Active, m.Travelers, m.Visited, m.Frames)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) WaveStarted(*wave.Wave) {
	m.Waves.Inc()
	m.Active.Inc()
}

func (m *Metrics) TravelerSpawned(*wave.Wave, *traveler.Traveler) {
	m.Spawned.Inc()
	m.Travelers.Inc()
}

func (m *Metrics) TravelerCompleted(_ *wave.Wave, t *traveler.Traveler) {
	outcome := "arrived"
	if _, ok := t.Dest(); !ok {
		outcome = "truncated"
	}
	m.Completed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) WaveRetired(w *wave.Wave) {
	m.Retired.Inc()
	m.Active.Dec()
	m.Visited.Observe(float64(w.VisitedCount()))
}

// Frame records a stepped frame with the number of live travelers.
func (m *Metrics) Frame(travelers int) {
	m.Frames.Inc()
	m.Travelers.Set(float64(travelers))
}

// WriteText writes the text exposition format of all metrics to w.
func (m *Metrics) WriteText(w io.Writer) error {
	mfs, err := m.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// WriteFile writes the text exposition format to file.
func (m *Metrics) WriteFile(file string) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return m.WriteText(f)
}
