package api

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voltiq/evsim/sim"
)

// Run outcomes used as the "outcome" label.
const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
)

// Metrics records simulation requests in Prometheus collectors.
type Metrics struct {
	runs        *prometheus.CounterVec
	duration    prometheus.Histogram
	concurrency prometheus.Gauge
	sessions    prometheus.Gauge
}

// NewMetrics registers the simulation collectors on reg.
// If reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evsim_simulations_total",
			Help: "Total number of simulation requests by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evsim_simulation_duration_seconds",
			Help:    "Wall-clock time of one simulated year",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		concurrency: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evsim_last_concurrency_factor",
			Help: "Concurrency factor of the most recent successful run",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evsim_last_sessions",
			Help: "Number of charging sessions in the most recent successful run",
		}),
	}

	var err error
	if m.runs, err = register(reg, m.runs); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.concurrency, err = register(reg, m.concurrency); err != nil {
		return nil, err
	}
	if m.sessions, err = register(reg, m.sessions); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveRun records a completed simulation.
func (m *Metrics) ObserveRun(r *sim.Result) {
	m.runs.WithLabelValues(outcomeOK).Inc()
	m.duration.Observe(r.Metadata.ComputationTime.Seconds())
	m.concurrency.Set(r.ConcurrencyFactor)
	m.sessions.Set(float64(r.Sessions.Count))
}

// ObserveRejected records a request refused for invalid configuration.
func (m *Metrics) ObserveRejected() {
	m.runs.WithLabelValues(outcomeInvalid).Inc()
}
