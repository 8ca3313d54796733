package syringe

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes recorded by Metrics.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Metrics holds the Prometheus collectors updated by containers.
// One Metrics value can be shared by many containers.
type Metrics struct {
	Resolutions        *prometheus.CounterVec
	CacheHits          *prometheus.CounterVec
	ResolutionDuration prometheus.Histogram
	ContainersCreated  prometheus.Counter
}

// NewMetrics creates the syringe collectors and registers them on reg.
// Collectors that are already registered on reg are reused, so calling
// NewMetrics twice with the same registerer is safe.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "syringe",
				Name:      "resolutions_total",
				Help:      "Total number of top-level resolutions",
			},
			[]string{"lifecycle", "outcome"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "syringe",
				Name:      "cache_hits_total",
				Help:      "Total number of lifecycle cache hits",
			},
			[]string{"lifecycle"},
		),
		ResolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "syringe",
				Name:      "resolution_duration_seconds",
				Help:      "Top-level resolution duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		ContainersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "syringe",
				Name:      "containers_created_total",
				Help:      "Total number of containers created",
			},
		),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.Resolutions, err = register(reg, m.Resolutions); err != nil {
		return nil, err
	}
	if m.CacheHits, err = register(reg, m.CacheHits); err != nil {
		return nil, err
	}
	if m.ResolutionDuration, err = register(reg, m.ResolutionDuration); err != nil {
		return nil, err
	}
	if m.ContainersCreated, err = register(reg, m.ContainersCreated); err != nil {
		return nil, err
	}

	return m, nil
}

// register registers c, or returns the collector already registered under the same name.
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

func (m *Metrics) containerCreated() {
	if m == nil {
		return
	}
	m.ContainersCreated.Inc()
}

func (m *Metrics) cacheHit(lifecycle Lifecycle) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(lifecycle.String()).Inc()
}

// observe records a top-level resolution. lifecycle is the lifecycle of the
// registration that answered it, or Transient for implicit construction.
func (m *Metrics) observe(lifecycle Lifecycle, start time.Time, err error) {
	if m == nil {
		return
	}

	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}

	m.Resolutions.WithLabelValues(lifecycle.String(), outcome).Inc()
	m.ResolutionDuration.Observe(time.Since(start).Seconds())
}
