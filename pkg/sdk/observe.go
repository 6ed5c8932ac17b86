package pricecheck

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/pricecheck/internal/domain"
)

// compareMetrics counts SDK compare runs by outcome.
type compareMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	stores   prometheus.Histogram
}

func newCompareMetrics(reg prometheus.Registerer) (*compareMetrics, error) {
	m := &compareMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricecheck",
			Subsystem: "sdk",
			Name:      "compare_total",
			Help:      "SDK compare runs by outcome (envelope status or error class).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pricecheck",
			Subsystem: "sdk",
			Name:      "compare_duration_seconds",
			Help:      "SDK compare run duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"outcome"}),
		stores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pricecheck",
			Subsystem: "sdk",
			Name:      "compare_stores",
			Help:      "Stores returned per ok compare run.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8},
		}),
	}
	if err := registerOrReuse(reg, &m.runs); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.stores); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or points it at an identical collector already in reg.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("pricecheck: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("pricecheck: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// errorOutcomes maps failure sentinels to outcome labels, first match wins.
var errorOutcomes = []struct {
	sentinel error
	outcome  string
}{
	{domain.ErrMissingCredentials, "missing_credentials"},
	{domain.ErrUnknownProvider, "unknown_provider"},
	{domain.ErrModelQuotaExceeded, "quota_exceeded"},
	{domain.ErrSearchFailed, "search_failed"},
	{domain.ErrNoToolCall, "no_tool_call"},
	{domain.ErrModelNonJSON, "model_non_json"},
	{domain.ErrModelFailed, "model_failed"},
}

// outcomeOf labels a finished compare run.
func outcomeOf(env Envelope, err error) string {
	if err == nil {
		return string(env.Status)
	}
	for _, o := range errorOutcomes {
		if errors.Is(err, o.sentinel) {
			return o.outcome
		}
	}
	return "error"
}

// observer logs and counts compare runs. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *compareMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newCompareMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

func (o *observer) observeCompare(start time.Time, env Envelope, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	outcome := outcomeOf(env, err)

	if o.metrics != nil {
		o.metrics.runs.WithLabelValues(outcome).Inc()
		o.metrics.duration.WithLabelValues(outcome).Observe(dur.Seconds())
		if err == nil && env.Status == StatusOK {
			o.metrics.stores.Observe(float64(len(env.Results)))
		}
	}

	if o.logger == nil {
		return
	}
	switch {
	case err != nil:
		o.logger.Warn("compare failed", "outcome", outcome, "duration", dur, "error", err)
	case env.Status == StatusNeedInput:
		o.logger.Info("compare needs input", "needed", env.Needed)
	default:
		o.logger.Debug("compare completed", "outcome", outcome, "stores", len(env.Results), "duration", dur)
	}
}
