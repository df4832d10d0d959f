package observability

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/orbital-conversions/core"
)

// ConversionCollector bundles Prometheus metrics for the conversion engine
// and implements core.ConversionRecorder so a core.Converter can drive it
// directly.
type ConversionCollector struct {
	gatherer prometheus.Gatherer

	Conversions      *prometheus.CounterVec
	SolverIterations prometheus.Histogram
}

// NewConversionCollector registers conversion metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewConversionCollector(reg prometheus.Registerer) (*ConversionCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	conversions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbital_conversions_total",
		Help: "Total number of state conversions, labeled by conversion kind and outcome.",
	}, []string{"kind", "outcome"})
	conversions, err := registerCounterVec(reg, conversions, "orbital_conversions_total")
	if err != nil {
		return nil, err
	}

	iterations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "kepler_solver_iterations",
		Help:    "Newton-Raphson iterations spent per iterative anomaly solve.",
		Buckets: []float64{1, 2, 3, 4, 5, 7, 10, 15, 25, 50, 100},
	})
	iterations, err = registerHistogram(reg, iterations, "kepler_solver_iterations")
	if err != nil {
		return nil, err
	}

	return &ConversionCollector{
		gatherer:         gatherer,
		Conversions:      conversions,
		SolverIterations: iterations,
	}, nil
}

// RecordConversion satisfies core.ConversionRecorder.
func (c *ConversionCollector) RecordConversion(kind string, err error) {
	if c == nil || c.Conversions == nil {
		return
	}
	c.Conversions.WithLabelValues(kind, outcomeLabel(err)).Inc()
}

// RecordSolverIterations satisfies core.ConversionRecorder.
func (c *ConversionCollector) RecordSolverIterations(iterations int) {
	if c == nil || c.SolverIterations == nil {
		return
	}
	c.SolverIterations.Observe(float64(iterations))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ConversionCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// outcomeLabel folds an error into a bounded outcome label set.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, core.ErrDomainViolation):
		return "domain_violation"
	case errors.Is(err, core.ErrNonConvergence):
		return "non_convergence"
	case errors.Is(err, core.ErrUnsupportedRegime):
		return "unsupported_regime"
	case errors.Is(err, core.ErrDegenerateGeometry):
		return "degenerate_geometry"
	default:
		return "error"
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
