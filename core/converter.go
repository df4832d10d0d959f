package core

import (
	"github.com/signalsfoundry/orbital-conversions/internal/logging"
)

// DefaultSingularityTolerance bounds the degeneracy checks on eccentricity,
// inclination, and the USM quaternion.
const DefaultSingularityTolerance = 1e-15

// Conversion kinds as reported to a ConversionRecorder.
const (
	KindCartesianToKeplerian = "cartesian_to_keplerian"
	KindKeplerianToCartesian = "keplerian_to_cartesian"
	KindKeplerianToUSM       = "keplerian_to_usm"
	KindUSMToKeplerian       = "usm_to_keplerian"
	KindMeanToEccentric      = "mean_to_eccentric_anomaly"
	KindMeanToHyperbolic     = "mean_to_hyperbolic_anomaly"
)

// ConversionRecorder receives the outcome of each conversion and the
// iteration count of each Newton-Raphson solve. The observability layer
// implements it; the zero value of Converter records nothing.
type ConversionRecorder interface {
	RecordConversion(kind string, err error)
	RecordSolverIterations(iterations int)
}

// Converter carries the tunable tolerances and the ambient hooks shared by
// the state conversions. The zero value is usable and applies the documented
// defaults; conversions hold no state across calls, so a Converter is safe
// for concurrent use.
type Converter struct {
	// SingularityTolerance gates the parabolic, circular, equatorial, and
	// quaternion degeneracy branches. Defaults to DefaultSingularityTolerance.
	SingularityTolerance float64

	// AnomalyTolerance is the Newton-Raphson convergence tolerance for
	// iterative anomaly solves. Defaults to DefaultAnomalyTolerance.
	AnomalyTolerance float64

	// MaxIterations bounds each Newton-Raphson solve. Defaults to
	// DefaultMaxIterations.
	MaxIterations int

	// Logger, when set, receives warnings from degenerate-geometry branches.
	Logger logging.Logger

	// Recorder, when set, receives per-conversion outcomes.
	Recorder ConversionRecorder
}

func (c Converter) singularityTolerance() float64 {
	if c.SingularityTolerance > 0 {
		return c.SingularityTolerance
	}
	return DefaultSingularityTolerance
}

func (c Converter) logger() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Noop()
}

func (c Converter) record(kind string, err error) {
	if c.Recorder != nil {
		c.Recorder.RecordConversion(kind, err)
	}
}

func (c Converter) recordIterations(iterations int) {
	if c.Recorder != nil {
		c.Recorder.RecordSolverIterations(iterations)
	}
}
