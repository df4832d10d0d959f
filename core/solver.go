package core

import (
	"fmt"
	"math"
)

const (
	// DefaultAnomalyTolerance is the convergence tolerance applied to
	// iterative anomaly solves when the caller does not tune one.
	DefaultAnomalyTolerance = 1e-8

	// DefaultMaxIterations bounds a single Newton-Raphson solve.
	DefaultMaxIterations = 100
)

// KeplerEquation configures one Newton-Raphson solve of a scalar equation
// f(x) = 0. Residual and Derivative evaluate f and f'; Tolerance and
// MaxIterations fall back to the package defaults when zero.
type KeplerEquation struct {
	Residual      func(x float64) float64
	Derivative    func(x float64) float64
	InitialGuess  float64
	Tolerance     float64
	MaxIterations int
}

// SolveKepler iterates Newton-Raphson until either the step size or the
// residual falls below the tolerance. It returns the root and the number of
// iterations spent. Exceeding the iteration budget is ErrNonConvergence; the
// result is never silently truncated.
func SolveKepler(eq KeplerEquation) (float64, int, error) {
	tolerance := eq.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultAnomalyTolerance
	}
	maxIterations := eq.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	x := eq.InitialGuess
	for i := 1; i <= maxIterations; i++ {
		residual := eq.Residual(x)
		derivative := eq.Derivative(x)
		if derivative == 0 {
			return 0, i, fmt.Errorf("%w: zero derivative at iterate %g", ErrNonConvergence, x)
		}

		step := residual / derivative
		x -= step

		if math.Abs(step) < tolerance || math.Abs(eq.Residual(x)) < tolerance {
			return x, i, nil
		}
	}

	return 0, maxIterations, fmt.Errorf("%w: no root within %d iterations, last iterate %g",
		ErrNonConvergence, maxIterations, x)
}
