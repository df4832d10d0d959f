package core

import "errors"

// Conversion failures are reported through sentinel errors so callers can
// branch with errors.Is. All of them are fatal to the call that produced
// them; nothing in this package retries.
var (
	// ErrDomainViolation reports an input outside the mathematical domain of
	// the requested conversion, e.g. a negative eccentricity or an
	// inclination outside [0,pi].
	ErrDomainViolation = errors.New("input outside conversion domain")

	// ErrNonConvergence reports a Newton-Raphson solve that exhausted its
	// iteration budget without meeting its tolerance.
	ErrNonConvergence = errors.New("root solver did not converge")

	// ErrUnsupportedRegime reports a parabolic eccentricity passed to an
	// anomaly conversion; the anomaly family has no parabolic branch.
	ErrUnsupportedRegime = errors.New("parabolic orbit not supported by anomaly conversions")

	// ErrDegenerateGeometry reports geometry from which the target elements
	// cannot be recovered, e.g. a pure-retrograde USM state.
	ErrDegenerateGeometry = errors.New("degenerate orbit geometry")
)
