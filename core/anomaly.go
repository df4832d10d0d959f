package core

import (
	"fmt"
	"math"
)

// The anomaly conversions are pure scalar maps between true, eccentric,
// hyperbolic eccentric, and mean anomaly, plus the elapsed-time relations.
// Elliptical functions require 0 <= e < 1 and hyperbolic functions e > 1;
// a parabolic eccentricity has no anomaly branch and is rejected with
// ErrUnsupportedRegime by the shape-dispatching wrappers.

// wrapTwoPi normalizes an angle into [0, 2*pi).
func wrapTwoPi(angle float64) float64 {
	wrapped := math.Mod(angle, 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped
}

func validateElliptical(eccentricity float64) error {
	if eccentricity < 0 || eccentricity >= 1 {
		return fmt.Errorf("%w: eccentricity %g outside [0,1)", ErrDomainViolation, eccentricity)
	}
	return nil
}

func validateHyperbolic(eccentricity float64) error {
	if eccentricity <= 1 {
		return fmt.Errorf("%w: eccentricity %g not greater than 1", ErrDomainViolation, eccentricity)
	}
	return nil
}

// TrueToEccentricAnomaly converts true anomaly to eccentric anomaly for an
// elliptical orbit. The two-argument arctangent keeps the result in the
// quadrant of the input; the output lies in (-pi, pi].
func TrueToEccentricAnomaly(trueAnomaly, eccentricity float64) (float64, error) {
	if err := validateElliptical(eccentricity); err != nil {
		return 0, err
	}

	sinNu, cosNu := math.Sincos(trueAnomaly)
	denominator := 1 + eccentricity*cosNu
	sinE := math.Sqrt(1-eccentricity*eccentricity) * sinNu / denominator
	cosE := (eccentricity + cosNu) / denominator
	return math.Atan2(sinE, cosE), nil
}

// EccentricToTrueAnomaly converts eccentric anomaly to true anomaly for an
// elliptical orbit. Output lies in (-pi, pi].
func EccentricToTrueAnomaly(eccentricAnomaly, eccentricity float64) (float64, error) {
	if err := validateElliptical(eccentricity); err != nil {
		return 0, err
	}

	sinE, cosE := math.Sincos(eccentricAnomaly)
	denominator := 1 - eccentricity*cosE
	sinNu := math.Sqrt(1-eccentricity*eccentricity) * sinE / denominator
	cosNu := (cosE - eccentricity) / denominator
	return math.Atan2(sinNu, cosNu), nil
}

// TrueToHyperbolicAnomaly converts true anomaly to hyperbolic eccentric
// anomaly for a hyperbolic orbit. The hyperbolic anomaly is unbounded.
func TrueToHyperbolicAnomaly(trueAnomaly, eccentricity float64) (float64, error) {
	if err := validateHyperbolic(eccentricity); err != nil {
		return 0, err
	}

	sinNu, cosNu := math.Sincos(trueAnomaly)
	return math.Atanh(math.Sqrt(eccentricity*eccentricity-1) * sinNu / (eccentricity + cosNu)), nil
}

// HyperbolicToTrueAnomaly converts hyperbolic eccentric anomaly to true
// anomaly for a hyperbolic orbit.
func HyperbolicToTrueAnomaly(hyperbolicAnomaly, eccentricity float64) (float64, error) {
	if err := validateHyperbolic(eccentricity); err != nil {
		return 0, err
	}

	denominator := eccentricity*math.Cosh(hyperbolicAnomaly) - 1
	sinNu := math.Sqrt(eccentricity*eccentricity-1) * math.Sinh(hyperbolicAnomaly) / denominator
	cosNu := (eccentricity - math.Cosh(hyperbolicAnomaly)) / denominator
	return math.Atan2(sinNu, cosNu), nil
}

// EccentricToMeanAnomaly evaluates Kepler's equation M = E - e*sin(E). This
// direction is closed form; no iteration is involved.
func EccentricToMeanAnomaly(eccentricAnomaly, eccentricity float64) (float64, error) {
	if err := validateElliptical(eccentricity); err != nil {
		return 0, err
	}
	return eccentricAnomaly - eccentricity*math.Sin(eccentricAnomaly), nil
}

// HyperbolicToMeanAnomaly evaluates the hyperbolic Kepler equation
// M = e*sinh(H) - H.
func HyperbolicToMeanAnomaly(hyperbolicAnomaly, eccentricity float64) (float64, error) {
	if err := validateHyperbolic(eccentricity); err != nil {
		return 0, err
	}
	return eccentricity*math.Sinh(hyperbolicAnomaly) - hyperbolicAnomaly, nil
}

// MeanToEccentricAnomaly solves Kepler's equation for the eccentric anomaly
// with Newton-Raphson. The mean anomaly is normalized into [0, 2*pi) before
// the solve, so the result lies in that revolution.
func (c Converter) MeanToEccentricAnomaly(meanAnomaly, eccentricity float64) (float64, error) {
	eccentricAnomaly, err := c.meanToEccentricAnomaly(meanAnomaly, eccentricity)
	c.record(KindMeanToEccentric, err)
	return eccentricAnomaly, err
}

func (c Converter) meanToEccentricAnomaly(meanAnomaly, eccentricity float64) (float64, error) {
	if err := validateElliptical(eccentricity); err != nil {
		return 0, err
	}

	normalized := wrapTwoPi(meanAnomaly)
	root, iterations, err := SolveKepler(KeplerEquation{
		Residual: func(e float64) float64 {
			return e - eccentricity*math.Sin(e) - normalized
		},
		Derivative: func(e float64) float64 {
			return 1 - eccentricity*math.Cos(e)
		},
		InitialGuess:  ellipticalSolverSeed(normalized, eccentricity),
		Tolerance:     c.AnomalyTolerance,
		MaxIterations: c.MaxIterations,
	})
	c.recordIterations(iterations)
	if err != nil {
		return 0, err
	}
	return root, nil
}

// MeanToHyperbolicAnomaly solves the hyperbolic Kepler equation for the
// hyperbolic eccentric anomaly with Newton-Raphson.
func (c Converter) MeanToHyperbolicAnomaly(meanAnomaly, eccentricity float64) (float64, error) {
	hyperbolicAnomaly, err := c.meanToHyperbolicAnomaly(meanAnomaly, eccentricity)
	c.record(KindMeanToHyperbolic, err)
	return hyperbolicAnomaly, err
}

func (c Converter) meanToHyperbolicAnomaly(meanAnomaly, eccentricity float64) (float64, error) {
	if err := validateHyperbolic(eccentricity); err != nil {
		return 0, err
	}

	root, iterations, err := SolveKepler(KeplerEquation{
		Residual: func(h float64) float64 {
			return eccentricity*math.Sinh(h) - h - meanAnomaly
		},
		Derivative: func(h float64) float64 {
			return eccentricity*math.Cosh(h) - 1
		},
		// Asinh grows like the inverse of the residual's dominant term, so
		// the seed stays close to the root for large mean anomalies without
		// overflowing sinh the way seeding with M itself would.
		InitialGuess:  math.Asinh(meanAnomaly / eccentricity),
		Tolerance:     c.AnomalyTolerance,
		MaxIterations: c.MaxIterations,
	})
	c.recordIterations(iterations)
	if err != nil {
		return 0, err
	}
	return root, nil
}

// ellipticalSolverSeed picks the Newton-Raphson starting point. The mean
// anomaly itself works until the eccentricity gets large, where an offset of
// half the eccentricity keeps the iteration on the converging side.
func ellipticalSolverSeed(meanAnomaly, eccentricity float64) float64 {
	if eccentricity < 0.8 {
		return meanAnomaly
	}
	if meanAnomaly < math.Pi {
		return meanAnomaly + eccentricity/2
	}
	return meanAnomaly - eccentricity/2
}

// MeanToEccentricAnomaly solves Kepler's equation with the default
// tolerances.
func MeanToEccentricAnomaly(meanAnomaly, eccentricity float64) (float64, error) {
	return Converter{}.MeanToEccentricAnomaly(meanAnomaly, eccentricity)
}

// MeanToHyperbolicAnomaly solves the hyperbolic Kepler equation with the
// default tolerances.
func MeanToHyperbolicAnomaly(meanAnomaly, eccentricity float64) (float64, error) {
	return Converter{}.MeanToHyperbolicAnomaly(meanAnomaly, eccentricity)
}

// TrueToAnomaly converts true anomaly to the conic-appropriate eccentric
// anomaly when the orbit shape is not known a priori: eccentric anomaly for
// an ellipse, hyperbolic eccentric anomaly for a hyperbola. Parabolic
// eccentricities are rejected with ErrUnsupportedRegime.
func TrueToAnomaly(trueAnomaly, eccentricity float64) (float64, error) {
	if err := validateNonParabolic(eccentricity); err != nil {
		return 0, err
	}
	if eccentricity < 1 {
		return TrueToEccentricAnomaly(trueAnomaly, eccentricity)
	}
	return TrueToHyperbolicAnomaly(trueAnomaly, eccentricity)
}

// AnomalyToTrue is the inverse of TrueToAnomaly.
func AnomalyToTrue(anomaly, eccentricity float64) (float64, error) {
	if err := validateNonParabolic(eccentricity); err != nil {
		return 0, err
	}
	if eccentricity < 1 {
		return EccentricToTrueAnomaly(anomaly, eccentricity)
	}
	return HyperbolicToTrueAnomaly(anomaly, eccentricity)
}

// AnomalyToMean converts a conic-appropriate eccentric anomaly to mean
// anomaly when the orbit shape is not known a priori.
func AnomalyToMean(anomaly, eccentricity float64) (float64, error) {
	if err := validateNonParabolic(eccentricity); err != nil {
		return 0, err
	}
	if eccentricity < 1 {
		return EccentricToMeanAnomaly(anomaly, eccentricity)
	}
	return HyperbolicToMeanAnomaly(anomaly, eccentricity)
}

// MeanToAnomaly solves for the conic-appropriate eccentric anomaly when the
// orbit shape is not known a priori.
func (c Converter) MeanToAnomaly(meanAnomaly, eccentricity float64) (float64, error) {
	if err := validateNonParabolic(eccentricity); err != nil {
		return 0, err
	}
	if eccentricity < 1 {
		return c.MeanToEccentricAnomaly(meanAnomaly, eccentricity)
	}
	return c.MeanToHyperbolicAnomaly(meanAnomaly, eccentricity)
}

func validateNonParabolic(eccentricity float64) error {
	if eccentricity < 0 {
		return fmt.Errorf("%w: negative eccentricity %g", ErrDomainViolation, eccentricity)
	}
	if math.Abs(eccentricity-1) < DefaultSingularityTolerance {
		return fmt.Errorf("%w: eccentricity %g", ErrUnsupportedRegime, eccentricity)
	}
	return nil
}

// ElapsedTimeToEllipticalMeanAnomalyChange converts an elapsed time to the
// mean anomaly swept on an elliptical orbit, M = n * dt with mean motion
// n = sqrt(mu / a^3).
func ElapsedTimeToEllipticalMeanAnomalyChange(elapsedTime, mu, semiMajorAxis float64) (float64, error) {
	meanMotion, err := SemiMajorAxisToMeanMotion(semiMajorAxis, mu)
	if err != nil {
		return 0, err
	}
	return meanMotion * elapsedTime, nil
}

// EllipticalMeanAnomalyChangeToElapsedTime is the inverse of
// ElapsedTimeToEllipticalMeanAnomalyChange.
func EllipticalMeanAnomalyChangeToElapsedTime(meanAnomalyChange, mu, semiMajorAxis float64) (float64, error) {
	meanMotion, err := SemiMajorAxisToMeanMotion(semiMajorAxis, mu)
	if err != nil {
		return 0, err
	}
	return meanAnomalyChange / meanMotion, nil
}

// ElapsedTimeToHyperbolicMeanAnomalyChange converts an elapsed time to the
// mean anomaly swept on a hyperbolic orbit, where the semi-major axis is
// negative and n = sqrt(mu / |a|^3).
func ElapsedTimeToHyperbolicMeanAnomalyChange(elapsedTime, mu, semiMajorAxis float64) (float64, error) {
	if semiMajorAxis >= 0 {
		return 0, fmt.Errorf("%w: semi-major axis %g not negative for a hyperbolic orbit",
			ErrDomainViolation, semiMajorAxis)
	}
	return math.Sqrt(mu/(-semiMajorAxis*semiMajorAxis*semiMajorAxis)) * elapsedTime, nil
}

// HyperbolicMeanAnomalyChangeToElapsedTime is the inverse of
// ElapsedTimeToHyperbolicMeanAnomalyChange.
func HyperbolicMeanAnomalyChangeToElapsedTime(meanAnomalyChange, mu, semiMajorAxis float64) (float64, error) {
	if semiMajorAxis >= 0 {
		return 0, fmt.Errorf("%w: semi-major axis %g not negative for a hyperbolic orbit",
			ErrDomainViolation, semiMajorAxis)
	}
	return math.Sqrt(-semiMajorAxis*semiMajorAxis*semiMajorAxis/mu) * meanAnomalyChange, nil
}

// ElapsedTimeToMeanAnomalyChange dispatches on the sign of the semi-major
// axis when the orbit shape is not known a priori.
func ElapsedTimeToMeanAnomalyChange(elapsedTime, mu, semiMajorAxis float64) (float64, error) {
	if semiMajorAxis > 0 {
		return ElapsedTimeToEllipticalMeanAnomalyChange(elapsedTime, mu, semiMajorAxis)
	}
	return ElapsedTimeToHyperbolicMeanAnomalyChange(elapsedTime, mu, semiMajorAxis)
}

// MeanAnomalyChangeToElapsedTime dispatches on the sign of the semi-major
// axis when the orbit shape is not known a priori.
func MeanAnomalyChangeToElapsedTime(meanAnomalyChange, mu, semiMajorAxis float64) (float64, error) {
	if semiMajorAxis > 0 {
		return EllipticalMeanAnomalyChangeToElapsedTime(meanAnomalyChange, mu, semiMajorAxis)
	}
	return HyperbolicMeanAnomalyChangeToElapsedTime(meanAnomalyChange, mu, semiMajorAxis)
}

// SemiMajorAxisToMeanMotion returns the elliptical mean motion
// n = sqrt(mu / a^3).
func SemiMajorAxisToMeanMotion(semiMajorAxis, mu float64) (float64, error) {
	if semiMajorAxis <= 0 {
		return 0, fmt.Errorf("%w: semi-major axis %g not positive for an elliptical orbit",
			ErrDomainViolation, semiMajorAxis)
	}
	return math.Sqrt(mu / (semiMajorAxis * semiMajorAxis * semiMajorAxis)), nil
}

// MeanMotionToSemiMajorAxis inverts SemiMajorAxisToMeanMotion.
func MeanMotionToSemiMajorAxis(meanMotion, mu float64) (float64, error) {
	if meanMotion <= 0 {
		return 0, fmt.Errorf("%w: mean motion %g not positive", ErrDomainViolation, meanMotion)
	}
	return math.Cbrt(mu / (meanMotion * meanMotion)), nil
}
