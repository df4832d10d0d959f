package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/orbital-conversions/model"
)

// machineEpsilon is the double-precision unit roundoff.
const machineEpsilon = 0x1p-52

// cartesianConversionTolerance gates the degenerate branches of the
// Cartesian-to-Keplerian conversion: parabolic, circular, and equatorial
// inputs within this distance of the exact singularity take the special
// solution. Twenty units of roundoff; closer to the singularity the
// classical elements are ill-conditioned anyway.
const cartesianConversionTolerance = 20 * machineEpsilon

// validateKeplerian rejects Keplerian inputs no conversion can digest:
// non-positive gravitational parameter, negative eccentricity, inclination
// outside [0,pi] (the boundaries themselves are valid), or an a/e
// combination whose semi-latus rectum is not positive.
func validateKeplerian(elements model.KeplerianElements, mu, tolerance float64) error {
	if mu <= 0 {
		return fmt.Errorf("%w: gravitational parameter %g not positive", ErrDomainViolation, mu)
	}
	if elements.Eccentricity < 0 {
		return fmt.Errorf("%w: negative eccentricity %g", ErrDomainViolation, elements.Eccentricity)
	}
	if elements.Inclination < 0 || elements.Inclination > math.Pi {
		return fmt.Errorf("%w: inclination %g outside [0,pi]", ErrDomainViolation, elements.Inclination)
	}
	if p := elements.SemiLatusRectumOrDerived(tolerance); p <= 0 {
		return fmt.Errorf("%w: semi-latus rectum %g not positive (semi-major axis sign inconsistent with eccentricity)",
			ErrDomainViolation, p)
	}
	return nil
}

// KeplerianToCartesian converts classical orbital elements to a Cartesian
// state. The perifocal position and velocity are built from the semi-latus
// rectum (stored directly for a parabolic orbit, a(1-e^2) otherwise) and
// rotated into the inertial frame by the 3-1-3 Euler sequence (RAAN,
// inclination, argument of periapsis).
func (c Converter) KeplerianToCartesian(elements model.KeplerianElements, mu float64) (model.CartesianState, error) {
	state, err := c.keplerianToCartesian(elements, mu)
	c.record(KindKeplerianToCartesian, err)
	return state, err
}

func (c Converter) keplerianToCartesian(elements model.KeplerianElements, mu float64) (model.CartesianState, error) {
	tolerance := c.singularityTolerance()
	if err := validateKeplerian(elements, mu, tolerance); err != nil {
		return model.CartesianState{}, err
	}

	semiLatusRectum := elements.SemiLatusRectumOrDerived(tolerance)
	sinNu, cosNu := math.Sincos(elements.TrueAnomaly)
	radialScale := 1 + elements.Eccentricity*cosNu

	positionPerifocal := Vec3{
		X: semiLatusRectum * cosNu / radialScale,
		Y: semiLatusRectum * sinNu / radialScale,
	}
	speedScale := math.Sqrt(mu / semiLatusRectum)
	velocityPerifocal := Vec3{
		X: -speedScale * sinNu,
		Y: speedScale * (elements.Eccentricity + cosNu),
	}

	rotation := perifocalToInertial(elements.RAAN, elements.Inclination, elements.ArgumentOfPeriapsis)
	return model.CartesianState{
		Position: vecToModel(rotate(rotation, positionPerifocal)),
		Velocity: vecToModel(rotate(rotation, velocityPerifocal)),
	}, nil
}

// CartesianToKeplerian converts a Cartesian state to classical orbital
// elements. Degenerate geometries take their conventional special solutions:
// a parabolic result stores the semi-latus rectum instead of a semi-major
// axis, a circular orbit reports a zero argument of periapsis with the
// argument of latitude as true anomaly, an equatorial orbit reports a zero
// RAAN measured from the x-axis, and a circular equatorial orbit reports the
// true longitude as true anomaly. All angles come back in [0, 2*pi).
func (c Converter) CartesianToKeplerian(state model.CartesianState, mu float64) (model.KeplerianElements, error) {
	elements, err := c.cartesianToKeplerian(state, mu)
	c.record(KindCartesianToKeplerian, err)
	return elements, err
}

func (c Converter) cartesianToKeplerian(state model.CartesianState, mu float64) (model.KeplerianElements, error) {
	if mu <= 0 {
		return model.KeplerianElements{}, fmt.Errorf("%w: gravitational parameter %g not positive",
			ErrDomainViolation, mu)
	}

	const tolerance = cartesianConversionTolerance

	position := vecFromModel(state.Position)
	velocity := vecFromModel(state.Velocity)

	angularMomentum := position.Cross(velocity)
	if angularMomentum.Norm() == 0 {
		return model.KeplerianElements{}, fmt.Errorf("%w: zero angular momentum (rectilinear trajectory)",
			ErrDegenerateGeometry)
	}

	semiLatusRectum := angularMomentum.Dot(angularMomentum) / mu

	// Node vector toward the ascending node; its norm is sin(i), so a
	// vanishing norm means an equatorial orbit (i near 0 or pi) and the
	// node direction is fixed to the x-axis by convention.
	nodeVector := Vec3{Z: 1}.Cross(angularMomentum.Unit())
	equatorial := nodeVector.Norm() < tolerance
	nodeUnit := nodeVector.Unit()
	if equatorial {
		nodeUnit = Vec3{X: 1}
	}

	eccentricityVector := velocity.Cross(angularMomentum).Scale(1 / mu).Sub(position.Unit())
	eccentricity := eccentricityVector.Norm()

	elements := model.KeplerianElements{Eccentricity: eccentricity}
	if math.Abs(eccentricity-1) < tolerance {
		elements.SemiLatusRectum = semiLatusRectum
	} else {
		elements.SemiMajorAxis = semiLatusRectum / (1 - eccentricity*eccentricity)
	}

	elements.Inclination = math.Acos(clampUnit(angularMomentum.Z / angularMomentum.Norm()))

	raan := math.Acos(clampUnit(nodeUnit.X))
	if nodeUnit.Y < 0 {
		raan = 2*math.Pi - raan
	}
	elements.RAAN = raan

	// In an equatorial orbit the eccentricity vector has no z-component, so
	// the argument-of-periapsis quadrant falls back to its y-component.
	argumentOfPeriapsisQuadrant := eccentricityVector.Z
	if equatorial {
		argumentOfPeriapsisQuadrant = eccentricityVector.Y
	}

	// In a circular orbit the radial velocity vanishes, so the true-anomaly
	// quadrant falls back to the position component out of (or, when also
	// equatorial, along) the node plane.
	trueAnomalyQuadrant := position.Dot(velocity)
	circular := eccentricity < tolerance
	if circular {
		// The node axis substitutes for the periapsis direction: the angle
		// usually split between the argument of periapsis and the true
		// anomaly is reported entirely as true anomaly.
		eccentricityVector = nodeUnit
		elements.ArgumentOfPeriapsis = 0
		if equatorial {
			trueAnomalyQuadrant = position.Y
		} else {
			trueAnomalyQuadrant = position.Z
		}
	} else {
		argumentOfPeriapsis := math.Acos(clampUnit(eccentricityVector.Unit().Dot(nodeUnit)))
		if argumentOfPeriapsisQuadrant < 0 {
			argumentOfPeriapsis = 2*math.Pi - argumentOfPeriapsis
		}
		elements.ArgumentOfPeriapsis = argumentOfPeriapsis
	}

	cosTrueAnomaly := position.Unit().Dot(eccentricityVector.Unit())
	// Snap the limiting cases so periapsis, apoapsis, and quarter points come
	// out exact instead of acos-amplified.
	switch {
	case math.Abs(1-cosTrueAnomaly) < tolerance:
		cosTrueAnomaly = 1
	case math.Abs(1+cosTrueAnomaly) < tolerance:
		cosTrueAnomaly = -1
	case math.Abs(cosTrueAnomaly) < tolerance:
		cosTrueAnomaly = 0
	}

	trueAnomaly := math.Acos(clampUnit(cosTrueAnomaly))
	if trueAnomalyQuadrant < 0 {
		trueAnomaly = 2*math.Pi - trueAnomaly
	}
	elements.TrueAnomaly = trueAnomaly

	return elements, nil
}

// clampUnit confines a direction cosine to [-1,1] before an acos; rounding
// in the upstream dot products can push it a few ulps outside.
func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
