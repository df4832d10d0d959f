package model

import "math"

// Vector3 is a 3-component vector of double-precision scalars. The frame and
// units are whatever the caller supplied; the converters never rescale them.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// CartesianState holds position and velocity in a common inertial frame and a
// self-consistent unit system (SI or canonical).
type CartesianState struct {
	Position Vector3
	Velocity Vector3
}

// KeplerianElements are the classical orbital elements. All angles are in
// radians. Exactly one of SemiMajorAxis and SemiLatusRectum is authoritative:
// SemiLatusRectum for a parabolic orbit (eccentricity equal to 1 within the
// singularity tolerance), SemiMajorAxis otherwise. SemiMajorAxis is signed:
// positive for ellipses, negative for hyperbolas.
type KeplerianElements struct {
	SemiMajorAxis       float64
	SemiLatusRectum     float64
	Eccentricity        float64
	Inclination         float64 // [0,pi]
	RAAN                float64 // right ascension of the ascending node
	ArgumentOfPeriapsis float64
	TrueAnomaly         float64
}

// OrbitShape classifies the conic section of an orbit so conversions can
// dispatch to a regime-specific algorithm instead of re-deriving the regime
// from tolerance checks at every step.
type OrbitShape int

const (
	ShapeCircular OrbitShape = iota
	ShapeElliptical
	ShapeParabolic
	ShapeHyperbolic
)

func (s OrbitShape) String() string {
	switch s {
	case ShapeCircular:
		return "circular"
	case ShapeElliptical:
		return "elliptical"
	case ShapeParabolic:
		return "parabolic"
	case ShapeHyperbolic:
		return "hyperbolic"
	default:
		return "unknown"
	}
}

// ClassifyShape maps an eccentricity onto an OrbitShape. An eccentricity
// within tolerance of 0 is circular and within tolerance of 1 is parabolic.
// Negative eccentricities are not a valid shape; callers validate those
// separately.
func ClassifyShape(eccentricity, tolerance float64) OrbitShape {
	switch {
	case math.Abs(eccentricity) < tolerance:
		return ShapeCircular
	case math.Abs(eccentricity-1) < tolerance:
		return ShapeParabolic
	case eccentricity > 1:
		return ShapeHyperbolic
	default:
		return ShapeElliptical
	}
}

// Shape classifies the elements' conic section using the provided tolerance.
func (k KeplerianElements) Shape(tolerance float64) OrbitShape {
	return ClassifyShape(k.Eccentricity, tolerance)
}

// SemiLatusRectumOrDerived returns the authoritative semi-latus rectum: the
// stored value for a parabolic orbit, a(1-e^2) otherwise.
func (k KeplerianElements) SemiLatusRectumOrDerived(tolerance float64) float64 {
	if math.Abs(k.Eccentricity-1) < tolerance {
		return k.SemiLatusRectum
	}
	return k.SemiMajorAxis * (1 - k.Eccentricity*k.Eccentricity)
}

// ArgumentOfLatitude returns the argument of latitude u = omega + nu.
func (k KeplerianElements) ArgumentOfLatitude() float64 {
	return k.ArgumentOfPeriapsis + k.TrueAnomaly
}

// USMElements are the Unified State Model elements: three hodograph
// (velocity-space) parameters and a unit quaternion encoding the orbital
// plane, periapsis orientation, and instantaneous longitude.
type USMElements struct {
	CHodograph   float64
	Rf1Hodograph float64
	Rf2Hodograph float64
	Epsilon1     float64
	Epsilon2     float64
	Epsilon3     float64
	Eta          float64
}

// QuaternionNorm returns the Euclidean norm of the quaternion part. For a
// well-formed USM state it is 1 up to numerical tolerance.
func (u USMElements) QuaternionNorm() float64 {
	return math.Sqrt(u.Epsilon1*u.Epsilon1 + u.Epsilon2*u.Epsilon2 +
		u.Epsilon3*u.Epsilon3 + u.Eta*u.Eta)
}
