package core

import (
	"context"
	"fmt"
	"math"

	"github.com/signalsfoundry/orbital-conversions/internal/logging"
	"github.com/signalsfoundry/orbital-conversions/model"
)

// KeplerianToUSM converts classical orbital elements to unified state model
// elements. The hodograph triple comes from the semi-latus rectum and the
// longitude of periapsis; the quaternion encodes the 3-1-3 orientation with
// half angles of the RAAN and the argument of latitude.
func (c Converter) KeplerianToUSM(elements model.KeplerianElements, mu float64) (model.USMElements, error) {
	usm, err := c.keplerianToUSM(elements, mu)
	c.record(KindKeplerianToUSM, err)
	return usm, err
}

func (c Converter) keplerianToUSM(elements model.KeplerianElements, mu float64) (model.USMElements, error) {
	tolerance := c.singularityTolerance()
	if err := validateKeplerian(elements, mu, tolerance); err != nil {
		return model.USMElements{}, err
	}

	cHodograph := math.Sqrt(mu / elements.SemiLatusRectumOrDerived(tolerance))
	rHodograph := elements.Eccentricity * cHodograph
	sinLonPeriapsis, cosLonPeriapsis := math.Sincos(elements.RAAN + elements.ArgumentOfPeriapsis)

	argumentOfLatitude := elements.ArgumentOfLatitude()
	sinHalfInc, cosHalfInc := math.Sincos(elements.Inclination / 2)

	return model.USMElements{
		CHodograph:   cHodograph,
		Rf1Hodograph: -rHodograph * sinLonPeriapsis,
		Rf2Hodograph: rHodograph * cosLonPeriapsis,
		Epsilon1:     sinHalfInc * math.Cos((elements.RAAN-argumentOfLatitude)/2),
		Epsilon2:     sinHalfInc * math.Sin((elements.RAAN-argumentOfLatitude)/2),
		Epsilon3:     cosHalfInc * math.Sin((elements.RAAN+argumentOfLatitude)/2),
		Eta:          cosHalfInc * math.Cos((elements.RAAN+argumentOfLatitude)/2),
	}, nil
}

// USMToKeplerian converts unified state model elements back to classical
// orbital elements. A pure-retrograde orbit (epsilon3 and eta both zero)
// leaves the right ascension of latitude undefined and is rejected with
// ErrDegenerateGeometry. A near-parabolic result stores the semi-latus
// rectum instead of a semi-major axis; a circular result reports a zero
// argument of periapsis with the remaining in-plane angle as true anomaly.
// All angles come back in [0, 2*pi).
func (c Converter) USMToKeplerian(usm model.USMElements, mu float64) (model.KeplerianElements, error) {
	elements, err := c.usmToKeplerian(usm, mu)
	c.record(KindUSMToKeplerian, err)
	return elements, err
}

func (c Converter) usmToKeplerian(usm model.USMElements, mu float64) (model.KeplerianElements, error) {
	if mu <= 0 {
		return model.KeplerianElements{}, fmt.Errorf("%w: gravitational parameter %g not positive",
			ErrDomainViolation, mu)
	}
	if usm.CHodograph <= 0 {
		return model.KeplerianElements{}, fmt.Errorf("%w: hodograph velocity C %g not positive",
			ErrDomainViolation, usm.CHodograph)
	}

	tolerance := c.singularityTolerance()

	if math.Abs(usm.Epsilon3) < tolerance && math.Abs(usm.Eta) < tolerance {
		c.logger().Warn(context.Background(),
			"pure-retrograde orbit: right ascension of latitude undefined",
			logging.Float64("epsilon1", usm.Epsilon1),
			logging.Float64("epsilon2", usm.Epsilon2))
		return model.KeplerianElements{}, fmt.Errorf("%w: pure-retrograde orbit (inclination pi)",
			ErrDegenerateGeometry)
	}

	// Right ascension of latitude lambda = RAAN + argument of latitude, from
	// the double angle of the (epsilon3, eta) quaternion pair.
	planeNorm := usm.Epsilon3*usm.Epsilon3 + usm.Eta*usm.Eta
	cosLambda := (usm.Eta*usm.Eta - usm.Epsilon3*usm.Epsilon3) / planeNorm
	sinLambda := 2 * usm.Epsilon3 * usm.Eta / planeNorm
	lambda := math.Atan2(sinLambda, cosLambda)

	// Velocity components along and normal to the radius; ve1 = R*sin(nu) and
	// ve2 = C + R*cos(nu), which carry the true anomaly quadrant.
	ve1 := usm.Rf1Hodograph*cosLambda + usm.Rf2Hodograph*sinLambda
	ve2 := usm.CHodograph - usm.Rf1Hodograph*sinLambda + usm.Rf2Hodograph*cosLambda

	rHodograph := math.Hypot(usm.Rf1Hodograph, usm.Rf2Hodograph)
	eccentricity := rHodograph / usm.CHodograph

	elements := model.KeplerianElements{Eccentricity: eccentricity}
	if math.Abs(eccentricity-1) < tolerance {
		elements.SemiLatusRectum = mu / (usm.CHodograph * usm.CHodograph)
	} else {
		elements.SemiMajorAxis = mu / (2*usm.CHodograph*ve2 - (ve1*ve1 + ve2*ve2))
	}

	elements.Inclination = math.Acos(clampUnit(1 - 2*(usm.Epsilon1*usm.Epsilon1+usm.Epsilon2*usm.Epsilon2)))

	// The RAAN collapses to the reference direction for both the pure-prograde
	// orbit (epsilon1, epsilon2 zero) and any orbit flagged retrograde above.
	var raan float64
	if !(math.Abs(usm.Epsilon1) < tolerance && math.Abs(usm.Epsilon2) < tolerance) {
		raan = wrapTwoPi(math.Atan2(usm.Epsilon1*usm.Epsilon3+usm.Epsilon2*usm.Eta,
			usm.Epsilon1*usm.Eta-usm.Epsilon2*usm.Epsilon3))
	}
	elements.RAAN = raan

	if rHodograph < tolerance {
		// Circular: periapsis undefined, the whole in-plane angle is reported
		// as true anomaly.
		elements.ArgumentOfPeriapsis = 0
		elements.TrueAnomaly = wrapTwoPi(lambda - raan)
	} else {
		trueAnomaly := wrapTwoPi(math.Atan2(ve1, ve2-usm.CHodograph))
		elements.TrueAnomaly = trueAnomaly
		elements.ArgumentOfPeriapsis = wrapTwoPi(lambda - raan - trueAnomaly)
	}

	return elements, nil
}
