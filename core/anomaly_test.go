package core

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func radians(degrees float64) float64 { return degrees * math.Pi / 180 }

func TestTrueToEccentricAnomaly(t *testing.T) {
	// Earth-like eccentricity; reference values from GTOP tables.
	got, err := TrueToEccentricAnomaly(radians(61.6755418), 0.01671)
	if err != nil {
		t.Fatalf("TrueToEccentricAnomaly failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, 1.061789204, 1e-8) {
		t.Errorf("eccentric anomaly = %.10f, want 1.061789204", got)
	}
}

func TestEccentricToTrueAnomaly(t *testing.T) {
	got, err := EccentricToTrueAnomaly(1.061789204, 0.01671)
	if err != nil {
		t.Fatalf("EccentricToTrueAnomaly failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, radians(61.6755418), 1e-8) {
		t.Errorf("true anomaly = %.10f, want %.10f", got, radians(61.6755418))
	}
}

func TestTrueToHyperbolicAnomaly(t *testing.T) {
	got, err := TrueToHyperbolicAnomaly(0.5291, 3.0)
	if err != nil {
		t.Fatalf("TrueToHyperbolicAnomaly failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, 0.3879, 1e-4) {
		t.Errorf("hyperbolic anomaly = %.6f, want 0.3879", got)
	}
}

func TestHyperbolicToTrueAnomaly(t *testing.T) {
	got, err := HyperbolicToTrueAnomaly(0.3879, 3.0)
	if err != nil {
		t.Fatalf("HyperbolicToTrueAnomaly failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, 0.5291, 1e-4) {
		t.Errorf("true anomaly = %.6f, want 0.5291", got)
	}
}

func TestEccentricToMeanAnomaly(t *testing.T) {
	got, err := EccentricToMeanAnomaly(1.061789204, 0.01671)
	if err != nil {
		t.Fatalf("EccentricToMeanAnomaly failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, radians(60.0), 1e-8) {
		t.Errorf("mean anomaly = %.10f, want %.10f", got, radians(60.0))
	}
}

func TestHyperbolicToMeanAnomaly(t *testing.T) {
	got, err := HyperbolicToMeanAnomaly(1.6013761449, 2.4)
	if err != nil {
		t.Fatalf("HyperbolicToMeanAnomaly failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, radians(235.4), 1e-8) {
		t.Errorf("mean anomaly = %.10f, want %.10f", got, radians(235.4))
	}
}

func TestMeanToEccentricAnomaly(t *testing.T) {
	got, err := MeanToEccentricAnomaly(radians(60.0), 0.01671)
	if err != nil {
		t.Fatalf("MeanToEccentricAnomaly failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, 1.061789204, 1e-8) {
		t.Errorf("eccentric anomaly = %.10f, want 1.061789204", got)
	}
}

func TestMeanToHyperbolicAnomaly(t *testing.T) {
	got, err := MeanToHyperbolicAnomaly(radians(235.4), 2.4)
	if err != nil {
		t.Fatalf("MeanToHyperbolicAnomaly failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, 1.6013761449, 1e-8) {
		t.Errorf("hyperbolic anomaly = %.10f, want 1.6013761449", got)
	}
}

func TestEllipticalAnomalyRoundTrips(t *testing.T) {
	eccentricities := []float64{0, 0.1, 0.3, 0.7, 0.95}
	trueAnomalies := []float64{0, 0.5, 1.5, math.Pi - 0.1, math.Pi + 0.7, 5.9}

	for _, e := range eccentricities {
		for _, nu := range trueAnomalies {
			eccentricAnomaly, err := TrueToEccentricAnomaly(nu, e)
			if err != nil {
				t.Fatalf("e=%g nu=%g: TrueToEccentricAnomaly failed: %v", e, nu, err)
			}
			back, err := EccentricToTrueAnomaly(eccentricAnomaly, e)
			if err != nil {
				t.Fatalf("e=%g nu=%g: EccentricToTrueAnomaly failed: %v", e, nu, err)
			}
			if !floats.EqualWithinAbs(wrapTwoPi(back), wrapTwoPi(nu), 1e-12) {
				t.Errorf("e=%g nu=%g: round trip through eccentric anomaly gave %g", e, nu, back)
			}

			meanAnomaly, err := EccentricToMeanAnomaly(eccentricAnomaly, e)
			if err != nil {
				t.Fatalf("e=%g nu=%g: EccentricToMeanAnomaly failed: %v", e, nu, err)
			}
			solved, err := MeanToEccentricAnomaly(meanAnomaly, e)
			if err != nil {
				t.Fatalf("e=%g nu=%g: MeanToEccentricAnomaly failed: %v", e, nu, err)
			}
			if !floats.EqualWithinAbs(wrapTwoPi(solved), wrapTwoPi(eccentricAnomaly), 1e-7) {
				t.Errorf("e=%g nu=%g: Kepler solve gave E=%g, want %g", e, nu, solved, eccentricAnomaly)
			}
		}
	}
}

func TestHyperbolicAnomalyRoundTrips(t *testing.T) {
	eccentricities := []float64{1.5, 2.5, 10}
	hyperbolicAnomalies := []float64{-3, -0.5, 0, 0.4, 2, 5}

	for _, e := range eccentricities {
		for _, h := range hyperbolicAnomalies {
			nu, err := HyperbolicToTrueAnomaly(h, e)
			if err != nil {
				t.Fatalf("e=%g H=%g: HyperbolicToTrueAnomaly failed: %v", e, h, err)
			}
			back, err := TrueToHyperbolicAnomaly(nu, e)
			if err != nil {
				t.Fatalf("e=%g H=%g: TrueToHyperbolicAnomaly failed: %v", e, h, err)
			}
			if !floats.EqualWithinAbs(back, h, 1e-10) {
				t.Errorf("e=%g H=%g: round trip through true anomaly gave %g", e, h, back)
			}

			meanAnomaly, err := HyperbolicToMeanAnomaly(h, e)
			if err != nil {
				t.Fatalf("e=%g H=%g: HyperbolicToMeanAnomaly failed: %v", e, h, err)
			}
			solved, err := MeanToHyperbolicAnomaly(meanAnomaly, e)
			if err != nil {
				t.Fatalf("e=%g H=%g: MeanToHyperbolicAnomaly failed: %v", e, h, err)
			}
			if !floats.EqualWithinAbs(solved, h, 1e-7) {
				t.Errorf("e=%g H=%g: hyperbolic Kepler solve gave %g", e, h, solved)
			}
		}
	}
}

func TestAnomalyDomainViolations(t *testing.T) {
	if _, err := TrueToEccentricAnomaly(1, 1.2); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("elliptical conversion accepted e=1.2: %v", err)
	}
	if _, err := TrueToHyperbolicAnomaly(1, 0.5); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("hyperbolic conversion accepted e=0.5: %v", err)
	}
	if _, err := MeanToEccentricAnomaly(1, -0.1); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("Kepler solve accepted e=-0.1: %v", err)
	}
	if _, err := MeanToHyperbolicAnomaly(1, 1.0); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("hyperbolic Kepler solve accepted e=1: %v", err)
	}
}

func TestShapeDispatchers(t *testing.T) {
	// Elliptical path.
	eccentricAnomaly, err := TrueToAnomaly(1.2, 0.3)
	if err != nil {
		t.Fatalf("TrueToAnomaly elliptical failed: %v", err)
	}
	wantE, _ := TrueToEccentricAnomaly(1.2, 0.3)
	if eccentricAnomaly != wantE {
		t.Errorf("elliptical dispatch gave %g, want %g", eccentricAnomaly, wantE)
	}

	// Hyperbolic path.
	hyperbolicAnomaly, err := TrueToAnomaly(0.5, 2.0)
	if err != nil {
		t.Fatalf("TrueToAnomaly hyperbolic failed: %v", err)
	}
	wantH, _ := TrueToHyperbolicAnomaly(0.5, 2.0)
	if hyperbolicAnomaly != wantH {
		t.Errorf("hyperbolic dispatch gave %g, want %g", hyperbolicAnomaly, wantH)
	}

	// Parabolic eccentricity has no anomaly branch.
	if _, err := TrueToAnomaly(0.5, 1.0); !errors.Is(err, ErrUnsupportedRegime) {
		t.Errorf("expected ErrUnsupportedRegime for e=1, got %v", err)
	}
	if _, err := AnomalyToTrue(0.5, 1.0); !errors.Is(err, ErrUnsupportedRegime) {
		t.Errorf("expected ErrUnsupportedRegime for e=1, got %v", err)
	}
	if _, err := AnomalyToMean(0.5, 1.0); !errors.Is(err, ErrUnsupportedRegime) {
		t.Errorf("expected ErrUnsupportedRegime for e=1, got %v", err)
	}
	if _, err := (Converter{}).MeanToAnomaly(0.5, 1.0); !errors.Is(err, ErrUnsupportedRegime) {
		t.Errorf("expected ErrUnsupportedRegime for e=1, got %v", err)
	}

	// Negative eccentricity is a domain violation, not a regime gap.
	if _, err := TrueToAnomaly(0.5, -0.2); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("expected ErrDomainViolation for e=-0.2, got %v", err)
	}

	// Consistency of the full dispatch chain on a hyperbola.
	mean, err := AnomalyToMean(1.5, 2.0)
	if err != nil {
		t.Fatalf("AnomalyToMean failed: %v", err)
	}
	solved, err := (Converter{}).MeanToAnomaly(mean, 2.0)
	if err != nil {
		t.Fatalf("MeanToAnomaly failed: %v", err)
	}
	if !floats.EqualWithinAbs(solved, 1.5, 1e-7) {
		t.Errorf("dispatch chain gave %g, want 1.5", solved)
	}
}

const muEarth = 3.986004418e14 // m^3/s^2

func TestElapsedTimeToEllipticalMeanAnomalyChange(t *testing.T) {
	got, err := ElapsedTimeToEllipticalMeanAnomalyChange(4000.0, muEarth, 2.5e6)
	if err != nil {
		t.Fatalf("ElapsedTimeToEllipticalMeanAnomalyChange failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, 20.203139659369779, 1e-11) {
		t.Errorf("mean anomaly change = %.15f, want 20.203139659369779", got)
	}
}

func TestEllipticalMeanAnomalyChangeToElapsedTime(t *testing.T) {
	got, err := EllipticalMeanAnomalyChangeToElapsedTime(20.203139659369779, muEarth, 2.5e6)
	if err != nil {
		t.Fatalf("EllipticalMeanAnomalyChangeToElapsedTime failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, 4000.0, 1e-8) {
		t.Errorf("elapsed time = %.12f, want 4000", got)
	}
}

func TestElapsedTimeToHyperbolicMeanAnomalyChange(t *testing.T) {
	got, err := ElapsedTimeToHyperbolicMeanAnomalyChange(1000.0, muEarth, -4.0e7)
	if err != nil {
		t.Fatalf("ElapsedTimeToHyperbolicMeanAnomalyChange failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, 0.078918514294413, 1e-11) {
		t.Errorf("mean anomaly change = %.15f, want 0.078918514294413", got)
	}
}

func TestHyperbolicMeanAnomalyChangeToElapsedTime(t *testing.T) {
	got, err := HyperbolicMeanAnomalyChangeToElapsedTime(0.078918514294413, muEarth, -4.0e7)
	if err != nil {
		t.Fatalf("HyperbolicMeanAnomalyChangeToElapsedTime failed: %v", err)
	}
	if !floats.EqualWithinAbs(got, 1000.0, 1e-8) {
		t.Errorf("elapsed time = %.12f, want 1000", got)
	}
}

func TestTimeConversionDispatch(t *testing.T) {
	elliptical, err := ElapsedTimeToMeanAnomalyChange(4000.0, muEarth, 2.5e6)
	if err != nil {
		t.Fatalf("elliptical dispatch failed: %v", err)
	}
	if !floats.EqualWithinAbs(elliptical, 20.203139659369779, 1e-11) {
		t.Errorf("elliptical dispatch gave %.15f", elliptical)
	}

	hyperbolic, err := ElapsedTimeToMeanAnomalyChange(1000.0, muEarth, -4.0e7)
	if err != nil {
		t.Fatalf("hyperbolic dispatch failed: %v", err)
	}
	if !floats.EqualWithinAbs(hyperbolic, 0.078918514294413, 1e-11) {
		t.Errorf("hyperbolic dispatch gave %.15f", hyperbolic)
	}

	back, err := MeanAnomalyChangeToElapsedTime(hyperbolic, muEarth, -4.0e7)
	if err != nil {
		t.Fatalf("inverse dispatch failed: %v", err)
	}
	if !floats.EqualWithinAbs(back, 1000.0, 1e-8) {
		t.Errorf("inverse dispatch gave %.12f", back)
	}
}

func TestTimeConversionSignViolations(t *testing.T) {
	if _, err := ElapsedTimeToEllipticalMeanAnomalyChange(1, muEarth, -1e7); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("elliptical conversion accepted a<0: %v", err)
	}
	if _, err := ElapsedTimeToHyperbolicMeanAnomalyChange(1, muEarth, 1e7); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("hyperbolic conversion accepted a>0: %v", err)
	}
	if _, err := SemiMajorAxisToMeanMotion(0, muEarth); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("mean motion accepted a=0: %v", err)
	}
}

func TestMeanMotionRoundTrip(t *testing.T) {
	const semiMajorAxis = 7.5e6
	meanMotion, err := SemiMajorAxisToMeanMotion(semiMajorAxis, muEarth)
	if err != nil {
		t.Fatalf("SemiMajorAxisToMeanMotion failed: %v", err)
	}
	back, err := MeanMotionToSemiMajorAxis(meanMotion, muEarth)
	if err != nil {
		t.Fatalf("MeanMotionToSemiMajorAxis failed: %v", err)
	}
	if !floats.EqualWithinAbs(back/semiMajorAxis, 1, 1e-12) {
		t.Errorf("round trip gave a=%g, want %g", back, semiMajorAxis)
	}
}
