package main

import (
	"math"
	"testing"

	"github.com/signalsfoundry/orbital-conversions/core"
)

func TestParseScalars(t *testing.T) {
	scalars, err := parseScalars(" 1, 2.5,-3e4 ")
	if err != nil {
		t.Fatalf("parseScalars failed: %v", err)
	}
	want := []float64{1, 2.5, -3e4}
	if len(scalars) != len(want) {
		t.Fatalf("got %d scalars, want %d", len(scalars), len(want))
	}
	for i := range want {
		if scalars[i] != want[i] {
			t.Errorf("scalar %d = %g, want %g", i, scalars[i], want[i])
		}
	}

	if _, err := parseScalars(""); err == nil {
		t.Error("expected an error for an empty state")
	}
	if _, err := parseScalars("1,abc,3"); err == nil {
		t.Error("expected an error for a non-numeric scalar")
	}
}

func TestInputToKeplerianParsesElements(t *testing.T) {
	opts := options{
		from:  "keplerian",
		state: "7e6,0.1,0.5,0.25,1.5,2.0",
		mu:    3.986004418e14,
	}

	elements, mu, err := inputToKeplerian(core.Converter{}, opts)
	if err != nil {
		t.Fatalf("inputToKeplerian failed: %v", err)
	}
	if mu != opts.mu {
		t.Errorf("mu = %g, want %g", mu, opts.mu)
	}
	if elements.SemiMajorAxis != 7e6 || elements.Eccentricity != 0.1 {
		t.Errorf("parsed elements = %+v", elements)
	}
}

func TestInputToKeplerianParabolicUsesSemiLatusRectum(t *testing.T) {
	opts := options{
		from:  "keplerian",
		state: "4e9,1,0.5,0.25,1.5,2.0",
		mu:    3.986004418e14,
	}

	elements, _, err := inputToKeplerian(core.Converter{}, opts)
	if err != nil {
		t.Fatalf("inputToKeplerian failed: %v", err)
	}
	if elements.SemiLatusRectum != 4e9 || elements.SemiMajorAxis != 0 {
		t.Errorf("parabolic input stored as %+v", elements)
	}
}

func TestInputToKeplerianCartesian(t *testing.T) {
	opts := options{
		from:  "cartesian",
		state: "1,2,1,-0.25,-0.25,0.5",
		mu:    1,
	}

	elements, _, err := inputToKeplerian(core.Converter{}, opts)
	if err != nil {
		t.Fatalf("inputToKeplerian failed: %v", err)
	}
	if math.Abs(elements.SemiMajorAxis-2.265) > 1e-3 {
		t.Errorf("semi-major axis = %g, want 2.265", elements.SemiMajorAxis)
	}
}

func TestInputToKeplerianRejectsBadInput(t *testing.T) {
	if _, _, err := inputToKeplerian(core.Converter{}, options{from: "keplerian", state: "1,2,3"}); err == nil {
		t.Error("expected an error for a short keplerian state")
	}
	if _, _, err := inputToKeplerian(core.Converter{}, options{from: "usm", state: "1,2,3"}); err == nil {
		t.Error("expected an error for a short usm state")
	}
	if _, _, err := inputToKeplerian(core.Converter{}, options{from: "quaternion", state: "1"}); err == nil {
		t.Error("expected an error for an unknown representation")
	}
	if _, _, err := inputToKeplerian(core.Converter{}, options{from: "tle"}); err == nil {
		t.Error("expected an error for a missing TLE")
	}
}
