package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/signalsfoundry/orbital-conversions/core"
	"github.com/signalsfoundry/orbital-conversions/internal/logging"
	"github.com/signalsfoundry/orbital-conversions/internal/observability"
	"github.com/signalsfoundry/orbital-conversions/model"
)

// muEarthKm is the Earth gravitational parameter in km^3/s^2, matching the
// kilometre-based state that SGP4 propagation returns.
const muEarthKm = 398600.4418

func main() {
	from := flag.String("from", "keplerian", "input representation: cartesian, keplerian, usm, or tle")
	to := flag.String("to", "cartesian", "output representation: cartesian, keplerian, or usm")
	state := flag.String("state", "", "comma-separated input scalars: x,y,z,vx,vy,vz (cartesian); a,e,i,raan,argp,nu (keplerian, angles in radians); C,Rf1,Rf2,eps1,eps2,eps3,eta (usm)")
	mu := flag.Float64("mu", 0, "gravitational parameter of the central body (ignored with -from=tle)")
	tle1 := flag.String("tle1", "", "TLE line 1 (with -from=tle)")
	tle2 := flag.String("tle2", "", "TLE line 2 (with -from=tle)")
	at := flag.String("at", "", "RFC3339 epoch to propagate the TLE to (with -from=tle; defaults to now)")
	dumpMetrics := flag.Bool("metrics", false, "dump collected conversion metrics to stderr on exit")

	flag.Parse()

	logger := logging.NewFromEnv()
	ctx := context.Background()

	registry := prometheus.NewRegistry()
	collector, err := observability.NewConversionCollector(registry)
	if err != nil {
		logger.Error(ctx, "metrics setup failed", logging.Any("error", err))
		os.Exit(1)
	}

	converter := core.Converter{Logger: logger, Recorder: collector}

	err = run(converter, options{
		from:  strings.ToLower(*from),
		to:    strings.ToLower(*to),
		state: *state,
		mu:    *mu,
		tle1:  *tle1,
		tle2:  *tle2,
		at:    *at,
	})
	if *dumpMetrics {
		dumpCollected(registry)
	}
	if err != nil {
		logger.Error(ctx, "conversion failed", logging.Any("error", err))
		os.Exit(1)
	}
}

type options struct {
	from, to string
	state    string
	mu       float64
	tle1     string
	tle2     string
	at       string
}

func run(converter core.Converter, opts options) error {
	elements, mu, err := inputToKeplerian(converter, opts)
	if err != nil {
		return err
	}

	switch opts.to {
	case "keplerian":
		printKeplerian(elements)
	case "cartesian":
		state, err := converter.KeplerianToCartesian(elements, mu)
		if err != nil {
			return err
		}
		printCartesian(state)
	case "usm":
		usm, err := converter.KeplerianToUSM(elements, mu)
		if err != nil {
			return err
		}
		printUSM(usm)
	default:
		return fmt.Errorf("unknown output representation %q", opts.to)
	}
	return nil
}

// inputToKeplerian funnels every input representation through Keplerian
// elements, which every other representation converts to and from directly.
func inputToKeplerian(converter core.Converter, opts options) (model.KeplerianElements, float64, error) {
	if opts.from == "tle" {
		state, err := propagateTLE(opts.tle1, opts.tle2, opts.at)
		if err != nil {
			return model.KeplerianElements{}, 0, err
		}
		elements, err := converter.CartesianToKeplerian(state, muEarthKm)
		return elements, muEarthKm, err
	}

	scalars, err := parseScalars(opts.state)
	if err != nil {
		return model.KeplerianElements{}, 0, err
	}

	switch opts.from {
	case "cartesian":
		if len(scalars) != 6 {
			return model.KeplerianElements{}, 0, fmt.Errorf("cartesian state needs 6 scalars, got %d", len(scalars))
		}
		state := model.CartesianState{
			Position: model.Vector3{X: scalars[0], Y: scalars[1], Z: scalars[2]},
			Velocity: model.Vector3{X: scalars[3], Y: scalars[4], Z: scalars[5]},
		}
		elements, err := converter.CartesianToKeplerian(state, opts.mu)
		return elements, opts.mu, err
	case "keplerian":
		if len(scalars) != 6 {
			return model.KeplerianElements{}, 0, fmt.Errorf("keplerian state needs 6 scalars, got %d", len(scalars))
		}
		elements := model.KeplerianElements{
			SemiMajorAxis:       scalars[0],
			Eccentricity:        scalars[1],
			Inclination:         scalars[2],
			RAAN:                scalars[3],
			ArgumentOfPeriapsis: scalars[4],
			TrueAnomaly:         scalars[5],
		}
		// The first scalar doubles as the semi-latus rectum for a parabola.
		if elements.Shape(core.DefaultSingularityTolerance) == model.ShapeParabolic {
			elements.SemiMajorAxis = 0
			elements.SemiLatusRectum = scalars[0]
		}
		return elements, opts.mu, nil
	case "usm":
		if len(scalars) != 7 {
			return model.KeplerianElements{}, 0, fmt.Errorf("usm state needs 7 scalars, got %d", len(scalars))
		}
		usm := model.USMElements{
			CHodograph:   scalars[0],
			Rf1Hodograph: scalars[1],
			Rf2Hodograph: scalars[2],
			Epsilon1:     scalars[3],
			Epsilon2:     scalars[4],
			Epsilon3:     scalars[5],
			Eta:          scalars[6],
		}
		elements, err := converter.USMToKeplerian(usm, opts.mu)
		return elements, opts.mu, err
	default:
		return model.KeplerianElements{}, 0, fmt.Errorf("unknown input representation %q", opts.from)
	}
}

// propagateTLE runs SGP4 on the TLE pair at the requested epoch and returns
// the ECI state in km and km/s.
func propagateTLE(line1, line2, at string) (model.CartesianState, error) {
	if line1 == "" || line2 == "" {
		return model.CartesianState{}, fmt.Errorf("-from=tle requires -tle1 and -tle2")
	}
	epoch := time.Now().UTC()
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return model.CartesianState{}, fmt.Errorf("invalid -at epoch %q: %w", at, err)
		}
		epoch = parsed.UTC()
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	year, month, day := epoch.Date()
	hour, min, sec := epoch.Clock()
	position, velocity := satellite.Propagate(sat, year, int(month), day, hour, min, sec)

	return model.CartesianState{
		Position: model.Vector3{X: position.X, Y: position.Y, Z: position.Z},
		Velocity: model.Vector3{X: velocity.X, Y: velocity.Y, Z: velocity.Z},
	}, nil
}

func parseScalars(state string) ([]float64, error) {
	if strings.TrimSpace(state) == "" {
		return nil, fmt.Errorf("missing -state")
	}
	parts := strings.Split(state, ",")
	scalars := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid state scalar %q: %w", part, err)
		}
		scalars = append(scalars, v)
	}
	return scalars, nil
}

func printCartesian(state model.CartesianState) {
	fmt.Printf("position: (%.12g, %.12g, %.12g)\n", state.Position.X, state.Position.Y, state.Position.Z)
	fmt.Printf("velocity: (%.12g, %.12g, %.12g)\n", state.Velocity.X, state.Velocity.Y, state.Velocity.Z)
}

func printKeplerian(elements model.KeplerianElements) {
	if elements.Shape(core.DefaultSingularityTolerance) == model.ShapeParabolic {
		fmt.Printf("semi-latus rectum:     %.12g\n", elements.SemiLatusRectum)
	} else {
		fmt.Printf("semi-major axis:       %.12g\n", elements.SemiMajorAxis)
	}
	fmt.Printf("eccentricity:          %.12g\n", elements.Eccentricity)
	fmt.Printf("inclination:           %.12g\n", elements.Inclination)
	fmt.Printf("RAAN:                  %.12g\n", elements.RAAN)
	fmt.Printf("argument of periapsis: %.12g\n", elements.ArgumentOfPeriapsis)
	fmt.Printf("true anomaly:          %.12g\n", elements.TrueAnomaly)
}

func printUSM(usm model.USMElements) {
	fmt.Printf("C:    %.12g\n", usm.CHodograph)
	fmt.Printf("Rf1:  %.12g\n", usm.Rf1Hodograph)
	fmt.Printf("Rf2:  %.12g\n", usm.Rf2Hodograph)
	fmt.Printf("eps1: %.12g\n", usm.Epsilon1)
	fmt.Printf("eps2: %.12g\n", usm.Epsilon2)
	fmt.Printf("eps3: %.12g\n", usm.Epsilon3)
	fmt.Printf("eta:  %.12g\n", usm.Eta)
}

// dumpCollected prints every gathered metric sample to stderr, one line per
// series.
func dumpCollected(gatherer prometheus.Gatherer) {
	families, err := gatherer.Gather()
	if err != nil {
		fmt.Fprintf(os.Stderr, "metrics gather failed: %v\n", err)
		return
	}
	for _, family := range families {
		for _, metric := range family.Metric {
			fmt.Fprintf(os.Stderr, "%s%s %s\n", family.GetName(), formatLabels(metric), formatValue(metric))
		}
	}
}

func formatLabels(metric *dto.Metric) string {
	if len(metric.Label) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(metric.Label))
	for _, label := range metric.Label {
		pairs = append(pairs, fmt.Sprintf("%s=%q", label.GetName(), label.GetValue()))
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func formatValue(metric *dto.Metric) string {
	switch {
	case metric.Counter != nil:
		return strconv.FormatFloat(metric.Counter.GetValue(), 'g', -1, 64)
	case metric.Gauge != nil:
		return strconv.FormatFloat(metric.Gauge.GetValue(), 'g', -1, 64)
	case metric.Histogram != nil:
		return fmt.Sprintf("count=%d sum=%g", metric.Histogram.GetSampleCount(), metric.Histogram.GetSampleSum())
	default:
		return "?"
	}
}
