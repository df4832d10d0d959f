package core

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// perifocalToInertial builds the 3-1-3 Euler rotation (RAAN about z,
// inclination about x, argument of periapsis about z) that maps
// perifocal-frame vectors into the inertial frame.
func perifocalToInertial(raan, inclination, argumentOfPeriapsis float64) *mat64.Dense {
	sinRAAN, cosRAAN := math.Sincos(raan)
	sinInc, cosInc := math.Sincos(inclination)
	sinArgP, cosArgP := math.Sincos(argumentOfPeriapsis)

	return mat64.NewDense(3, 3, []float64{
		cosRAAN*cosArgP - sinRAAN*sinArgP*cosInc, -cosRAAN*sinArgP - sinRAAN*cosArgP*cosInc, sinRAAN * sinInc,
		sinRAAN*cosArgP + cosRAAN*sinArgP*cosInc, -sinRAAN*sinArgP + cosRAAN*cosArgP*cosInc, -cosRAAN * sinInc,
		sinArgP * sinInc, cosArgP * sinInc, cosInc,
	})
}

// rotate applies a 3x3 rotation matrix to a vector.
func rotate(m *mat64.Dense, v Vec3) Vec3 {
	in := mat64.NewVector(3, []float64{v.X, v.Y, v.Z})
	var out mat64.Vector
	out.MulVec(m, in)
	return Vec3{X: out.At(0, 0), Y: out.At(1, 0), Z: out.At(2, 0)}
}
