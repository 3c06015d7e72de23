package attdyn

import (
	"math"
	"time"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/soniakeys/meeus/julian"
)

const (
	deg2rad = math.Pi / 180
	// J2000JD is the Julian date of the J2000 reference epoch.
	J2000JD = 2451545.0
)

// EpochFromTime converts a civil time to ephemeris seconds past J2000.
func EpochFromTime(dt time.Time) float64 {
	return (julian.TimeToJD(dt.UTC()) - J2000JD) * 86400
}

// TimeFromEpoch converts ephemeris seconds past J2000 to a civil time in UTC.
func TimeFromEpoch(et float64) time.Time {
	return julian.JDToTime(J2000JD + et/86400).UTC()
}

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// unit returns the unit vector of a given vector.
func unit(a []float64) (b []float64) {
	n := norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// dot performs the inner product via mat64/BLAS.
func dot(a, b []float64) float64 {
	return mat64.Dot(mat64.NewVector(len(a), a), mat64.NewVector(len(b), b))
}

// cross performs the cross product.
func cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

// skew returns the skew-symmetric matrix ω̃ such that ω̃·v = ω×v.
func skew(ω []float64) *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{0, -ω[2], ω[1],
		ω[2], 0, -ω[0],
		-ω[1], ω[0], 0})
}

// vee extracts the axial vector from a skew-symmetric matrix. Inverse of skew.
func vee(m *mat64.Dense) []float64 {
	return []float64{m.At(2, 1), m.At(0, 2), m.At(1, 0)}
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// Identity33 returns a new 3x3 identity matrix.
func Identity33() *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

// DiagonalTensor returns a new 3x3 diagonal matrix from the three provided moments.
func DiagonalTensor(i1, i2, i3 float64) *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{i1, 0, 0, 0, i2, 0, 0, 0, i3})
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}
