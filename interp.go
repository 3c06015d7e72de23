package attdyn

import (
	"errors"
	"fmt"
	"sort"
)

// ErrTimeOutOfRange is returned for queries strictly outside the tabulated
// domain. Tabulated sources never extrapolate; callers needing a defined
// answer everywhere bound their tables with far-out sentinel rows (±1e100)
// the way dummy ephemerides do.
var ErrTimeOutOfRange = errors.New("query time outside tabulated domain")

// Interpolator answers point queries on a time-tagged sequence of fixed-size
// vectors.
type Interpolator interface {
	// Interpolate returns the interpolated vector at the query time.
	Interpolate(t float64) ([]float64, error)
	// Domain returns the tabulated time span.
	Domain() (lo, hi float64)
}

func checkTable(times []float64, values [][]float64) {
	if len(times) < 2 {
		panic("interpolator needs at least two entries")
	}
	if len(times) != len(values) {
		panic(fmt.Errorf("got %d times for %d values", len(times), len(values)))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			panic(fmt.Errorf("times must be strictly increasing (entry %d)", i))
		}
	}
}

// bracket returns the index i such that times[i] <= t < times[i+1].
func bracket(times []float64, t float64) int {
	i := sort.SearchFloat64s(times, t)
	if i > 0 {
		i--
	}
	if i > len(times)-2 {
		i = len(times) - 2
	}
	return i
}

// LinearInterpolator interpolates linearly between neighboring entries.
type LinearInterpolator struct {
	times  []float64
	values [][]float64
}

// NewLinearInterpolator creates a linear interpolator from sorted times and
// their associated vectors. It panics on malformed tables.
func NewLinearInterpolator(times []float64, values [][]float64) *LinearInterpolator {
	checkTable(times, values)
	return &LinearInterpolator{times, values}
}

// NewLinearInterpolatorFromMap creates a linear interpolator from a
// time-tagged map, sorting the keys.
func NewLinearInterpolatorFromMap(table map[float64][]float64) *LinearInterpolator {
	times := make([]float64, 0, len(table))
	for t := range table {
		times = append(times, t)
	}
	sort.Float64s(times)
	values := make([][]float64, len(times))
	for i, t := range times {
		values[i] = table[t]
	}
	return NewLinearInterpolator(times, values)
}

// Domain implements the Interpolator interface.
func (li *LinearInterpolator) Domain() (float64, float64) {
	return li.times[0], li.times[len(li.times)-1]
}

// Interpolate implements the Interpolator interface.
func (li *LinearInterpolator) Interpolate(t float64) ([]float64, error) {
	if t < li.times[0] || t > li.times[len(li.times)-1] {
		return nil, ErrTimeOutOfRange
	}
	i := bracket(li.times, t)
	w := (t - li.times[i]) / (li.times[i+1] - li.times[i])
	out := make([]float64, len(li.values[i]))
	for j := range out {
		out[j] = (1-w)*li.values[i][j] + w*li.values[i+1][j]
	}
	return out, nil
}

// LagrangeInterpolator interpolates with a local Lagrange polynomial over a
// sliding window of nodes, evaluated with Neville's algorithm. Higher point
// counts give smoother derivative estimates from finite differencing the
// interpolant, which is what tabulated rotational ephemerides rely on.
type LagrangeInterpolator struct {
	times  []float64
	values [][]float64
	points int
}

// NewLagrangeInterpolator creates a Lagrange interpolator using the given
// (even) number of points per evaluation. It panics on malformed tables.
func NewLagrangeInterpolator(times []float64, values [][]float64, points int) *LagrangeInterpolator {
	checkTable(times, values)
	if points < 2 || points%2 != 0 {
		panic(fmt.Errorf("lagrange interpolator needs an even number of points, got %d", points))
	}
	if points > len(times) {
		points = len(times)
		if points%2 != 0 {
			points--
		}
	}
	return &LagrangeInterpolator{times, values, points}
}

// Domain implements the Interpolator interface.
func (la *LagrangeInterpolator) Domain() (float64, float64) {
	return la.times[0], la.times[len(la.times)-1]
}

// Interpolate implements the Interpolator interface.
func (la *LagrangeInterpolator) Interpolate(t float64) ([]float64, error) {
	if t < la.times[0] || t > la.times[len(la.times)-1] {
		return nil, ErrTimeOutOfRange
	}
	// Center the window on the bracketing interval, clamped to the table.
	lo := bracket(la.times, t) - la.points/2 + 1
	if lo < 0 {
		lo = 0
	}
	if lo > len(la.times)-la.points {
		lo = len(la.times) - la.points
	}
	xs := la.times[lo : lo+la.points]
	dim := len(la.values[lo])
	out := make([]float64, dim)
	p := make([]float64, la.points)
	for j := 0; j < dim; j++ {
		for i := 0; i < la.points; i++ {
			p[i] = la.values[lo+i][j]
		}
		// Neville's recursion in place.
		for k := 1; k < la.points; k++ {
			for i := 0; i < la.points-k; i++ {
				p[i] = ((t-xs[i+k])*p[i] + (xs[i]-t)*p[i+1]) / (xs[i] - xs[i+k])
			}
		}
		out[j] = p[0]
	}
	return out, nil
}
