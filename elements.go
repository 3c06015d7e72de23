package attdyn

import (
	"fmt"
	"math"
)

// SphericalState is an entry-style translational state in the rotating
// planetocentric frame of a central body: position by radius, latitude δ and
// longitude λ, velocity by ground speed, flight path angle γ (positive above
// the local horizon) and heading χ (zero toward north, positive toward east).
type SphericalState struct {
	Radius          float64 // m
	Latitude        float64 // rad
	Longitude       float64 // rad
	Speed           float64 // m/s, relative to the rotating frame
	FlightPathAngle float64 // rad
	Heading         float64 // rad
}

// String implements the Stringer interface.
func (s SphericalState) String() string {
	return fmt.Sprintf("r=%.1f m δ=%.4f λ=%.4f V=%.2f m/s γ=%.4f χ=%.4f",
		s.Radius, s.Latitude, s.Longitude, s.Speed, s.FlightPathAngle, s.Heading)
}

// Cartesian converts to a planet-fixed Cartesian state [r v]. The velocity is
// assembled in the local vertical frame, [V·cosγ·cosχ, V·cosγ·sinχ, -V·sinγ],
// then rotated down the frame chain.
func (s SphericalState) Cartesian() []float64 {
	sδ, cδ := math.Sincos(s.Latitude)
	sλ, cλ := math.Sincos(s.Longitude)
	r := []float64{s.Radius * cδ * cλ, s.Radius * cδ * sλ, s.Radius * sδ}
	sγ, cγ := math.Sincos(s.FlightPathAngle)
	sχ, cχ := math.Sincos(s.Heading)
	vLV := []float64{s.Speed * cγ * cχ, s.Speed * cγ * sχ, -s.Speed * sγ}
	v := MxV33(LocalVerticalToPlanetocentricMatrix(s.Longitude, s.Latitude), vLV)
	return []float64{r[0], r[1], r[2], v[0], v[1], v[2]}
}

// NewSphericalStateFromCartesian converts a planet-fixed Cartesian state [r v]
// to spherical elements. At the poles the longitude and heading conventions
// degenerate; the returned angles remain a valid preimage of the state.
func NewSphericalStateFromCartesian(state []float64) SphericalState {
	r := norm(state[0:3])
	δ := math.Asin(state[2] / r)
	λ := math.Atan2(state[1], state[0])
	vLV := MxV33(PlanetocentricToLocalVerticalMatrix(λ, δ), state[3:6])
	V := norm(state[3:6])
	var γ, χ float64
	if V > 0 {
		γ = math.Asin(-vLV[2] / V)
		χ = math.Atan2(vLV[1], vLV[0])
	}
	return SphericalState{r, δ, λ, V, γ, χ}
}
