package kinematics

import (
	"errors"
	"math"
)

// ErrUnreachable is returned by AlphaBetaFromXY when (x,y) lies outside the
// positioner's reachable annulus [MinReach, MaxReach].
var ErrUnreachable = errors.New("kinematics: point unreachable")

// AlphaBetaFromXY computes the (alpha, beta) in degrees that place the
// fiber at focal-plane point (x, y) relative to the positioner's mounting
// point, via the law of cosines. alpha is wrapped to [0, 360). Returns
// ErrUnreachable if hypot(x,y) falls outside [t.MinReach(), t.MaxReach()].
func AlphaBetaFromXY(t ArmTemplate, x, y float64) (alphaDeg, betaDeg float64, err error) {
	xyMag := math.Hypot(x, y)
	if !t.Reachable(xyMag) {
		return 0, 0, ErrUnreachable
	}

	a, b := t.AlphaArmLen, t.BetaArmLen

	// Round-off at the edges of the annulus can push the cosines just past
	// +/-1, which would make Acos return NaN for a reachable point.
	cosAlpha := math.Max(-1, math.Min(1, (-b*b+a*a+xyMag*xyMag)/(2*a*xyMag)))
	cosGamma := math.Max(-1, math.Min(1, (-xyMag*xyMag+a*a+b*b)/(2*a*b)))
	alphaAngRad := math.Acos(cosAlpha)
	gammaAngRad := math.Acos(cosGamma)

	alphaAngRad = -alphaAngRad
	betaAngRad := math.Pi - gammaAngRad

	rotAng := math.Atan2(y, x)
	alphaAngRad += rotAng

	alphaDeg = alphaAngRad * 180 / math.Pi
	for alphaDeg < 0 {
		alphaDeg += 360
	}
	for alphaDeg >= 360 {
		alphaDeg -= 360
	}
	betaDeg = betaAngRad * 180 / math.Pi

	if math.IsNaN(alphaDeg) || math.IsNaN(betaDeg) {
		return 0, 0, ErrUnreachable
	}
	return alphaDeg, betaDeg, nil
}
