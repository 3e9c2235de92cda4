// Package kinematics implements the forward and inverse kinematics of a
// two-link fiber positioner arm: the (alpha, beta) -> swept polyline/fiber
// map and its law-of-cosines inverse.
package kinematics

import "github.com/golang/geo/r3"

// ArmTemplate is the hardware configuration of a positioner's arm: its
// link lengths and the beta-arm polyline (in the beta frame, i.e. before
// any alpha/beta rotation is applied) used for collision testing, plus the
// per-vertex radius of each polyline vertex. Design Note "Arm template"
// asks that these be a configuration struct with defaults rather than
// baked-in constants, so that a caller testing a different hardware
// revision can swap them out.
type ArmTemplate struct {
	AlphaArmLen float64
	BetaArmLen  float64

	// BetaVertices are the beta-arm collision polyline vertices in the beta
	// frame: x runs along the beta direction, y is always 0 (the arm is
	// planar), z runs along the robot's mounting axis. This is the arm's
	// actual collision geometry (original_source's b2..b6), not including
	// the beta-axis pivot b1=(0,0,0) itself.
	BetaVertices []r3.Vector
	// VertexRadii[i] is the collision radius of BetaVertices[i].
	VertexRadii []float64

	// FiberNeutral is the fiber tip position in the beta frame, before any
	// alpha/beta rotation.
	FiberNeutral r3.Vector
}

// DefaultArmTemplate returns the hardware constants fixed in SPEC_FULL.md
// section 6: alpha_arm_len=7.4, beta_arm_len=15, and the five beta-arm
// collision vertices and their radii, grounded in original_source's
// python/kaiju/robot.cpp (b2_v..b6_v in betaNeutral, robot.cpp:79; b6 itself
// is derived at robot.cpp:67 as (16.3-3.0, 0, 30) = (13.3, 0, 30)). The
// beta-axis pivot b1=(0,0,0) is deliberately excluded: it is not part of
// the collision polyline.
func DefaultArmTemplate() ArmTemplate {
	const betaArmWidth = 3.0
	radius := betaArmWidth / 2.0
	return ArmTemplate{
		AlphaArmLen: 7.4,
		BetaArmLen:  15,
		BetaVertices: []r3.Vector{
			{X: 0, Y: 0, Z: 7.60},
			{X: 6.12, Y: 0, Z: 13.85},
			{X: 9.54, Y: 0, Z: 21.90},
			{X: 9.54, Y: 0, Z: 30},
			{X: 13.3, Y: 0, Z: 30},
		},
		VertexRadii:  []float64{radius, radius, radius, radius, radius},
		FiberNeutral: r3.Vector{X: 15, Y: 0, Z: 0},
	}
}

// MinReach is the minimum reachable radial distance from the positioner's
// mounting point: beta folded all the way back against the alpha arm.
func (t ArmTemplate) MinReach() float64 {
	return t.BetaArmLen - t.AlphaArmLen
}

// MaxReach is the maximum reachable radial distance: alpha and beta fully
// extended in a line.
func (t ArmTemplate) MaxReach() float64 {
	return t.BetaArmLen + t.AlphaArmLen
}

// Reachable reports whether a point at radial distance r from the
// positioner's mounting point is within [MinReach, MaxReach].
func (t ArmTemplate) Reachable(r float64) bool {
	return r >= t.MinReach() && r <= t.MaxReach()
}
