package kinematics

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestAlphaBetaFromXYRoundTrips(t *testing.T) {
	tmpl := DefaultArmTemplate()
	cases := []struct{ x, y float64 }{
		{10, 0},
		{0, 10},
		{-10, -5},
		{15, 0},
		{7.6, 0},
	}
	for _, c := range cases {
		alpha, beta, err := AlphaBetaFromXY(tmpl, c.x, c.y)
		test.That(t, err, test.ShouldBeNil)

		pose := ForwardKinematics(tmpl, alpha, beta, r3.Vector{})
		test.That(t, pose.Fiber.X, test.ShouldAlmostEqual, c.x, 1e-6)
		test.That(t, pose.Fiber.Y, test.ShouldAlmostEqual, c.y, 1e-6)
	}
}

func TestAlphaBetaFromXYUnreachable(t *testing.T) {
	tmpl := DefaultArmTemplate()
	_, _, err := AlphaBetaFromXY(tmpl, 50, 0)
	test.That(t, err, test.ShouldEqual, ErrUnreachable)

	_, _, err = AlphaBetaFromXY(tmpl, 0, 0)
	test.That(t, err, test.ShouldEqual, ErrUnreachable)
}

func TestReachableBounds(t *testing.T) {
	tmpl := DefaultArmTemplate()
	test.That(t, tmpl.MinReach(), test.ShouldAlmostEqual, 7.6, 1e-9)
	test.That(t, tmpl.MaxReach(), test.ShouldAlmostEqual, 22.4, 1e-9)
	test.That(t, tmpl.Reachable(tmpl.MinReach()), test.ShouldBeTrue)
	test.That(t, tmpl.Reachable(tmpl.MaxReach()), test.ShouldBeTrue)
	test.That(t, tmpl.Reachable(tmpl.MinReach()-0.1), test.ShouldBeFalse)
	test.That(t, tmpl.Reachable(tmpl.MaxReach()+0.1), test.ShouldBeFalse)
}

func TestForwardKinematicsFoldedPose(t *testing.T) {
	tmpl := DefaultArmTemplate()
	pos := r3.Vector{X: 5, Y: -5, Z: 0}
	pose := ForwardKinematics(tmpl, 0, 180, pos)
	// beta=180 folds the beta arm back over the alpha arm, so the fiber
	// should sit close to the mounting position along -X from the alpha tip.
	dist := math.Hypot(pose.Fiber.X-pos.X, pose.Fiber.Y-pos.Y)
	test.That(t, dist, test.ShouldAlmostEqual, tmpl.MinReach(), 1e-6)
}
