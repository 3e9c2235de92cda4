package geom

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPointSegmentDist2(t *testing.T) {
	p := r3.Vector{X: 0, Y: 1, Z: 0}
	q0 := r3.Vector{X: -1, Y: 0, Z: 0}
	q1 := r3.Vector{X: 1, Y: 0, Z: 0}
	test.That(t, PointSegmentDist2(p, q0, q1), test.ShouldAlmostEqual, 1.0, 1e-9)
}

func TestSegmentSegmentDist2Parallel(t *testing.T) {
	s1P0 := r3.Vector{X: 0, Y: 0, Z: 0}
	s1P1 := r3.Vector{X: 10, Y: 0, Z: 0}
	s2P0 := r3.Vector{X: 0, Y: 3, Z: 0}
	s2P1 := r3.Vector{X: 10, Y: 3, Z: 0}
	d2 := SegmentSegmentDist2(s1P0, s1P1, s2P0, s2P1)
	test.That(t, d2, test.ShouldAlmostEqual, 9.0, 1e-9)
}

func TestSegmentSegmentDist2Crossing(t *testing.T) {
	s1P0 := r3.Vector{X: -1, Y: 0, Z: 0}
	s1P1 := r3.Vector{X: 1, Y: 0, Z: 0}
	s2P0 := r3.Vector{X: 0, Y: -1, Z: 0}
	s2P1 := r3.Vector{X: 0, Y: 1, Z: 0}
	d2 := SegmentSegmentDist2(s1P0, s1P1, s2P0, s2P1)
	test.That(t, d2, test.ShouldAlmostEqual, 0.0, 1e-9)
}

func TestSampleAnnulusBounds(t *testing.T) {
	rng := NewRNG(42)
	const rMin, rMax = 7.6, 22.4
	for i := 0; i < 1000; i++ {
		x, y := SampleAnnulus(rMin, rMax, rng)
		r := math.Hypot(x, y)
		test.That(t, r, test.ShouldBeGreaterThanOrEqualTo, rMin-1e-9)
		test.That(t, r, test.ShouldBeLessThanOrEqualTo, rMax+1e-9)
	}
}

func TestRDPPreservesEndpoints(t *testing.T) {
	pts := []Sample{{0, 0}, {1, 0.01}, {2, 5}, {3, 5.01}, {4, 5}, {5, 10}}
	out := RDP(pts, 0.5)
	test.That(t, out[0], test.ShouldResemble, pts[0])
	test.That(t, out[len(out)-1], test.ShouldResemble, pts[len(pts)-1])
	test.That(t, len(out), test.ShouldBeLessThan, len(pts))
}

func TestInterpolateClampsAndLerps(t *testing.T) {
	sparse := []Sample{{0, 0}, {10, 100}}
	test.That(t, Interpolate(sparse, -5), test.ShouldEqual, 0.0)
	test.That(t, Interpolate(sparse, 15), test.ShouldEqual, 100.0)
	test.That(t, Interpolate(sparse, 5), test.ShouldEqual, 50.0)
}

func TestResampleMatchesOriginalAtKnots(t *testing.T) {
	sparse := []Sample{{0, 0}, {5, 50}, {10, 0}}
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	dense := Resample(sparse, xs)
	test.That(t, dense[0].Y, test.ShouldEqual, 0.0)
	test.That(t, dense[5].Y, test.ShouldEqual, 50.0)
	test.That(t, dense[10].Y, test.ShouldEqual, 0.0)
}
