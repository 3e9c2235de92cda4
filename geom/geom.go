// Package geom provides the 3D point/segment primitives, distance
// functions, annulus sampling, and polyline simplification/resampling
// shared by the kinematics and grid packages.
//
// Points are represented with github.com/golang/geo/r3.Vector rather than a
// hand-rolled struct, matching the teacher's own use of r3.Vector for 3D
// positions.
package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Point3 is a point (or free vector) in 3-space.
type Point3 = r3.Vector

// Segment is a line segment from P0 to P1.
type Segment struct {
	P0, P1 Point3
}

// smallNum guards against division by (near) zero when two segments are
// parallel. Matches the original implementation's SMALL_NUM.
const smallNum = 1e-8

// SegmentSegmentDist2 returns the squared distance between the closest
// points on two 3D segments, using the clamped-parametric closest-approach
// method (Eberly / "geomalgorithms" dist3D_Segment_to_Segment). When the
// segments are (nearly) parallel, the determinant falls below smallNum and
// the computation degenerates to comparing S1's start point against the
// line containing S2.
func SegmentSegmentDist2(s1P0, s1P1, s2P0, s2P1 Point3) float64 {
	u := s1P1.Sub(s1P0)
	v := s2P1.Sub(s2P0)
	w := s1P0.Sub(s2P0)

	a := u.Dot(u)
	b := u.Dot(v)
	c := v.Dot(v)
	d := u.Dot(w)
	e := v.Dot(w)
	dd := a*c - b*b

	var sc, sN, sD = 0.0, 0.0, dd
	var tc, tN, tD = 0.0, 0.0, dd

	if dd < smallNum {
		// The lines are almost parallel; force using point P0 on segment S1
		// to avoid dividing by (near) zero.
		sN = 0.0
		sD = 1.0
		tN = e
		tD = c
	} else {
		sN = b*e - c*d
		tN = a*e - b*d
		if sN < 0.0 {
			sN = 0.0
			tN = e
			tD = c
		} else if sN > sD {
			sN = sD
			tN = e + b
			tD = c
		}
	}

	if tN < 0.0 {
		tN = 0.0
		switch {
		case -d < 0.0:
			sN = 0.0
		case -d > a:
			sN = sD
		default:
			sN = -d
			sD = a
		}
	} else if tN > tD {
		tN = tD
		switch {
		case (-d + b) < 0.0:
			sN = 0.0
		case (-d + b) > a:
			sN = sD
		default:
			sN = -d + b
			sD = a
		}
	}

	if math.Abs(sN) < smallNum {
		sc = 0.0
	} else {
		sc = sN / sD
	}
	if math.Abs(tN) < smallNum {
		tc = 0.0
	} else {
		tc = tN / tD
	}

	dP := w.Add(u.Mul(sc)).Sub(v.Mul(tc))
	return dP.Dot(dP)
}

// PointSegmentDist2 returns the squared distance from point p to segment
// [q0,q1]. It is the degenerate case of SegmentSegmentDist2 with the
// second segment collapsed to a point, implemented directly for clarity
// and to avoid a division-by-zero edge case when q0==q1.
func PointSegmentDist2(p, q0, q1 Point3) float64 {
	v := q1.Sub(q0)
	w := p.Sub(q0)
	vv := v.Dot(v)
	if vv < smallNum {
		return w.Dot(w)
	}
	t := w.Dot(v) / vv
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := q0.Add(v.Mul(t))
	d := p.Sub(closest)
	return d.Dot(d)
}

// SampleAnnulus draws a uniform-area sample (x, y) from the annulus with
// inner radius rMin and outer radius rMax, using the inverse-CDF method:
// r = sqrt((rMax^2 - rMin^2)*u + rMin^2), theta = 2*pi*v.
func SampleAnnulus(rMin, rMax float64, rng *RNG) (x, y float64) {
	u := rng.Float64()
	v := rng.Float64()
	r := math.Sqrt((rMax*rMax-rMin*rMin)*u + rMin*rMin)
	theta := v * 2 * math.Pi
	return r * math.Cos(theta), r * math.Sin(theta)
}
