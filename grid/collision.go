package grid

import "github.com/csayres/kaijugo/geom"

// RobotColliders returns the ids of robot neighbors of r that are currently
// collided with it: d^2 < (2*cb)^2 on the two collision chords, where cb is
// the robots' (typically shared) collision buffer.
func (g *RobotGrid) RobotColliders(robotID int) []int {
	r := g.robots[robotID]
	if r == nil {
		return nil
	}
	p0, p1 := r.CollisionSegment()

	var colliders []int
	for _, nid := range r.robotNeighbors {
		n := g.robots[nid]
		if n == nil {
			continue
		}
		q0, q1 := n.CollisionSegment()
		threshold := g.mutualCollisionBuffer(r, n)
		if geom.SegmentSegmentDist2(p0, p1, q0, q1) < threshold*threshold {
			colliders = append(colliders, nid)
		}
	}
	return colliders
}

// FiducialColliders returns the ids of fiducial neighbors of r that are
// currently collided with it: point-to-segment distance against each
// fiducial below (r.cb + f.cb)^2.
func (g *RobotGrid) FiducialColliders(robotID int) []int {
	r := g.robots[robotID]
	if r == nil {
		return nil
	}
	p0, p1 := r.CollisionSegment()

	var colliders []int
	for _, fid := range r.fiducialNeighbors {
		f := g.fiducials[fid]
		if f == nil {
			continue
		}
		fp := geom.Point3{X: f.X, Y: f.Y, Z: 0}
		threshold := r.collisionBuffer + f.CollisionBuffer
		if geom.PointSegmentDist2(fp, p0, p1) < threshold*threshold {
			colliders = append(colliders, fid)
		}
	}
	return colliders
}

// IsCollided reports whether robotID currently collides with any robot or
// fiducial neighbor.
func (g *RobotGrid) IsCollided(robotID int) bool {
	return len(g.RobotColliders(robotID))+len(g.FiducialColliders(robotID)) > 0
}

// NCollisions returns the number of robots currently in collision with at
// least one neighbor (robot or fiducial).
func (g *RobotGrid) NCollisions() int {
	n := 0
	for _, id := range g.robotIDs {
		if g.IsCollided(id) {
			n++
		}
	}
	return n
}
