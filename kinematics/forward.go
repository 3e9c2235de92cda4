package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Pose is the result of ForwardKinematics: the swept beta-arm polyline (in
// grid coordinates) and the fiber tip position.
type Pose struct {
	// Polyline is len(ArmTemplate.BetaVertices) points, the beta-arm
	// vertices after the alpha/beta rotation chain and translation to the
	// robot's mounting position.
	Polyline []r3.Vector
	Fiber    r3.Vector
}

// CollisionSegment is the two-point chord used for all collision tests: the
// alpha-arm tip (polyline's first vertex) to the beta-arm far end (last
// vertex), per SPEC_FULL.md section 4.2.
func (p Pose) CollisionSegment() (r3.Vector, r3.Vector) {
	return p.Polyline[0], p.Polyline[len(p.Polyline)-1]
}

func toVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromVec3(v mgl64.Vec3) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// ForwardKinematics maps (alpha, beta) in degrees to the swept beta-arm
// polyline and fiber position at mounting position pos. The transform
// chain, following original_source's Robot::setAlphaBeta, is:
//  1. rotate each beta-frame vertex by beta about Z
//  2. translate by the alpha-arm length along X
//  3. rotate by alpha about Z
//  4. translate by the robot's mounting position
func ForwardKinematics(t ArmTemplate, alphaDeg, betaDeg float64, pos r3.Vector) Pose {
	alphaRad := alphaDeg * math.Pi / 180
	betaRad := betaDeg * math.Pi / 180

	betaRot := mgl64.Rotate3DZ(betaRad)
	alphaRot := mgl64.Rotate3DZ(alphaRad)
	alphaTrans := mgl64.Vec3{t.AlphaArmLen, 0, 0}
	transXY := toVec3(pos)

	transform := func(vBeta r3.Vector) r3.Vector {
		v := betaRot.Mul3x1(toVec3(vBeta))
		v = v.Add(alphaTrans)
		v = alphaRot.Mul3x1(v)
		v = v.Add(transXY)
		return fromVec3(v)
	}

	polyline := make([]r3.Vector, len(t.BetaVertices))
	for i, v := range t.BetaVertices {
		polyline[i] = transform(v)
	}

	return Pose{
		Polyline: polyline,
		Fiber:    transform(t.FiberNeutral),
	}
}
