package grid

import (
	"github.com/golang/geo/r3"

	"github.com/csayres/kaijugo/geom"
	"github.com/csayres/kaijugo/kinematics"
)

// settledFraction sets the "on target" predicate threshold as a fraction of
// ang_step. Design Note: "the source conflates 'on target' with score()==0;
// round-off in the angular arithmetic can defeat exact equality. Use
// |delta| < 0.5*ang_step as the settled-at-target predicate."
const settledFraction = 0.5

// Robot is one two-link fiber positioner: its fixed layout, its arm
// geometry, and its mutable pose, path, and assignment state.
type Robot struct {
	ID        int
	XPos      float64
	YPos      float64
	HasApogee bool

	arm             kinematics.ArmTemplate
	collisionBuffer float64
	angStep         float64

	// Mutable pose.
	Alpha, Beta float64
	pose        kinematics.Pose

	// Target state.
	TargetAlpha, TargetBeta float64
	HasTargetAlphaBeta      bool
	IsAssigned              bool
	AssignedTargetID        int

	LastStepNum int
	OnTargetVec bool

	// Dense per-tick path, one (step, angle) sample per tick actually taken.
	AlphaPath []geom.Sample
	BetaPath  []geom.Sample

	// RDP-simplified sparse path (set by simplify_path).
	SimplifiedAlphaPath []geom.Sample
	SimplifiedBetaPath  []geom.Sample

	// Sparse path resampled back onto the original per-tick grid.
	InterpSimplifiedAlphaPath []geom.Sample
	InterpSimplifiedBetaPath  []geom.Sample

	// Rolling-average smoothed path, derived from the interpolated path.
	SmoothedAlphaPath []geom.Sample
	SmoothedBetaPath  []geom.Sample

	// XY traces of the alpha-arm tip and beta-arm far end at each step, for
	// rendering; and their interpolated (smoothed-path) counterparts.
	RoughAlphaX, RoughAlphaY []float64
	RoughBetaX, RoughBetaY   []float64
	InterpAlphaX, InterpAlphaY []float64
	InterpBetaX, InterpBetaY   []float64

	robotNeighbors    []int
	fiducialNeighbors []int
}

func newRobot(id int, x, y float64, hasApogee bool, arm kinematics.ArmTemplate, collisionBuffer, angStep float64) *Robot {
	r := &Robot{
		ID:              id,
		XPos:            x,
		YPos:            y,
		HasApogee:       hasApogee,
		arm:             arm,
		collisionBuffer: collisionBuffer,
		angStep:         angStep,
	}
	r.SetAlphaBeta(0, 0)
	return r
}

// SetAlphaBeta updates the robot's pose and the derived collision polyline
// and fiber position. It performs no validation beyond what the caller
// enforces, per spec.md section 4.3.
func (r *Robot) SetAlphaBeta(alpha, beta float64) {
	r.Alpha = alpha
	r.Beta = beta
	r.pose = kinematics.ForwardKinematics(r.arm, alpha, beta, r3.Vector{X: r.XPos, Y: r.YPos})
}

// FiberXYZ returns the current fiber tip position.
func (r *Robot) FiberXYZ() r3.Vector {
	return r.pose.Fiber
}

// CollisionSegment returns the alpha-tip/beta-far-end chord used for all
// collision tests.
func (r *Robot) CollisionSegment() (r3.Vector, r3.Vector) {
	return r.pose.CollisionSegment()
}

// SetFiberXY performs the inverse-kinematics + SetAlphaBeta sequence,
// failing if (x,y) is unreachable.
func (r *Robot) SetFiberXY(x, y float64) error {
	alpha, beta, err := kinematics.AlphaBetaFromXY(r.arm, x-r.XPos, y-r.YPos)
	if err != nil {
		return err
	}
	r.SetAlphaBeta(alpha, beta)
	return nil
}

// SetXYUniform samples a reachable (x,y) uniformly over the robot's
// annulus and poses the robot there.
func (r *Robot) SetXYUniform(rng *geom.RNG) {
	x, y := geom.SampleAnnulus(r.arm.MinReach(), r.arm.MaxReach(), rng)
	alpha, beta, err := kinematics.AlphaBetaFromXY(r.arm, x, y)
	if err != nil {
		// SampleAnnulus is constructed to always land within reach; a
		// failure here indicates a programming error in the sampler, not
		// a condition callers should need to handle.
		panic("grid: SetXYUniform sampled an unreachable point: " + err.Error())
	}
	r.SetAlphaBeta(alpha, beta)
}

func (r *Robot) addRobotNeighbor(id int) {
	r.robotNeighbors = append(r.robotNeighbors, id)
}

func (r *Robot) addFiducialNeighbor(id int) {
	r.fiducialNeighbors = append(r.fiducialNeighbors, id)
}

// RobotNeighbors returns the ids of other robots whose workspaces may
// intersect this one's.
func (r *Robot) RobotNeighbors() []int {
	out := make([]int, len(r.robotNeighbors))
	copy(out, r.robotNeighbors)
	return out
}

// FiducialNeighbors returns the ids of fiducials within collision range.
func (r *Robot) FiducialNeighbors() []int {
	out := make([]int, len(r.fiducialNeighbors))
	copy(out, r.fiducialNeighbors)
	return out
}

// Score is the minimal number of ang_step ticks needed to reach
// (TargetAlpha, TargetBeta) under axis-aligned moves: max(|da|,|db|)/ang_step,
// rounded up to an integer tick count, so it is 0 only when the robot is
// exactly at its target.
func (r *Robot) Score() int {
	if !r.HasTargetAlphaBeta {
		return 0
	}
	da := absF(r.TargetAlpha - r.Alpha)
	db := absF(r.TargetBeta - r.Beta)
	m := da
	if db > m {
		m = db
	}
	if r.angStep <= 0 {
		return 0
	}
	n := int(m / r.angStep)
	if float64(n)*r.angStep < m {
		n++
	}
	return n
}

// AtTarget reports whether the robot is settled at its target pose, using
// |delta| < 0.5*ang_step rather than exact equality (Design Note, open
// question on round-off).
func (r *Robot) AtTarget() bool {
	if !r.HasTargetAlphaBeta {
		return true
	}
	threshold := settledFraction * r.angStep
	return absF(r.TargetAlpha-r.Alpha) < threshold && absF(r.TargetBeta-r.Beta) < threshold
}

func (r *Robot) assignTarget(targetID int, alpha, beta float64) {
	r.IsAssigned = true
	r.AssignedTargetID = targetID
	r.TargetAlpha = alpha
	r.TargetBeta = beta
	r.HasTargetAlphaBeta = true
}

func (r *Robot) clearAssignment() {
	r.IsAssigned = false
	r.AssignedTargetID = 0
	r.HasTargetAlphaBeta = false
}

// ClearPaths resets every path buffer without resetting pose, so the grid
// can be re-planned from the robot's current pose. Supplemental feature
// grounded in original_source's RobotGrid::clearPaths.
func (r *Robot) ClearPaths() {
	r.AlphaPath = nil
	r.BetaPath = nil
	r.SimplifiedAlphaPath = nil
	r.SimplifiedBetaPath = nil
	r.InterpSimplifiedAlphaPath = nil
	r.InterpSimplifiedBetaPath = nil
	r.SmoothedAlphaPath = nil
	r.SmoothedBetaPath = nil
	r.RoughAlphaX, r.RoughAlphaY = nil, nil
	r.RoughBetaX, r.RoughBetaY = nil, nil
	r.InterpAlphaX, r.InterpAlphaY = nil, nil
	r.InterpBetaX, r.InterpBetaY = nil, nil
	r.LastStepNum = 0
}

// recordStep appends the current pose to the dense path and the current
// alpha-tip/beta-end XY to the rough traces. Called by the planner after
// every tick, including no-op ticks.
func (r *Robot) recordStep(stepNum int) {
	r.AlphaPath = append(r.AlphaPath, geom.Sample{X: float64(stepNum), Y: r.Alpha})
	r.BetaPath = append(r.BetaPath, geom.Sample{X: float64(stepNum), Y: r.Beta})

	alphaTip, betaEnd := r.CollisionSegment()
	r.RoughAlphaX = append(r.RoughAlphaX, alphaTip.X)
	r.RoughAlphaY = append(r.RoughAlphaY, alphaTip.Y)
	r.RoughBetaX = append(r.RoughBetaX, betaEnd.X)
	r.RoughBetaY = append(r.RoughBetaY, betaEnd.Y)

	r.LastStepNum = stepNum
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
