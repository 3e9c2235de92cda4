// Package grid implements the core of the fiber-positioner motion planner:
// the Robot/Fiducial/Target entities, the collision-neighbor graph, the
// three path_gen* planning policies, and the path simplification/smoothing/
// verification pipeline. See SPEC_FULL.md for the full design.
package grid

import (
	"math"

	"github.com/google/uuid"

	"github.com/csayres/kaijugo/geom"
	"github.com/csayres/kaijugo/kinematics"
	"github.com/csayres/kaijugo/logging"
)

// Pitch is the center-to-center distance to the nearest neighboring
// positioner, a hardware constant of the focal-plane layout.
const Pitch = 22.4

// Option configures a RobotGrid at construction.
type Option func(*RobotGrid)

// WithLogger attaches a logger to the grid; by default a stdout logger
// named "grid" is used.
func WithLogger(logger logging.Logger) Option {
	return func(g *RobotGrid) { g.logger = logger }
}

// WithArmTemplate overrides the default hardware arm template (link
// lengths, beta-arm polyline/radii) applied to every robot added to this
// grid.
func WithArmTemplate(arm kinematics.ArmTemplate) Option {
	return func(g *RobotGrid) { g.arm = arm }
}

// RobotGrid owns all robots, fiducials, and targets for its lifetime and
// runs the planning loop. A single RobotGrid is not safe for concurrent
// mutation; see PlanConcurrently for the sanctioned way to plan several
// independent grids in parallel.
type RobotGrid struct {
	RunID uuid.UUID

	angStep         float64
	collisionBuffer float64
	epsilon         float64
	maxPathSteps    int

	arm    kinematics.ArmTemplate
	rng    *geom.RNG
	logger logging.Logger

	initialized bool

	robots    map[int]*Robot
	robotIDs  []int // insertion order, for deterministic tick visitation
	fiducials map[int]*Fiducial
	targets   map[int]*Target

	didFail         bool
	nSteps          int
	smoothCollisions int
}

// NewRobotGrid constructs an empty grid. angStep is degrees per tick
// (spec.md default 1), collisionBuffer is the default per-robot collision
// buffer half-width, epsilon is the default RDP simplification tolerance,
// and seed drives every randomized decision the grid or its planners make.
func NewRobotGrid(angStep, collisionBuffer, epsilon float64, seed int64, opts ...Option) *RobotGrid {
	g := &RobotGrid{
		RunID:           uuid.New(),
		angStep:         angStep,
		collisionBuffer: collisionBuffer,
		epsilon:         epsilon,
		maxPathSteps:    int(math.Ceil(1500.0 / angStep)),
		arm:             kinematics.DefaultArmTemplate(),
		rng:             geom.NewRNG(seed),
		robots:          map[int]*Robot{},
		fiducials:       map[int]*Fiducial{},
		targets:         map[int]*Target{},
		didFail:         true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logging.New("grid")
	}
	g.logger = g.logger.With("run_id", g.RunID.String())
	return g
}

// MaxPathSteps returns ceil(1500/ang_step), the hard step cap on every
// path_gen* entry point.
func (g *RobotGrid) MaxPathSteps() int { return g.maxPathSteps }

// DidFail reports whether the most recent path_gen* call failed to reach
// global convergence within MaxPathSteps.
func (g *RobotGrid) DidFail() bool { return g.didFail }

// NSteps returns the number of ticks the most recent path_gen* call ran.
func (g *RobotGrid) NSteps() int { return g.nSteps }

// SmoothCollisions returns the collision count accumulated by the most
// recent VerifySmoothed call.
func (g *RobotGrid) SmoothCollisions() int { return g.smoothCollisions }

// Initialized reports whether InitGrid has been called.
func (g *RobotGrid) Initialized() bool { return g.initialized }

// AddRobot inserts a robot at (x,y). Fails if InitGrid has already been
// called, or if id is already in use.
func (g *RobotGrid) AddRobot(id int, x, y float64, hasApogee bool) error {
	if g.initialized {
		return ErrAlreadyInitialized
	}
	if _, exists := g.robots[id]; exists {
		return ErrDuplicateRobotID
	}
	g.robots[id] = newRobot(id, x, y, hasApogee, g.arm, g.collisionBuffer, g.angStep)
	g.robotIDs = append(g.robotIDs, id)
	return nil
}

// AddFiducial inserts an immobile obstacle at (x,y). Fails if InitGrid has
// already been called, or if id is already in use.
func (g *RobotGrid) AddFiducial(id int, x, y, collisionBuffer float64) error {
	if g.initialized {
		return ErrAlreadyInitialized
	}
	if _, exists := g.fiducials[id]; exists {
		return ErrDuplicateFiducialID
	}
	g.fiducials[id] = newFiducial(id, x, y, collisionBuffer)
	return nil
}

// InitGrid freezes the topology: for each robot, every fiducial within
// pitch+1 becomes a fiducial neighbor and every other robot within
// 2*pitch+1 becomes a robot neighbor, then every robot is posed at
// (alpha=0, beta=0). InitGrid is idempotent: calling it again is a no-op.
func (g *RobotGrid) InitGrid() error {
	if g.initialized {
		return nil
	}

	const fiducialRange = Pitch + 1
	const robotRange = 2*Pitch + 1

	for _, id := range g.robotIDs {
		r := g.robots[id]
		r.SetAlphaBeta(0, 0)

		for fid, f := range g.fiducials {
			if math.Hypot(r.XPos-f.X, r.YPos-f.Y) < fiducialRange {
				r.addFiducialNeighbor(fid)
			}
		}
		for _, otherID := range g.robotIDs {
			if otherID == id {
				continue
			}
			other := g.robots[otherID]
			if math.Hypot(r.XPos-other.XPos, r.YPos-other.YPos) < robotRange {
				r.addRobotNeighbor(otherID)
			}
		}
	}

	g.initialized = true
	g.logger.Debugw("grid initialized", "n_robots", len(g.robots), "n_fiducials", len(g.fiducials))
	return nil
}

// Robot returns the robot with the given id, if any.
func (g *RobotGrid) Robot(id int) (*Robot, bool) {
	r, ok := g.robots[id]
	return r, ok
}

// RobotIDs returns every robot id in insertion order (the deterministic
// tick-visitation order used by the fold and greedy planners).
func (g *RobotGrid) RobotIDs() []int {
	out := make([]int, len(g.robotIDs))
	copy(out, g.robotIDs)
	return out
}

// SetCollisionBuffer rescales every robot's collision buffer. Supplemental
// feature grounded in original_source's RobotGrid::setCollisionBuffer,
// useful for sensitivity sweeps before re-running DecollideGrid/PathGen*.
func (g *RobotGrid) SetCollisionBuffer(buf float64) {
	g.collisionBuffer = buf
	for _, id := range g.robotIDs {
		g.robots[id].collisionBuffer = buf
	}
}

// ClearPaths resets every robot's path buffers without resetting pose, so
// the grid can be re-planned from its current state. Supplemental feature
// grounded in original_source's RobotGrid::clearPaths.
func (g *RobotGrid) ClearPaths() {
	for _, id := range g.robotIDs {
		g.robots[id].ClearPaths()
	}
	g.didFail = true
	g.nSteps = 0
	g.smoothCollisions = 0
}

func (g *RobotGrid) mutualCollisionBuffer(a, b *Robot) float64 {
	// Each robot carries its own collisionBuffer field (SetCollisionBuffer
	// sets the same value on every robot); the pairwise test uses the sum
	// the same way the fiducial test sums the robot's and fiducial's
	// buffers (spec.md section 4.4), which is 2*cb when buffers are shared.
	return a.collisionBuffer + b.collisionBuffer
}
