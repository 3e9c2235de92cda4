package grid

import (
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/csayres/kaijugo/kinematics"
)

// IsValidAssignment checks the four conditions of spec.md section 4.4: the
// fiber type is compatible with the robot's HasApogee flag, inverse
// kinematics succeeds, the resulting (alpha,beta) are in-range, and posing
// the robot there does not collide with any fiducial neighbor. The robot's
// pose is restored to whatever it was before the check.
func (g *RobotGrid) IsValidAssignment(robotID, targetID int) bool {
	r, ok := g.robots[robotID]
	if !ok {
		return false
	}
	t, ok := g.targets[targetID]
	if !ok {
		return false
	}

	if t.Fiber == Apogee && !r.HasApogee {
		return false
	}

	alpha, beta, err := kinematics.AlphaBetaFromXY(r.arm, t.X-r.XPos, t.Y-r.YPos)
	if err != nil {
		return false
	}
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return false
	}
	if alpha < 0 || alpha >= 360 || beta < 0 || beta > 180 {
		return false
	}

	prevAlpha, prevBeta := r.Alpha, r.Beta
	r.SetAlphaBeta(alpha, beta)
	collided := len(g.FiducialColliders(robotID)) > 0
	r.SetAlphaBeta(prevAlpha, prevBeta)

	return !collided
}

// AddTarget inserts a target and cross-links it against every robot that
// passes IsValidAssignment. Fails if InitGrid has not yet been called, or
// if id is already in use. Per-robot IsValidAssignment failures are not
// fatal to AddTarget itself (a target with few or no valid robots is a
// normal outcome, surfaced separately via UnreachableTargets), but they
// are collected with multierr.Append and logged once as a diagnostic, so
// a caller debugging a target with a suspiciously small validRobotIDs set
// can see why each rejected robot was rejected.
func (g *RobotGrid) AddTarget(id int, x, y float64, fiber FiberType, priority float64) error {
	if !g.initialized {
		return ErrNotInitialized
	}
	if _, exists := g.targets[id]; exists {
		return ErrDuplicateTargetID
	}

	t := newTarget(id, x, y, fiber, priority)
	g.targets[id] = t

	var rejections error
	for _, robotID := range g.robotIDs {
		if g.IsValidAssignment(robotID, id) {
			t.validRobotIDs = append(t.validRobotIDs, robotID)
		} else {
			rejections = multierr.Append(rejections, fmt.Errorf("robot %d: %w", robotID, ErrInvalidAssignment))
		}
	}
	if rejections != nil {
		g.logger.Debugw("add_target: some robots failed is_valid_assignment",
			"target_id", id, "n_valid", len(t.validRobotIDs), "n_rejected", len(g.robotIDs)-len(t.validRobotIDs),
			"rejections", rejections.Error())
	}
	return nil
}

// AssignRobotToTarget pre-clears the robot's and target's existing
// bindings, binds both sides, and poses the robot at the target. Returns
// ErrInvalidAssignment if the pair fails IsValidAssignment.
func (g *RobotGrid) AssignRobotToTarget(robotID, targetID int) error {
	r, ok := g.robots[robotID]
	if !ok {
		return ErrRobotNotFound
	}
	t, ok := g.targets[targetID]
	if !ok {
		return ErrTargetNotFound
	}
	if !g.IsValidAssignment(robotID, targetID) {
		return ErrInvalidAssignment
	}

	g.UnassignRobot(robotID)
	g.UnassignTarget(targetID)

	alpha, beta, err := kinematics.AlphaBetaFromXY(r.arm, t.X-r.XPos, t.Y-r.YPos)
	if err != nil {
		return ErrInvalidAssignment
	}

	r.assignTarget(targetID, alpha, beta)
	r.SetAlphaBeta(alpha, beta)
	t.assignedRobotID = robotID
	t.hasAssignedRobot = true
	return nil
}

// UnassignRobot clears robotID's assignment, and the reciprocal binding on
// whatever target it was assigned to, if any.
func (g *RobotGrid) UnassignRobot(robotID int) {
	r, ok := g.robots[robotID]
	if !ok || !r.IsAssigned {
		return
	}
	if t, ok := g.targets[r.AssignedTargetID]; ok && t.hasAssignedRobot && t.assignedRobotID == robotID {
		t.hasAssignedRobot = false
		t.assignedRobotID = 0
	}
	r.clearAssignment()
}

// UnassignTarget clears targetID's assignment, and the reciprocal binding
// on whatever robot it was assigned to, if any.
func (g *RobotGrid) UnassignTarget(targetID int) {
	t, ok := g.targets[targetID]
	if !ok || !t.hasAssignedRobot {
		return
	}
	if r, ok := g.robots[t.assignedRobotID]; ok && r.IsAssigned && r.AssignedTargetID == targetID {
		r.clearAssignment()
	}
	t.hasAssignedRobot = false
	t.assignedRobotID = 0
}

const (
	decollideOuterCap   = 1000
	decollideResampleCap = 1000
)

// DecollideGrid repeatedly scans all robots while any is collided (capped
// at 1000 outer iterations); each collided robot is unassigned and
// resampled via SetXYUniform up to 1000 times until it is no longer
// collided. Returns ErrDecollideFailed (aggregating the ids that remained
// collided) if the outer cap is hit with residual collisions.
func (g *RobotGrid) DecollideGrid() error {
	if !g.initialized {
		return ErrNotInitialized
	}

	for outer := 0; outer < decollideOuterCap; outer++ {
		anyCollided := false
		for _, id := range g.robotIDs {
			if !g.IsCollided(id) {
				continue
			}
			anyCollided = true
			g.UnassignRobot(id)
			r := g.robots[id]
			for attempt := 0; attempt < decollideResampleCap; attempt++ {
				r.SetXYUniform(g.rng)
				if !g.IsCollided(id) {
					break
				}
			}
		}
		if !anyCollided {
			g.logger.Debugw("decollide_grid converged", "outer_iterations", outer+1)
			return nil
		}
	}

	var err error
	for _, id := range g.robotIDs {
		if g.IsCollided(id) {
			err = multierr.Append(err, fmt.Errorf("robot %d: %w", id, ErrDecollideFailed))
		}
	}
	if err == nil {
		return nil
	}
	return err
}

// DeadlockedRobots returns the ids of robots whose (alpha,beta) is not at
// (TargetAlpha, TargetBeta) after a plan run.
func (g *RobotGrid) DeadlockedRobots() []int {
	var out []int
	for _, id := range g.robotIDs {
		r := g.robots[id]
		if r.HasTargetAlphaBeta && !r.AtTarget() {
			out = append(out, id)
		}
	}
	return out
}

// UnreachableTargets returns the ids of targets with no valid robot.
func (g *RobotGrid) UnreachableTargets() []int {
	var out []int
	for id, t := range g.targets {
		if len(t.validRobotIDs) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// TargetlessRobots returns the ids of robots with no assignment.
func (g *RobotGrid) TargetlessRobots() []int {
	var out []int
	for _, id := range g.robotIDs {
		if !g.robots[id].IsAssigned {
			out = append(out, id)
		}
	}
	return out
}

// UnassignedRobots is an alias of TargetlessRobots, matching the original
// RobotGrid's separate unassignedRobots/targetlessRobots accessors (the two
// differ only in original_source when swap-based reassignment is in play;
// this implementation does not support swaps, so they coincide).
func (g *RobotGrid) UnassignedRobots() []int {
	return g.TargetlessRobots()
}

// AssignedTargets returns the ids of targets currently bound to a robot.
func (g *RobotGrid) AssignedTargets() []int {
	var out []int
	for id, t := range g.targets {
		if t.hasAssignedRobot {
			out = append(out, id)
		}
	}
	return out
}
