package grid

import "context"

// candidateDeltas is the full 3x3 neighborhood of (dAlpha, dBeta) moves
// (including the no-move option) used by both the greedy and MDP planners,
// in units of ang_step.
var candidateDeltas = [9][2]float64{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// candidate is one pose a planner considered this tick for one robot.
type candidate struct {
	alpha, beta  float64
	localEnergy  float64
	closestNeighbor float64
	score        int
}

// clampTowardTarget returns cur+delta, except that a move toward target that
// would step past it lands exactly on target; moves away from target are
// left as they are. The result is then clamped to [lo, hi].
func clampTowardTarget(cur, delta, target, lo, hi float64) float64 {
	next := cur + delta
	if delta > 0 && next > target && cur < target {
		next = target
	} else if delta < 0 && next < target && cur > target {
		next = target
	}
	return clamp(next, lo, hi)
}

// greedyCandidates enumerates the 9 candidate poses for r this tick,
// clamped so as to never overshoot the robot's target, and returns only
// those that leave the robot uncollided. The robot's pose is restored to
// its pre-candidate value before returning.
func (g *RobotGrid) greedyCandidates(r *Robot) []candidate {
	prevAlpha, prevBeta := r.Alpha, r.Beta
	var out []candidate
	for _, d := range candidateDeltas {
		newAlpha := clampTowardTarget(r.Alpha, d[0]*g.angStep, r.TargetAlpha, 0, 360)
		newBeta := clampTowardTarget(r.Beta, d[1]*g.angStep, r.TargetBeta, 0, 360)

		r.SetAlphaBeta(newAlpha, newBeta)
		if g.IsCollided(r.ID) {
			continue
		}
		out = append(out, candidate{
			alpha: newAlpha,
			beta:  newBeta,
			score: scoreFor(r, newAlpha, newBeta, g.angStep),
		})
	}
	r.SetAlphaBeta(prevAlpha, prevBeta)
	return out
}

func scoreFor(r *Robot, alpha, beta, angStep float64) int {
	if !r.HasTargetAlphaBeta || angStep <= 0 {
		return 0
	}
	da := absF(r.TargetAlpha - alpha)
	db := absF(r.TargetBeta - beta)
	m := da
	if db > m {
		m = db
	}
	n := int(m / angStep)
	if float64(n)*angStep < m {
		n++
	}
	return n
}

// stepGreedy advances one robot one tick under the greedy policy: pick,
// among the 9 candidate moves that don't collide, the one with the lowest
// resulting score, breaking ties with a fair coin in visitation order.
func (g *RobotGrid) stepGreedy(r *Robot) {
	if r.Score() == 0 {
		return
	}

	candidates := g.greedyCandidates(r)
	if len(candidates) == 0 {
		return
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.score < best.score:
			best = c
		case c.score == best.score && g.rng.Float64() >= 0.5:
			best = c
		}
	}
	r.SetAlphaBeta(best.alpha, best.beta)
}

// PathGenGreedy runs the greedy planner: every robot steps toward its
// assigned (TargetAlpha, TargetBeta), minimizing Score() each tick. It
// succeeds when every robot reaches its target, and fails if MaxPathSteps
// is hit first.
func (g *RobotGrid) PathGenGreedy() error {
	if !g.initialized {
		return ErrNotInitialized
	}
	g.ClearPaths()

	g.didFail = true
	for step := 0; step < g.maxPathSteps; step++ {
		allOnTarget := true
		for _, id := range g.robotIDs {
			r := g.robots[id]
			g.stepGreedy(r)
			r.recordStep(step)
			if !r.AtTarget() {
				allOnTarget = false
			}
		}
		g.nSteps = step + 1
		if allOnTarget {
			g.didFail = false
			g.logger.CDebugf(context.Background(), "path_gen_greedy converged after %d steps", g.nSteps)
			return nil
		}
	}
	g.logger.Warnf("path_gen_greedy failed to converge within %d steps", g.maxPathSteps)
	return ErrPlanFailed
}
