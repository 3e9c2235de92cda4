package grid

import "gonum.org/v1/gonum/stat"

// PlanStatistics summarizes the outcome of the most recent path_gen* call:
// distribution of per-robot step counts actually taken (from each robot's
// recorded path length, which can differ from g.NSteps for a robot that
// converged early and stopped being stepped... this implementation steps
// every robot every tick regardless, so they are currently equal, but the
// field is kept per-robot to survive an early-exit optimization later) and
// of smooth_collisions across repeated VerifySmoothed runs is not tracked
// here (that is a single scalar, see SmoothCollisions).
type PlanStatistics struct {
	NRobots      int
	MeanSteps    float64
	StdDevSteps  float64
	MaxSteps     int
	SmoothCollisions int
}

// PlanStatistics computes summary statistics over the most recent
// path_gen* run using gonum/stat, grounded in the teacher's reliance on
// gonum for numerical summaries elsewhere in its stack.
func (g *RobotGrid) PlanStatistics() PlanStatistics {
	steps := make([]float64, 0, len(g.robotIDs))
	maxSteps := 0
	for _, id := range g.robotIDs {
		n := len(g.robots[id].AlphaPath)
		steps = append(steps, float64(n))
		if n > maxSteps {
			maxSteps = n
		}
	}

	out := PlanStatistics{
		NRobots:          len(g.robotIDs),
		MaxSteps:         maxSteps,
		SmoothCollisions: g.smoothCollisions,
	}
	if len(steps) == 0 {
		return out
	}
	mean := stat.Mean(steps, nil)
	out.MeanSteps = mean
	out.StdDevSteps = stat.StdDev(steps, nil)
	return out
}
