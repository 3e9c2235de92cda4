package grid

import (
	"github.com/csayres/kaijugo/kinematics"
)

// SimplifyPaths runs Ramer-Douglas-Peucker simplification (tolerance
// g.epsilon, in degrees, set at NewRobotGrid construction) over every
// robot's dense per-tick path, then resamples the simplified path back
// onto the original tick grid. Must follow a successful PathGen* call;
// fails if no path has been recorded.
func (g *RobotGrid) SimplifyPaths() error {
	if !g.initialized {
		return ErrNotInitialized
	}
	if g.nSteps == 0 {
		return ErrNoPath
	}
	for _, id := range g.robotIDs {
		g.robots[id].simplifyPath(g.epsilon)
	}
	g.logger.Debugw("paths simplified", "epsilon", g.epsilon)
	return nil
}

// SmoothPaths applies a rolling-average smoothing window (points samples
// wide) over every robot's interpolated-simplified path, producing the
// final SmoothedAlphaPath/SmoothedBetaPath used for hardware motion.
// SimplifyPaths must be called first.
func (g *RobotGrid) SmoothPaths(points int) error {
	if !g.initialized {
		return ErrNotInitialized
	}
	if g.nSteps == 0 {
		return ErrNoPath
	}
	for _, id := range g.robotIDs {
		r := g.robots[id]
		if r.InterpSimplifiedAlphaPath == nil {
			return ErrNoSimplifiedPath
		}
		r.smoothVelocity(points)
	}
	g.logger.Debugw("paths smoothed", "window", points)
	return nil
}

// VerifySmoothed replays every robot's smoothed path tick-by-tick,
// re-running the full collision test at each sampled tick, and accumulates
// the count of (tick, robot) pairs found in collision into SmoothCollisions.
// Unlike the original per-tick planning loop, this does not attempt
// recovery: it is a post-hoc check that the lossy simplify/smooth pipeline
// did not introduce a collision the original dense path avoided.
func (g *RobotGrid) VerifySmoothed() error {
	if !g.initialized {
		return ErrNotInitialized
	}

	nTicks := 0
	for _, id := range g.robotIDs {
		if n := len(g.robots[id].SmoothedAlphaPath); n > nTicks {
			nTicks = n
		}
	}
	if nTicks == 0 {
		return ErrNoSmoothedPath
	}

	origPoses := make(map[int]kinematics.Pose, len(g.robotIDs))
	origAlpha := make(map[int]float64, len(g.robotIDs))
	origBeta := make(map[int]float64, len(g.robotIDs))
	for _, id := range g.robotIDs {
		r := g.robots[id]
		origPoses[id] = r.pose
		origAlpha[id] = r.Alpha
		origBeta[id] = r.Beta
	}

	g.smoothCollisions = 0
	for tick := 0; tick < nTicks; tick++ {
		for _, id := range g.robotIDs {
			r := g.robots[id]
			i := tick
			if i >= len(r.SmoothedAlphaPath) {
				i = len(r.SmoothedAlphaPath) - 1
			}
			r.SetAlphaBeta(r.SmoothedAlphaPath[i].Y, r.SmoothedBetaPath[i].Y)
		}
		for _, id := range g.robotIDs {
			if g.IsCollided(id) {
				g.smoothCollisions++
			}
		}
	}

	for _, id := range g.robotIDs {
		r := g.robots[id]
		r.Alpha, r.Beta = origAlpha[id], origBeta[id]
		r.pose = origPoses[id]
	}

	if g.smoothCollisions > 0 {
		g.logger.Warnf("verify_smoothed found %d colliding (tick, robot) samples", g.smoothCollisions)
	}
	return nil
}
