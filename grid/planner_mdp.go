package grid

import (
	"context"
	"math"

	"github.com/csayres/kaijugo/geom"
)

// mdpSpreadProbability is the chance, each time a robot's move is chosen,
// that the objective is "spread out" (minimize local_energy) rather than
// "approach target" (minimize score), per spec.md section 4.5.3 step 4.
const mdpSpreadProbability = 0.2

// mdpImproveProbability/mdpTieProbability gate how eagerly the MDP planner
// accepts a strictly-better/tied candidate while scanning the shuffled
// candidate list (spec.md section 4.5.3 step 5); both less than 1 so the
// policy doesn't collapse to deterministic greedy descent.
const (
	mdpImproveProbability = 0.8
	mdpTieProbability     = 0.5
)

// encroachmentD is the distance, in units of collision buffer, within
// which a higher-score (farther from its own target) neighbor contributes
// to a robot's encroachment score; used only for the MDP early-exit test.
const encroachmentD = 2.4

// robotDistance returns the distance between the collision chords of r and
// its neighbor n, at their current poses.
func robotDistance(r, n *Robot) float64 {
	p0, p1 := r.CollisionSegment()
	q0, q1 := n.CollisionSegment()
	return math.Sqrt(geom.SegmentSegmentDist2(p0, p1, q0, q1))
}

// encroachmentScore sums 1/d over robot neighbors that have a strictly
// higher score than r (i.e. are farther from their own target) and are
// within distance D, per spec.md section 4.5.3's definition of
// encroachment_score(r, D).
func (g *RobotGrid) encroachmentScore(r *Robot, d float64) float64 {
	sum := 0.0
	rScore := r.Score()
	for _, nid := range r.robotNeighbors {
		n := g.robots[nid]
		if n.Score() <= rScore {
			continue
		}
		dist := robotDistance(r, n)
		if dist < d {
			sum += 1 / dist
		}
	}
	return sum
}

// mdpCandidates enumerates the 9 candidate poses for r (identical
// clamp-toward-target enumeration as greedyCandidates), computing each
// accepted candidate's local_energy = sum 1/d^2 over robot neighbors and
// closest_neighbor = min d over robot neighbors. A candidate is rejected if
// closest_neighbor < 2*collision_buffer (the same threshold RobotColliders
// uses) or if it collides with a fiducial neighbor.
func (g *RobotGrid) mdpCandidates(r *Robot) []candidate {
	prevAlpha, prevBeta := r.Alpha, r.Beta
	var out []candidate
	for _, d := range candidateDeltas {
		newAlpha := clampTowardTarget(r.Alpha, d[0]*g.angStep, r.TargetAlpha, 0, 360)
		newBeta := clampTowardTarget(r.Beta, d[1]*g.angStep, r.TargetBeta, 0, 360)

		r.SetAlphaBeta(newAlpha, newBeta)

		if len(g.FiducialColliders(r.ID)) > 0 {
			continue
		}

		localEnergy := 0.0
		closest := math.Inf(1)
		for _, nid := range r.robotNeighbors {
			n := g.robots[nid]
			dist := robotDistance(r, n)
			if dist < closest {
				closest = dist
			}
			d2 := dist * dist
			if d2 > 0 {
				localEnergy += 1 / d2
			}
		}
		if closest < 2*r.collisionBuffer {
			continue
		}

		out = append(out, candidate{
			alpha:           newAlpha,
			beta:            newBeta,
			localEnergy:     localEnergy,
			closestNeighbor: closest,
			score:           scoreFor(r, newAlpha, newBeta, g.angStep),
		})
	}
	r.SetAlphaBeta(prevAlpha, prevBeta)
	return out
}

// stepMDP advances one robot one tick under the MDP policy.
func (g *RobotGrid) stepMDP(r *Robot) {
	if r.AtTarget() && g.encroachmentScore(r, encroachmentD*r.collisionBuffer) == 0 {
		return
	}

	candidates := g.mdpCandidates(r)
	if len(candidates) == 0 {
		return
	}
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	spread := g.rng.Float64() < mdpSpreadProbability
	objective := func(c candidate) float64 {
		if spread {
			return c.localEnergy
		}
		return float64(c.score)
	}

	best := candidates[0]
	bestObj := objective(best)
	for _, c := range candidates[1:] {
		obj := objective(c)
		switch {
		case obj < bestObj && g.rng.Float64() < mdpImproveProbability:
			best, bestObj = c, obj
		case obj == bestObj && g.rng.Float64() < mdpTieProbability:
			best, bestObj = c, obj
		}
	}
	r.SetAlphaBeta(best.alpha, best.beta)
}

// PathGenMDP runs the MDP planner: a fresh uniform shuffle of visitation
// order each tick, with per-robot moves chosen by a stochastic mix of
// "approach target" and "spread out" objectives. greed and phobia are
// accepted for interface compatibility with the original RobotGrid::
// pathGenMDP signature but are not yet load-bearing knobs in this
// implementation; the 0.2/0.8/0.5 probabilities above are the ones
// spec.md section 4.5.3 actually pins down.
func (g *RobotGrid) PathGenMDP(greed, phobia float64) error {
	if !g.initialized {
		return ErrNotInitialized
	}
	g.ClearPaths()
	_ = greed
	_ = phobia

	visitOrder := make([]int, len(g.robotIDs))
	copy(visitOrder, g.robotIDs)

	g.didFail = true
	for step := 0; step < g.maxPathSteps; step++ {
		g.rng.Shuffle(len(visitOrder), func(i, j int) {
			visitOrder[i], visitOrder[j] = visitOrder[j], visitOrder[i]
		})

		allOnTarget := true
		for _, id := range visitOrder {
			r := g.robots[id]
			g.stepMDP(r)
			r.recordStep(step)
			if !r.AtTarget() {
				allOnTarget = false
			}
		}
		g.nSteps = step + 1
		if allOnTarget {
			g.didFail = false
			g.logger.CDebugf(context.Background(), "path_gen_mdp converged after %d steps", g.nSteps)
			return nil
		}
	}
	g.logger.Warnf("path_gen_mdp failed to converge within %d steps", g.maxPathSteps)
	return ErrPlanFailed
}
