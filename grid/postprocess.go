package grid

import (
	"github.com/golang/geo/r3"

	"github.com/csayres/kaijugo/geom"
	"github.com/csayres/kaijugo/kinematics"
)

// simplifyPath runs RDP on the dense alpha/beta path into the simplified
// sparse counterpart, then resamples the sparse path back onto the
// original per-tick grid into InterpSimplified*. Endpoints are preserved by
// both RDP and Resample (Resample always includes the tick-grid endpoints,
// and RDP never drops path[0]/path[len-1]).
func (r *Robot) simplifyPath(epsilon float64) {
	r.SimplifiedAlphaPath = geom.RDP(r.AlphaPath, epsilon)
	r.SimplifiedBetaPath = geom.RDP(r.BetaPath, epsilon)

	ticks := make([]float64, len(r.AlphaPath))
	for i, s := range r.AlphaPath {
		ticks[i] = s.X
	}
	r.InterpSimplifiedAlphaPath = geom.Resample(r.SimplifiedAlphaPath, ticks)
	r.InterpSimplifiedBetaPath = geom.Resample(r.SimplifiedBetaPath, ticks)
}

// smoothVelocity applies a rolling-average smoothing window of size points
// over InterpSimplified{Alpha,Beta}Path, producing Smoothed{Alpha,Beta}Path.
// Endpoints of the window are handled by shrinking the window near the
// edges rather than padding, so the smoothed path has the same length as
// the input and still starts/ends at the original first/last samples'
// neighborhood.
func (r *Robot) smoothVelocity(points int) {
	r.SmoothedAlphaPath = rollingAverage(r.InterpSimplifiedAlphaPath, points)
	r.SmoothedBetaPath = rollingAverage(r.InterpSimplifiedBetaPath, points)
	r.computeInterpTraces()
}

// computeInterpTraces replays the smoothed path through forward kinematics
// to produce the interpolated XY traces of the alpha-arm tip and beta-arm
// far end, mirroring recordStep's rough traces but on the smoothed path.
func (r *Robot) computeInterpTraces() {
	n := len(r.SmoothedAlphaPath)
	r.InterpAlphaX = make([]float64, n)
	r.InterpAlphaY = make([]float64, n)
	r.InterpBetaX = make([]float64, n)
	r.InterpBetaY = make([]float64, n)
	pos := r3.Vector{X: r.XPos, Y: r.YPos}
	for i := 0; i < n; i++ {
		pose := kinematics.ForwardKinematics(r.arm, r.SmoothedAlphaPath[i].Y, r.SmoothedBetaPath[i].Y, pos)
		alphaTip, betaEnd := pose.CollisionSegment()
		r.InterpAlphaX[i], r.InterpAlphaY[i] = alphaTip.X, alphaTip.Y
		r.InterpBetaX[i], r.InterpBetaY[i] = betaEnd.X, betaEnd.Y
	}
}

func rollingAverage(path []geom.Sample, window int) []geom.Sample {
	if window < 1 {
		window = 1
	}
	out := make([]geom.Sample, len(path))
	half := window / 2
	for i := range path {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(path)-1 {
			hi = len(path) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += path[j].Y
		}
		out[i] = geom.Sample{X: path[i].X, Y: sum / float64(hi-lo+1)}
	}
	return out
}

// smoothedVelocities returns the per-step finite-difference velocity of the
// smoothed path (degrees per tick).
func smoothedVelocities(path []geom.Sample) []float64 {
	if len(path) < 2 {
		return make([]float64, len(path))
	}
	out := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		dx := path[i].X - path[i-1].X
		if dx == 0 {
			out[i] = 0
			continue
		}
		out[i] = (path[i].Y - path[i-1].Y) / dx
	}
	out[0] = out[1]
	return out
}
