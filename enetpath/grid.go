// Package enetpath implements the regularization-path engine (C2): it
// sweeps a descending grid of alpha values, warm-starting the
// coefficients from the previous alpha and dispatching each step to
// the matching kernel.Mode. The alpha-grid builder (C3) lives here too,
// beside the path engine whose alpha sequences it produces.
package enetpath

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/joker0x5F5F/enet/enetErr"
)

// Grid computes the descending geometric alpha sequence of spec.md
// §4.3: alpha_max from the data, down to eps*alpha_max, n_alphas
// points. Xy is X^T y (nFeatures x nTasks, mono-task has nTasks=1).
func Grid(xy [][]float64, nSamples int, l1Ratio, eps float64, nAlphas int) ([]float64, error) {
	if nAlphas < 1 {
		return nil, enetErr.New(enetErr.InvalidParameter, "nAlphas must be >= 1, got %d", nAlphas)
	}
	if l1Ratio < 0 || l1Ratio > 1 {
		return nil, enetErr.New(enetErr.InvalidParameter, "l1Ratio must be in [0,1], got %v", l1Ratio)
	}
	if eps <= 0 || eps >= 1 {
		return nil, enetErr.New(enetErr.InvalidParameter, "eps must be in (0,1), got %v", eps)
	}

	floor := l1Ratio
	if floor < 1e-3 {
		floor = 1e-3
	}

	alphaMax := 0.0
	for _, row := range xy {
		n := floats.Norm(row, 2)
		if n > alphaMax {
			alphaMax = n
		}
	}
	alphaMax /= float64(nSamples) * floor

	if nAlphas == 1 {
		return []float64{alphaMax}, nil
	}

	alphaMin := eps * alphaMax
	return geomspace(alphaMax, alphaMin, nAlphas), nil
}

// geomspace returns nPoints values geometrically spaced from start down
// to stop (inclusive), descending. No such helper exists anywhere in
// the retrieved pack, so it is hand-written here; every value it
// touches (Log/Exp) is a single scalar math/stdlib call, not a vector
// operation gonum would offer a faster path for.
func geomspace(start, stop float64, nPoints int) []float64 {
	out := make([]float64, nPoints)
	if start <= 0 {
		for i := range out {
			out[i] = 0
		}
		return out
	}
	logStart := math.Log(start)
	logStop := math.Log(stop)
	step := (logStop - logStart) / float64(nPoints-1)
	for i := 0; i < nPoints; i++ {
		out[i] = math.Exp(logStart + step*float64(i))
	}
	out[0] = start
	out[nPoints-1] = stop
	return out
}
