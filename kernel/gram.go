package kernel

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/enetErr"
)

// Gram runs coordinate descent using only the precomputed second
// moments G = X^T X and Xy = X^T y — it never touches X or a sample
// residual. Per spec.md §4.1, rho_j = Xy_j - G_{j,.} W + G_{j,j} W_j,
// and the residual norm needed for the gap is reconstructed as
// ||r||^2 = ||y||^2 - 2 W^T Xy + W^T G W.
func Gram(g design.Gram, w []float64, opt Options) (Result, error) {
	p, _ := g.G.Dims()
	if len(w) != p {
		return Result{}, enetErr.New(enetErr.InvalidShape, "w has %d entries, G is %dx%d", len(w), p, p)
	}

	gjj := make([]float64, p)
	for j := 0; j < p; j++ {
		gjj[j] = g.G.At(j, j)
	}
	xy := mat.Col(nil, 0, g.Xy)

	yNormSq := g.YNormSq
	eps := epsThreshold(opt.Tol, yNormSq)

	var res Result
	res.EpsThreshold = eps

	// Gw caches G . W, updated incrementally by a rank-1-style delta
	// (Gw += delta * G[:,j]) instead of recomputed each coordinate.
	gw := make([]float64, p)
	for j := 0; j < p; j++ {
		if w[j] == 0 {
			continue
		}
		for i := 0; i < p; i++ {
			gw[i] += w[j] * g.G.At(i, j)
		}
	}

	nIter := 0
	for iter := 1; iter <= opt.MaxIter; iter++ {
		nIter = iter
		maxChange := 0.0
		for j := 0; j < p; j++ {
			norm := gjj[j]
			if norm <= 0 {
				if w[j] != 0 {
					for i := 0; i < p; i++ {
						gw[i] -= w[j] * g.G.At(i, j)
					}
					w[j] = 0
				}
				continue
			}
			wOld := w[j]
			rho := xy[j] - gw[j] + norm*wOld
			wNew := update(rho, opt.L1Reg, opt.Positive) / (norm + opt.L2Reg)
			delta := wNew - wOld
			if delta != 0 {
				for i := 0; i < p; i++ {
					gw[i] += delta * g.G.At(i, j)
				}
				w[j] = wNew
			}
			if d := abs(delta); d > maxChange {
				maxChange = d
			}
		}

		wDotXy := floats.Dot(w, xy)
		wDotGw := floats.Dot(w, gw)
		rNormSq := yNormSq - 2*wDotXy + wDotGw
		if rNormSq < 0 {
			rNormSq = 0 // rounding guard
		}
		rDotY := yNormSq - wDotXy

		xtA := make([]float64, p)
		for j := 0; j < p; j++ {
			xtA[j] = xy[j] - gw[j] - opt.L2Reg*w[j]
		}
		gap := dualGapMono(xtA, rNormSq, rDotY, w, opt.L1Reg, opt.L2Reg)
		res.Gap = gap

		if gap < eps {
			res.Converged = true
			break
		}
		if maxChange == 0 {
			res.Converged = false
			break
		}
	}
	res.NIter = nIter
	return res, nil
}
