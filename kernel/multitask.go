package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/enetErr"
)

// MultiTask runs block coordinate descent on a multi-output problem:
// W is (nFeatures x nTasks) and the l1 penalty becomes a row-wise l2
// (group-lasso) shrinkage, per spec.md §4.1. opt.Positive is rejected
// here — "positive" has no meaning for a block threshold (spec.md
// §4.1, "multi-task … the positive flag is rejected here").
func MultiTask(X *mat.Dense, Y *mat.Dense, W *mat.Dense, opt Options) (Result, error) {
	if opt.Positive {
		return Result{}, enetErr.New(enetErr.InvalidParameter, "positive=true is unsupported for the multi-task kernel")
	}

	n, p := X.Dims()
	ny, nTasks := Y.Dims()
	if ny != n {
		return Result{}, enetErr.New(enetErr.InvalidShape, "Y has %d samples, X has %d", ny, n)
	}
	wp, wt := W.Dims()
	if wp != p || wt != nTasks {
		return Result{}, enetErr.New(enetErr.InvalidShape, "W is %dx%d, want %dx%d", wp, wt, p, nTasks)
	}

	cols := make([][]float64, p)
	norms := opt.ColNormsSq
	computeNorms := norms == nil
	if computeNorms {
		norms = make([]float64, p)
	}
	for j := 0; j < p; j++ {
		col := make([]float64, n)
		mat.Col(col, j, X)
		if err := checkFinite("X", col); err != nil {
			return Result{}, err
		}
		cols[j] = col
		if computeNorms {
			norms[j] = floats.Dot(col, col)
		}
	}

	// R = Y - X W, maintained as nTasks column slices for cheap
	// per-task AddScaled updates.
	r := make([][]float64, nTasks)
	for t := 0; t < nTasks; t++ {
		col := make([]float64, n)
		mat.Col(col, t, Y)
		r[t] = col
	}
	for j := 0; j < p; j++ {
		wRow := mat.Row(nil, j, W)
		for t := 0; t < nTasks; t++ {
			if wRow[t] != 0 {
				floats.AddScaled(r[t], -wRow[t], cols[j])
			}
		}
	}

	yNormSq := 0.0
	for t := 0; t < nTasks; t++ {
		yCol := mat.Col(nil, t, Y)
		yNormSq += floats.Dot(yCol, yCol)
	}
	eps := epsThreshold(opt.Tol, yNormSq)

	var res Result
	res.EpsThreshold = eps

	rho := make([]float64, nTasks)
	nIter := 0
	for iter := 1; iter <= opt.MaxIter; iter++ {
		nIter = iter
		maxChange := 0.0
		for j := 0; j < p; j++ {
			if norms[j] <= 0 {
				continue
			}
			wOld := mat.Row(nil, j, W)
			for t := 0; t < nTasks; t++ {
				rho[t] = floats.Dot(cols[j], r[t]) + norms[j]*wOld[t]
			}
			rowNorm := floats.Norm(rho, 2)
			shrink := 0.0
			if rowNorm > opt.L1Reg {
				shrink = 1 - opt.L1Reg/rowNorm
			}
			denom := norms[j] + opt.L2Reg
			changed := false
			for t := 0; t < nTasks; t++ {
				wNew := shrink * rho[t] / denom
				delta := wNew - wOld[t]
				if delta != 0 {
					floats.AddScaled(r[t], -delta, cols[j])
					changed = true
				}
				if d := math.Abs(delta); d > maxChange {
					maxChange = d
				}
				wOld[t] = wNew
			}
			if changed {
				W.SetRow(j, wOld)
			}
		}

		rNormSq, rDotY := 0.0, 0.0
		xtA := make([]float64, p) // row norms of X^T R - l2Reg*W
		for t := 0; t < nTasks; t++ {
			rNormSq += floats.Dot(r[t], r[t])
			yCol := mat.Col(nil, t, Y)
			rDotY += floats.Dot(r[t], yCol)
		}
		rowBuf := make([]float64, nTasks)
		for j := 0; j < p; j++ {
			wRow := mat.Row(nil, j, W)
			for t := 0; t < nTasks; t++ {
				rowBuf[t] = floats.Dot(cols[j], r[t]) - opt.L2Reg*wRow[t]
			}
			xtA[j] = floats.Norm(rowBuf, 2)
		}
		gap := dualGapMultiTask(xtA, rNormSq, rDotY, W, opt.L1Reg, opt.L2Reg)
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

// dualGapMultiTask mirrors dualGapMono with the l1 norm replaced by the
// row-wise l2,1 group-lasso penalty and the dual norm taken as the max
// row norm, per spec.md §4.1/§9.
func dualGapMultiTask(rowNorms []float64, rNormSq, rDotY float64, W *mat.Dense, l1Reg, l2Reg float64) float64 {
	dualNorm := maxAbs(rowNorms)
	var constv, aNormSq float64
	if dualNorm > l1Reg {
		constv = l1Reg / dualNorm
		aNormSq = rNormSq * constv * constv
	} else {
		constv = 1
		aNormSq = rNormSq
	}
	p, nTasks := W.Dims()
	l21 := 0.0
	wNormSq := 0.0
	rowBuf := make([]float64, nTasks)
	for j := 0; j < p; j++ {
		mat.Row(rowBuf, j, W)
		l21 += floats.Norm(rowBuf, 2)
		wNormSq += floats.Dot(rowBuf, rowBuf)
	}
	gap := 0.5*(rNormSq+aNormSq) - constv*rDotY + l1Reg*l21 + 0.5*l2Reg*(1+constv*constv)*wNormSq
	return gap
}
