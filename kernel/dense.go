package kernel

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/enetErr"
)

// Dense runs one coordinate-descent fit on a dense, column-major design
// matrix, grounded on CausalGo's regression.LASSO.Fit: cache columns
// and their squared norms once, then sweep cyclically, maintaining the
// residual r = y - X w incrementally after every coordinate update.
func Dense(X *mat.Dense, y []float64, w []float64, opt Options) (Result, error) {
	n, p := X.Dims()
	if len(y) != n {
		return Result{}, enetErr.New(enetErr.InvalidShape, "y has %d samples, X has %d", len(y), n)
	}
	if len(w) != p {
		return Result{}, enetErr.New(enetErr.InvalidShape, "w has %d entries, X has %d features", len(w), p)
	}
	if err := checkFinite("y", y); err != nil {
		return Result{}, err
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

	r := make([]float64, n)
	// r = y - X w
	copy(r, y)
	for j := 0; j < p; j++ {
		if w[j] != 0 {
			floats.AddScaled(r, -w[j], cols[j])
		}
	}

	yNormSq := floats.Dot(y, y)
	eps := epsThreshold(opt.Tol, yNormSq)

	var res Result
	res.EpsThreshold = eps

	xtA := make([]float64, p)
	nIter := 0
	for iter := 1; iter <= opt.MaxIter; iter++ {
		nIter = iter
		maxChange := 0.0
		for j := 0; j < p; j++ {
			if norms[j] <= 0 {
				// Pinned-to-zero coordinate: a zero-norm column carries
				// no information, per spec.md §4.1.
				if w[j] != 0 {
					floats.AddScaled(r, w[j], cols[j])
					w[j] = 0
				}
				continue
			}
			wOld := w[j]
			rho := floats.Dot(cols[j], r) + norms[j]*wOld
			wNew := update(rho, opt.L1Reg, opt.Positive) / (norms[j] + opt.L2Reg)
			delta := wNew - wOld
			if delta != 0 {
				floats.AddScaled(r, -delta, cols[j])
				w[j] = wNew
			}
			if d := abs(delta); d > maxChange {
				maxChange = d
			}
		}

		for j := 0; j < p; j++ {
			xtA[j] = floats.Dot(cols[j], r) - opt.L2Reg*w[j]
		}
		rNormSq := floats.Dot(r, r)
		rDotY := floats.Dot(r, y)
		gap := dualGapMono(xtA, rNormSq, rDotY, w, opt.L1Reg, opt.L2Reg)
		res.Gap = gap

		// The gap test is the only one that reports convergence, per the
		// invariant in spec.md §3 ("gap ≤ tol_scaled, or n_iter
		// exhausted"). A sweep in which no coordinate moved is an exact
		// fixed point and also ends the loop, reported as not converged.
		if gap < eps {
			res.Converged = true
			break
		}
		if maxChange == 0 {
			res.Converged = gap < eps
			break
		}
	}
	res.NIter = nIter
	return res, nil
}

// DenseColNormsSq computes ||x_j||^2 for every column of a dense
// design matrix. The path engine calls this once per path (not once
// per alpha) and passes the result back via Options.ColNormsSq, since
// X never changes across alphas.
func DenseColNormsSq(X *mat.Dense) []float64 {
	_, p := X.Dims()
	norms := make([]float64, p)
	col := make([]float64, X.RawMatrix().Rows)
	for j := 0; j < p; j++ {
		mat.Col(col, j, X)
		norms[j] = floats.Dot(col, col)
	}
	return norms
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
