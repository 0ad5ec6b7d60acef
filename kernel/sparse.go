package kernel

import (
	"gonum.org/v1/gonum/floats"

	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/enetErr"
)

// colStats caches the per-column raw sums the sparse kernel needs to
// apply implicit centering without ever densifying X (spec.md §9):
// sumRaw[j] = sum of column j's raw nonzero entries, sumSqRaw[j] =
// sum of their squares.
type colStats struct {
	sumRaw, sumSqRaw []float64
}

func computeColStats(X *design.CSC) colStats {
	p := X.NCols()
	cs := colStats{sumRaw: make([]float64, p), sumSqRaw: make([]float64, p)}
	for j := 0; j < p; j++ {
		_, vals := X.Col(j)
		for _, v := range vals {
			cs.sumRaw[j] += v
			cs.sumSqRaw[j] += v * v
		}
	}
	return cs
}

// centeredColNormSq returns ||x_j_centered||^2 derived from the raw
// sparse moments: sum_nonzero(x_raw^2) - 2*mean_j*colSum_j + n*mean_j^2.
func centeredColNormSq(cs colStats, X *design.CSC, j int) float64 {
	n := float64(X.NSamples)
	mean := X.Mean[j]
	return cs.sumSqRaw[j] - 2*mean*cs.sumRaw[j] + n*mean*mean
}

// SparseColNormsSq computes ||x_j_centered||^2 for every column of a
// CSC design matrix, for the path engine to compute once per path.
func SparseColNormsSq(X *design.CSC) []float64 {
	cs := computeColStats(X)
	p := X.NCols()
	norms := make([]float64, p)
	for j := 0; j < p; j++ {
		norms[j] = centeredColNormSq(cs, X, j)
	}
	return norms
}

// Sparse runs coordinate descent on a compressed-sparse-column design
// matrix. It never materializes a centered copy of X. Instead it
// maintains a raw residual r0 (updated only at each column's nonzero
// positions) plus a scalar shift = sum_j(mean_j * w_j); the true
// centered residual is r0 + shift (a uniform addition to every
// sample), and its sum is sumR0 + n*shift — both tracked incrementally
// so no O(n) pass is needed per coordinate, per spec.md §9.
func Sparse(X *design.CSC, y []float64, w []float64, opt Options) (Result, error) {
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

	cs := computeColStats(X)
	normsSq := opt.ColNormsSq
	if normsSq == nil {
		normsSq = make([]float64, p)
		for j := 0; j < p; j++ {
			normsSq[j] = centeredColNormSq(cs, X, j)
		}
	}

	r0 := make([]float64, n)
	copy(r0, y)
	var shift float64
	// Apply warm-started w to r0/shift: r0 -= w_j * x_j_raw (at nonzeros),
	// shift += mean_j * w_j, for every nonzero initial coefficient.
	for j := 0; j < p; j++ {
		if w[j] == 0 {
			continue
		}
		rows, vals := X.Col(j)
		for k, row := range rows {
			r0[row] -= w[j] * vals[k]
		}
		shift += X.Mean[j] * w[j]
	}
	sumR0 := floats.Sum(r0)

	yNormSq := floats.Dot(y, y)
	eps := epsThreshold(opt.Tol, yNormSq)

	var res Result
	res.EpsThreshold = eps

	nIter := 0
	for iter := 1; iter <= opt.MaxIter; iter++ {
		nIter = iter
		maxChange := 0.0
		for j := 0; j < p; j++ {
			if normsSq[j] <= 0 {
				if w[j] != 0 {
					rows, vals := X.Col(j)
					for k, row := range rows {
						r0[row] += w[j] * vals[k]
					}
					sumR0 += w[j] * cs.sumRaw[j]
					shift -= X.Mean[j] * w[j]
					w[j] = 0
				}
				continue
			}
			mean := X.Mean[j]
			rows, vals := X.Col(j)
			var dotRaw float64
			for k, row := range rows {
				dotRaw += vals[k] * r0[row]
			}
			sumR := sumR0 + float64(n)*shift
			rho := dotRaw + shift*cs.sumRaw[j] - mean*sumR + normsSq[j]*w[j]

			wOld := w[j]
			wNew := update(rho, opt.L1Reg, opt.Positive) / (normsSq[j] + opt.L2Reg)
			delta := wNew - wOld
			if delta != 0 {
				for k, row := range rows {
					r0[row] -= delta * vals[k]
				}
				sumR0 -= delta * cs.sumRaw[j]
				shift += delta * mean
				w[j] = wNew
			}
			if d := abs(delta); d > maxChange {
				maxChange = d
			}
		}

		// Reconstruct the actual centered residual once per sweep for
		// the convergence test; O(n), same order as a dense sweep.
		sumR := sumR0 + float64(n)*shift
		rNormSq := 0.0
		rDotY := 0.0
		for i := 0; i < n; i++ {
			ri := r0[i] + shift
			rNormSq += ri * ri
			rDotY += ri * y[i]
		}
		xtA := make([]float64, p)
		for j := 0; j < p; j++ {
			mean := X.Mean[j]
			rows, vals := X.Col(j)
			var dotRaw float64
			for k, row := range rows {
				dotRaw += vals[k] * r0[row]
			}
			centeredDot := dotRaw + shift*cs.sumRaw[j] - mean*sumR
			xtA[j] = centeredDot - opt.L2Reg*w[j]
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
