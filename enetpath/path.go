package enetpath

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/enetErr"
	"github.com/joker0x5F5F/enet/kernel"
)

// PathResult is the path artifact of spec.md §3: a sequence of
// (alpha, W, gap, n_iter) tuples in the order alphas were visited
// (alphas must already be strictly decreasing — Path does not sort).
type PathResult struct {
	Alphas   []float64
	Coefs    [][]float64 // one slice per alpha, length nFeatures (mono-task)
	Gaps     []float64
	NIters   []int
	Warnings []enetErr.Warning
}

// dispatch picks the kernel.Mode matching spec.md §4.2's table:
// sparse+mono -> sparse; dense+mono+gram-given -> gram;
// dense+mono+precompute=false -> dense. (Multi-task has its own
// entry point, PathMultiTask, since its Y shape differs entirely.)
func dispatchMode(X design.Matrix) (kernel.Mode, error) {
	switch X.(type) {
	case design.Dense:
		return kernel.ModeDense, nil
	case *design.CSC:
		return kernel.ModeSparse, nil
	case design.Gram:
		return kernel.ModeGram, nil
	default:
		return 0, enetErr.New(enetErr.InvalidParameter, "unrecognized design.Matrix implementation %T", X)
	}
}

// Path runs the mono-task elastic-net path of spec.md §4.2: for each
// alpha, compute l1Reg/l2Reg, dispatch to the kernel matching X's
// storage mode, warm-start W from the previous alpha's solution, and
// record (gap, n_iter). A non-converged alpha produces a
// ConvergenceWarning but never aborts the path — this is the whole
// point of doing a path rather than n independent cold-started fits
// (spec.md §9).
func Path(X design.Matrix, y []float64, alphas []float64, l1Ratio float64, coefInit []float64, base kernel.Options) (PathResult, error) {
	if l1Ratio < 0 || l1Ratio > 1 {
		return PathResult{}, enetErr.New(enetErr.InvalidParameter, "l1Ratio must be in [0,1], got %v", l1Ratio)
	}
	for i := 1; i < len(alphas); i++ {
		if alphas[i] >= alphas[i-1] {
			return PathResult{}, enetErr.New(enetErr.InvalidParameter, "alpha grid must be strictly decreasing at index %d", i)
		}
	}

	mode, err := dispatchMode(X)
	if err != nil {
		return PathResult{}, err
	}

	_, p := X.Dims()
	w := make([]float64, p)
	if coefInit != nil {
		copy(w, coefInit)
	}

	nf := float64(len(y))
	if mode == kernel.ModeGram {
		nf = float64(X.(design.Gram).NSamples)
	}

	// Column norms depend only on X, not on alpha, so they are computed
	// once here and shared across the whole path rather than once per
	// alpha (spec.md's residual-maintenance performance note extends
	// naturally to this other per-path invariant).
	var colNorms []float64
	switch mode {
	case kernel.ModeDense:
		colNorms = kernel.DenseColNormsSq(X.(design.Dense).X)
	case kernel.ModeSparse:
		colNorms = kernel.SparseColNormsSq(X.(*design.CSC))
	}

	result := PathResult{
		Alphas: alphas,
		Coefs:  make([][]float64, len(alphas)),
		Gaps:   make([]float64, len(alphas)),
		NIters: make([]int, len(alphas)),
	}

	for i, alpha := range alphas {
		opt := base
		opt.L1Reg = alpha * l1Ratio * nf
		opt.L2Reg = alpha * (1 - l1Ratio) * nf
		opt.ColNormsSq = colNorms

		var res kernel.Result
		var kerr error
		switch mode {
		case kernel.ModeDense:
			res, kerr = kernel.Dense(X.(design.Dense).X, y, w, opt)
		case kernel.ModeSparse:
			res, kerr = kernel.Sparse(X.(*design.CSC), y, w, opt)
		case kernel.ModeGram:
			res, kerr = kernel.Gram(X.(design.Gram), w, opt)
		}
		if kerr != nil {
			if e, ok := kerr.(*enetErr.Error); ok {
				return PathResult{}, e.With(tagAlpha(i))
			}
			return PathResult{}, kerr
		}

		wCopy := make([]float64, p)
		copy(wCopy, w)
		result.Coefs[i] = wCopy
		result.Gaps[i] = res.Gap
		result.NIters[i] = res.NIter

		if !res.Converged {
			w := enetErr.Warning{AlphaIndex: i, Alpha: alpha, Gap: res.Gap, Threshold: res.EpsThreshold}
			result.Warnings = append(result.Warnings, w)
			slog.Warn("objective did not converge", "alphaIndex", i, "alpha", alpha, "gap", res.Gap, "threshold", res.EpsThreshold)
		}
		if alpha == 0 {
			w := enetErr.Warning{
				AlphaIndex: i, Alpha: alpha,
				Message: "alpha=0 is a degenerate, unregularized problem; consider ordinary least squares instead",
			}
			result.Warnings = append(result.Warnings, w)
			slog.Warn("numerical conditioning note", "alphaIndex", i, "message", w.Message)
		}
	}

	return result, nil
}

func tagAlpha(i int) string {
	return "alpha[" + itoa(i) + "]"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// MultiTaskPathResult mirrors PathResult for the multi-task kernel,
// whose coefficients are a matrix (nFeatures x nTasks) per alpha rather
// than a vector.
type MultiTaskPathResult struct {
	Alphas   []float64
	Coefs    []*mat.Dense
	Gaps     []float64
	NIters   []int
	Warnings []enetErr.Warning
}

// PathMultiTask runs the multi-task (block) elastic-net path. X must
// be dense — the multi-task kernel does not accept sparse or Gram
// input (spec.md §4.2 dispatch table restricts multi-task to dense).
func PathMultiTask(X *mat.Dense, Y *mat.Dense, alphas []float64, l1Ratio float64, coefInit *mat.Dense, base kernel.Options) (MultiTaskPathResult, error) {
	if l1Ratio < 0 || l1Ratio > 1 {
		return MultiTaskPathResult{}, enetErr.New(enetErr.InvalidParameter, "l1Ratio must be in [0,1], got %v", l1Ratio)
	}
	for i := 1; i < len(alphas); i++ {
		if alphas[i] >= alphas[i-1] {
			return MultiTaskPathResult{}, enetErr.New(enetErr.InvalidParameter, "alpha grid must be strictly decreasing at index %d", i)
		}
	}

	n, p := X.Dims()
	_, nTasks := Y.Dims()
	W := mat.NewDense(p, nTasks, nil)
	if coefInit != nil {
		W.Copy(coefInit)
	}

	nf := float64(n)
	colNorms := kernel.DenseColNormsSq(X)

	result := MultiTaskPathResult{
		Alphas: alphas,
		Coefs:  make([]*mat.Dense, len(alphas)),
		Gaps:   make([]float64, len(alphas)),
		NIters: make([]int, len(alphas)),
	}

	for i, alpha := range alphas {
		opt := base
		opt.L1Reg = alpha * l1Ratio * nf
		opt.L2Reg = alpha * (1 - l1Ratio) * nf
		opt.ColNormsSq = colNorms
		opt.Positive = false

		res, err := kernel.MultiTask(X, Y, W, opt)
		if err != nil {
			if e, ok := err.(*enetErr.Error); ok {
				return MultiTaskPathResult{}, e.With(tagAlpha(i))
			}
			return MultiTaskPathResult{}, err
		}

		wCopy := mat.NewDense(p, nTasks, nil)
		wCopy.Copy(W)
		result.Coefs[i] = wCopy
		result.Gaps[i] = res.Gap
		result.NIters[i] = res.NIter

		if !res.Converged {
			w := enetErr.Warning{AlphaIndex: i, Alpha: alpha, Gap: res.Gap, Threshold: res.EpsThreshold}
			result.Warnings = append(result.Warnings, w)
			slog.Warn("objective did not converge", "alphaIndex", i, "alpha", alpha, "gap", res.Gap, "threshold", res.EpsThreshold)
		}
	}

	return result, nil
}
