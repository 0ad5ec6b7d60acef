package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/enetpath"
	"github.com/joker0x5F5F/enet/kernel"
	"github.com/joker0x5F5F/enet/prefit"
)

// EnetPath is the free-function entry point of spec.md §6: fit the
// whole regularization path in one call rather than constructing an
// estimator, mirroring scikit-learn's enet_path/lasso_path module
// functions. It centers/scales via prefit.Prepare once, then delegates
// every alpha to enetpath.Path.
func EnetPath(X *mat.Dense, y []float64, alphas []float64, l1Ratio float64, opt Config) (enetpath.PathResult, error) {
	opt = opt.defaults()
	prep, err := prefit.Prepare(X, y, prefit.Options{
		FitIntercept: opt.FitIntercept,
		Normalize:    opt.Normalize,
		Precompute:   opt.Precompute,
		Copy:         true,
	})
	if err != nil {
		return enetpath.PathResult{}, err
	}
	kopt := kernel.Options{Tol: opt.Tol, MaxIter: opt.MaxIter, Positive: opt.Positive}
	return enetpath.Path(prep.X, prep.YCentered, alphas, l1Ratio, nil, kopt)
}

// LassoPath is EnetPath with l1Ratio pinned to 1, matching
// scikit-learn's lasso_path alias over enet_path.
func LassoPath(X *mat.Dense, y []float64, alphas []float64, opt Config) (enetpath.PathResult, error) {
	return EnetPath(X, y, alphas, 1, opt)
}

// EnetPathSparse is EnetPath's compressed-sparse-column counterpart:
// spec.md §6 lists CSC as a first-class mono-task input, and the
// kernel/prefit layers underneath already support a full sparse path,
// so this is not optional plumbing — it is the only way a caller gets
// a path over CSC X without dropping to enetpath.Path directly.
func EnetPathSparse(X *design.CSC, y []float64, alphas []float64, l1Ratio float64, opt Config) (enetpath.PathResult, error) {
	opt = opt.defaults()
	prep, err := prefit.PrepareSparse(X, y, prefit.Options{
		FitIntercept: opt.FitIntercept,
		Normalize:    opt.Normalize,
	})
	if err != nil {
		return enetpath.PathResult{}, err
	}
	kopt := kernel.Options{Tol: opt.Tol, MaxIter: opt.MaxIter, Positive: opt.Positive}
	return enetpath.Path(prep.X, prep.YCentered, alphas, l1Ratio, nil, kopt)
}

// LassoPathSparse is EnetPathSparse with l1Ratio pinned to 1.
func LassoPathSparse(X *design.CSC, y []float64, alphas []float64, opt Config) (enetpath.PathResult, error) {
	return EnetPathSparse(X, y, alphas, 1, opt)
}
