// Package prefit implements the pre-fit adapter (C4): centering,
// optional unit-variance scaling, and the dense/sparse/Gram precompute
// decision, grounded on CausalGo's surd.SURD.standardize (population
// mean/std per column, constant-column guard) generalized to (a) make
// scaling optional and (b) never densify a sparse X.
package prefit

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/enetErr"
)

// Precompute mirrors spec.md's "'auto'" tri-state: Auto is resolved by
// Prepare before a path ever dispatches.
type Precompute int

const (
	Auto Precompute = iota
	Always
	Never
)

// Options controls how Prepare centers/scales/decides precompute mode.
type Options struct {
	FitIntercept bool
	Normalize    bool // scale columns to unit variance after centering
	Precompute   Precompute
	Copy         bool // if false, center/scale the caller's X (and Y) in place
	UserXy       *mat.Dense
}

// Result is what Prepare hands to the path engine.
type Result struct {
	X          design.Matrix
	YCentered  []float64
	YMat       *mat.Dense // set instead of YCentered for multi-task
	XMean      []float64
	XStd       []float64
	YMean      float64
	YMeanVec   []float64 // multi-task per-task mean
	Xy         []float64 // PrepareSparse only: X_raw^T y - X_mean*sum(y), feeds Grid
	Precompute bool
}

// Prepare centers (and optionally scales) dense X, building a Gram
// matrix when the precompute decision calls for it. Sparse X is
// handled by PrepareSparse, since it never gets physically centered.
func Prepare(X *mat.Dense, y []float64, opt Options) (Result, error) {
	n, p := X.Dims()
	if len(y) != n {
		return Result{}, enetErr.New(enetErr.InvalidShape, "y has %d samples, X has %d", len(y), n)
	}

	work := X
	if opt.Copy {
		work = mat.NewDense(n, p, nil)
		work.Copy(X)
	}

	xMean := make([]float64, p)
	xStd := make([]float64, p)
	for j := range xStd {
		xStd[j] = 1
	}
	var yMean float64

	if opt.FitIntercept {
		for j := 0; j < p; j++ {
			col := mat.Col(nil, j, work)
			mean := floats.Sum(col) / float64(n)
			xMean[j] = mean
			for i := 0; i < n; i++ {
				work.Set(i, j, work.At(i, j)-mean)
			}
		}
		yMean = floats.Sum(y) / float64(n)
	}
	yCentered := make([]float64, n)
	for i := range y {
		yCentered[i] = y[i] - yMean
	}

	if opt.Normalize {
		for j := 0; j < p; j++ {
			col := mat.Col(nil, j, work)
			variance := 0.0
			for _, v := range col {
				variance += v * v
			}
			std := math.Sqrt(variance / float64(n))
			if std < 1e-12 {
				std = 1
			}
			xStd[j] = std
			for i := 0; i < n; i++ {
				work.Set(i, j, work.At(i, j)/std)
			}
		}
	}

	precompute := decidePrecompute(opt.Precompute, false, n, p)

	res := Result{
		X:          design.Dense{X: work},
		YCentered:  yCentered,
		XMean:      xMean,
		XStd:       xStd,
		YMean:      yMean,
		Precompute: precompute,
	}

	if precompute {
		var sym mat.SymDense
		sym.SymOuterK(1, work.T())
		var xy mat.Dense
		xy.Mul(work.T(), mat.NewDense(n, 1, yCentered))

		if opt.UserXy != nil {
			if err := checkXyConsistency(opt.UserXy, &xy); err != nil {
				return Result{}, err
			}
		}

		res.X = design.Gram{G: &sym, Xy: &xy, YNormSq: floats.Dot(yCentered, yCentered), NSamples: n}
	}

	return res, nil
}

// PrepareSparse computes centering side-vectors for a CSC matrix
// without ever densifying it, per spec.md §9. opt.Normalize is not
// applied to sparse input: the returned Std is all ones. Precompute is always
// forced to false for sparse input — "Sparse X → never precompute
// Gram (would destroy sparsity)" (spec.md §4.4).
func PrepareSparse(X *design.CSC, y []float64, opt Options) (Result, error) {
	n, p := X.Dims()
	if len(y) != n {
		return Result{}, enetErr.New(enetErr.InvalidShape, "y has %d samples, X has %d", len(y), n)
	}

	mean := make([]float64, p)
	std := make([]float64, p)
	for j := range std {
		std[j] = 1
	}

	if opt.FitIntercept {
		for j := 0; j < p; j++ {
			_, vals := X.Col(j)
			s := 0.0
			for _, v := range vals {
				s += v
			}
			mean[j] = s / float64(n)
		}
	}

	sumY := floats.Sum(y)
	var yMean float64
	if opt.FitIntercept {
		yMean = sumY / float64(n)
	}
	yCentered := make([]float64, n)
	for i := range y {
		yCentered[i] = y[i] - yMean
	}

	// Xy = X_raw^T y - X_mean*sum(y), per spec.md §4.3: X is never
	// physically centered, so the centered dot product the alpha-grid
	// formula needs is reconstructed from the raw column dot and the
	// centering side-vector instead (mean is all-zero when
	// FitIntercept is false, which collapses this to the plain raw
	// dot product).
	xy := make([]float64, p)
	for j := 0; j < p; j++ {
		rows, vals := X.Col(j)
		dotRawY := 0.0
		for k, r := range rows {
			dotRawY += vals[k] * y[r]
		}
		xy[j] = dotRawY - mean[j]*sumY
	}

	out := &design.CSC{
		Data: X.Data, RowIndices: X.RowIndices, ColPtr: X.ColPtr,
		NSamples: n, Mean: mean, Std: std,
	}

	if opt.Precompute == Always {
		return Result{}, enetErr.New(enetErr.InvalidParameter, "Gram precompute is unsupported for sparse X")
	}

	return Result{X: out, YCentered: yCentered, XMean: mean, XStd: std, YMean: yMean, Xy: xy, Precompute: false}, nil
}

// PrepareMultiTask centers a dense X and a multi-task Y. Multi-task
// fitting never precomputes a Gram matrix — the kernel needs the full
// residual matrix, which a Gram representation cannot supply.
func PrepareMultiTask(X *mat.Dense, Y *mat.Dense, opt Options) (Result, error) {
	n, p := X.Dims()
	ny, nTasks := Y.Dims()
	if ny != n {
		return Result{}, enetErr.New(enetErr.InvalidShape, "Y has %d samples, X has %d", ny, n)
	}

	work := X
	if opt.Copy {
		work = mat.NewDense(n, p, nil)
		work.Copy(X)
	}
	yWork := Y
	if opt.Copy {
		yWork = mat.NewDense(n, nTasks, nil)
		yWork.Copy(Y)
	}

	xMean := make([]float64, p)
	yMean := make([]float64, nTasks)
	if opt.FitIntercept {
		for j := 0; j < p; j++ {
			col := mat.Col(nil, j, work)
			mean := floats.Sum(col) / float64(n)
			xMean[j] = mean
			for i := 0; i < n; i++ {
				work.Set(i, j, work.At(i, j)-mean)
			}
		}
		for t := 0; t < nTasks; t++ {
			col := mat.Col(nil, t, yWork)
			mean := floats.Sum(col) / float64(n)
			yMean[t] = mean
			for i := 0; i < n; i++ {
				yWork.Set(i, t, yWork.At(i, t)-mean)
			}
		}
	}

	return Result{
		X:        design.Dense{X: work},
		YMat:     yWork,
		XMean:    xMean,
		XStd:     nil,
		YMeanVec: yMean,
	}, nil
}

func decidePrecompute(want Precompute, sparse bool, n, p int) bool {
	switch want {
	case Always:
		return true
	case Never:
		return false
	default: // Auto
		if sparse {
			return false
		}
		return n > p
	}
}

// checkXyConsistency resolves the open question in spec.md §9: a
// caller-supplied Xy that disagrees with the freshly computed one is
// an error, not a silent override.
func checkXyConsistency(user, computed *mat.Dense) error {
	up, ut := user.Dims()
	cp, ct := computed.Dims()
	if up != cp || ut != ct {
		return enetErr.New(enetErr.InvalidShape, "supplied Xy is %dx%d, computed Xy is %dx%d", up, ut, cp, ct)
	}
	for i := 0; i < up; i++ {
		for j := 0; j < ut; j++ {
			u, c := user.At(i, j), computed.At(i, j)
			denom := math.Abs(c)
			if denom < 1e-12 {
				denom = 1e-12
			}
			if math.Abs(u-c)/denom > 1e-6 {
				return enetErr.New(enetErr.InvalidParameter,
					"supplied Xy[%d,%d]=%v disagrees with computed value %v by more than 1e-6 relative error", i, j, u, c)
			}
		}
	}
	return nil
}
