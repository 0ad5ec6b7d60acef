package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/enetErr"
	"github.com/joker0x5F5F/enet/enetpath"
	"github.com/joker0x5F5F/enet/kernel"
	"github.com/joker0x5F5F/enet/prefit"
)

// ElasticNet is the mono-task dense/sparse estimator: a single alpha,
// a single l1Ratio, fit via one alpha point on the path engine.
type ElasticNet struct {
	Config Config

	Coef      []float64
	Intercept float64
	DualGap   float64
	NIter     int
	XMean     []float64
	XStd      []float64
}

// NewElasticNet validates cfg and fills in the teacher's style of
// defaults, per regression.NewLASSO.
func NewElasticNet(cfg Config) (*ElasticNet, error) {
	cfg = cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &ElasticNet{Config: cfg}, nil
}

// Fit runs one alpha of the elastic-net path against dense X.
func (e *ElasticNet) Fit(X *mat.Dense, y []float64) error {
	prep, err := prefit.Prepare(X, y, prefit.Options{
		FitIntercept: e.Config.FitIntercept,
		Normalize:    e.Config.Normalize,
		Precompute:   e.Config.Precompute,
		Copy:         true,
	})
	if err != nil {
		return err
	}

	var coefInit []float64
	if e.Config.WarmStart && e.Coef != nil {
		coefInit = e.Coef
	}

	kopt := kernel.Options{Tol: e.Config.Tol, MaxIter: e.Config.MaxIter, Positive: e.Config.Positive}
	pr, err := enetpath.Path(prep.X, prep.YCentered, []float64{e.Config.Alpha}, e.Config.L1Ratio, coefInit, kopt)
	if err != nil {
		return err
	}

	e.Coef = pr.Coefs[0]
	e.DualGap = pr.Gaps[0]
	e.NIter = pr.NIters[0]
	e.XMean = prep.XMean
	e.XStd = prep.XStd
	e.Intercept = design.Intercept(prep.YMean, prep.XMean, prep.XStd, e.Coef)
	return nil
}

// FitSparse runs one alpha of the elastic-net path against a
// compressed-sparse-column X, never densifying it.
func (e *ElasticNet) FitSparse(X *design.CSC, y []float64) error {
	prep, err := prefit.PrepareSparse(X, y, prefit.Options{
		FitIntercept: e.Config.FitIntercept,
		Normalize:    e.Config.Normalize,
		Precompute:   prefit.Never,
	})
	if err != nil {
		return err
	}

	var coefInit []float64
	if e.Config.WarmStart && e.Coef != nil {
		coefInit = e.Coef
	}

	kopt := kernel.Options{Tol: e.Config.Tol, MaxIter: e.Config.MaxIter, Positive: e.Config.Positive}
	pr, err := enetpath.Path(prep.X, prep.YCentered, []float64{e.Config.Alpha}, e.Config.L1Ratio, coefInit, kopt)
	if err != nil {
		return err
	}

	e.Coef = pr.Coefs[0]
	e.DualGap = pr.Gaps[0]
	e.NIter = pr.NIters[0]
	e.XMean = prep.XMean
	e.XStd = prep.XStd
	e.Intercept = design.Intercept(prep.YMean, prep.XMean, prep.XStd, e.Coef)
	return nil
}

// Predict computes X . (coef_ / XStd) + intercept_ for every row of X
// (XStd is all ones unless Normalize was set).
func (e *ElasticNet) Predict(X *mat.Dense) ([]float64, error) {
	if e.Coef == nil {
		return nil, enetErr.New(enetErr.InvalidParameter, "Predict called before Fit")
	}
	n, _ := X.Dims()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = mat.Row(nil, i, X)
	}
	return design.Predict(rows, e.Coef, e.XStd, e.Intercept), nil
}

// DecisionFunction is an alias for Predict: elastic-net's decision
// function and its prediction are the same linear combination.
func (e *ElasticNet) DecisionFunction(X *mat.Dense) ([]float64, error) {
	return e.Predict(X)
}
