package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/enetErr"
	"github.com/joker0x5F5F/enet/enetpath"
	"github.com/joker0x5F5F/enet/kernel"
	"github.com/joker0x5F5F/enet/prefit"
)

// MultiTaskElasticNet fits every task's coefficient column jointly,
// sharing one row-sparsity pattern across tasks (spec.md's
// l2,1-penalized block kernel). Positive is always false: the
// multi-task kernel rejects it outright.
type MultiTaskElasticNet struct {
	Config Config

	Coef      *mat.Dense // nFeatures x nTasks
	Intercept []float64
	DualGap   float64
	NIter     int
	XMean     []float64
}

func NewMultiTaskElasticNet(cfg Config) (*MultiTaskElasticNet, error) {
	cfg = cfg.defaults()
	cfg.Positive = false
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &MultiTaskElasticNet{Config: cfg}, nil
}

func (m *MultiTaskElasticNet) Fit(X *mat.Dense, Y *mat.Dense) error {
	prep, err := prefit.PrepareMultiTask(X, Y, prefit.Options{
		FitIntercept: m.Config.FitIntercept,
		Copy:         true,
	})
	if err != nil {
		return err
	}

	var coefInit *mat.Dense
	if m.Config.WarmStart && m.Coef != nil {
		coefInit = m.Coef
	}

	kopt := kernel.Options{Tol: m.Config.Tol, MaxIter: m.Config.MaxIter}
	pr, err := enetpath.PathMultiTask(prep.X.(design.Dense).X, prep.YMat, []float64{m.Config.Alpha}, m.Config.L1Ratio, coefInit, kopt)
	if err != nil {
		return err
	}

	m.Coef = pr.Coefs[0]
	m.DualGap = pr.Gaps[0]
	m.NIter = pr.NIters[0]
	m.XMean = prep.XMean

	_, nTasks := Y.Dims()
	p, _ := m.Coef.Dims()
	m.Intercept = make([]float64, nTasks)
	for t := 0; t < nTasks; t++ {
		col := make([]float64, p)
		for j := 0; j < p; j++ {
			col[j] = m.Coef.At(j, t)
		}
		m.Intercept[t] = design.Intercept(prep.YMeanVec[t], prep.XMean, nil, col)
	}
	return nil
}

// Predict returns an nSamples x nTasks prediction matrix.
func (m *MultiTaskElasticNet) Predict(X *mat.Dense) (*mat.Dense, error) {
	if m.Coef == nil {
		return nil, enetErr.New(enetErr.InvalidParameter, "Predict called before Fit")
	}
	n, _ := X.Dims()
	p, nTasks := m.Coef.Dims()
	out := mat.NewDense(n, nTasks, nil)
	for t := 0; t < nTasks; t++ {
		col := make([]float64, p)
		for j := 0; j < p; j++ {
			col[j] = m.Coef.At(j, t)
		}
		rows := make([][]float64, n)
		for i := 0; i < n; i++ {
			rows[i] = mat.Row(nil, i, X)
		}
		pred := design.Predict(rows, col, nil, m.Intercept[t])
		for i := 0; i < n; i++ {
			out.Set(i, t, pred[i])
		}
	}
	return out, nil
}

// MultiTaskLasso is MultiTaskElasticNet with l1Ratio pinned to 1.
type MultiTaskLasso struct {
	inner *MultiTaskElasticNet
}

func NewMultiTaskLasso(cfg Config) (*MultiTaskLasso, error) {
	cfg.L1Ratio = 1
	inner, err := NewMultiTaskElasticNet(cfg)
	if err != nil {
		return nil, err
	}
	return &MultiTaskLasso{inner: inner}, nil
}

func (m *MultiTaskLasso) Fit(X, Y *mat.Dense) error { return m.inner.Fit(X, Y) }

func (m *MultiTaskLasso) Predict(X *mat.Dense) (*mat.Dense, error) { return m.inner.Predict(X) }

func (m *MultiTaskLasso) Coef() *mat.Dense { return m.inner.Coef }
