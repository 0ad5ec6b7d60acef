package linear

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/cv"
	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/enetErr"
)

// CVConfig carries the hyperparameter sweep, shared by every CV
// facade.
type CVConfig struct {
	L1Ratios     []float64
	NAlphas      int
	Eps          float64
	FitIntercept bool
	Normalize    bool
	Positive     bool
	Tol          float64
	MaxIter      int
	NFolds       int
	NJobs        int
}

func (c CVConfig) toDriverOptions() cv.Options {
	return cv.Options{
		L1Ratios: c.L1Ratios, NAlphas: c.NAlphas, Eps: c.Eps,
		FitIntercept: c.FitIntercept, Normalize: c.Normalize, Positive: c.Positive,
		Tol: c.Tol, MaxIter: c.MaxIter, NFolds: c.NFolds, NJobs: c.NJobs,
	}
}

func (c CVConfig) defaults() CVConfig {
	if c.NAlphas == 0 {
		c.NAlphas = 100
	}
	if c.Eps == 0 {
		c.Eps = 1e-3
	}
	if c.Tol == 0 {
		c.Tol = 1e-4
	}
	if c.MaxIter == 0 {
		c.MaxIter = 1000
	}
	if c.NFolds == 0 {
		c.NFolds = 5
	}
	return c
}

// ElasticNetCV sweeps (l1Ratio x alpha) by k-fold cross-validation and
// refits once on the full data with the selected pair, per spec.md
// §4.5 step 5.
type ElasticNetCV struct {
	Config CVConfig

	Coef      []float64
	Intercept float64
	DualGap   float64
	NIter     int
	Alpha     float64
	L1Ratio   float64
	Alphas    [][]float64
	MSEPath   [][]float64
}

func NewElasticNetCV(cfg CVConfig) (*ElasticNetCV, error) {
	cfg = cfg.defaults()
	if len(cfg.L1Ratios) == 0 {
		return nil, enetErr.New(enetErr.InvalidParameter, "at least one l1Ratio is required")
	}
	return &ElasticNetCV{Config: cfg}, nil
}

func (e *ElasticNetCV) Fit(ctx context.Context, X *mat.Dense, y []float64) error {
	res, err := cv.Fit(ctx, X, y, e.Config.toDriverOptions())
	if err != nil {
		return err
	}
	e.Coef = res.Coef
	e.Intercept = res.Intercept
	e.DualGap = res.DualGap
	e.NIter = res.NIter
	e.Alpha = res.Alpha
	e.L1Ratio = res.L1Ratio
	e.Alphas = res.Alphas
	e.MSEPath = res.MeanMSE
	return nil
}

// FitSparse is Fit's compressed-sparse-column counterpart, routing
// through cv.FitSparse so the whole (l1Ratio x alpha x fold) sweep
// runs against X without ever densifying it.
func (e *ElasticNetCV) FitSparse(ctx context.Context, X *design.CSC, y []float64) error {
	res, err := cv.FitSparse(ctx, X, y, e.Config.toDriverOptions())
	if err != nil {
		return err
	}
	e.Coef = res.Coef
	e.Intercept = res.Intercept
	e.DualGap = res.DualGap
	e.NIter = res.NIter
	e.Alpha = res.Alpha
	e.L1Ratio = res.L1Ratio
	e.Alphas = res.Alphas
	e.MSEPath = res.MeanMSE
	return nil
}

func (e *ElasticNetCV) Predict(X *mat.Dense) ([]float64, error) {
	if e.Coef == nil {
		return nil, enetErr.New(enetErr.InvalidParameter, "Predict called before Fit")
	}
	n, _ := X.Dims()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = mat.Row(nil, i, X)
	}
	return predictPlain(rows, e.Coef, e.Intercept), nil
}

// LassoCV is ElasticNetCV with L1Ratios forced to [1].
type LassoCV struct {
	inner *ElasticNetCV
}

func NewLassoCV(cfg CVConfig) (*LassoCV, error) {
	cfg.L1Ratios = []float64{1}
	inner, err := NewElasticNetCV(cfg)
	if err != nil {
		return nil, err
	}
	return &LassoCV{inner: inner}, nil
}

func (l *LassoCV) Fit(ctx context.Context, X *mat.Dense, y []float64) error {
	return l.inner.Fit(ctx, X, y)
}

func (l *LassoCV) FitSparse(ctx context.Context, X *design.CSC, y []float64) error {
	return l.inner.FitSparse(ctx, X, y)
}

func (l *LassoCV) Predict(X *mat.Dense) ([]float64, error) { return l.inner.Predict(X) }
func (l *LassoCV) Coef() []float64                         { return l.inner.Coef }
func (l *LassoCV) Intercept() float64                      { return l.inner.Intercept }
func (l *LassoCV) Alpha() float64                          { return l.inner.Alpha }

func predictPlain(rows [][]float64, w []float64, intercept float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		s := intercept
		for j, v := range row {
			s += v * w[j]
		}
		out[i] = s
	}
	return out
}
