package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/design"
)

// Lasso is ElasticNet with l1Ratio pinned to 1 (pure l1 penalty) —
// a thin wrapper, same shape as the teacher pinning a single algorithm
// behind regression.NewLASSO rather than exposing a ratio knob.
type Lasso struct {
	inner *ElasticNet
}

// NewLasso ignores any Config.L1Ratio the caller set and forces 1.
func NewLasso(cfg Config) (*Lasso, error) {
	cfg.L1Ratio = 1
	en, err := NewElasticNet(cfg)
	if err != nil {
		return nil, err
	}
	return &Lasso{inner: en}, nil
}

func (l *Lasso) Fit(X *mat.Dense, y []float64) error { return l.inner.Fit(X, y) }

func (l *Lasso) FitSparse(X *design.CSC, y []float64) error { return l.inner.FitSparse(X, y) }

func (l *Lasso) Predict(X *mat.Dense) ([]float64, error) { return l.inner.Predict(X) }

func (l *Lasso) DecisionFunction(X *mat.Dense) ([]float64, error) { return l.inner.Predict(X) }

func (l *Lasso) Coef() []float64    { return l.inner.Coef }
func (l *Lasso) Intercept() float64 { return l.inner.Intercept }
func (l *Lasso) DualGap() float64   { return l.inner.DualGap }
func (l *Lasso) NIter() int         { return l.inner.NIter }
