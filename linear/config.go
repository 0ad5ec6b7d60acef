// Package linear is the estimator facade (C6): it exposes the
// scikit-learn-shaped Lasso/ElasticNet/MultiTaskLasso/
// MultiTaskElasticNet types and their cross-validated counterparts,
// wiring prefit/enetpath/kernel/cv underneath a single Fit/Predict
// surface — grounded on CausalGo's regression.Regressor interface
// (regression/regression.go), which this package generalizes from one
// fixed OLS implementation into a family selected by Config.
package linear

import (
	"github.com/joker0x5F5F/enet/enetErr"
	"github.com/joker0x5F5F/enet/prefit"
)

// Config carries the hyperparameters shared by every mono-task
// estimator in the family. Lasso fixes L1Ratio at 1; ElasticNet lets
// the caller choose it.
type Config struct {
	Alpha        float64
	L1Ratio      float64
	FitIntercept bool
	Normalize    bool
	Precompute   prefit.Precompute
	Positive     bool
	Tol          float64
	MaxIter      int
	WarmStart    bool // keep Coef between successive Fit calls as the next warm start
}

// defaults fills the zero-value gaps a caller is expected to leave
// unset, mirroring the teacher's constructor style of filling in sane
// defaults rather than requiring every field.
func (c Config) defaults() Config {
	if c.Tol == 0 {
		c.Tol = 1e-4
	}
	if c.MaxIter == 0 {
		c.MaxIter = 1000
	}
	return c
}

func (c Config) validate() error {
	if c.Alpha < 0 {
		return enetErr.New(enetErr.InvalidParameter, "alpha must be >= 0, got %v", c.Alpha)
	}
	if c.L1Ratio < 0 || c.L1Ratio > 1 {
		return enetErr.New(enetErr.InvalidParameter, "l1Ratio must be in [0,1], got %v", c.L1Ratio)
	}
	if c.Positive && c.L1Ratio == 0 {
		// l1Ratio=0 collapses to ridge, whose closed form the
		// positivity constraint cannot be folded into; spec.md §9's
		// dispatch table never routes l2Reg-only fits through a
		// projected kernel.
		return enetErr.New(enetErr.InvalidParameter, "positive=true requires l1Ratio > 0")
	}
	if c.Tol < 0 {
		return enetErr.New(enetErr.InvalidParameter, "tol must be >= 0, got %v", c.Tol)
	}
	if c.MaxIter < 0 {
		return enetErr.New(enetErr.InvalidParameter, "maxIter must be >= 0, got %v", c.MaxIter)
	}
	return nil
}
