package linear

import "gonum.org/v1/gonum/mat"

// PathFitter generalizes the teacher's regression.Regressor interface
// (a single Fit(X, y) []float64) to a family member fitted from a
// Config: the return is an error rather than a bare weight slice since
// the path engine can fail on malformed input, and the learned state
// lives on the receiver (Coef/Intercept) rather than in the return
// value, matching every estimator's Predict needing it afterward.
type PathFitter interface {
	Fit(X *mat.Dense, y []float64) error
	Predict(X *mat.Dense) ([]float64, error)
}
