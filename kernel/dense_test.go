package kernel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TestDenseSingleFeatureOLS checks that alpha=0 (l1Reg=l2Reg=0) on a
// single feature recovers ordinary least squares, the round-trip
// property (spec.md testable property 4).
func TestDenseSingleFeatureOLS(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := []float64{2, 4, 6}
	w := []float64{0}

	res, err := Dense(X, y, w, Options{Tol: 1e-12, MaxIter: 10000})
	if err != nil {
		t.Fatalf("Dense: %v", err)
	}
	if !res.Converged {
		t.Fatalf("expected convergence, got gap=%g eps=%g", res.Gap, res.EpsThreshold)
	}
	if diff := math.Abs(w[0] - 2.0); diff > 1e-8 {
		t.Errorf("w[0] = %.10f, want 2.0 (diff %.2e)", w[0], diff)
	}
}

// TestDenseScenarioS2 matches spec.md S2: single lasso fit on a simple
// 3-sample, one-column problem, without intercept (caller pre-centers).
func TestDenseScenarioS2(t *testing.T) {
	// X is already mean-centered here; spec.md S2 fits with an
	// intercept which this kernel-level test factors out by checking
	// the coefficient against a hand-derived soft-threshold:
	// x = [0,1,2], mean 1, centered = [-1,0,1], norm^2=2.
	Xc := mat.NewDense(3, 1, []float64{-1, 0, 1})
	yc := []float64{-1, 0, 1} // y=[0,1,2], mean 1, centered
	w := []float64{0}
	alpha, l1Ratio := 0.1, 1.0
	n := 3.0
	opt := Options{L1Reg: alpha * l1Ratio * n, L2Reg: alpha * (1 - l1Ratio) * n, Tol: 1e-10, MaxIter: 1000}
	if _, err := Dense(Xc, yc, w, opt); err != nil {
		t.Fatalf("Dense: %v", err)
	}
	// S(x^T y, l1Reg) / normSq = S(2, 0.3)/2 = 1.7/2 = 0.85
	want := 0.85
	if diff := math.Abs(w[0] - want); diff > 1e-6 {
		t.Errorf("w[0] = %.6f, want %.6f", w[0], want)
	}
}

// TestDenseKKT checks the KKT-condition invariant (testable property 1):
// for nonzero coordinates, |X^T r / n - (1-l1Ratio)*alpha*w_j| <= l1Ratio*alpha.
func TestDenseKKT(t *testing.T) {
	n := 50
	p := 5
	X := mat.NewDense(n, p, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, math.Sin(float64(i*p+j)))
		}
		y[i] = float64(i%7) - 3
	}
	alpha, l1Ratio := 0.2, 0.7
	nf := float64(n)
	opt := Options{L1Reg: alpha * l1Ratio * nf, L2Reg: alpha * (1 - l1Ratio) * nf, Tol: 1e-10, MaxIter: 5000}
	w := make([]float64, p)
	res, err := Dense(X, y, w, opt)
	if err != nil {
		t.Fatalf("Dense: %v", err)
	}
	if !res.Converged {
		t.Fatalf("did not converge: gap=%g eps=%g", res.Gap, res.EpsThreshold)
	}

	r := make([]float64, n)
	copy(r, y)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, X)
		floats.AddScaled(r, -w[j], col)
	}
	slack := 10 * opt.Tol * floats.Dot(y, y) / nf
	for j := 0; j < p; j++ {
		if w[j] == 0 {
			continue
		}
		col := mat.Col(nil, j, X)
		grad := floats.Dot(col, r)/nf - (1-l1Ratio)*alpha*w[j]
		if math.Abs(grad) > l1Ratio*alpha+slack {
			t.Errorf("KKT violated at j=%d: |grad|=%g > l1Ratio*alpha+slack=%g", j, math.Abs(grad), l1Ratio*alpha+slack)
		}
	}
}

// TestDensePositive checks the positive-constraint invariant (testable
// property 7): every coefficient is >= 0 when Positive is set.
func TestDensePositive(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, -1, 2, -2, 3, 1, 4, 2})
	y := []float64{-1, -2, 4, 6}
	w := make([]float64, 2)
	opt := Options{L1Reg: 0.1, L2Reg: 0, Tol: 1e-10, MaxIter: 5000, Positive: true}
	if _, err := Dense(X, y, w, opt); err != nil {
		t.Fatalf("Dense: %v", err)
	}
	for j, v := range w {
		if v < 0 {
			t.Errorf("w[%d] = %g, want >= 0", j, v)
		}
	}
}

// TestDenseZeroNormColumn checks that a constant (zero-variance)
// column is pinned to zero, per spec.md §4.1.
func TestDenseZeroNormColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{0, 0, 0})
	y := []float64{1, 2, 3}
	w := []float64{0}
	opt := Options{L1Reg: 0.1, Tol: 1e-10, MaxIter: 100}
	if _, err := Dense(X, y, w, opt); err != nil {
		t.Fatalf("Dense: %v", err)
	}
	if w[0] != 0 {
		t.Errorf("w[0] = %g, want 0", w[0])
	}
}
