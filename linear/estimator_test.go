package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func approxSlice(t *testing.T, name string, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length mismatch got %d want %d", name, len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("%s[%d] = %v, want %v (tol %v)", name, i, got[i], want[i], tol)
		}
	}
}

// TestLassoScenarioS2 fits a single Lasso per spec.md's S2 scenario:
// X=[[0,0],[1,1],[2,2]], y=[0,1,2], alpha=0.1.
func TestLassoScenarioS2(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2})
	y := []float64{0, 1, 2}

	l, err := NewLasso(Config{Alpha: 0.1, FitIntercept: true, Tol: 1e-10, MaxIter: 10000})
	if err != nil {
		t.Fatalf("NewLasso: %v", err)
	}
	if err := l.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	approxSlice(t, "coef", l.Coef(), []float64{0.85, 0.0}, 5e-2)
	if math.Abs(l.Intercept()-0.15) > 5e-2 {
		t.Errorf("intercept = %v, want ~0.15", l.Intercept())
	}
}

// TestMultiTaskScenarioS3 fits a block elastic-net per spec.md's S3
// scenario: X=Y=[[0,0],[1,1],[2,2]], alpha=0.1, l1Ratio=0.5.
func TestMultiTaskScenarioS3(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2})
	Y := mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2})

	m, err := NewMultiTaskElasticNet(Config{Alpha: 0.1, L1Ratio: 0.5, FitIntercept: true, Tol: 1e-10, MaxIter: 10000})
	if err != nil {
		t.Fatalf("NewMultiTaskElasticNet: %v", err)
	}
	if err := m.Fit(X, Y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	p, nTasks := m.Coef.Dims()
	wantW := []float64{0.457, 0.456}
	for j := 0; j < p; j++ {
		for tcol := 0; tcol < nTasks; tcol++ {
			got := m.Coef.At(j, tcol)
			if math.Abs(got-wantW[tcol]) > 5e-2 {
				t.Errorf("W[%d][%d] = %v, want ~%v", j, tcol, got, wantW[tcol])
			}
		}
	}
	approxSlice(t, "intercept", m.Intercept, []float64{0.087, 0.087}, 5e-2)
}

// TestElasticNetPredictRoundTrip checks Predict reproduces y on a
// trivial, perfectly separable dataset when alpha is tiny.
func TestElasticNetPredictRoundTrip(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := []float64{1, 3, 5, 7} // y = 2x + 1

	en, err := NewElasticNet(Config{Alpha: 1e-6, L1Ratio: 0.5, FitIntercept: true, Tol: 1e-12, MaxIter: 10000})
	if err != nil {
		t.Fatalf("NewElasticNet: %v", err)
	}
	if err := en.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	pred, err := en.Predict(X)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	approxSlice(t, "pred", pred, y, 1e-2)
}

func TestNewElasticNetRejectsPositiveRidge(t *testing.T) {
	_, err := NewElasticNet(Config{Alpha: 1, L1Ratio: 0, Positive: true})
	if err == nil {
		t.Fatal("expected an error for positive=true with l1Ratio=0")
	}
}
