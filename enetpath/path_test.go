package enetpath

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/kernel"
)

func buildS1() (*mat.Dense, []float64) {
	// spec.md S1: X = [[1,2,3.1],[2.3,5.4,4.3]]^T -> 3 samples, 2 features.
	X := mat.NewDense(3, 2, []float64{
		1, 2.3,
		2, 5.4,
		3.1, 4.3,
	})
	y := []float64{1, 2, 3.1}
	return X, y
}

// TestPathScenarioS1 checks spec.md scenario S1.
func TestPathScenarioS1(t *testing.T) {
	X, y := buildS1()
	alphas := []float64{5, 1, 0.5}
	opt := kernel.Options{Tol: 1e-10, MaxIter: 10000}
	res, err := Path(design.Dense{X: X}, y, alphas, 1.0, nil, opt)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}

	want := [][]float64{
		{0, 0.216},
		{0, 0.443},
		{0.469, 0.237},
	}
	for i := range alphas {
		for j := 0; j < 2; j++ {
			if diff := math.Abs(res.Coefs[i][j] - want[i][j]); diff > 5e-3 {
				t.Errorf("alpha=%v coef[%d] = %.4f, want %.4f (diff %.4f)", alphas[i], j, res.Coefs[i][j], want[i][j], diff)
			}
		}
	}
}

// TestPathWarmStartShortensWork checks scenario S5: warm-starting
// across the path strictly reduces the total iteration count versus
// resetting W to zero at every alpha.
func TestPathWarmStartShortensWork(t *testing.T) {
	X, y := buildS1()
	alphas := []float64{5, 1, 0.5, 0.2, 0.1, 0.05}
	opt := kernel.Options{Tol: 1e-9, MaxIter: 10000}

	warm, err := Path(design.Dense{X: X}, y, alphas, 1.0, nil, opt)
	if err != nil {
		t.Fatalf("Path (warm): %v", err)
	}
	warmTotal := sumInts(warm.NIters)

	coldTotal := 0
	for _, a := range alphas {
		w := make([]float64, 2)
		r, err := Path(design.Dense{X: X}, y, []float64{a}, 1.0, w, opt)
		if err != nil {
			t.Fatalf("Path (cold): %v", err)
		}
		coldTotal += r.NIters[0]
	}

	if warmTotal >= coldTotal {
		t.Errorf("warm-started total iterations (%d) not less than cold-started (%d)", warmTotal, coldTotal)
	}
}

// TestPathWarmStartIdempotent checks testable property 6: refitting
// with warm_start semantics (coefInit = previous W) and unchanged
// parameters must not move W by more than tol.
func TestPathWarmStartIdempotent(t *testing.T) {
	X, y := buildS1()
	opt := kernel.Options{Tol: 1e-10, MaxIter: 10000}
	first, err := Path(design.Dense{X: X}, y, []float64{0.5}, 1.0, nil, opt)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	second, err := Path(design.Dense{X: X}, y, []float64{0.5}, 1.0, first.Coefs[0], opt)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	for j := range first.Coefs[0] {
		if diff := math.Abs(first.Coefs[0][j] - second.Coefs[0][j]); diff > opt.Tol {
			t.Errorf("coef %d moved by %v on warm-started refit, want <= tol", j, diff)
		}
	}
}

func sumInts(v []int) int {
	s := 0
	for _, x := range v {
		s += x
	}
	return s
}

// TestPathRejectsNonDecreasingGrid checks the InvalidParameter guard.
func TestPathRejectsNonDecreasingGrid(t *testing.T) {
	X, y := buildS1()
	opt := kernel.Options{Tol: 1e-6, MaxIter: 100}
	if _, err := Path(design.Dense{X: X}, y, []float64{1, 2}, 1.0, nil, opt); err == nil {
		t.Error("expected error for a non-decreasing alpha grid")
	}
}
