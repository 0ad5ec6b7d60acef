package enetpath

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/kernel"
)

// TestGridDescending checks testable property 2: the grid is strictly
// decreasing and the dense kernel run at alpha[0] returns (near) zero
// coefficients.
func TestGridDescending(t *testing.T) {
	xy := [][]float64{{3.0}, {-5.0}, {1.0}}
	alphas, err := Grid(xy, 10, 1.0, 1e-3, 10)
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	for i := 1; i < len(alphas); i++ {
		if alphas[i] >= alphas[i-1] {
			t.Fatalf("grid not strictly decreasing at %d: %v >= %v", i, alphas[i], alphas[i-1])
		}
	}
	wantMax := 5.0 / (10 * 1.0)
	if diff := alphas[0] - wantMax; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("alpha_max = %v, want %v", alphas[0], wantMax)
	}

	// The kernel check uses its own data's grid: X^T y = -14 over 3
	// samples, so alpha_max = 14/3 and l1Reg at alpha_max is 14.
	X := mat.NewDense(3, 1, []float64{-1, 2, -1})
	y := []float64{3, -5, 1}
	kAlphas, err := Grid([][]float64{{-14}}, 3, 1.0, 1e-3, 10)
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	w := []float64{0}
	opt := kernel.Options{L1Reg: kAlphas[0] * 1.0 * 3, Tol: 1e-10, MaxIter: 100}
	if _, err := kernel.Dense(X, y, w, opt); err != nil {
		t.Fatalf("Dense: %v", err)
	}
	if w[0] > 1e-6 || w[0] < -1e-6 {
		t.Errorf("w[0] at alpha_max = %v, want ~0", w[0])
	}
}

// TestGridRejectsInvalidParams checks the InvalidParameter error kind.
func TestGridRejectsInvalidParams(t *testing.T) {
	if _, err := Grid([][]float64{{1}}, 10, 1.5, 1e-3, 5); err == nil {
		t.Error("expected error for l1Ratio > 1")
	}
	if _, err := Grid([][]float64{{1}}, 10, 1.0, 0, 5); err == nil {
		t.Error("expected error for eps <= 0")
	}
	if _, err := Grid([][]float64{{1}}, 10, 1.0, 1e-3, 0); err == nil {
		t.Error("expected error for nAlphas < 1")
	}
}
