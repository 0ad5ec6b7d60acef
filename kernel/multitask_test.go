package kernel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestMultiTaskBlockSparsity checks testable property 8: every row of W
// is either all zero or strictly nonzero — no mixed-zero rows.
func TestMultiTaskBlockSparsity(t *testing.T) {
	n, p, tcount := 30, 5, 3
	X := mat.NewDense(n, p, nil)
	Y := mat.NewDense(n, tcount, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, math.Sin(float64(i*p+j))*float64(j+1))
		}
		for k := 0; k < tcount; k++ {
			Y.Set(i, k, float64((i+k)%4)-1.5)
		}
	}
	alpha, l1Ratio := 0.3, 0.6
	nf := float64(n)
	opt := Options{L1Reg: alpha * l1Ratio * nf, L2Reg: alpha * (1 - l1Ratio) * nf, Tol: 1e-10, MaxIter: 5000}
	W := mat.NewDense(p, tcount, nil)
	res, err := MultiTask(X, Y, W, opt)
	if err != nil {
		t.Fatalf("MultiTask: %v", err)
	}
	if !res.Converged {
		t.Fatalf("did not converge: gap=%g eps=%g", res.Gap, res.EpsThreshold)
	}

	for j := 0; j < p; j++ {
		row := mat.Row(nil, j, W)
		nz := 0
		for _, v := range row {
			if v != 0 {
				nz++
			}
		}
		if nz != 0 && nz != tcount {
			t.Errorf("row %d has mixed zero/nonzero entries: %v", j, row)
		}
	}
}

// TestMultiTaskRejectsPositive checks that positive=true is rejected
// for the multi-task kernel, per spec.md §4.1.
func TestMultiTaskRejectsPositive(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})
	Y := mat.NewDense(2, 1, []float64{1, 2})
	W := mat.NewDense(1, 1, nil)
	_, err := MultiTask(X, Y, W, Options{Positive: true, Tol: 1e-6, MaxIter: 10})
	if err == nil {
		t.Fatal("expected an error for positive=true on the multi-task kernel")
	}
}

// TestMultiTaskScenarioS3 matches spec.md S3 qualitatively: a simple
// perfectly-correlated multi-task problem should produce equal weights
// across tasks.
func TestMultiTaskScenarioS3(t *testing.T) {
	// X and Y both [[0,0],[1,1],[2,2]], centered: x=[-1,0,1], y task
	// columns identical to x after centering.
	X := mat.NewDense(3, 1, []float64{-1, 0, 1})
	Y := mat.NewDense(3, 2, []float64{-1, -1, 0, 0, 1, 1})
	W := mat.NewDense(1, 2, nil)
	alpha, l1Ratio := 0.1, 0.5
	nf := 3.0
	opt := Options{L1Reg: alpha * l1Ratio * nf, L2Reg: alpha * (1 - l1Ratio) * nf, Tol: 1e-10, MaxIter: 5000}
	if _, err := MultiTask(X, Y, W, opt); err != nil {
		t.Fatalf("MultiTask: %v", err)
	}
	row := mat.Row(nil, 0, W)
	if diff := math.Abs(row[0] - row[1]); diff > 1e-9 {
		t.Errorf("expected equal weights across tasks, got %v", row)
	}
}
