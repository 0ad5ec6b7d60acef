package cv

import (
	"context"
	"testing"

	"github.com/joker0x5F5F/enet/design"
)

// sparseSynthetic builds a mostly-sparse CSC design matrix with a
// noise-free linear relationship, mirroring synthetic() in
// driver_test.go but in CSC form.
func sparseSynthetic(n int) (*design.CSC, []float64) {
	p := 3
	csc := &design.CSC{ColPtr: make([]int, p+1), NSamples: n}
	cols := make([][]float64, p)
	for j := range cols {
		cols[j] = make([]float64, n)
	}
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x0 := float64(i % 7)
		x1 := 0.0
		if i%3 == 0 {
			x1 = float64((i * 3) % 11)
		}
		cols[0][i] = x0
		cols[1][i] = x1
		y[i] = 3*x0 - 2*x1
	}
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			if v := cols[j][i]; v != 0 {
				csc.Data = append(csc.Data, v)
				csc.RowIndices = append(csc.RowIndices, i)
			}
		}
		csc.ColPtr[j+1] = len(csc.Data)
	}
	return csc, y
}

func TestFitSparseRecoversReasonableFit(t *testing.T) {
	X, y := sparseSynthetic(60)
	opt := Options{
		L1Ratios:     []float64{0.2, 0.8},
		NAlphas:      8,
		Eps:          1e-2,
		FitIntercept: true,
		Tol:          1e-7,
		MaxIter:      1000,
		NFolds:       4,
		NJobs:        3,
	}
	res, err := FitSparse(context.Background(), X, y, opt)
	if err != nil {
		t.Fatalf("FitSparse: %v", err)
	}
	if len(res.Coef) != 3 {
		t.Fatalf("expected 3 coefficients, got %d", len(res.Coef))
	}
}

func TestFitSparseDeterministic(t *testing.T) {
	X, y := sparseSynthetic(40)
	opt := Options{
		L1Ratios:     []float64{0.3, 0.7},
		NAlphas:      6,
		Eps:          1e-2,
		FitIntercept: true,
		Tol:          1e-7,
		MaxIter:      500,
		NFolds:       4,
		NJobs:        2,
	}
	r1, err := FitSparse(context.Background(), X, y, opt)
	if err != nil {
		t.Fatalf("FitSparse run 1: %v", err)
	}
	r2, err := FitSparse(context.Background(), X, y, opt)
	if err != nil {
		t.Fatalf("FitSparse run 2: %v", err)
	}
	if r1.Alpha != r2.Alpha || r1.L1Ratio != r2.L1Ratio {
		t.Fatalf("non-deterministic selection: (%v,%v) vs (%v,%v)", r1.Alpha, r1.L1Ratio, r2.Alpha, r2.L1Ratio)
	}
	for i := range r1.Coef {
		if r1.Coef[i] != r2.Coef[i] {
			t.Fatalf("non-deterministic coef[%d]: %v vs %v", i, r1.Coef[i], r2.Coef[i])
		}
	}
}
