package kernel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/design"
)

// TestGramMatchesDense checks Gram equivalence (testable property 5):
// the dense kernel and the Gram kernel must agree to within 10*tol when
// run on identical data.
func TestGramMatchesDense(t *testing.T) {
	n, p := 40, 6
	X := mat.NewDense(n, p, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, math.Cos(float64(i+1))*float64(j+1)-float64(j))
		}
		y[i] = float64(i%5) - 2 + 0.3*float64(i)
	}

	tol := 1e-10
	alpha, l1Ratio := 0.15, 0.5
	nf := float64(n)
	opt := Options{L1Reg: alpha * l1Ratio * nf, L2Reg: alpha * (1 - l1Ratio) * nf, Tol: tol, MaxIter: 5000}

	wDense := make([]float64, p)
	if _, err := Dense(X, y, wDense, opt); err != nil {
		t.Fatalf("Dense: %v", err)
	}

	var G mat.Dense
	G.Mul(X.T(), X)
	var sym mat.SymDense
	sym.SymOuterK(1, X.T())
	var xy mat.Dense
	xy.Mul(X.T(), mat.NewDense(n, 1, y))
	g := design.Gram{G: &sym, Xy: &xy, YNormSq: floats.Dot(y, y), NSamples: n}

	wGram := make([]float64, p)
	if _, err := Gram(g, wGram, opt); err != nil {
		t.Fatalf("Gram: %v", err)
	}

	for j := 0; j < p; j++ {
		if diff := math.Abs(wDense[j] - wGram[j]); diff > 10*tol {
			t.Errorf("coef %d: dense=%.10f gram=%.10f diff=%.2e", j, wDense[j], wGram[j], diff)
		}
	}
}
