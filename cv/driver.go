// Package cv implements the cross-validation driver (C5): for every
// (l1_ratio, fold) pair it pre-fits on the training slice, runs the
// path engine, scores mean-squared error on the held-out slice, then
// aggregates across folds and selects the argmin hyperparameters.
//
// The outer fan-out uses golang.org/x/sync/errgroup's bounded worker
// pool rather than a hand-rolled sync.WaitGroup + channel semaphore —
// x/sync is already a direct dependency declared (but unused) in the
// teacher's own go.mod, and errgroup.Group.SetLimit is the idiomatic
// successor to the teacher's surd.processVariables pattern (bounded
// fan-out, collect, fail on the first error).
package cv

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/enetErr"
	"github.com/joker0x5F5F/enet/enetpath"
	"github.com/joker0x5F5F/enet/kernel"
	"github.com/joker0x5F5F/enet/prefit"
)

// Options holds the hyperparameters a CV driver sweeps plus the path
// parameters forwarded to every fold's fit.
type Options struct {
	L1Ratios     []float64
	NAlphas      int
	Eps          float64
	FitIntercept bool
	Normalize    bool
	Positive     bool
	Tol          float64
	MaxIter      int
	NFolds       int
	NJobs        int // bounded pool size; <=0 means unbounded (one goroutine per job)
}

// Result is the CV artifact of spec.md §3/§4.5.
type Result struct {
	Alphas       [][]float64   // one grid per l1Ratio
	MSEPath      [][][]float64 // MSEPath[l1Idx][fold][alphaIdx]
	MeanMSE      [][]float64   // MeanMSE[l1Idx][alphaIdx]
	BestL1Idx    int
	BestAlphaIdx int
	Alpha        float64
	L1Ratio      float64
	Coef         []float64
	Intercept    float64
	DualGap      float64
	NIter        int
}

type job struct {
	l1Idx, foldIdx int
	l1Ratio        float64
	alphas         []float64
	fold           design.Fold
}

// Fit runs the full cross-validation sweep of spec.md §4.5 and refits
// once on the full data with the selected hyperparameters.
func Fit(ctx context.Context, X *mat.Dense, y []float64, opt Options) (*Result, error) {
	n, p := X.Dims()
	if len(y) != n {
		return nil, enetErr.New(enetErr.InvalidShape, "y has %d samples, X has %d", len(y), n)
	}
	if len(opt.L1Ratios) == 0 {
		return nil, enetErr.New(enetErr.InvalidParameter, "at least one l1Ratio is required")
	}
	if opt.NFolds < 2 {
		return nil, enetErr.New(enetErr.InvalidParameter, "nFolds must be >= 2, got %d", opt.NFolds)
	}

	// Step 1: one alpha grid per l1Ratio, built on the FULL data so
	// every fold evaluates at identical alpha values.
	full, err := prefit.Prepare(X, y, prefit.Options{FitIntercept: opt.FitIntercept, Normalize: opt.Normalize, Precompute: prefit.Always, Copy: true})
	if err != nil {
		return nil, err
	}
	gram := full.X.(design.Gram)
	xyRows := make([][]float64, p)
	for j := 0; j < p; j++ {
		xyRows[j] = []float64{gram.Xy.At(j, 0)}
	}

	alphaGrids := make([][]float64, len(opt.L1Ratios))
	for li, l1r := range opt.L1Ratios {
		grid, err := enetpath.Grid(xyRows, n, l1r, opt.Eps, opt.NAlphas)
		if err != nil {
			return nil, (&enetErr.Error{Kind: enetErr.InvalidParameter, Msg: err.Error()}).With(fmt.Sprintf("l1_ratio[%d]", li))
		}
		alphaGrids[li] = grid
	}

	folds := design.KFold(n, opt.NFolds)

	// Step 2/3: enumerate l1Ratios x folds and run bounded in parallel.
	// Results land at fixed indices in a pre-sized slab, so ordering
	// between concurrent jobs never matters (spec.md §5's "ordering
	// guarantee").
	mse := make([][][]float64, len(opt.L1Ratios))
	for li := range mse {
		mse[li] = make([][]float64, opt.NFolds)
	}

	var jobs []job
	for li, l1r := range opt.L1Ratios {
		for fi, f := range folds {
			jobs = append(jobs, job{l1Idx: li, foldIdx: fi, l1Ratio: l1r, alphas: alphaGrids[li], fold: f})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if opt.NJobs > 0 {
		g.SetLimit(opt.NJobs)
	}
	for _, jb := range jobs {
		jb := jb
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			result, err := runFoldJob(X, y, jb, opt)
			if err != nil {
				if e, ok := err.(*enetErr.Error); ok {
					return e.With(fmt.Sprintf("l1_ratio[%d]", jb.l1Idx)).With(fmt.Sprintf("fold[%d]", jb.foldIdx))
				}
				return err
			}
			mse[jb.l1Idx][jb.foldIdx] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Step 4: reshape, mean over folds, argmin over (l1Ratio, alpha).
	meanMSE := make([][]float64, len(opt.L1Ratios))
	bestL1, bestAlpha := 0, 0
	bestMSE := math.Inf(1)
	for li := range opt.L1Ratios {
		nAlphas := len(alphaGrids[li])
		meanMSE[li] = make([]float64, nAlphas)
		for ai := 0; ai < nAlphas; ai++ {
			sum := 0.0
			for fi := 0; fi < opt.NFolds; fi++ {
				sum += mse[li][fi][ai]
			}
			m := sum / float64(opt.NFolds)
			meanMSE[li][ai] = m
			if m < bestMSE {
				bestMSE = m
				bestL1, bestAlpha = li, ai
			}
		}
	}

	res := &Result{
		Alphas:       alphaGrids,
		MSEPath:      mse,
		MeanMSE:      meanMSE,
		BestL1Idx:    bestL1,
		BestAlphaIdx: bestAlpha,
		Alpha:        alphaGrids[bestL1][bestAlpha],
		L1Ratio:      opt.L1Ratios[bestL1],
	}

	// Step 5: refit once on the full data with the selected
	// hyperparameters.
	fullPrep, err := prefit.Prepare(X, y, prefit.Options{FitIntercept: opt.FitIntercept, Normalize: opt.Normalize, Precompute: prefit.Never, Copy: true})
	if err != nil {
		return nil, err
	}
	kopt := kernel.Options{Tol: opt.Tol, MaxIter: opt.MaxIter, Positive: opt.Positive}
	pr, err := enetpath.Path(fullPrep.X, fullPrep.YCentered, []float64{res.Alpha}, res.L1Ratio, nil, kopt)
	if err != nil {
		return nil, err
	}
	res.Coef = pr.Coefs[0]
	res.DualGap = pr.Gaps[0]
	res.NIter = pr.NIters[0]
	res.Intercept = design.Intercept(fullPrep.YMean, fullPrep.XMean, fullPrep.XStd, res.Coef)

	return res, nil
}

// runFoldJob pre-fits on the training slice (never leaking test
// statistics into centering), runs the path, and computes per-alpha
// test-set MSE after undoing normalization on the coefficients.
func runFoldJob(X *mat.Dense, y []float64, jb job, opt Options) ([]float64, error) {
	xTrain := design.RowSubset(X, jb.fold.Train)
	yTrain := design.VecSubset(y, jb.fold.Train)
	xTest := design.RowSubset(X, jb.fold.Test)
	yTest := design.VecSubset(y, jb.fold.Test)

	prep, err := prefit.Prepare(xTrain, yTrain, prefit.Options{
		FitIntercept: opt.FitIntercept, Normalize: opt.Normalize, Precompute: prefit.Auto, Copy: true,
	})
	if err != nil {
		return nil, err
	}

	kopt := kernel.Options{Tol: opt.Tol, MaxIter: opt.MaxIter, Positive: opt.Positive}
	pr, err := enetpath.Path(prep.X, prep.YCentered, jb.alphas, jb.l1Ratio, nil, kopt)
	if err != nil {
		return nil, err
	}

	nTest, _ := xTest.Dims()
	testRows := make([][]float64, nTest)
	for i := 0; i < nTest; i++ {
		testRows[i] = mat.Row(nil, i, xTest)
	}

	mseByAlpha := make([]float64, len(jb.alphas))
	for ai, w := range pr.Coefs {
		intercept := design.Intercept(prep.YMean, prep.XMean, prep.XStd, w)
		pred := design.Predict(testRows, w, prep.XStd, intercept)
		sum := 0.0
		for i := range pred {
			d := yTest[i] - pred[i]
			sum += d * d
		}
		mseByAlpha[ai] = sum / float64(len(yTest))
	}
	return mseByAlpha, nil
}
