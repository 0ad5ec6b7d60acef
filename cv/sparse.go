package cv

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/joker0x5F5F/enet/design"
	"github.com/joker0x5F5F/enet/enetErr"
	"github.com/joker0x5F5F/enet/enetpath"
	"github.com/joker0x5F5F/enet/kernel"
	"github.com/joker0x5F5F/enet/prefit"
)

type sparseJob struct {
	l1Idx, foldIdx int
	l1Ratio        float64
	alphas         []float64
	fold           design.Fold
}

// FitSparse is the compressed-sparse-column counterpart of Fit: the
// alpha grid, fold split, argmin selection, and final refit are
// identical, but every prefit/path step runs against a *design.CSC and
// never densifies X, per spec.md §6's "CSC sparse for mono-task" input
// contract.
func FitSparse(ctx context.Context, X *design.CSC, y []float64, opt Options) (*Result, error) {
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

	full, err := prefit.PrepareSparse(X, y, prefit.Options{FitIntercept: opt.FitIntercept, Normalize: opt.Normalize})
	if err != nil {
		return nil, err
	}
	xyRows := make([][]float64, p)
	for j := 0; j < p; j++ {
		xyRows[j] = []float64{full.Xy[j]}
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

	mse := make([][][]float64, len(opt.L1Ratios))
	for li := range mse {
		mse[li] = make([][]float64, opt.NFolds)
	}

	var jobs []sparseJob
	for li, l1r := range opt.L1Ratios {
		for fi, f := range folds {
			jobs = append(jobs, sparseJob{l1Idx: li, foldIdx: fi, l1Ratio: l1r, alphas: alphaGrids[li], fold: f})
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
			result, err := runSparseFoldJob(X, y, jb, opt)
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

	fullPrep, err := prefit.PrepareSparse(X, y, prefit.Options{FitIntercept: opt.FitIntercept, Normalize: opt.Normalize})
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

func runSparseFoldJob(X *design.CSC, y []float64, jb sparseJob, opt Options) ([]float64, error) {
	xTrain := design.SparseRowSubset(X, jb.fold.Train)
	yTrain := design.VecSubset(y, jb.fold.Train)
	xTest := design.SparseRowSubset(X, jb.fold.Test)
	yTest := design.VecSubset(y, jb.fold.Test)

	prep, err := prefit.PrepareSparse(xTrain, yTrain, prefit.Options{
		FitIntercept: opt.FitIntercept, Normalize: opt.Normalize,
	})
	if err != nil {
		return nil, err
	}

	kopt := kernel.Options{Tol: opt.Tol, MaxIter: opt.MaxIter, Positive: opt.Positive}
	pr, err := enetpath.Path(prep.X, prep.YCentered, jb.alphas, jb.l1Ratio, nil, kopt)
	if err != nil {
		return nil, err
	}

	testRows := design.CSCToDenseRows(xTest)

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
