package linear

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

// MultiTaskElasticNetCV mirrors ElasticNetCV's (l1Ratio x alpha x
// fold) sweep for the multi-task kernel. It does not route through
// cv.Fit, since that driver's fold job shape is mono-task
// (single-column y); the block kernel's Y is a full matrix and its
// MSE is averaged over every task's column rather than one scalar
// residual, so the per-job body differs enough to warrant its own
// copy of the same errgroup-bounded fan-out, rather than threading a
// type parameter through cv.Fit for one caller.
type MultiTaskElasticNetCV struct {
	Config CVConfig

	Coef      *mat.Dense
	Intercept []float64
	DualGap   float64
	NIter     int
	Alpha     float64
	L1Ratio   float64
}

func NewMultiTaskElasticNetCV(cfg CVConfig) (*MultiTaskElasticNetCV, error) {
	cfg = cfg.defaults()
	if len(cfg.L1Ratios) == 0 {
		return nil, enetErr.New(enetErr.InvalidParameter, "at least one l1Ratio is required")
	}
	return &MultiTaskElasticNetCV{Config: cfg}, nil
}

type mtJob struct {
	l1Idx, foldIdx int
	l1Ratio        float64
	alphas         []float64
	fold           design.Fold
}

func (m *MultiTaskElasticNetCV) Fit(ctx context.Context, X *mat.Dense, Y *mat.Dense) error {
	n, p := X.Dims()
	_, nTasks := Y.Dims()
	if rows, _ := Y.Dims(); rows != n {
		return enetErr.New(enetErr.InvalidShape, "Y has %d samples, X has %d", rows, n)
	}
	if m.Config.NFolds < 2 {
		return enetErr.New(enetErr.InvalidParameter, "nFolds must be >= 2, got %d", m.Config.NFolds)
	}

	full, err := prefit.PrepareMultiTask(X, Y, prefit.Options{FitIntercept: m.Config.FitIntercept, Copy: true})
	if err != nil {
		return err
	}
	fullX := full.X.(design.Dense).X
	var xy mat.Dense
	xy.Mul(fullX.T(), full.YMat)
	xyRows := make([][]float64, p)
	for j := 0; j < p; j++ {
		xyRows[j] = mat.Row(nil, j, &xy)
	}

	alphaGrids := make([][]float64, len(m.Config.L1Ratios))
	for li, l1r := range m.Config.L1Ratios {
		grid, err := enetpath.Grid(xyRows, n, l1r, m.Config.Eps, m.Config.NAlphas)
		if err != nil {
			return err
		}
		alphaGrids[li] = grid
	}

	folds := design.KFold(n, m.Config.NFolds)
	mse := make([][][]float64, len(m.Config.L1Ratios))
	for li := range mse {
		mse[li] = make([][]float64, m.Config.NFolds)
	}

	var jobs []mtJob
	for li, l1r := range m.Config.L1Ratios {
		for fi, f := range folds {
			jobs = append(jobs, mtJob{l1Idx: li, foldIdx: fi, l1Ratio: l1r, alphas: alphaGrids[li], fold: f})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if m.Config.NJobs > 0 {
		g.SetLimit(m.Config.NJobs)
	}
	for _, jb := range jobs {
		jb := jb
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			result, err := runMultiTaskFold(X, Y, jb, m.Config)
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
		return err
	}

	bestL1, bestAlpha := 0, 0
	bestMSE := math.Inf(1)
	for li := range m.Config.L1Ratios {
		for ai := range alphaGrids[li] {
			sum := 0.0
			for fi := 0; fi < m.Config.NFolds; fi++ {
				sum += mse[li][fi][ai]
			}
			avg := sum / float64(m.Config.NFolds)
			if avg < bestMSE {
				bestMSE = avg
				bestL1, bestAlpha = li, ai
			}
		}
	}
	m.Alpha = alphaGrids[bestL1][bestAlpha]
	m.L1Ratio = m.Config.L1Ratios[bestL1]

	kopt := kernel.Options{Tol: m.Config.Tol, MaxIter: m.Config.MaxIter}
	pr, err := enetpath.PathMultiTask(fullX, full.YMat, []float64{m.Alpha}, m.L1Ratio, nil, kopt)
	if err != nil {
		return err
	}
	m.Coef = pr.Coefs[0]
	m.DualGap = pr.Gaps[0]
	m.NIter = pr.NIters[0]

	pcoef, _ := m.Coef.Dims()
	m.Intercept = make([]float64, nTasks)
	for t := 0; t < nTasks; t++ {
		col := make([]float64, pcoef)
		for j := 0; j < pcoef; j++ {
			col[j] = m.Coef.At(j, t)
		}
		m.Intercept[t] = design.Intercept(full.YMeanVec[t], full.XMean, nil, col)
	}
	return nil
}

func runMultiTaskFold(X, Y *mat.Dense, jb mtJob, cfg CVConfig) ([]float64, error) {
	xTrain := design.RowSubset(X, jb.fold.Train)
	yTrain := design.RowSubset(Y, jb.fold.Train)
	xTest := design.RowSubset(X, jb.fold.Test)
	yTest := design.RowSubset(Y, jb.fold.Test)

	prep, err := prefit.PrepareMultiTask(xTrain, yTrain, prefit.Options{FitIntercept: cfg.FitIntercept, Copy: true})
	if err != nil {
		return nil, err
	}

	kopt := kernel.Options{Tol: cfg.Tol, MaxIter: cfg.MaxIter}
	pr, err := enetpath.PathMultiTask(prep.X.(design.Dense).X, prep.YMat, jb.alphas, jb.l1Ratio, nil, kopt)
	if err != nil {
		return nil, err
	}

	nTest, _ := xTest.Dims()
	_, nTasks := yTest.Dims()
	testRows := make([][]float64, nTest)
	for i := 0; i < nTest; i++ {
		testRows[i] = mat.Row(nil, i, xTest)
	}

	mseByAlpha := make([]float64, len(jb.alphas))
	for ai, W := range pr.Coefs {
		p, _ := W.Dims()
		sum := 0.0
		for t := 0; t < nTasks; t++ {
			col := make([]float64, p)
			for j := 0; j < p; j++ {
				col[j] = W.At(j, t)
			}
			intercept := design.Intercept(prep.YMeanVec[t], prep.XMean, nil, col)
			pred := design.Predict(testRows, col, nil, intercept)
			for i := 0; i < nTest; i++ {
				d := yTest.At(i, t) - pred[i]
				sum += d * d
			}
		}
		mseByAlpha[ai] = sum / float64(nTest*nTasks)
	}
	return mseByAlpha, nil
}

// MultiTaskLassoCV is MultiTaskElasticNetCV with L1Ratios forced to [1].
type MultiTaskLassoCV struct {
	inner *MultiTaskElasticNetCV
}

func NewMultiTaskLassoCV(cfg CVConfig) (*MultiTaskLassoCV, error) {
	cfg.L1Ratios = []float64{1}
	inner, err := NewMultiTaskElasticNetCV(cfg)
	if err != nil {
		return nil, err
	}
	return &MultiTaskLassoCV{inner: inner}, nil
}

func (m *MultiTaskLassoCV) Fit(ctx context.Context, X, Y *mat.Dense) error {
	return m.inner.Fit(ctx, X, Y)
}

func (m *MultiTaskLassoCV) Coef() *mat.Dense { return m.inner.Coef }
func (m *MultiTaskLassoCV) Alpha() float64   { return m.inner.Alpha }
