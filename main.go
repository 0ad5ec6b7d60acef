package main

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/joker0x5F5F/enet/linear"
)

func main() {
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		1, 0.5,
		2, 1,
		3, 2.5,
		4, 3,
		5, 4.5,
	})
	y := []float64{0.2, 1.1, 2.3, 4.8, 5.1, 8.4}

	lasso, err := linear.NewLasso(linear.Config{Alpha: 0.1, FitIntercept: true, Tol: 1e-6, MaxIter: 1000})
	if err != nil {
		panic(err)
	}
	if err := lasso.Fit(X, y); err != nil {
		panic(err)
	}
	fmt.Println("Lasso coef:", lasso.Coef())
	fmt.Println("Lasso intercept:", lasso.Intercept())

	cvModel, err := linear.NewElasticNetCV(linear.CVConfig{
		L1Ratios: []float64{0.1, 0.5, 0.9, 1.0}, NAlphas: 20,
		FitIntercept: true, NFolds: 3, NJobs: 2,
	})
	if err != nil {
		panic(err)
	}
	if err := cvModel.Fit(context.Background(), X, y); err != nil {
		panic(err)
	}
	fmt.Println("ElasticNetCV alpha:", cvModel.Alpha)
	fmt.Println("ElasticNetCV l1Ratio:", cvModel.L1Ratio)
	fmt.Println("ElasticNetCV coef:", cvModel.Coef)
}
