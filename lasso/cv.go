package lasso

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// InsufficientDataError reports that too few rows survive to cross-validate.
type InsufficientDataError struct {
	Rows  int
	Folds int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d rows for %d folds", e.Rows, e.Folds)
}

// Folds partitions 0..n-1 into k folds whose sizes differ by at most one.
// The assignment is a seeded shuffle followed by round-robin dealing, so it
// is reproducible for a given seed.
func Folds(n, k int, seed int64) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d", k)
	}

	if n < k {
		return nil, &InsufficientDataError{Rows: n, Folds: k}
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	folds := make([][]int, k)
	for ind, row := range perm {
		folds[ind%k] = append(folds[ind%k], row)
	}

	return folds, nil
}

// CrossValidate runs k-fold cross-validation of the lasso over lambdas.
// Each penalty is scored by its held-out RMSE within each fold, averaged
// across the k folds; the returned penalty is the literal minimizer of that
// curve, not the one-standard-error value.
func CrossValidate(x *mat.Dense, y []float64, lambdas []float64, k int, seed int64) (lambdaMin float64, cvRMSE []float64, err error) {
	n, p := x.Dims()

	var folds [][]int
	if folds, err = Folds(n, k, seed); err != nil {
		return 0, nil, err
	}

	cvRMSE = make([]float64, len(lambdas))
	for _, hold := range folds {
		trainRows := complement(n, hold)

		xTrain, yTrain := subset(x, y, trainRows, p)
		xHold, yHold := subset(x, y, hold, p)

		for li, lambda := range lambdas {
			var m *Model
			if m, err = Fit(xTrain, yTrain, lambda); err != nil {
				return 0, nil, err
			}

			cvRMSE[li] += RMSE(m.Predict(xHold), yHold) / float64(len(folds))
		}
	}

	best := 0
	for ind := 0; ind < len(lambdas); ind++ {
		if cvRMSE[ind] < cvRMSE[best] {
			best = ind
		}
	}

	return lambdas[best], cvRMSE, nil
}

func complement(n int, hold []int) []int {
	in := make([]bool, n)
	for _, h := range hold {
		in[h] = true
	}

	var out []int
	for ind := 0; ind < n; ind++ {
		if !in[ind] {
			out = append(out, ind)
		}
	}

	return out
}

func subset(x *mat.Dense, y []float64, rows []int, p int) (*mat.Dense, []float64) {
	xOut := mat.NewDense(len(rows), p, nil)
	yOut := make([]float64, len(rows))
	buf := make([]float64, p)
	for ind, r := range rows {
		mat.Row(buf, r, x)
		xOut.SetRow(ind, buf)
		yOut[ind] = y[r]
	}

	return xOut, yOut
}
