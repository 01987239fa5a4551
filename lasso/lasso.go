// Package lasso fits L1-regularized linear models by cyclic coordinate
// descent, with k-fold cross-validation to choose the penalty.
package lasso

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	maxIter = 1000
	tol     = 1e-7
)

// Model holds a fitted lasso regression.
type Model struct {
	Intercept float64
	Coef      []float64
	Lambda    float64
}

// Fit runs cyclic coordinate descent at penalty lambda.  Columns of x are
// standardized internally and the coefficients mapped back to the original
// scale; the intercept is not penalized.  Constant columns get a zero
// coefficient.
func Fit(x *mat.Dense, y []float64, lambda float64) (*Model, error) {
	n, p := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("x has %d rows, y has %d", n, len(y))
	}

	if n == 0 {
		return nil, fmt.Errorf("no rows to fit")
	}

	if lambda < 0 {
		return nil, fmt.Errorf("negative penalty")
	}

	xs, xMean, xSD, yc, yMean, e := standardize(x, y)
	if e != nil {
		return nil, e
	}

	// residual starts at centered y; b is on the standardized scale
	b := make([]float64, p)
	r := make([]float64, n)
	copy(r, yc)

	col := make([]float64, n)
	for iter := 0; iter < maxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < p; j++ {
			if xSD[j] == 0 {
				continue
			}

			mat.Col(col, j, xs)

			// rho is the partial correlation with b_j added back
			rho := floats.Dot(col, r)/float64(n) + b[j]
			bNew := softThreshold(rho, lambda)

			if delta := bNew - b[j]; delta != 0 {
				floats.AddScaled(r, -delta, col)
				b[j] = bNew
				if ad := math.Abs(delta); ad > maxDelta {
					maxDelta = ad
				}
			}
		}

		if maxDelta < tol {
			break
		}
	}

	// back to the original scale
	coef := make([]float64, p)
	intercept := yMean
	for j := 0; j < p; j++ {
		if xSD[j] == 0 {
			continue
		}

		coef[j] = b[j] / xSD[j]
		intercept -= coef[j] * xMean[j]
	}

	return &Model{Intercept: intercept, Coef: coef, Lambda: lambda}, nil
}

// Predict applies the model to the rows of x.
func (m *Model) Predict(x *mat.Dense) []float64 {
	n, p := x.Dims()
	pred := make([]float64, n)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		pred[i] = m.Intercept + floats.Dot(row, m.Coef)
	}

	return pred
}

// Path builds a geometric grid of nLambda penalties from the smallest value
// that zeroes every coefficient down nLambda steps to eps times that value,
// largest first.
func Path(x *mat.Dense, y []float64, nLambda int, eps float64) ([]float64, error) {
	n, p := x.Dims()
	if n == 0 || p == 0 {
		return nil, fmt.Errorf("empty design matrix")
	}

	xs, _, xSD, yc, _, e := standardize(x, y)
	if e != nil {
		return nil, e
	}

	lambdaMax := 0.0
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		if xSD[j] == 0 {
			continue
		}

		mat.Col(col, j, xs)
		if g := math.Abs(floats.Dot(col, yc)) / float64(n); g > lambdaMax {
			lambdaMax = g
		}
	}

	if lambdaMax == 0 {
		return nil, fmt.Errorf("degenerate design: all columns constant")
	}

	lambdas := make([]float64, nLambda)
	ratio := math.Pow(eps, 1.0/float64(nLambda-1))
	l := lambdaMax
	for ind := 0; ind < nLambda; ind++ {
		lambdas[ind] = l
		l *= ratio
	}

	return lambdas, nil
}

// RMSE is the root-mean-squared-error between pred and actual.
func RMSE(pred, actual []float64) float64 {
	if len(pred) != len(actual) || len(pred) == 0 {
		return math.NaN()
	}

	ss := 0.0
	for ind := 0; ind < len(pred); ind++ {
		d := pred[ind] - actual[ind]
		ss += d * d
	}

	return math.Sqrt(ss / float64(len(pred)))
}

func softThreshold(z, gamma float64) float64 {
	switch {
	case z > gamma:
		return z - gamma
	case z < -gamma:
		return z + gamma
	default:
		return 0
	}
}

// standardize centers y and centers/scales the columns of x using the
// population standard deviation.  Fails on non-finite values.
func standardize(x *mat.Dense, y []float64) (xs *mat.Dense, xMean, xSD, yc []float64, yMean float64, err error) {
	n, p := x.Dims()

	for _, yv := range y {
		if math.IsNaN(yv) || math.IsInf(yv, 0) {
			return nil, nil, nil, nil, 0, fmt.Errorf("non-finite value in response")
		}
	}

	yMean = stat.Mean(y, nil)
	yc = make([]float64, n)
	for ind := 0; ind < n; ind++ {
		yc[ind] = y[ind] - yMean
	}

	xs = mat.NewDense(n, p, nil)
	xMean = make([]float64, p)
	xSD = make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, x)
		for _, xv := range col {
			if math.IsNaN(xv) || math.IsInf(xv, 0) {
				return nil, nil, nil, nil, 0, fmt.Errorf("non-finite value in column %d", j)
			}
		}

		mn := stat.Mean(col, nil)
		ss := 0.0
		for _, xv := range col {
			d := xv - mn
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(n))

		xMean[j], xSD[j] = mn, sd
		for i := 0; i < n; i++ {
			if sd == 0 {
				xs.Set(i, j, 0)
				continue
			}

			xs.Set(i, j, (col[i]-mn)/sd)
		}
	}

	return xs, xMean, xSD, yc, yMean, nil
}
