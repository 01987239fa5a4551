package pipeline

import (
	"log"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/invertedv/aqmort"
)

// Covariates are the base modeling columns taken from the merged table,
// in addition to the state indicator.
var Covariates = []string{ColMaxAQI, ColDaysPM25, ColDaysOzone, ColDaysNO2,
	ColDaysCO, ColMedianAQI, ColPovertyRate}

// EvalFraction is the share of rows held out for evaluation.
const EvalFraction = 0.10

// ModelData is a design matrix over the expanded (base + pairwise
// interaction) feature space, with the log1p target and the raw rate.
type ModelData struct {
	Names   []string
	X       *mat.Dense
	LogRate []float64
	Rate    []float64
}

// Rows returns the number of rows in the design matrix.
func (md *ModelData) Rows() int {
	n, _ := md.X.Dims()
	return n
}

// BuildFeatures selects the modeling columns from the merged table, drops
// rows with any missing covariate (non-fatal; dropped reports how many),
// derives logRate = log1p(suicideRate), expands the base covariates (state
// dummy included) with every pairwise product, and splits the rows into
// training and evaluation subsets with a seeded shuffle.  The split is
// disjoint, covers every surviving row, and is reproducible for a seed.
func BuildFeatures(df *aqmort.DF, seed int64) (train, eval *ModelData, dropped int, err error) {
	for _, c := range append([]string{ColState, ColSuicideRate}, Covariates...) {
		if df.Column(c) == nil {
			return nil, nil, 0, &FormatError{Source: "merged", Field: c}
		}
	}

	numeric := make([][]float64, len(Covariates))
	for ind, c := range Covariates {
		if numeric[ind], err = df.Column(c).Data().AsFloat(); err != nil {
			return nil, nil, 0, err
		}
	}

	states, _ := df.Column(ColState).Data().AsString()
	rate, e1 := df.Column(ColSuicideRate).Data().AsFloat()
	if e1 != nil {
		return nil, nil, 0, e1
	}

	// drop rows with a missing covariate or target
	var keep []int
	for row := 0; row < df.RowCount(); row++ {
		bad := ""
		if math.IsNaN(rate[row]) || math.IsInf(rate[row], 0) {
			bad = ColSuicideRate
		}

		for ci, col := range numeric {
			if bad != "" {
				break
			}

			if math.IsNaN(col[row]) || math.IsInf(col[row], 0) {
				bad = Covariates[ci]
			}
		}

		if bad != "" {
			dropped++
			log.Printf("dropping row: %v", &MissingDataError{Row: row, Field: bad})
			continue
		}

		keep = append(keep, row)
	}

	n := len(keep)
	if n < 2 {
		return nil, nil, dropped, &InsufficientDataError{Rows: n}
	}

	// base feature columns: numerics then state dummies
	names := append([]string{}, Covariates...)
	base := make([][]float64, len(Covariates))
	for ind, col := range numeric {
		base[ind] = make([]float64, n)
		for r, row := range keep {
			base[ind][r] = col[row]
		}
	}

	for _, level := range dummyLevels(states, keep) {
		d := make([]float64, n)
		for r, row := range keep {
			if states[row] == level {
				d[r] = 1
			}
		}

		names = append(names, ColState+level)
		base = append(base, d)
	}

	// pairwise interactions over the base set
	k := len(base)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			prod := make([]float64, n)
			for r := 0; r < n; r++ {
				prod[r] = base[i][r] * base[j][r]
			}

			names = append(names, names[i]+":"+names[j])
			base = append(base, prod)
		}
	}

	logRate := make([]float64, n)
	rawRate := make([]float64, n)
	for r, row := range keep {
		logRate[r] = math.Log1p(rate[row])
		rawRate[r] = rate[row]
	}

	trainRows, evalRows := splitRows(n, EvalFraction, seed)

	train = gather(names, base, logRate, rawRate, trainRows)
	eval = gather(names, base, logRate, rawRate, evalRows)

	return train, eval, dropped, nil
}

// splitRows draws floor(n*frac) evaluation rows (at least one) uniformly
// without replacement; the rest train.  Both come back in ascending order.
func splitRows(n int, frac float64, seed int64) (trainRows, evalRows []int) {
	nEval := int(float64(n) * frac)
	if nEval == 0 {
		nEval = 1
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	evalRows = append(evalRows, perm[:nEval]...)
	trainRows = append(trainRows, perm[nEval:]...)
	sort.Ints(evalRows)
	sort.Ints(trainRows)

	return trainRows, evalRows
}

// dummyLevels returns the state levels that get an indicator column: the
// distinct states among the kept rows, sorted, minus the first (reference)
// level.
func dummyLevels(states []string, keep []int) []string {
	seen := make(map[string]bool)
	for _, row := range keep {
		seen[states[row]] = true
	}

	var levels []string
	for level := range seen {
		levels = append(levels, level)
	}

	sort.Strings(levels)

	if len(levels) < 2 {
		return nil
	}

	return levels[1:]
}

func gather(names []string, cols [][]float64, logRate, rate []float64, rows []int) *ModelData {
	x := mat.NewDense(len(rows), len(cols), nil)
	for j, col := range cols {
		for i, row := range rows {
			x.Set(i, j, col[row])
		}
	}

	md := &ModelData{
		Names:   append([]string{}, names...),
		X:       x,
		LogRate: make([]float64, len(rows)),
		Rate:    make([]float64, len(rows)),
	}

	for i, row := range rows {
		md.LogRate[i] = logRate[row]
		md.Rate[i] = rate[row]
	}

	return md
}
