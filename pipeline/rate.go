package pipeline

import (
	"math"

	"github.com/invertedv/aqmort"
)

// perCapita is the rate scale: deaths per 100,000 residents.
const perCapita = 100000.0

// AddRate returns a new snapshot of df with a suicideRate column,
// deaths / population * 100000.  Rows whose rate comes out non-finite
// (zero or missing population) are excluded as data-quality defects rather
// than propagated; dropped reports how many.
func AddRate(df *aqmort.DF) (out *aqmort.DF, dropped int, err error) {
	deaths, e1 := df.Column(ColDeaths).Data().AsFloat()
	if e1 != nil {
		return nil, 0, e1
	}

	population, e2 := df.Column(ColPopulation).Data().AsFloat()
	if e2 != nil {
		return nil, 0, e2
	}

	var (
		keep []int
		rate []float64
	)
	for row := 0; row < df.RowCount(); row++ {
		r := deaths[row] / population[row] * perCapita
		if math.IsNaN(r) || math.IsInf(r, 0) {
			dropped++
			continue
		}

		keep = append(keep, row)
		rate = append(rate, r)
	}

	if out, err = df.Subset(keep); err != nil {
		return nil, 0, err
	}

	var (
		col *aqmort.Col
		e3  error
	)
	if col, e3 = aqmort.NewCol(rate, aqmort.ColName(ColSuicideRate)); e3 != nil {
		return nil, 0, e3
	}

	if e4 := out.AppendColumn(col, false); e4 != nil {
		return nil, 0, e4
	}

	return out, dropped, nil
}
