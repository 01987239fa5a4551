package pipeline

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/invertedv/aqmort"
)

// Presentation-only grouping columns.  Each function returns a new table
// snapshot; the input is never mutated.
const (
	ColPovertyGroup   = "povertyGroup"
	ColPollutionGroup = "pollutionGroup"
)

var plotColors = []string{"steelblue", "firebrick", "seagreen", "darkorange"}

// WithPovertyGroup returns a copy of df with a povertyGroup column splitting
// counties at the median poverty rate.
func WithPovertyGroup(df *aqmort.DF) (*aqmort.DF, error) {
	rates, e := df.Column(ColPovertyRate).Data().AsFloat()
	if e != nil {
		return nil, e
	}

	med := quantile(rates, 0.5)

	groups := make([]string, len(rates))
	for ind, r := range rates {
		groups[ind] = "below median"
		if r > med {
			groups[ind] = "above median"
		}
	}

	return withColumn(df, ColPovertyGroup, groups)
}

// WithPollutionGroup returns a copy of df with a pollutionGroup column
// assigning counties to terciles of the median AQI.
func WithPollutionGroup(df *aqmort.DF) (*aqmort.DF, error) {
	aqi, e := df.Column(ColMedianAQI).Data().AsFloat()
	if e != nil {
		return nil, e
	}

	lo, hi := quantile(aqi, 1.0/3.0), quantile(aqi, 2.0/3.0)

	groups := make([]string, len(aqi))
	for ind, x := range aqi {
		switch {
		case x <= lo:
			groups[ind] = "low"
		case x <= hi:
			groups[ind] = "middle"
		default:
			groups[ind] = "high"
		}
	}

	return withColumn(df, ColPollutionGroup, groups)
}

// SavePlots writes the descriptive figures to outDir as HTML:
// rate vs poverty with a least-squares trend, rate vs poverty by state,
// rate boxplots by pollution group, and rate boxplots by poverty group.
func SavePlots(df *aqmort.DF, outDir string) error {
	rate, e1 := df.Column(ColSuicideRate).Data().AsFloat()
	if e1 != nil {
		return e1
	}

	poverty, e2 := df.Column(ColPovertyRate).Data().AsFloat()
	if e2 != nil {
		return e2
	}

	states, e3 := df.Column(ColState).Data().AsString()
	if e3 != nil {
		return e3
	}

	if e := scatterWithTrend(poverty, rate, outDir+"/rate_vs_poverty.html"); e != nil {
		return e
	}

	if e := scatterByState(poverty, rate, states, outDir+"/rate_by_state.html"); e != nil {
		return e
	}

	var (
		grouped *aqmort.DF
		e4      error
	)
	if grouped, e4 = WithPollutionGroup(df); e4 != nil {
		return e4
	}

	if e := boxByPollution(grouped, outDir+"/rate_by_pollution.html"); e != nil {
		return e
	}

	if grouped, e4 = WithPovertyGroup(df); e4 != nil {
		return e4
	}

	return boxByPoverty(grouped, outDir+"/rate_by_poverty_group.html")
}

func scatterWithTrend(x, y []float64, fileName string) error {
	var (
		p *aqmort.Plot
		e error
	)
	if p, e = aqmort.NewPlot(aqmort.PlotTitle("Suicide rate vs poverty"),
		aqmort.PlotXlabel("poverty rate (%)"), aqmort.PlotYlabel("deaths per 100,000"),
		aqmort.PlotLegend(true)); e != nil {
		return e
	}

	if e1 := p.PlotScatter(x, y, "counties", plotColors[0]); e1 != nil {
		return e1
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	xLo, xHi := minMax(x)
	trend := []float64{alpha + beta*xLo, alpha + beta*xHi}
	if e2 := p.PlotXY([]float64{xLo, xHi}, trend, "trend", plotColors[1]); e2 != nil {
		return e2
	}

	return p.Save(fileName)
}

func scatterByState(x, y []float64, states []string, fileName string) error {
	var (
		p *aqmort.Plot
		e error
	)
	if p, e = aqmort.NewPlot(aqmort.PlotTitle("Suicide rate vs poverty by state"),
		aqmort.PlotXlabel("poverty rate (%)"), aqmort.PlotYlabel("deaths per 100,000"),
		aqmort.PlotLegend(true)); e != nil {
		return e
	}

	for ind, st := range levels(states) {
		var xs, ys []float64
		for row := 0; row < len(states); row++ {
			if states[row] != st {
				continue
			}

			xs = append(xs, x[row])
			ys = append(ys, y[row])
		}

		if e1 := p.PlotScatter(xs, ys, st, plotColors[ind%len(plotColors)]); e1 != nil {
			return e1
		}
	}

	return p.Save(fileName)
}

func boxByPollution(df *aqmort.DF, fileName string) error {
	rate, e1 := df.Column(ColSuicideRate).Data().AsFloat()
	if e1 != nil {
		return e1
	}

	groups, e2 := df.Column(ColPollutionGroup).Data().AsString()
	if e2 != nil {
		return e2
	}

	var (
		p *aqmort.Plot
		e error
	)
	if p, e = aqmort.NewPlot(aqmort.PlotTitle("Suicide rate by pollution group"),
		aqmort.PlotXlabel("median AQI tercile"), aqmort.PlotYlabel("deaths per 100,000")); e != nil {
		return e
	}

	for _, g := range []string{"low", "middle", "high"} {
		var ys []float64
		for row := 0; row < len(groups); row++ {
			if groups[row] == g {
				ys = append(ys, rate[row])
			}
		}

		if ys == nil {
			continue
		}

		if e1 := p.PlotBox(ys, g); e1 != nil {
			return e1
		}
	}

	return p.Save(fileName)
}

func boxByPoverty(df *aqmort.DF, fileName string) error {
	rate, e1 := df.Column(ColSuicideRate).Data().AsFloat()
	if e1 != nil {
		return e1
	}

	groups, e2 := df.Column(ColPovertyGroup).Data().AsString()
	if e2 != nil {
		return e2
	}

	var (
		p *aqmort.Plot
		e error
	)
	if p, e = aqmort.NewPlot(aqmort.PlotTitle("Suicide rate by poverty group"),
		aqmort.PlotXlabel("poverty relative to the median"),
		aqmort.PlotYlabel("deaths per 100,000")); e != nil {
		return e
	}

	for _, g := range []string{"below median", "above median"} {
		var ys []float64
		for row := 0; row < len(groups); row++ {
			if groups[row] == g {
				ys = append(ys, rate[row])
			}
		}

		if ys == nil {
			continue
		}

		if e1 := p.PlotBox(ys, g); e1 != nil {
			return e1
		}
	}

	return p.Save(fileName)
}

// ***************** Helpers *****************

func withColumn(df *aqmort.DF, name string, data []string) (*aqmort.DF, error) {
	out := df.Copy()

	var (
		col *aqmort.Col
		e   error
	)
	if col, e = aqmort.NewCol(data, aqmort.ColName(name)); e != nil {
		return nil, e
	}

	if e1 := out.AppendColumn(col, true); e1 != nil {
		return nil, e1
	}

	return out, nil
}

func quantile(x []float64, q float64) float64 {
	xs := make([]float64, len(x))
	copy(xs, x)
	sort.Float64s(xs)

	return stat.Quantile(q, stat.LinInterp, xs, nil)
}

func minMax(x []float64) (lo, hi float64) {
	lo, hi = x[0], x[0]
	for _, xv := range x {
		if xv < lo {
			lo = xv
		}
		if xv > hi {
			hi = xv
		}
	}

	return lo, hi
}

func levels(x []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range x {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	sort.Strings(out)

	return out
}
