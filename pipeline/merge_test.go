package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/invertedv/aqmort"
)

// small normalized tables for join tests

func airTable(t *testing.T, counties, states []string) *aqmort.DF {
	t.Helper()

	n := len(counties)
	flt := make([][]float64, 6)
	for ind := range flt {
		flt[ind] = make([]float64, n)
		for r := 0; r < n; r++ {
			flt[ind][r] = float64(10*ind + r + 1)
		}
	}

	df, e := assemble(
		[]string{ColCounty, ColState},
		[][]string{counties, states},
		[]string{ColDaysPM25, ColDaysOzone, ColDaysNO2, ColDaysCO, ColMaxAQI, ColMedianAQI},
		flt,
	)
	if e != nil {
		t.Fatal(e)
	}

	return df
}

func mortalityTable(t *testing.T, counties, states []string, deaths []float64) *aqmort.DF {
	t.Helper()

	codes := make([]string, len(counties))
	for ind := range codes {
		codes[ind] = "0600" + string(rune('1'+ind))
	}

	df, e := assemble(
		[]string{ColCounty, ColState, ColCountyCode},
		[][]string{counties, states, codes},
		[]string{ColDeaths},
		[][]float64{deaths},
	)
	if e != nil {
		t.Fatal(e)
	}

	return df
}

func povertyTable(t *testing.T, counties, states []string, rates []float64) *aqmort.DF {
	t.Helper()

	df, e := assemble(
		[]string{ColCounty, ColState},
		[][]string{counties, states},
		[]string{ColPovertyRate},
		[][]float64{rates},
	)
	if e != nil {
		t.Fatal(e)
	}

	return df
}

func populationTable(t *testing.T, counties, states []string, pop []float64) *aqmort.DF {
	t.Helper()

	df, e := assemble(
		[]string{ColCounty, ColState},
		[][]string{counties, states},
		[]string{ColPopulation},
		[][]float64{pop},
	)
	if e != nil {
		t.Fatal(e)
	}

	return df
}

func TestMerge(t *testing.T) {
	counties := []string{"Kern", "Bexar"}
	states := []string{"CA", "TX"}

	air := airTable(t, counties, states)
	mortality := mortalityTable(t, counties, states, []float64{10, 10})
	poverty := povertyTable(t, counties, states, []float64{15, 18})
	population := populationTable(t, counties, states, []float64{100000, 100000})

	merged, e := Merge(air, mortality, poverty, population)
	assert.Nil(t, e)
	assert.Equal(t, 2, merged.RowCount())
	assert.True(t, merged.HasColumns(ColCounty, ColState, ColDeaths, ColPovertyRate, ColPopulation))
}

func TestMerge_MissingCounty(t *testing.T) {
	counties := []string{"Kern", "Bexar"}
	states := []string{"CA", "TX"}

	air := airTable(t, counties, states)
	mortality := mortalityTable(t, counties, states, []float64{10, 10})
	// Bexar is absent from poverty: the inner join drops it everywhere
	poverty := povertyTable(t, []string{"Kern"}, []string{"CA"}, []float64{15})
	population := populationTable(t, counties, states, []float64{100000, 100000})

	merged, e := Merge(air, mortality, poverty, population)
	assert.Nil(t, e)
	assert.Equal(t, 1, merged.RowCount())

	cty, _ := merged.Column(ColCounty).Data().AsString()
	assert.Equal(t, []string{"Kern"}, cty)
}

func TestMerge_NoOverlap(t *testing.T) {
	air := airTable(t, []string{"Kern"}, []string{"CA"})
	mortality := mortalityTable(t, []string{"Travis"}, []string{"TX"}, []float64{5})
	poverty := povertyTable(t, []string{"Kern"}, []string{"CA"}, []float64{15})
	population := populationTable(t, []string{"Kern"}, []string{"CA"}, []float64{100000})

	merged, e := Merge(air, mortality, poverty, population)
	assert.Nil(t, e)
	assert.Equal(t, 0, merged.RowCount())
}

func TestAddRate(t *testing.T) {
	counties := []string{"Kern", "Bexar"}
	states := []string{"CA", "TX"}

	air := airTable(t, counties, states)
	mortality := mortalityTable(t, counties, states, []float64{10, 5})
	poverty := povertyTable(t, counties, states, []float64{15, 18})
	population := populationTable(t, counties, states, []float64{100000, 50000})

	merged, e := Merge(air, mortality, poverty, population)
	assert.Nil(t, e)

	out, dropped, e1 := AddRate(merged)
	assert.Nil(t, e1)
	assert.Equal(t, 0, dropped)

	// 10 per 100,000 and 5 per 50,000 are both a rate of exactly 10
	rate, _ := out.Column(ColSuicideRate).Data().AsFloat()
	assert.Equal(t, []float64{10, 10}, rate)
}

func TestAddRate_NonFinite(t *testing.T) {
	counties := []string{"Kern", "Bexar", "Travis"}
	states := []string{"CA", "TX", "TX"}

	air := airTable(t, counties, states)
	mortality := mortalityTable(t, counties, states, []float64{10, 7, 3})
	poverty := povertyTable(t, counties, states, []float64{15, 18, 12})
	// a zero population makes the rate infinite; that county is excluded
	population := populationTable(t, counties, states, []float64{100000, 0, 50000})

	merged, e := Merge(air, mortality, poverty, population)
	assert.Nil(t, e)

	out, dropped, e1 := AddRate(merged)
	assert.Nil(t, e1)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 2, out.RowCount())

	cty, _ := out.Column(ColCounty).Data().AsString()
	assert.Equal(t, []string{"Kern", "Travis"}, cty)
}
