package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/invertedv/aqmort"
)

func rawDF(t *testing.T, names []string, cols ...any) *aqmort.DF {
	t.Helper()

	var built []*aqmort.Col
	for ind, data := range cols {
		col, e := aqmort.NewCol(data, aqmort.ColName(names[ind]))
		if e != nil {
			t.Fatal(e)
		}

		built = append(built, col)
	}

	df, e := aqmort.NewDF(built...)
	if e != nil {
		t.Fatal(e)
	}

	return df
}

func TestNormalizeAirQuality(t *testing.T) {
	raw := rawDF(t,
		[]string{"State", "County", "Days_PM2_5", "Days_Ozone", "Days_NO2", "Days_CO", "Max_AQI", "Median_AQI"},
		[]string{"California", "Texas", "Nevada"},
		[]string{"Kern", "Bexar County", "Clark"},
		[]float64{120, 80, 60},
		[]float64{90, 100, 50},
		[]float64{10, 12, 8},
		[]float64{3, 4, 2},
		[]float64{154, 120, 99},
		[]float64{48, 52, 40},
	)

	df, e := NormalizeAirQuality(raw, []string{"CA", "TX"})
	assert.Nil(t, e)

	// Nevada is filtered out; names and states are normalized
	assert.Equal(t, 2, df.RowCount())

	cty, _ := df.Column(ColCounty).Data().AsString()
	assert.Equal(t, []string{"Kern", "Bexar"}, cty)

	st, _ := df.Column(ColState).Data().AsString()
	assert.Equal(t, []string{"CA", "TX"}, st)

	pm, _ := df.Column(ColDaysPM25).Data().AsFloat()
	assert.Equal(t, []float64{120, 80}, pm)
}

func TestNormalizeAirQuality_Errors(t *testing.T) {
	raw := rawDF(t, []string{"State", "County"},
		[]string{"California"}, []string{"Kern"})

	_, e := NormalizeAirQuality(raw, []string{"CA"})
	var fe *FormatError
	assert.True(t, errors.As(e, &fe))
}

func TestNormalizeAirQuality_TerritoryRows(t *testing.T) {
	// the nationwide EPA file carries rows whose State is a territory or
	// a foreign country; they fail the state filter, not the run
	raw := rawDF(t,
		[]string{"State", "County", "Days_PM2_5", "Days_Ozone", "Days_NO2", "Days_CO", "Max_AQI", "Median_AQI"},
		[]string{"California", "Puerto Rico", "Country Of Mexico"},
		[]string{"Kern", "Adjuntas", "Mexicali"},
		[]float64{120, 30, 44}, []float64{90, 10, 20}, []float64{10, 2, 3},
		[]float64{3, 1, 1}, []float64{154, 60, 70}, []float64{48, 25, 30},
	)

	df, e := NormalizeAirQuality(raw, []string{"CA", "TX"})
	assert.Nil(t, e)
	assert.Equal(t, 1, df.RowCount())

	cty, _ := df.Column(ColCounty).Data().AsString()
	assert.Equal(t, []string{"Kern"}, cty)
}

func TestNormalizeMortality(t *testing.T) {
	raw := rawDF(t,
		[]string{"Occurrence_County", "Occurrence_County_Code", "Deaths"},
		[]string{"Kern County, CA", "Bexar County, TX", "Clark County, NV"},
		[]string{"06029", "48029", "32003"},
		[]float64{57, 212, 99},
	)

	df, e := NormalizeMortality(raw, []string{"CA", "TX"})
	assert.Nil(t, e)
	assert.Equal(t, 2, df.RowCount())

	cty, _ := df.Column(ColCounty).Data().AsString()
	assert.Equal(t, []string{"Kern", "Bexar"}, cty)

	code, _ := df.Column(ColCountyCode).Data().AsString()
	assert.Equal(t, []string{"06029", "48029"}, code)

	deaths, _ := df.Column(ColDeaths).Data().AsFloat()
	assert.Equal(t, []float64{57, 212}, deaths)
}

func TestNormalizeMortality_NonCountyRows(t *testing.T) {
	// statewide totals have no state tail and territory labels have no
	// known state; both are skipped, not fatal
	raw := rawDF(t,
		[]string{"Occurrence_County", "Occurrence_County_Code", "Deaths"},
		[]string{"Kern County, CA", "Statewide total", "Adjuntas Municipio, PR"},
		[]string{"06029", "", "72001"},
		[]float64{57, 4000, 3},
	)

	df, e := NormalizeMortality(raw, []string{"CA", "TX"})
	assert.Nil(t, e)
	assert.Equal(t, 1, df.RowCount())

	cty, _ := df.Column(ColCounty).Data().AsString()
	assert.Equal(t, []string{"Kern"}, cty)
}

func TestNormalizePoverty(t *testing.T) {
	raw := rawDF(t,
		[]string{"Geographic_Area_Name", DefaultPovertyField},
		[]string{"Kern County, California", "Bexar County, Texas", "United States",
			"San Juan Municipio, Puerto Rico"},
		[]string{"18.2", "N/A", "11.5", "40.1"},
	)

	df, e := NormalizePoverty(raw, "", []string{"CA", "TX"})
	assert.Nil(t, e)

	// the no-state summary row and the territory row are skipped, not errors
	assert.Equal(t, 2, df.RowCount())

	pov, _ := df.Column(ColPovertyRate).Data().AsFloat()
	assert.Equal(t, 18.2, pov[0])
	assert.True(t, math.IsNaN(pov[1]))
}

func TestNormalizePoverty_Field(t *testing.T) {
	raw := rawDF(t,
		[]string{"Geographic_Area_Name", "Estimate_Percent_below_poverty"},
		[]string{"Kern County, California"},
		[]float64{18.2},
	)

	df, e := NormalizePoverty(raw, "Estimate_Percent_below_poverty", []string{"CA"})
	assert.Nil(t, e)
	assert.Equal(t, 1, df.RowCount())

	// the default field name is absent
	_, e1 := NormalizePoverty(raw, "", []string{"CA"})
	var fe *FormatError
	assert.True(t, errors.As(e1, &fe))
	assert.Equal(t, DefaultPovertyField, fe.Field)
}

func TestNormalizePopulation(t *testing.T) {
	raw := rawDF(t,
		[]string{"STNAME", "CTYNAME", "POPESTIMATE2022"},
		[]string{"California", "Texas", "Nevada", "Puerto Rico"},
		[]string{"Kern County", "Bexar County", "Clark County", "Adjuntas Municipio"},
		[]float64{909000, 2059000, 2266000, 18000},
	)

	df, e := NormalizePopulation(raw, []string{"CA", "TX"})
	assert.Nil(t, e)
	assert.Equal(t, 2, df.RowCount())

	cty, _ := df.Column(ColCounty).Data().AsString()
	assert.Equal(t, []string{"Kern", "Bexar"}, cty)

	pop, _ := df.Column(ColPopulation).Data().AsFloat()
	assert.Equal(t, []float64{909000, 2059000}, pop)
}
