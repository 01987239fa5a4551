package pipeline

import (
	"strings"

	"github.com/invertedv/aqmort"
)

// Normalized column names shared by all four sources.
const (
	ColCounty      = "county"
	ColState       = "state"
	ColDaysPM25    = "daysPM25"
	ColDaysOzone   = "daysOzone"
	ColDaysNO2     = "daysNO2"
	ColDaysCO      = "daysCO"
	ColMaxAQI      = "maxAQI"
	ColMedianAQI   = "medianAQI"
	ColCountyCode  = "countyCode"
	ColDeaths      = "deaths"
	ColPovertyRate = "povertyRate"
	ColPopulation  = "population"
	ColSuicideRate = "suicideRate"
	ColLogRate     = "logRate"
)

// DefaultPovertyField is the ACS percent-below-poverty estimate column after
// header cleaning.
const DefaultPovertyField = "Percent_below_poverty_level"

// LoadAirQuality reads the EPA annual air-quality file and returns the
// normalized table for the target states.
func LoadAirQuality(fileName string, states []string) (*aqmort.DF, error) {
	var (
		raw *aqmort.DF
		e   error
	)
	if raw, e = loadCSV(fileName); e != nil {
		return nil, e
	}

	return NormalizeAirQuality(raw, states)
}

// NormalizeAirQuality maps the raw air-quality table to the normalized
// schema: county, state, pollutant day counts and AQI summaries.
func NormalizeAirQuality(raw *aqmort.DF, states []string) (*aqmort.DF, error) {
	const source = "air quality"

	if e := requireColumns(raw, source, "State", "County", "Days_PM2_5", "Days_Ozone",
		"Days_NO2", "Days_CO", "Max_AQI", "Median_AQI"); e != nil {
		return nil, e
	}

	stRaw, _ := raw.Column("State").Data().AsString()
	ctyRaw, _ := raw.Column("County").Data().AsString()

	var (
		keep          []int
		county, state []string
	)
	for row := 0; row < raw.RowCount(); row++ {
		// nationwide files carry territory rows (Puerto Rico, Virgin
		// Islands) that never normalize; those cannot be targets, so the
		// state filter drops them rather than aborting
		code, e := NormalizeState(stRaw[row])
		if e != nil || !contains(states, code) {
			continue
		}

		keep = append(keep, row)
		county = append(county, NormalizeCounty(ctyRaw[row]))
		state = append(state, code)
	}

	var (
		sub *aqmort.DF
		e   error
	)
	if sub, e = raw.Subset(keep); e != nil {
		return nil, e
	}

	return assemble(
		[]string{ColCounty, ColState},
		[][]string{county, state},
		[]string{ColDaysPM25, ColDaysOzone, ColDaysNO2, ColDaysCO, ColMaxAQI, ColMedianAQI},
		colFloats(sub, "Days_PM2_5", "Days_Ozone", "Days_NO2", "Days_CO", "Max_AQI", "Median_AQI"),
	)
}

// LoadMortality reads the CDC mortality file and returns the normalized
// table for the target states.
func LoadMortality(fileName string, states []string) (*aqmort.DF, error) {
	var (
		raw *aqmort.DF
		e   error
	)
	if raw, e = loadCSV(fileName); e != nil {
		return nil, e
	}

	return NormalizeMortality(raw, states)
}

// NormalizeMortality maps the raw mortality table, whose county and state
// are embedded together as "<County> County, <XX>", to the normalized schema.
func NormalizeMortality(raw *aqmort.DF, states []string) (*aqmort.DF, error) {
	const source = "mortality"

	if e := requireColumns(raw, source, "Occurrence_County", "Occurrence_County_Code", "Deaths"); e != nil {
		return nil, e
	}

	labels, _ := raw.Column("Occurrence_County").Data().AsString()
	codes, _ := raw.Column("Occurrence_County_Code").Data().AsString()

	var (
		keep                      []int
		county, state, countyCode []string
	)
	for row := 0; row < raw.RowCount(); row++ {
		// rows that are not "<County> County, <XX>" for a known state
		// (statewide totals, territory municipios) cannot be targets
		cty, st, e := SplitCountyState(labels[row])
		if e != nil || !contains(states, st) {
			continue
		}

		keep = append(keep, row)
		county = append(county, cty)
		state = append(state, st)
		countyCode = append(countyCode, codes[row])
	}

	var (
		sub *aqmort.DF
		e   error
	)
	if sub, e = raw.Subset(keep); e != nil {
		return nil, e
	}

	return assemble(
		[]string{ColCounty, ColState, ColCountyCode},
		[][]string{county, state, countyCode},
		[]string{ColDeaths},
		colFloats(sub, "Deaths"),
	)
}

// LoadPoverty reads the ACS poverty file.  povertyField names the
// percent-below-poverty estimate column (after header cleaning).
func LoadPoverty(fileName, povertyField string, states []string) (*aqmort.DF, error) {
	var (
		raw *aqmort.DF
		e   error
	)
	if raw, e = loadCSV(fileName); e != nil {
		return nil, e
	}

	return NormalizePoverty(raw, povertyField, states)
}

// NormalizePoverty maps the raw poverty table, keyed by
// "<County> County, <StateFullName>", to the normalized schema.  Rows whose
// area name is not a county (no state tail) are skipped.  Non-numeric
// poverty values load as NaN and are dropped later by the feature builder.
func NormalizePoverty(raw *aqmort.DF, povertyField string, states []string) (*aqmort.DF, error) {
	const source = "poverty"

	if povertyField == "" {
		povertyField = DefaultPovertyField
	}

	if e := requireColumns(raw, source, "Geographic_Area_Name", povertyField); e != nil {
		return nil, e
	}

	labels, _ := raw.Column("Geographic_Area_Name").Data().AsString()
	rates, _ := raw.Column(povertyField).Data().AsFloat()

	var (
		keep          []int
		county, state []string
		poverty       []float64
	)
	for row := 0; row < raw.RowCount(); row++ {
		comma := strings.LastIndex(labels[row], ",")
		if comma < 0 {
			continue
		}

		// a tail that is not a state (e.g. ", Puerto Rico") cannot be a
		// target; skip it like any other non-county area
		code, e := NormalizeState(labels[row][comma+1:])
		if e != nil || !contains(states, code) {
			continue
		}

		keep = append(keep, row)
		county = append(county, NormalizeCounty(labels[row][:comma]))
		state = append(state, code)
		poverty = append(poverty, rates[row])
	}

	return assemble(
		[]string{ColCounty, ColState},
		[][]string{county, state},
		[]string{ColPovertyRate},
		[][]float64{poverty},
	)
}

// LoadPopulation reads the census population-estimate file and returns the
// normalized table for the target states.
func LoadPopulation(fileName string, states []string) (*aqmort.DF, error) {
	var (
		raw *aqmort.DF
		e   error
	)
	if raw, e = loadCSV(fileName); e != nil {
		return nil, e
	}

	return NormalizePopulation(raw, states)
}

// NormalizePopulation maps the raw population table (STNAME, CTYNAME,
// POPESTIMATE2022) to the normalized schema.
func NormalizePopulation(raw *aqmort.DF, states []string) (*aqmort.DF, error) {
	const source = "population"

	if e := requireColumns(raw, source, "STNAME", "CTYNAME", "POPESTIMATE2022"); e != nil {
		return nil, e
	}

	stRaw, _ := raw.Column("STNAME").Data().AsString()
	ctyRaw, _ := raw.Column("CTYNAME").Data().AsString()

	var (
		keep          []int
		county, state []string
	)
	for row := 0; row < raw.RowCount(); row++ {
		// territory rows in the nationwide census file are not errors
		code, e := NormalizeState(stRaw[row])
		if e != nil || !contains(states, code) {
			continue
		}

		keep = append(keep, row)
		county = append(county, NormalizeCounty(ctyRaw[row]))
		state = append(state, code)
	}

	var (
		sub *aqmort.DF
		e   error
	)
	if sub, e = raw.Subset(keep); e != nil {
		return nil, e
	}

	return assemble(
		[]string{ColCounty, ColState},
		[][]string{county, state},
		[]string{ColPopulation},
		colFloats(sub, "POPESTIMATE2022"),
	)
}

// ***************** Helpers *****************

func loadCSV(fileName string) (*aqmort.DF, error) {
	var (
		f *aqmort.Files
		e error
	)
	if f, e = aqmort.NewFiles(); e != nil {
		return nil, e
	}

	if e = f.Open(fileName); e != nil {
		return nil, e
	}

	return aqmort.FileLoad(f)
}

func requireColumns(df *aqmort.DF, source string, cols ...string) error {
	for _, c := range cols {
		if df.Column(c) == nil {
			return &FormatError{Source: source, Field: c}
		}
	}

	return nil
}

// assemble builds a normalized DF from parallel string and float slices.
func assemble(strNames []string, strData [][]string, fltNames []string, fltData [][]float64) (*aqmort.DF, error) {
	var cols []*aqmort.Col

	for ind := 0; ind < len(strNames); ind++ {
		var (
			col *aqmort.Col
			e   error
		)
		if col, e = aqmort.NewCol(strData[ind], aqmort.ColName(strNames[ind])); e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	for ind := 0; ind < len(fltNames); ind++ {
		var (
			col *aqmort.Col
			e   error
		)
		if col, e = aqmort.NewCol(fltData[ind], aqmort.ColName(fltNames[ind])); e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return aqmort.NewDF(cols...)
}

// colFloats pulls the named columns of df as float slices.
func colFloats(df *aqmort.DF, names ...string) [][]float64 {
	var out [][]float64
	for _, nm := range names {
		x, _ := df.Column(nm).Data().AsFloat()
		out = append(out, x)
	}

	return out
}

func contains(haystack []string, needle string) bool {
	for _, straw := range haystack {
		if straw == needle {
			return true
		}
	}

	return false
}
