// Package pipeline joins county-level air-quality, mortality, poverty and
// population tables for two states, derives the per-100,000 suicide rate,
// and fits a cross-validated lasso regression of the log rate on
// environmental and socioeconomic covariates.
package pipeline

import (
	"fmt"
	"log"
	"math"

	"github.com/invertedv/aqmort"
	"github.com/invertedv/aqmort/lasso"
)

// Config drives one batch run.
type Config struct {
	// input files
	AirFile        string
	MortalityFile  string
	PovertyFile    string
	PopulationFile string

	// PovertyField is the percent-below-poverty column; empty uses
	// DefaultPovertyField.
	PovertyField string

	// States are the two-letter target state codes.
	States []string

	// Seed fixes the train/eval split and the fold assignment.
	Seed int64

	// cross-validation controls
	Folds     int
	NLambda   int
	LambdaEps float64

	// OutDir, when set, receives the descriptive plots as HTML.
	OutDir string
}

// DefaultConfig covers California and Texas with the reference settings.
func DefaultConfig() Config {
	return Config{
		States:    []string{"CA", "TX"},
		Seed:      42,
		Folds:     10,
		NLambda:   100,
		LambdaEps: 1e-3,
	}
}

// Result is the outcome of one run.
type Result struct {
	Merged *aqmort.DF

	Model  *lasso.Model
	CVRMSE []float64

	// RMSE compares expm1(predicted log rate) on the evaluation subset
	// against the raw rates.
	RMSE float64

	MergedRows  int
	RateDropped int
	RowsDropped int
	TrainRows   int
	EvalRows    int
}

// Run executes the pipeline end to end: load, normalize, merge, derive the
// rate, plot, build features, cross-validate and fit the lasso, and score
// the evaluation subset.  Fatal errors abort before any artifact is
// produced; row-scoped defects only shrink the table and are reported.
func Run(cfg Config) (*Result, error) {
	if len(cfg.States) == 0 {
		return nil, fmt.Errorf("no target states")
	}

	var e0 error
	if cfg.States, e0 = NormalizeStates(cfg.States); e0 != nil {
		return nil, e0
	}

	air, e1 := LoadAirQuality(cfg.AirFile, cfg.States)
	if e1 != nil {
		return nil, e1
	}

	mortality, e2 := LoadMortality(cfg.MortalityFile, cfg.States)
	if e2 != nil {
		return nil, e2
	}

	poverty, e3 := LoadPoverty(cfg.PovertyFile, cfg.PovertyField, cfg.States)
	if e3 != nil {
		return nil, e3
	}

	population, e4 := LoadPopulation(cfg.PopulationFile, cfg.States)
	if e4 != nil {
		return nil, e4
	}

	log.Printf("loaded: air %d, mortality %d, poverty %d, population %d rows",
		air.RowCount(), mortality.RowCount(), poverty.RowCount(), population.RowCount())

	return Fit(air, mortality, poverty, population, cfg)
}

// Fit runs the pipeline from already-normalized tables.  Run loads from
// files; callers with another source (see aqmort.DBload) normalize and come
// here directly.
func Fit(air, mortality, poverty, population *aqmort.DF, cfg Config) (*Result, error) {
	merged, e1 := Merge(air, mortality, poverty, population)
	if e1 != nil {
		return nil, e1
	}

	merged, rateDropped, e2 := AddRate(merged)
	if e2 != nil {
		return nil, e2
	}

	log.Printf("merged: %d rows (%d dropped for non-finite rate)", merged.RowCount(), rateDropped)

	train, eval, rowsDropped, e3 := BuildFeatures(merged, cfg.Seed)
	if e3 != nil {
		return nil, e3
	}

	log.Printf("modeling: %d train, %d eval rows (%d dropped for missing data)",
		train.Rows(), eval.Rows(), rowsDropped)

	lambdas, e4 := lasso.Path(train.X, train.LogRate, cfg.NLambda, cfg.LambdaEps)
	if e4 != nil {
		return nil, e4
	}

	lambdaMin, cvRMSE, e5 := lasso.CrossValidate(train.X, train.LogRate, lambdas, cfg.Folds, cfg.Seed)
	if e5 != nil {
		return nil, e5
	}

	model, e6 := lasso.Fit(train.X, train.LogRate, lambdaMin)
	if e6 != nil {
		return nil, e6
	}

	// back-transform the log-scale predictions and score against the raw
	// rates -- this specific comparison matches the reference workflow.
	pred := model.Predict(eval.X)
	for ind := range pred {
		pred[ind] = math.Expm1(pred[ind])
	}
	rmse := lasso.RMSE(pred, eval.Rate)

	if cfg.OutDir != "" {
		if e := SavePlots(merged, cfg.OutDir); e != nil {
			return nil, e
		}
	}

	return &Result{
		Merged:      merged,
		Model:       model,
		CVRMSE:      cvRMSE,
		RMSE:        rmse,
		MergedRows:  merged.RowCount(),
		RateDropped: rateDropped,
		RowsDropped: rowsDropped,
		TrainRows:   train.Rows(),
		EvalRows:    eval.Rows(),
	}, nil
}
