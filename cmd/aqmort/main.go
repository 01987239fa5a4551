// Command aqmort runs the county air-quality / suicide-mortality analysis
// end to end: load the four sources, merge, plot, and fit the
// cross-validated lasso, printing the evaluation RMSE.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/jackc/pgx/stdlib"
	"github.com/spf13/cobra"

	"github.com/invertedv/aqmort"
	"github.com/invertedv/aqmort/pipeline"
)

var (
	cfg    = pipeline.DefaultConfig()
	states string

	// database source (optional, replaces the CSV files)
	dbProvider string
	dbDSN      string
	dbHost     string
	dbUser     string
	dbPassword string
	airQry     string
	mortQry    string
	povQry     string
	popQry     string

	rootCmd = &cobra.Command{
		Use:   "aqmort",
		Short: "county air-quality and suicide-mortality analysis",
		Long: `aqmort joins county-level air-quality, mortality, poverty and population
tables for two states, derives the per-100,000 suicide rate, writes
descriptive plots, and fits an L1-regularized regression of the log rate
chosen by 10-fold cross-validation.`,
		RunE: run,
	}
)

func init() {
	rootCmd.Flags().StringVar(&cfg.AirFile, "air", "data/air_quality.csv", "air quality CSV")
	rootCmd.Flags().StringVar(&cfg.MortalityFile, "mortality", "data/mortality.csv", "mortality CSV")
	rootCmd.Flags().StringVar(&cfg.PovertyFile, "poverty", "data/poverty.csv", "poverty CSV")
	rootCmd.Flags().StringVar(&cfg.PopulationFile, "population", "data/population.csv", "population CSV")
	rootCmd.Flags().StringVar(&cfg.PovertyField, "poverty-field", "", "poverty estimate column (default "+pipeline.DefaultPovertyField+")")
	rootCmd.Flags().StringVar(&states, "states", "CA,TX", "comma-separated two-letter state codes")
	rootCmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for the split and folds")
	rootCmd.Flags().StringVar(&cfg.OutDir, "out", "", "directory for plot HTML (no plots if empty)")

	rootCmd.Flags().StringVar(&dbProvider, "db", "", "load inputs from a database instead: clickhouse or postgres")
	rootCmd.Flags().StringVar(&dbDSN, "dsn", "", "postgres DSN")
	rootCmd.Flags().StringVar(&dbHost, "host", "", "clickhouse host")
	rootCmd.Flags().StringVar(&dbUser, "user", "", "clickhouse user")
	rootCmd.Flags().StringVar(&dbPassword, "password", "", "clickhouse password")
	rootCmd.Flags().StringVar(&airQry, "air-query", "", "query for the raw air quality table")
	rootCmd.Flags().StringVar(&mortQry, "mortality-query", "", "query for the raw mortality table")
	rootCmd.Flags().StringVar(&povQry, "poverty-query", "", "query for the raw poverty table")
	rootCmd.Flags().StringVar(&popQry, "population-query", "", "query for the raw population table")
}

func run(_ *cobra.Command, _ []string) error {
	cfg.States = splitStates(states)

	var (
		res *pipeline.Result
		e   error
	)
	if dbProvider == "" {
		res, e = pipeline.Run(cfg)
	} else {
		res, e = runFromDB(cfg)
	}

	if e != nil {
		return e
	}

	fmt.Printf("merged counties: %d (rate drops: %d, missing-data drops: %d)\n",
		res.MergedRows, res.RateDropped, res.RowsDropped)
	fmt.Printf("lambda.min: %.6f\n", res.Model.Lambda)
	fmt.Printf("evaluation RMSE: %.4f\n", res.RMSE)

	return nil
}

// runFromDB pulls the four raw tables from a database and feeds them
// through the same normalize/merge/fit path as the CSV route.
func runFromDB(cfg pipeline.Config) (*pipeline.Result, error) {
	var e0 error
	if cfg.States, e0 = pipeline.NormalizeStates(cfg.States); e0 != nil {
		return nil, e0
	}

	var (
		db *sql.DB
		e  error
	)
	if db, e = connect(); e != nil {
		return nil, e
	}

	var dlct *aqmort.Dialect
	if dlct, e = aqmort.NewDialect(dbProvider, db); e != nil {
		return nil, e
	}

	defer func() { _ = dlct.Close() }()

	var air, mortality, poverty, population *aqmort.DF

	if air, e = loadQuery(airQry, dlct, func(df *aqmort.DF) (*aqmort.DF, error) {
		return pipeline.NormalizeAirQuality(df, cfg.States)
	}); e != nil {
		return nil, e
	}

	if mortality, e = loadQuery(mortQry, dlct, func(df *aqmort.DF) (*aqmort.DF, error) {
		return pipeline.NormalizeMortality(df, cfg.States)
	}); e != nil {
		return nil, e
	}

	if poverty, e = loadQuery(povQry, dlct, func(df *aqmort.DF) (*aqmort.DF, error) {
		return pipeline.NormalizePoverty(df, cfg.PovertyField, cfg.States)
	}); e != nil {
		return nil, e
	}

	if population, e = loadQuery(popQry, dlct, func(df *aqmort.DF) (*aqmort.DF, error) {
		return pipeline.NormalizePopulation(df, cfg.States)
	}); e != nil {
		return nil, e
	}

	return pipeline.Fit(air, mortality, poverty, population, cfg)
}

func loadQuery(qry string, dlct *aqmort.Dialect, normalize func(*aqmort.DF) (*aqmort.DF, error)) (*aqmort.DF, error) {
	if qry == "" {
		return nil, fmt.Errorf("missing query for a database source")
	}

	var (
		df *aqmort.DF
		e  error
	)
	if df, e = aqmort.DBload(qry, dlct); e != nil {
		return nil, e
	}

	return normalize(df)
}

func connect() (*sql.DB, error) {
	switch dbProvider {
	case "clickhouse":
		db := clickhouse.OpenDB(
			&clickhouse.Options{
				Addr: []string{dbHost + ":9000"},
				Auth: clickhouse.Auth{
					Database: "default",
					Username: dbUser,
					Password: dbPassword,
				},
				DialTimeout: 300 * time.Second,
				Compression: &clickhouse.Compression{
					Method: clickhouse.CompressionLZ4,
					Level:  0,
				},
			})

		if e := db.Ping(); e != nil {
			return nil, e
		}

		return db, nil
	case "postgres":
		var (
			db *sql.DB
			e  error
		)
		if db, e = sql.Open("pgx", dbDSN); e != nil {
			return nil, e
		}

		if e = db.Ping(); e != nil {
			return nil, e
		}

		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database %s", dbProvider)
	}
}

func splitStates(s string) []string {
	var out []string
	for _, st := range strings.Split(s, ",") {
		if st = strings.ToUpper(strings.TrimSpace(st)); st != "" {
			out = append(out, st)
		}
	}

	return out
}

func main() {
	if e := rootCmd.Execute(); e != nil {
		fmt.Fprintln(os.Stderr, e)
		os.Exit(1)
	}
}
