package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/urbanops/dataqual/internal/expectations"
	"github.com/urbanops/dataqual/internal/pipeline"
	"github.com/urbanops/dataqual/internal/reporters"
)

type PipelineOptions struct {
	TripsCSV      string
	AirQualityCSV string
	Validate      bool
}

func NewPipelineCmd(cfgFile *string) *cobra.Command {
	opts := &PipelineOptions{}

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Clean raw taxi trips and build the daily fact table",
		Long: `Read raw trip records, drop implausible rows, aggregate the rest into
the daily zone-pair fact table, and optionally validate the result.`,
		Example: `  # Build the fact table from a raw extract
  dataqual-cli pipeline --trips raw_trips.csv

  # Build and validate in one pass
  dataqual-cli pipeline --trips raw_trips.csv --validate

  # Also pivot air quality readings into daily station rows
  dataqual-cli pipeline --trips raw_trips.csv --air-quality readings.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cfgFile, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.TripsCSV, "trips", "t", "", "Raw trips CSV file (defaults to data.trips_csv from config)")
	cmd.Flags().StringVarP(&opts.AirQualityCSV, "air-quality", "a", "", "Air quality readings CSV file (defaults to data.air_quality_csv from config)")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "Validate the built fact table")

	return cmd
}

func runPipeline(cfgFile *string, opts *PipelineOptions) error {
	cfg, logger, err := setup(cfgFile)
	if err != nil {
		return err
	}

	path := opts.TripsCSV
	if path == "" {
		path = cfg.Data.TripsCSV
	}
	if path == "" {
		return fmt.Errorf("no trips file: pass --trips or set data.trips_csv")
	}

	ctx := context.Background()

	raw, err := pipeline.ReadTripsCSV(ctx, path, logger)
	if err != nil {
		return err
	}

	cleaned := pipeline.CleanTrips(raw, logger)
	facts := pipeline.BuildFactTaxiDaily(cleaned)
	dims := pipeline.BuildDimDate(cleaned)

	fmt.Printf("Built %d fact rows across %d days from %d trips (%d raw)\n",
		len(facts), len(dims), len(cleaned), len(raw))

	airQualityPath := opts.AirQualityCSV
	if airQualityPath == "" {
		airQualityPath = cfg.Data.AirQualityCSV
	}
	if airQualityPath != "" {
		measurements, err := pipeline.ReadMeasurementsCSV(ctx, airQualityPath, logger)
		if err != nil {
			return err
		}
		daily := pipeline.BuildAirQualityDaily(measurements)
		fmt.Printf("Built %d daily air quality rows from %d measurements\n",
			len(daily), len(measurements))
	}

	if !opts.Validate {
		return nil
	}

	snapshot, err := pipeline.FactSnapshot(facts)
	if err != nil {
		return err
	}

	engine, err := expectations.NewDefaultTaxiEngine(logger)
	if err != nil {
		return err
	}
	report, err := engine.Evaluate(ctx, snapshot)
	if err != nil {
		return err
	}

	console := reporters.NewConsoleReporter(os.Stdout)
	if err := console.Notify(ctx, report); err != nil {
		return err
	}
	if !report.IsSuccess() {
		return fmt.Errorf("validation failed: %d of %d checks failed",
			report.FailedCount(), report.TotalChecks())
	}
	return nil
}
