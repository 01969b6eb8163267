package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urbanops/dataqual/internal/export"
	"github.com/urbanops/dataqual/internal/pipeline"
)

type ExportOptions struct {
	TripsCSV string
	Period   string
}

func NewExportCmd(cfgFile *string) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a periodic taxi summary as JSON",
		Long: `Aggregate the daily taxi fact table into a period summary with the
top-earning zone pairs and write it as a timestamped JSON file. The file is
mirrored to the sync directory and S3 when configured.`,
		Example: `  # Export the October summary
  dataqual-cli export --trips raw_trips.csv --period 2025-10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cfgFile, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.TripsCSV, "trips", "t", "", "Raw trips CSV file (defaults to data.trips_csv from config)")
	cmd.Flags().StringVarP(&opts.Period, "period", "p", "", "Reporting period label, e.g. 2025-10 (required)")
	cmd.MarkFlagRequired("period")

	return cmd
}

func runExport(cfgFile *string, opts *ExportOptions) error {
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
	facts := pipeline.BuildFactTaxiDaily(pipeline.CleanTrips(raw, logger))

	targets := make([]export.Target, 0, 2)
	if cfg.Export.SyncDir != "" {
		targets = append(targets, export.NewSyncTarget(cfg.Export.SyncDir, logger))
	}
	if cfg.Export.S3.Enabled {
		s3Target, s3Err := export.NewS3Target(export.S3TargetConfig{
			Region: cfg.Export.S3.Region,
			Bucket: cfg.Export.S3.Bucket,
			Prefix: cfg.Export.S3.Prefix,
		}, logger)
		if s3Err != nil {
			return s3Err
		}
		targets = append(targets, s3Target)
	}

	exporter := export.NewExporter(cfg.Export.OutputDir, logger, targets...)
	written, err := exporter.Export(ctx, export.Summarize(opts.Period, facts))
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", written)
	return nil
}
