package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/urbanops/dataqual/internal/ingest"
)

type IngestOptions struct {
	Watch bool
}

func NewIngestCmd(cfgFile *string) *cobra.Command {
	opts := &IngestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch weather observations and store them in InfluxDB",
		Long: `Fetch hourly weather observations for the configured city from the
Open-Meteo API and write them into the configured InfluxDB bucket.`,
		Example: `  # Run one ingestion cycle
  dataqual-cli ingest

  # Keep ingesting on the configured interval
  dataqual-cli ingest --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cfgFile, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Run continuously on the configured interval")

	return cmd
}

func runIngest(cfgFile *string, opts *IngestOptions) error {
	cfg, logger, err := setup(cfgFile)
	if err != nil {
		return err
	}

	fetcher := ingest.NewOpenMeteoClient(ingest.OpenMeteoConfig{
		BaseURL:   cfg.Weather.APIBaseURL,
		City:      cfg.Weather.City,
		Latitude:  cfg.Weather.Latitude,
		Longitude: cfg.Weather.Longitude,
	}, logger)

	writer, err := ingest.NewInfluxWriter(ingest.InfluxWriterConfig{
		URL:    cfg.InfluxDB.URL,
		Token:  cfg.InfluxDB.Token,
		Org:    cfg.InfluxDB.Org,
		Bucket: cfg.InfluxDB.Bucket,
	}, logger)
	if err != nil {
		return err
	}
	defer writer.Close()

	runner := ingest.NewRunner(fetcher, writer, logger)

	if !opts.Watch {
		result := runner.Run(context.Background())
		return result.Err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := ingest.NewScheduler(runner, cfg.Weather.Interval, logger)
	if err := scheduler.Start(ctx); err != context.Canceled {
		return err
	}
	return nil
}
