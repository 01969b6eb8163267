package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/urbanops/dataqual/internal/expectations"
	"github.com/urbanops/dataqual/internal/reporters"
)

type ValidateOptions struct {
	Source   string
	CSVPath  string
	Telegram bool
}

func NewValidateCmd(cfgFile *string) *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the expectation suite against the taxi fact table",
		Long: `Load a snapshot of the daily taxi fact table, evaluate every
registered expectation against it, and print the resulting report.`,
		Example: `  # Validate generated sample data
  dataqual-cli validate

  # Validate a local CSV extract
  dataqual-cli validate --source csv --input facts.csv

  # Validate the warehouse table and send a Telegram summary
  dataqual-cli validate --source postgres --telegram`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cfgFile, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "sample", "Snapshot source (sample, csv, postgres)")
	cmd.Flags().StringVarP(&opts.CSVPath, "input", "i", "", "CSV file to validate (required with --source csv)")
	cmd.Flags().BoolVar(&opts.Telegram, "telegram", false, "Send the report summary to Telegram")

	return cmd
}

func runValidate(cfgFile *string, opts *ValidateOptions) error {
	cfg, logger, err := setup(cfgFile)
	if err != nil {
		return err
	}
	if opts.Source == "csv" && opts.CSVPath == "" {
		return fmt.Errorf("--input is required with --source csv")
	}

	ctx := context.Background()

	loader, cleanup, err := buildLoader(opts.Source, opts.CSVPath, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	engine, err := expectations.NewDefaultTaxiEngine(logger)
	if err != nil {
		return err
	}

	snapshot, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	report, err := engine.Evaluate(ctx, snapshot)
	if err != nil {
		return err
	}

	dispatcher := reporters.NewDispatcher(logger, reporters.NewConsoleReporter(os.Stdout))
	if opts.Telegram {
		dispatcher.Register(reporters.NewTelegramReporter(reporters.TelegramConfig{
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
			Timeout:  cfg.Telegram.Timeout,
		}, logger))
	}
	dispatcher.Dispatch(ctx, report)

	if !report.IsSuccess() {
		return fmt.Errorf("validation failed: %d of %d checks failed",
			report.FailedCount(), report.TotalChecks())
	}
	return nil
}
