package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/urbanops/dataqual/internal/expectations"
	"github.com/urbanops/dataqual/internal/observability/metrics"
	"github.com/urbanops/dataqual/internal/reporters"
	"github.com/urbanops/dataqual/internal/server"
	"github.com/urbanops/dataqual/pkg/interfaces"
)

type ServeOptions struct {
	Source  string
	CSVPath string
}

func NewServeCmd(cfgFile *string) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the validation HTTP API",
		Long: `Serve the validation API: trigger runs over HTTP, browse stored
reports, and expose Prometheus metrics.`,
		Example: `  # Serve against sample data
  dataqual-cli serve

  # Serve against the warehouse
  dataqual-cli serve --source postgres`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgFile, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "sample", "Snapshot source (sample, csv, postgres)")
	cmd.Flags().StringVarP(&opts.CSVPath, "input", "i", "", "CSV file to validate (required with --source csv)")

	return cmd
}

func runServe(cfgFile *string, opts *ServeOptions) error {
	cfg, logger, err := setup(cfgFile)
	if err != nil {
		return err
	}

	loader, cleanup, err := buildLoader(opts.Source, opts.CSVPath, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	engine, err := expectations.NewDefaultTaxiEngine(logger)
	if err != nil {
		return err
	}

	var store interfaces.ReportStore
	if cfg.Redis.Enabled {
		store, err = server.NewRedisStore(server.RedisStoreConfig{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			TTL:       cfg.Redis.TTL,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}, logger)
		if err != nil {
			return err
		}
	} else {
		store = server.NewMemoryStore()
	}
	defer store.Close()

	m := metrics.New()

	dispatcher := reporters.NewDispatcher(logger).WithFailureSink(m)
	telegram := reporters.NewTelegramReporter(reporters.TelegramConfig{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
		Timeout:  cfg.Telegram.Timeout,
	}, logger)
	if telegram.Configured() {
		dispatcher.Register(telegram)
	}
	service := server.NewService(loader, engine, dispatcher, store, m, logger)
	router := server.NewRouter(service, m, logger)

	srv := server.New(server.Config{
		Address:      cfg.ServerAddress(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, router, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
