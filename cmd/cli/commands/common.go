package commands

import (
	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/internal/config"
	"github.com/urbanops/dataqual/internal/loaders"
	"github.com/urbanops/dataqual/pkg/interfaces"
	"github.com/urbanops/dataqual/pkg/models"
)

// setup loads configuration and builds the logger every command shares
func setup(cfgFile *string) (*config.Config, *logrus.Logger, error) {
	path := ""
	if cfgFile != nil {
		path = *cfgFile
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return cfg, logger, nil
}

// factColumns is the column layout shared by the CSV and warehouse loaders
var factColumns = []loaders.ColumnSpec{
	{Name: "date_key", Kind: models.KindInt},
	{Name: "pickup_zone_id", Kind: models.KindInt},
	{Name: "dropoff_zone_id", Kind: models.KindInt},
	{Name: "total_trips", Kind: models.KindInt},
	{Name: "total_fare", Kind: models.KindFloat},
	{Name: "avg_fare", Kind: models.KindFloat},
	{Name: "total_distance", Kind: models.KindFloat},
}

// buildLoader picks the snapshot source: an explicit CSV file, the
// configured warehouse table, or generated sample data
func buildLoader(source, csvPath string, cfg *config.Config, logger *logrus.Logger) (interfaces.Loader, func(), error) {
	noop := func() {}

	switch source {
	case "csv":
		return loaders.NewCSVLoader(csvPath, factColumns, logger), noop, nil
	case "postgres":
		loader, err := loaders.NewPostgresLoader(loaders.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			Username: cfg.Postgres.Username,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			Table:    cfg.Postgres.Table,
		}, factColumns, logger)
		if err != nil {
			return nil, nil, err
		}
		return loader, func() { loader.Close() }, nil
	default:
		return loaders.NewSampleLoader(logger), noop, nil
	}
}
