package loaders

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/errors"
	"github.com/urbanops/dataqual/pkg/models"
)

// PostgresConfig holds connection settings for the warehouse database
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Database string `json:"database" yaml:"database"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	SSLMode  string `json:"ssl_mode" yaml:"ssl_mode"`
	Table    string `json:"table" yaml:"table"`
}

// PostgresLoader reads a warehouse table into a snapshot
type PostgresLoader struct {
	config  PostgresConfig
	columns []ColumnSpec
	db      *sql.DB
	logger  *logrus.Logger
}

// NewPostgresLoader creates a loader for the configured table and connects
// to the database
func NewPostgresLoader(config PostgresConfig, columns []ColumnSpec, logger *logrus.Logger) (*PostgresLoader, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if config.Table == "" {
		return nil, errors.NewConfigError(errors.CodeMissingSetting, "postgres table is required")
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		config.Host, config.Port, config.Database, config.Username, config.Password, config.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeConnectionFailed,
			"failed to open postgres connection")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeConnectionFailed,
			"failed to ping postgres")
	}

	logger.WithFields(logrus.Fields{
		"host":     config.Host,
		"database": config.Database,
		"table":    config.Table,
	}).Info("Connected to postgres")

	return &PostgresLoader{
		config:  config,
		columns: columns,
		db:      db,
		logger:  logger,
	}, nil
}

func (l *PostgresLoader) Load(ctx context.Context) (*models.Snapshot, error) {
	names := make([]string, len(l.columns))
	for i, spec := range l.columns {
		names[i] = pq.QuoteIdentifier(spec.Name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(names, ", "), pq.QuoteIdentifier(l.config.Table))

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			fmt.Sprintf("failed to query %s", l.config.Table))
	}
	defer rows.Close()

	cells := make([][]models.Value, len(l.columns))
	for rows.Next() {
		scanTargets := make([]interface{}, len(l.columns))
		numHolders := make([]sql.NullFloat64, len(l.columns))
		strHolders := make([]sql.NullString, len(l.columns))
		for i, spec := range l.columns {
			if spec.Kind == models.KindString {
				scanTargets[i] = &strHolders[i]
			} else {
				scanTargets[i] = &numHolders[i]
			}
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
				"failed to scan row")
		}

		for i, spec := range l.columns {
			if spec.Kind == models.KindString {
				if strHolders[i].Valid {
					cells[i] = append(cells[i], models.StrValue(strHolders[i].String))
				} else {
					cells[i] = append(cells[i], models.NullValue())
				}
			} else {
				if numHolders[i].Valid {
					cells[i] = append(cells[i], models.NumValue(numHolders[i].Float64))
				} else {
					cells[i] = append(cells[i], models.NullValue())
				}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			"failed reading result set")
	}

	columns := make([]models.Column, len(l.columns))
	for i, spec := range l.columns {
		values := cells[i]
		if values == nil {
			values = []models.Value{}
		}
		columns[i] = models.Column{Name: spec.Name, Kind: spec.Kind, Values: values}
	}

	snapshot, err := models.NewSnapshot(columns...)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"table": l.config.Table,
		"rows":  snapshot.RowCount(),
	}).Info("Loaded postgres snapshot")
	return snapshot, nil
}

// Close releases the database connection pool
func (l *PostgresLoader) Close() error {
	return l.db.Close()
}
