package loaders

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/errors"
	"github.com/urbanops/dataqual/pkg/models"
)

// ColumnSpec declares the name and kind of one column to read from a CSV file
type ColumnSpec struct {
	Name string            `json:"name" yaml:"name"`
	Kind models.ColumnKind `json:"kind" yaml:"kind"`
}

// CSVLoader reads a header-first CSV file into a snapshot. Empty cells become
// nulls; numeric cells that fail to parse also become nulls and are logged.
type CSVLoader struct {
	path    string
	columns []ColumnSpec
	logger  *logrus.Logger
}

// NewCSVLoader creates a loader for the given file and column layout
func NewCSVLoader(path string, columns []ColumnSpec, logger *logrus.Logger) *CSVLoader {
	if logger == nil {
		logger = logrus.New()
	}
	return &CSVLoader{
		path:    path,
		columns: columns,
		logger:  logger,
	}
}

func (l *CSVLoader) Load(ctx context.Context) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(l.path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeDataSource, errors.CodeSourceNotFound,
			fmt.Sprintf("failed to open %s", l.path))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeDataSource, errors.CodeMalformedData,
			fmt.Sprintf("failed to parse %s", l.path))
	}
	if len(records) == 0 {
		return nil, errors.NewDataSourceError(errors.CodeMalformedData, "CSV file has no header row")
	}

	header := records[0]
	fieldIndex := make(map[string]int, len(header))
	for i, name := range header {
		fieldIndex[name] = i
	}

	rows := records[1:]
	columns := make([]models.Column, 0, len(l.columns))
	for _, spec := range l.columns {
		idx, ok := fieldIndex[spec.Name]
		if !ok {
			return nil, errors.NewDataSourceError(errors.CodeMalformedData,
				fmt.Sprintf("column %q not found in %s", spec.Name, l.path))
		}
		columns = append(columns, l.readColumn(spec, idx, rows))
	}

	snapshot, err := models.NewSnapshot(columns...)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"path":    l.path,
		"rows":    snapshot.RowCount(),
		"columns": snapshot.ColumnCount(),
	}).Info("Loaded CSV snapshot")
	return snapshot, nil
}

func (l *CSVLoader) readColumn(spec ColumnSpec, idx int, rows [][]string) models.Column {
	values := make([]models.Value, len(rows))
	for i, row := range rows {
		if idx >= len(row) || row[idx] == "" {
			values[i] = models.NullValue()
			continue
		}
		cell := row[idx]

		switch spec.Kind {
		case models.KindString:
			values[i] = models.StrValue(cell)
		default:
			num, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				l.logger.WithFields(logrus.Fields{
					"column": spec.Name,
					"row":    i + 1,
					"value":  cell,
				}).Debug("Unparsable numeric cell treated as null")
				values[i] = models.NullValue()
				continue
			}
			values[i] = models.NumValue(num)
		}
	}
	return models.Column{Name: spec.Name, Kind: spec.Kind, Values: values}
}
