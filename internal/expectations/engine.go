package expectations

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/errors"
	"github.com/urbanops/dataqual/pkg/interfaces"
	"github.com/urbanops/dataqual/pkg/models"
)

// Engine evaluates a registered suite of rules against snapshots. Rules run
// in registration order and a failing rule never stops the run.
type Engine struct {
	suiteName string
	logger    *logrus.Logger
	rules     []interfaces.Rule
}

// NewEngine creates an engine for the named suite
func NewEngine(suiteName string, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		suiteName: suiteName,
		logger:    logger,
		rules:     make([]interfaces.Rule, 0),
	}
}

// SuiteName returns the name stamped onto every report
func (e *Engine) SuiteName() string {
	return e.suiteName
}

// Register appends rules to the suite. Registration order is evaluation order.
func (e *Engine) Register(rules ...interfaces.Rule) {
	e.rules = append(e.rules, rules...)
}

// RuleCount returns the number of registered rules
func (e *Engine) RuleCount() int {
	return len(e.rules)
}

// Evaluate runs every registered rule against the snapshot and returns the
// aggregated report. A nil snapshot is an error; an empty suite yields a
// report with no results.
func (e *Engine) Evaluate(ctx context.Context, snapshot *models.Snapshot) (*models.Report, error) {
	if snapshot == nil {
		return nil, errors.NewDataSourceError(errors.CodeSnapshotMissing, "snapshot cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	e.logger.WithFields(logrus.Fields{
		"suite":     e.suiteName,
		"rules":     len(e.rules),
		"row_count": snapshot.RowCount(),
	}).Info("Starting validation run")

	results := make([]models.RuleResult, 0, len(e.rules))
	for _, rule := range e.rules {
		result := rule.Evaluate(snapshot)
		results = append(results, result)

		if result.Passed {
			e.logger.WithFields(logrus.Fields{
				"rule":   result.Name,
				"column": result.Column,
			}).Debug("[OK] rule passed")
		} else {
			e.logger.WithFields(logrus.Fields{
				"rule":       result.Name,
				"column":     result.Column,
				"details":    result.Details,
				"violations": result.ViolationCount,
			}).Warn("[FAIL] rule failed")
		}
	}

	report := models.NewReport(e.suiteName, snapshot.RowCount(), results)

	e.logger.WithFields(logrus.Fields{
		"suite":        e.suiteName,
		"report_id":    report.ID,
		"passed":       report.PassedCount(),
		"failed":       report.FailedCount(),
		"success_rate": report.SuccessRate(),
		"duration":     time.Since(start).String(),
	}).Info("Validation run complete")

	return report, nil
}
