package interfaces

import (
	"github.com/urbanops/dataqual/pkg/models"
)

// Rule evaluates one expectation against a snapshot. Implementations must be
// pure: evaluating the same snapshot twice yields the same result.
type Rule interface {
	// Name returns a stable identifier such as "values_between(total_trips)"
	Name() string

	// Column returns the target column name
	Column() string

	// Evaluate checks the rule against a non-nil snapshot. Data problems are
	// reported through the result, never through panics.
	Evaluate(snapshot *models.Snapshot) models.RuleResult
}
