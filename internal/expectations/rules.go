package expectations

import (
	"fmt"

	"github.com/urbanops/dataqual/pkg/errors"
	"github.com/urbanops/dataqual/pkg/models"
)

// ColumnExistsRule checks that a snapshot contains the target column
type ColumnExistsRule struct {
	column string
}

// NewColumnExists creates a rule asserting that the column is present
func NewColumnExists(column string) (*ColumnExistsRule, error) {
	if column == "" {
		return nil, errors.NewConfigError(errors.CodeInvalidSetting, "rule column cannot be empty")
	}
	return &ColumnExistsRule{column: column}, nil
}

func (r *ColumnExistsRule) Name() string {
	return fmt.Sprintf("column_exists(%s)", r.column)
}

func (r *ColumnExistsRule) Column() string {
	return r.column
}

func (r *ColumnExistsRule) Evaluate(snapshot *models.Snapshot) models.RuleResult {
	result := models.RuleResult{Name: r.Name(), Column: r.column}
	if snapshot.HasColumn(r.column) {
		result.Passed = true
		result.Details = "column exists"
	} else {
		result.Details = "column not found"
	}
	return result
}

// ColumnNotNullRule checks that the fraction of null values in a column stays
// within a configured bound
type ColumnNotNullRule struct {
	column          string
	maxNullFraction float64
}

// NewColumnNotNull creates a rule bounding the null fraction of a column.
// A maxNullFraction of 0 demands a fully populated column.
func NewColumnNotNull(column string, maxNullFraction float64) (*ColumnNotNullRule, error) {
	if column == "" {
		return nil, errors.NewConfigError(errors.CodeInvalidSetting, "rule column cannot be empty")
	}
	if maxNullFraction < 0 || maxNullFraction > 1 {
		return nil, errors.NewConfigError(errors.CodeInvalidFraction,
			fmt.Sprintf("max null fraction must be within [0, 1], got %v", maxNullFraction))
	}
	return &ColumnNotNullRule{column: column, maxNullFraction: maxNullFraction}, nil
}

func (r *ColumnNotNullRule) Name() string {
	return fmt.Sprintf("not_null(%s)", r.column)
}

func (r *ColumnNotNullRule) Column() string {
	return r.column
}

func (r *ColumnNotNullRule) Evaluate(snapshot *models.Snapshot) models.RuleResult {
	result := models.RuleResult{Name: r.Name(), Column: r.column}

	col, ok := snapshot.Column(r.column)
	if !ok {
		result.Details = "column does not exist"
		return result
	}

	nullCount := col.NullCount()
	fraction := 0.0
	if snapshot.RowCount() > 0 {
		fraction = float64(nullCount) / float64(snapshot.RowCount())
	}

	result.ViolationCount = nullCount
	if fraction <= r.maxNullFraction {
		result.Passed = true
		result.Details = fmt.Sprintf("%d of %d values null (fraction %.4f within limit %.4f)",
			nullCount, snapshot.RowCount(), fraction, r.maxNullFraction)
	} else {
		result.Details = fmt.Sprintf("%d of %d values null (fraction %.4f exceeds limit %.4f)",
			nullCount, snapshot.RowCount(), fraction, r.maxNullFraction)
	}
	return result
}

// ColumnValuesBetweenRule checks that every non-null value falls within an
// inclusive range
type ColumnValuesBetweenRule struct {
	column string
	min    float64
	max    float64
}

// NewColumnValuesBetween creates a rule bounding every non-null value to
// [min, max] inclusive
func NewColumnValuesBetween(column string, min, max float64) (*ColumnValuesBetweenRule, error) {
	if column == "" {
		return nil, errors.NewConfigError(errors.CodeInvalidSetting, "rule column cannot be empty")
	}
	if min > max {
		return nil, errors.NewConfigError(errors.CodeInvalidRange,
			fmt.Sprintf("min %v is greater than max %v", min, max))
	}
	return &ColumnValuesBetweenRule{column: column, min: min, max: max}, nil
}

func (r *ColumnValuesBetweenRule) Name() string {
	return fmt.Sprintf("values_between(%s)", r.column)
}

func (r *ColumnValuesBetweenRule) Column() string {
	return r.column
}

func (r *ColumnValuesBetweenRule) Evaluate(snapshot *models.Snapshot) models.RuleResult {
	result := models.RuleResult{Name: r.Name(), Column: r.column}

	col, ok := snapshot.Column(r.column)
	if !ok {
		result.Details = "column does not exist"
		return result
	}
	if col.Kind == models.KindString {
		result.Details = "column is not numeric"
		return result
	}

	values := col.NumericValues()
	if len(values) == 0 {
		// No populated values to violate the range
		result.Passed = true
		result.Details = "no non-null values to check"
		return result
	}

	observedMin, observedMax := values[0], values[0]
	violations := 0
	for _, v := range values {
		if v < observedMin {
			observedMin = v
		}
		if v > observedMax {
			observedMax = v
		}
		if v < r.min || v > r.max {
			violations++
		}
	}

	result.ObservedMin = &observedMin
	result.ObservedMax = &observedMax
	result.ViolationCount = violations
	if violations == 0 {
		result.Passed = true
		result.Details = fmt.Sprintf("all values within [%v, %v]", r.min, r.max)
	} else {
		result.Details = fmt.Sprintf("%d values outside [%v, %v] (observed range [%v, %v])",
			violations, r.min, r.max, observedMin, observedMax)
	}
	return result
}

// ColumnValuesPositiveRule checks that every non-null value is strictly
// greater than zero
type ColumnValuesPositiveRule struct {
	column string
}

// NewColumnValuesPositive creates a rule requiring strictly positive values
func NewColumnValuesPositive(column string) (*ColumnValuesPositiveRule, error) {
	if column == "" {
		return nil, errors.NewConfigError(errors.CodeInvalidSetting, "rule column cannot be empty")
	}
	return &ColumnValuesPositiveRule{column: column}, nil
}

func (r *ColumnValuesPositiveRule) Name() string {
	return fmt.Sprintf("values_positive(%s)", r.column)
}

func (r *ColumnValuesPositiveRule) Column() string {
	return r.column
}

func (r *ColumnValuesPositiveRule) Evaluate(snapshot *models.Snapshot) models.RuleResult {
	return evaluateThreshold(snapshot, r.Name(), r.column, 0,
		"all values positive", "%d non-positive values found")
}

// ColumnValuesGreaterThanRule checks that every non-null value is strictly
// greater than a threshold
type ColumnValuesGreaterThanRule struct {
	column    string
	threshold float64
}

// NewColumnValuesGreaterThan creates a rule requiring values strictly above
// the threshold
func NewColumnValuesGreaterThan(column string, threshold float64) (*ColumnValuesGreaterThanRule, error) {
	if column == "" {
		return nil, errors.NewConfigError(errors.CodeInvalidSetting, "rule column cannot be empty")
	}
	return &ColumnValuesGreaterThanRule{column: column, threshold: threshold}, nil
}

func (r *ColumnValuesGreaterThanRule) Name() string {
	return fmt.Sprintf("values_greater_than(%s)", r.column)
}

func (r *ColumnValuesGreaterThanRule) Column() string {
	return r.column
}

func (r *ColumnValuesGreaterThanRule) Evaluate(snapshot *models.Snapshot) models.RuleResult {
	return evaluateThreshold(snapshot, r.Name(), r.column, r.threshold,
		fmt.Sprintf("all values greater than %v", r.threshold),
		fmt.Sprintf("%%d values not greater than %v", r.threshold))
}

func evaluateThreshold(snapshot *models.Snapshot, name, column string, threshold float64, passDetails, failFormat string) models.RuleResult {
	result := models.RuleResult{Name: name, Column: column}

	col, ok := snapshot.Column(column)
	if !ok {
		result.Details = "column does not exist"
		return result
	}
	if col.Kind == models.KindString {
		result.Details = "column is not numeric"
		return result
	}

	values := col.NumericValues()
	if len(values) == 0 {
		result.Passed = true
		result.Details = "no non-null values to check"
		return result
	}

	observedMin, observedMax := values[0], values[0]
	violations := 0
	for _, v := range values {
		if v < observedMin {
			observedMin = v
		}
		if v > observedMax {
			observedMax = v
		}
		if v <= threshold {
			violations++
		}
	}

	result.ObservedMin = &observedMin
	result.ObservedMax = &observedMax
	result.ViolationCount = violations
	if violations == 0 {
		result.Passed = true
		result.Details = passDetails
	} else {
		result.Details = fmt.Sprintf(failFormat, violations)
	}
	return result
}
