package expectations

import (
	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/interfaces"
)

// DefaultTaxiSuiteName is the suite applied to the daily taxi fact table
const DefaultTaxiSuiteName = "fact_taxi_daily"

// DefaultTaxiRules builds the expectation suite for the daily taxi fact
// table: schema presence, key completeness, and value sanity bounds.
func DefaultTaxiRules() ([]interfaces.Rule, error) {
	builders := []func() (interfaces.Rule, error){
		func() (interfaces.Rule, error) { return NewColumnExists("date_key") },
		func() (interfaces.Rule, error) { return NewColumnExists("pickup_zone_id") },
		func() (interfaces.Rule, error) { return NewColumnExists("dropoff_zone_id") },
		func() (interfaces.Rule, error) { return NewColumnExists("total_trips") },
		func() (interfaces.Rule, error) { return NewColumnExists("total_fare") },
		func() (interfaces.Rule, error) { return NewColumnExists("avg_fare") },
		func() (interfaces.Rule, error) { return NewColumnNotNull("date_key", 0) },
		func() (interfaces.Rule, error) { return NewColumnNotNull("pickup_zone_id", 0) },
		func() (interfaces.Rule, error) { return NewColumnNotNull("total_trips", 0) },
		func() (interfaces.Rule, error) { return NewColumnValuesBetween("total_trips", 1, 1000000) },
		func() (interfaces.Rule, error) { return NewColumnValuesBetween("avg_fare", 1, 500) },
		func() (interfaces.Rule, error) { return NewColumnValuesBetween("pickup_zone_id", 1, 265) },
		func() (interfaces.Rule, error) { return NewColumnValuesBetween("date_key", 20250101, 20261231) },
		func() (interfaces.Rule, error) { return NewColumnValuesPositive("total_fare") },
		func() (interfaces.Rule, error) { return NewColumnValuesGreaterThan("total_distance", 0) },
	}

	rules := make([]interfaces.Rule, 0, len(builders))
	for _, build := range builders {
		rule, err := build()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// NewDefaultTaxiEngine builds an engine preloaded with the taxi suite
func NewDefaultTaxiEngine(logger *logrus.Logger) (*Engine, error) {
	rules, err := DefaultTaxiRules()
	if err != nil {
		return nil, err
	}
	engine := NewEngine(DefaultTaxiSuiteName, logger)
	engine.Register(rules...)
	return engine, nil
}
