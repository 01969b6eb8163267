package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/internal/pipeline"
	"github.com/urbanops/dataqual/pkg/errors"
)

// Summary aggregates a set of fact rows for one reporting period
type Summary struct {
	Period       string                   `json:"period"`
	TotalTrips   int64                    `json:"total_trips"`
	TotalFare    float64                  `json:"total_fare"`
	AvgFare      float64                  `json:"avg_fare"`
	ZoneCount    int                      `json:"zone_count"`
	TopZones     []pipeline.FactTaxiDaily `json:"top_zones"`
	TopZoneNames []string                 `json:"top_zone_names"`
}

// topZoneCount caps the top-earning zone pairs listed in a summary
const topZoneCount = 3

// Exporter writes periodic taxi summaries to JSON files and optionally
// mirrors them to a sync directory and S3
type Exporter struct {
	outputDir string
	logger    *logrus.Logger
	targets   []Target
}

// Target mirrors an exported file to a secondary destination
type Target interface {
	Name() string
	Publish(ctx context.Context, path string) error
}

// NewExporter creates an exporter writing to outputDir
func NewExporter(outputDir string, logger *logrus.Logger, targets ...Target) *Exporter {
	if logger == nil {
		logger = logrus.New()
	}
	return &Exporter{
		outputDir: outputDir,
		logger:    logger,
		targets:   targets,
	}
}

// Summarize aggregates fact rows into a period summary. Top zones rank by
// total fare, highest first.
func Summarize(period string, facts []pipeline.FactTaxiDaily) Summary {
	summary := Summary{Period: period, ZoneCount: len(facts)}
	for _, fact := range facts {
		summary.TotalTrips += fact.TotalTrips
		summary.TotalFare += fact.TotalFare
	}
	if summary.TotalTrips > 0 {
		summary.AvgFare = summary.TotalFare / float64(summary.TotalTrips)
	}

	ranked := make([]pipeline.FactTaxiDaily, len(facts))
	copy(ranked, facts)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].TotalFare > ranked[j].TotalFare })

	limit := topZoneCount
	if len(ranked) < limit {
		limit = len(ranked)
	}
	summary.TopZones = ranked[:limit]
	summary.TopZoneNames = make([]string, 0, limit)
	for _, fact := range summary.TopZones {
		summary.TopZoneNames = append(summary.TopZoneNames, zonePairLabel(fact))
	}
	return summary
}

func zonePairLabel(fact pipeline.FactTaxiDaily) string {
	return fmt.Sprintf("%s -> %s", zoneName(fact.PickupZoneID), zoneName(fact.DropoffZoneID))
}

func zoneName(id int64) string {
	if zone, ok := pipeline.ZoneByID(id); ok {
		return zone.Name
	}
	return fmt.Sprintf("zone %d", id)
}

// Export writes the summary as a timestamped JSON file and publishes it to
// every configured target. Target failures are logged, not returned; the
// local file is the source of truth.
func (e *Exporter) Export(ctx context.Context, summary Summary) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
			fmt.Sprintf("failed to create output dir %s", e.outputDir))
	}

	filename := fmt.Sprintf("taxi_report_%s_%s.json",
		summary.Period, time.Now().UTC().Format("20060102T150405Z"))
	path := filepath.Join(e.outputDir, filename)

	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", errors.WrapError(err, errors.ErrorTypeInternal, errors.CodeWriteFailed,
			"failed to encode summary")
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
			fmt.Sprintf("failed to write %s", path))
	}

	e.logger.WithFields(logrus.Fields{
		"path":   path,
		"period": summary.Period,
		"zones":  summary.ZoneCount,
	}).Info("Exported taxi summary")

	for _, target := range e.targets {
		if err := target.Publish(ctx, path); err != nil {
			e.logger.WithFields(logrus.Fields{
				"target": target.Name(),
				"path":   path,
				"error":  err.Error(),
			}).Error("Export target failed")
		}
	}
	return path, nil
}
