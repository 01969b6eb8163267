package reporters

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urbanops/dataqual/pkg/models"
)

// ConsoleReporter writes a human-readable summary of a report to a writer
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a console reporter. A nil writer defaults to
// stdout.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) Name() string {
	return "console"
}

func (r *ConsoleReporter) Notify(_ context.Context, report *models.Report) error {
	status := "PASSED"
	if !report.IsSuccess() {
		status = "FAILED"
	}

	fmt.Fprintf(r.out, "=== Validation Report: %s [%s] ===\n", report.SuiteName, status)
	fmt.Fprintf(r.out, "Timestamp:    %s\n", report.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(r.out, "Rows checked: %d\n", report.RowCount)
	fmt.Fprintf(r.out, "Checks:       %d total, %d passed, %d failed\n",
		report.TotalChecks(), report.PassedCount(), report.FailedCount())
	fmt.Fprintf(r.out, "Success rate: %.1f%%\n", report.SuccessRate())

	failed := report.FailedResults()
	if len(failed) > 0 {
		fmt.Fprintln(r.out, "Failed checks:")
		for _, res := range failed {
			fmt.Fprintf(r.out, "  - %s: %s\n", res.Name, res.Details)
		}
	}

	return nil
}
