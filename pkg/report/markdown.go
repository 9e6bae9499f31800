package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// WriteMarkdown renders the report as a Markdown document at path.
func (r *Report) WriteMarkdown(path string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := r.summaryLocked()

	var b strings.Builder
	b.WriteString("# Smoke Test Report\n\n")
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Application:** %s\n", r.application)
	fmt.Fprintf(&b, "- **Environment:** %s\n", r.environment)
	fmt.Fprintf(&b, "- **Test Time:** %s\n\n", r.startTime.Format(timeFormat))

	b.WriteString("### Results\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Total Tests | %d |\n", summary.Total)
	fmt.Fprintf(&b, "| Passed | %d |\n", summary.Passed)
	fmt.Fprintf(&b, "| Failed | %d |\n", summary.Failed)
	fmt.Fprintf(&b, "| Duration | %dms |\n\n", summary.TotalDurationMs)

	b.WriteString("## Test Results\n\n")
	for _, e := range r.entriesLocked() {
		status := "✅ PASS"
		if !e.Passed {
			status = "❌ FAIL"
		}
		fmt.Fprintf(&b, "### %s %s\n\n", status, e.Name)
		fmt.Fprintf(&b, "- **Duration:** %dms\n", e.DurationMs)
		if !e.Passed && e.Message != "" {
			fmt.Fprintf(&b, "- **Reason:** %s\n", e.Message)
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	logrus.Infof("markdown report generated: %s", path)
	return nil
}
