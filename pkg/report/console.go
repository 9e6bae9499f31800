package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteConsole renders the report as fixed-width text to w.
func (r *Report) WriteConsole(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)
	summary := r.summaryLocked()

	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString("SMOKE TEST REPORT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Application: %s\n", r.application)
	fmt.Fprintf(&b, "Environment: %s\n", r.environment)
	fmt.Fprintf(&b, "Test Time: %s\n", r.startTime.Format(timeFormat))
	b.WriteString(thin + "\n")
	fmt.Fprintf(&b, "Total Tests: %d | Passed: %d | Failed: %d | Duration: %dms\n",
		summary.Total, summary.Passed, summary.Failed, summary.TotalDurationMs)
	b.WriteString(thin + "\n")

	for _, e := range r.entriesLocked() {
		status := "✓ PASS"
		if !e.Passed {
			status = "✗ FAIL"
		}
		fmt.Fprintf(&b, "[%s] %s (%dms)\n", status, e.Name, e.DurationMs)
		if !e.Passed && e.Message != "" {
			fmt.Fprintf(&b, "    Reason: %s\n", e.Message)
		}
	}

	b.WriteString(rule + "\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}
