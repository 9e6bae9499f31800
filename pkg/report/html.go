package report

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// WriteHTML renders the report as a standalone styled HTML page at
// path. Results carry a pass or fail class for coloring.
func (r *Report) WriteHTML(path string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := r.summaryLocked()

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>Smoke Test Report - %s</title>\n", html.EscapeString(r.application))
	b.WriteString("<style>\n")
	b.WriteString("body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }\n")
	b.WriteString(".container { max-width: 1200px; margin: 0 auto; background: white; padding: 20px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }\n")
	b.WriteString("h1 { color: #333; border-bottom: 3px solid #007bff; padding-bottom: 10px; }\n")
	b.WriteString(".summary { background: #e9ecef; padding: 15px; border-radius: 5px; margin: 20px 0; }\n")
	b.WriteString(".test-result { margin: 10px 0; padding: 10px; border-left: 4px solid; }\n")
	b.WriteString(".pass { border-color: #28a745; background: #d4edda; }\n")
	b.WriteString(".fail { border-color: #dc3545; background: #f8d7da; }\n")
	b.WriteString(".metric { display: inline-block; margin-right: 20px; }\n")
	b.WriteString("</style>\n</head>\n<body>\n<div class='container'>\n")

	b.WriteString("<h1>Smoke Test Report</h1>\n<div class='summary'>\n")
	fmt.Fprintf(&b, "<p><strong>Application:</strong> %s</p>\n", html.EscapeString(r.application))
	fmt.Fprintf(&b, "<p><strong>Environment:</strong> %s</p>\n", html.EscapeString(r.environment))
	fmt.Fprintf(&b, "<p><strong>Test Time:</strong> %s</p>\n", r.startTime.Format(timeFormat))
	b.WriteString("<div style='margin-top: 15px;'>\n")
	fmt.Fprintf(&b, "<span class='metric'><strong>Total:</strong> %d</span>\n", summary.Total)
	fmt.Fprintf(&b, "<span class='metric' style='color: #28a745;'><strong>Passed:</strong> %d</span>\n", summary.Passed)
	fmt.Fprintf(&b, "<span class='metric' style='color: #dc3545;'><strong>Failed:</strong> %d</span>\n", summary.Failed)
	fmt.Fprintf(&b, "<span class='metric'><strong>Duration:</strong> %dms</span>\n", summary.TotalDurationMs)
	b.WriteString("</div>\n</div>\n")

	b.WriteString("<h2>Test Results</h2>\n")
	for _, e := range r.entriesLocked() {
		class, status := "pass", "✓ PASS"
		if !e.Passed {
			class, status = "fail", "✗ FAIL"
		}
		fmt.Fprintf(&b, "<div class='test-result %s'>\n", class)
		fmt.Fprintf(&b, "<strong>%s</strong> %s <em>(%dms)</em>\n", status, html.EscapeString(e.Name), e.DurationMs)
		if !e.Passed && e.Message != "" {
			fmt.Fprintf(&b, "<br><small>Reason: %s</small>\n", html.EscapeString(e.Message))
		}
		b.WriteString("</div>\n")
	}

	b.WriteString("</div>\n</body>\n</html>")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write html report: %w", err)
	}
	logrus.Infof("html report generated: %s", path)
	return nil
}
