package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// document is the machine-consumable report schema.
type document struct {
	ApplicationName string         `json:"applicationName"`
	Environment     string         `json:"environment"`
	TestStartTime   string         `json:"testStartTime"`
	Summary         Summary        `json:"summary"`
	TestResults     orderedEntries `json:"testResults"`
	Logs            []string       `json:"logs"`
}

// orderedEntries marshals the result map as a JSON object whose keys
// appear in insertion order rather than the alphabetical order
// encoding/json would impose on a plain map.
type orderedEntries struct {
	order   []string
	entries map[string]entry
}

// MarshalJSON implements json.Marshaler.
func (o orderedEntries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range o.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(o.entries[name])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON renders the full report document as indented JSON.
func (r *Report) MarshalJSON() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := document{
		ApplicationName: r.application,
		Environment:     r.environment,
		TestStartTime:   r.startTime.Format(timeFormat),
		Summary:         r.summaryLocked(),
		TestResults:     orderedEntries{order: r.order, entries: r.results},
		Logs:            r.logs,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// WriteJSON serializes the report to path. The write is independent of
// other renderers and does not mutate the result set.
func (r *Report) WriteJSON(path string) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal json report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	logrus.Infof("json report generated: %s", path)
	return nil
}
