// Package report renders an accumulated set of check results into
// human- or machine-consumable artifacts: console text, JSON, HTML,
// and Markdown.
//
// A Report is built incrementally via AddResult/AddLog and consumed by
// any number of Write* calls in any order; rendering is read-only with
// respect to the underlying data, so it is idempotent and
// non-destructive. An I/O failure in one renderer does not affect
// other renderers or the result set.
package report

import (
	"sync"
	"time"

	"github.com/jvandyke/smokecheck/pkg/check"
)

// timeFormat is the timestamp layout used in every rendered format.
const timeFormat = "2006-01-02 15:04:05"

// entry is one named test result inside a Report.
type entry struct {
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	Message    string `json:"message"`
	DurationMs int64  `json:"durationMs"`
}

// Summary aggregates the result set. Passed+Failed always equals Total.
type Summary struct {
	Total           int   `json:"total"`
	Passed          int   `json:"passed"`
	Failed          int   `json:"failed"`
	TotalDurationMs int64 `json:"totalDurationMs"`
}

// Report accumulates named results and free-form log lines for
// rendering. It is safe for concurrent use.
type Report struct {
	mu          sync.RWMutex
	application string
	environment string
	startTime   time.Time
	order       []string
	results     map[string]entry
	logs        []string
}

// New creates a Report for the given application and environment,
// stamping the test start time.
func New(application, environment string) *Report {
	return &Report{
		application: application,
		environment: environment,
		startTime:   time.Now(),
		results:     make(map[string]entry),
		logs:        []string{},
	}
}

// AddResult appends a result, or overwrites an existing entry of the
// same name in place (insertion order is preserved).
func (r *Report) AddResult(name string, passed bool, message string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.results[name]; !seen {
		r.order = append(r.order, name)
	}
	r.results[name] = entry{
		Name:       name,
		Passed:     passed,
		Message:    message,
		DurationMs: elapsed.Milliseconds(),
	}
}

// AddCheckResults feeds harness results into the report.
func (r *Report) AddCheckResults(results ...check.Result) {
	for _, res := range results {
		r.AddResult(res.Subject, res.Healthy, res.Message, res.Elapsed)
	}
}

// AddLog appends a free-form log line.
func (r *Report) AddLog(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, line)
}

// Summary folds over all entries. It is a pure function of the current
// state: re-calling it without further mutation returns an identical
// value.
func (r *Report) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summaryLocked()
}

// summaryLocked computes the summary; callers must hold at least a
// read lock.
func (r *Report) summaryLocked() Summary {
	s := Summary{Total: len(r.order)}
	for _, name := range r.order {
		e := r.results[name]
		if e.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		s.TotalDurationMs += e.DurationMs
	}
	return s
}

// entriesLocked returns entries in insertion order; callers must hold
// at least a read lock.
func (r *Report) entriesLocked() []entry {
	entries := make([]entry, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, r.results[name])
	}
	return entries
}
