// Package report accumulates the result of a validation run into a
// structured Report and renders it as JSON or as a human-readable summary
// (spec §6 "structured report", §7 "summary line distinguishing base-state
// issues from WAL-induced issues", §12.2 supplemented per-run counts).
package report

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lattice-data/walguard/internal/validate"
)

// Report is the outcome of one validation run.
type Report struct {
	RunID  string
	Issues []validate.ValidationIssue

	// CommitsProcessed, TablesScanned, IndexesScanned are the per-run
	// summary counts carried over from the original implementation's
	// report module (spec §12.2 supplemented feature).
	CommitsProcessed int
	TablesScanned    int
	IndexesScanned   int

	PageSize      uint32
	BasePageCount uint32
}

// New starts a Report tagged with a fresh run ID (spec §10.2: every run is
// independently traceable across log lines).
func New() *Report {
	return &Report{RunID: uuid.NewString()}
}

// AddIssues appends issues discovered during one pass.
func (r *Report) AddIssues(issues []validate.ValidationIssue) {
	r.Issues = append(r.Issues, issues...)
}

// BaseIssues returns the issues found at the base-state pass (CommitIndex
// nil).
func (r *Report) BaseIssues() []validate.ValidationIssue {
	var out []validate.ValidationIssue
	for _, iss := range r.Issues {
		if iss.CommitIndex == nil {
			out = append(out, iss)
		}
	}
	return out
}

// WALIssues returns the issues found during a WAL commit pass.
func (r *Report) WALIssues() []validate.ValidationIssue {
	var out []validate.ValidationIssue
	for _, iss := range r.Issues {
		if iss.CommitIndex != nil {
			out = append(out, iss)
		}
	}
	return out
}

// HasIssues reports whether any issue was recorded, at any severity.
func (r *Report) HasIssues() bool {
	return len(r.Issues) > 0
}

// LogPassBoundary emits a Debug-level trace line marking the start of one
// validation pass (spec §10.2: core packages stay silent, but report
// tracing is the one place this run's shape is logged for operators piping
// output through log aggregation).
func (r *Report) LogPassBoundary(logger *logrus.Logger, label string, commitIndex *int) {
	if logger == nil {
		return
	}
	fields := logrus.Fields{"run_id": r.RunID, "pass": label}
	if commitIndex != nil {
		fields["commit_index"] = *commitIndex
	}
	logger.WithFields(fields).Debug("validation pass starting")
}
