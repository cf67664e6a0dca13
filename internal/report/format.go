package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/lattice-data/walguard/internal/validate"
)

// jsonIssue is the wire shape of a ValidationIssue: severities and location
// kinds rendered as strings rather than the package's internal enums, so
// the JSON report is stable across refactors of those enums.
type jsonIssue struct {
	Validator   string `json:"validator"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Location    string `json:"location"`
	CommitIndex *int   `json:"commit_index,omitempty"`
}

type jsonReport struct {
	RunID            string      `json:"run_id"`
	CommitsProcessed int         `json:"commits_processed"`
	TablesScanned    int         `json:"tables_scanned"`
	IndexesScanned   int         `json:"indexes_scanned"`
	Issues           []jsonIssue `json:"issues"`
}

// MarshalJSON renders the report as indented JSON (spec §6 structured
// report).
func (r *Report) MarshalJSON() ([]byte, error) {
	jr := jsonReport{
		RunID:            r.RunID,
		CommitsProcessed: r.CommitsProcessed,
		TablesScanned:    r.TablesScanned,
		IndexesScanned:   r.IndexesScanned,
	}
	for _, iss := range r.Issues {
		jr.Issues = append(jr.Issues, jsonIssue{
			Validator:   iss.ValidatorName,
			Severity:    iss.Severity.String(),
			Message:     iss.Message,
			Location:    iss.Location.String(),
			CommitIndex: iss.CommitIndex,
		})
	}
	return json.MarshalIndent(jr, "", "  ")
}

// Summary renders a human-readable report: a headline distinguishing
// base-state issues from WAL-induced issues (spec §7), followed by one
// line per issue. Byte-count-bearing fields use humanize for readability.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d commit(s) processed, %d table(s), %d index(es), page size %s\n",
		r.RunID, r.CommitsProcessed, r.TablesScanned, r.IndexesScanned,
		humanize.Bytes(uint64(r.PageSize)))

	base, wal := r.BaseIssues(), r.WALIssues()
	fmt.Fprintf(&b, "%d base-state issue(s), %d WAL-induced issue(s)\n", len(base), len(wal))

	for _, iss := range append(append([]validate.ValidationIssue{}, base...), wal...) {
		pass := "base"
		if iss.CommitIndex != nil {
			pass = fmt.Sprintf("commit %d", *iss.CommitIndex)
		}
		fmt.Fprintf(&b, "[%s] %s at %s (%s): %s\n", iss.Severity, iss.ValidatorName, iss.Location, pass, iss.Message)
	}
	return b.String()
}
