package report

import (
	"encoding/json"
	"testing"

	"github.com/lattice-data/walguard/internal/validate"
)

func TestMarshalJSONRoundTrip(t *testing.T) {
	r := New()
	r.CommitsProcessed = 1
	r.TablesScanned = 2
	r.IndexesScanned = 1
	commit0 := 0
	r.AddIssues([]validate.ValidationIssue{issueAt(&commit0, validate.SeverityError)})

	buf, err := r.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}

	var decoded jsonReport
	if err := json.Unmarshal(buf, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.RunID != r.RunID {
		t.Errorf("RunID=%q, want %q", decoded.RunID, r.RunID)
	}
	if len(decoded.Issues) != 1 {
		t.Fatalf("len(Issues)=%d, want 1", len(decoded.Issues))
	}
	if decoded.Issues[0].Severity != "Error" {
		t.Errorf("Severity=%q, want Error", decoded.Issues[0].Severity)
	}
	if decoded.Issues[0].CommitIndex == nil || *decoded.Issues[0].CommitIndex != 0 {
		t.Errorf("CommitIndex=%v, want 0", decoded.Issues[0].CommitIndex)
	}
}

func TestMarshalJSONOmitsCommitIndexForBaseIssues(t *testing.T) {
	r := New()
	r.AddIssues([]validate.ValidationIssue{issueAt(nil, validate.SeverityWarning)})

	buf, err := r.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded jsonReport
	if err := json.Unmarshal(buf, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Issues[0].CommitIndex != nil {
		t.Errorf("CommitIndex=%v, want nil for a base-state issue", decoded.Issues[0].CommitIndex)
	}
}
