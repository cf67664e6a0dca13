package validate

import (
	"fmt"
	"strings"

	"github.com/lattice-data/walguard/internal/btree"
)

// nonCheckableIndexMarkers are the substrings (spec §4.8, preserved
// verbatim per spec §9 "Open question: expression-index detection") that
// disqualify an index from IndexIntegrity: partial indexes (" WHERE "),
// expression indexes ("(("), and indexes built on a fixed list of SQL
// functions whose results this tool cannot reproduce.
var nonCheckableIndexMarkers = []string{
	" WHERE ",
	"((",
	"LOWER(", "UPPER(", "SUBSTR(", "LENGTH(", "ABS(", "COALESCE(",
	"IFNULL(", "NULLIF(", "TYPEOF(", "CAST(", "DATE(", "TIME(",
	"DATETIME(", "JULIANDAY(", "JSON_EXTRACT(", "JSON(",
}

func isCheckableIndex(sql string) bool {
	upper := strings.ToUpper(sql)
	for _, marker := range nonCheckableIndexMarkers {
		if strings.Contains(upper, marker) {
			return false
		}
	}
	return true
}

// IndexIntegrity cross-checks each reliably-checkable index against its
// owning table: every table rowid must be referenced by the index, and
// every index entry must reference a live table rowid (spec §4.8).
type IndexIntegrity struct{}

func (IndexIntegrity) Name() string { return "IndexIntegrity" }

func (IndexIntegrity) Enabled(cfg *Config) bool {
	return cfg == nil || !cfg.DisableIndexIntegrity
}

func (v IndexIntegrity) Validate(ctx *Context) ([]ValidationIssue, error) {
	catalog, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.Name(), err)
	}

	tablesByName := make(map[string]btree.BTreeInfo)
	for _, info := range catalog {
		if info.IsTable {
			tablesByName[info.Name] = info
		}
	}

	var issues []ValidationIssue
	for _, info := range catalog {
		if info.IsTable || !isCheckableIndex(info.SQL) {
			continue
		}
		table, ok := tablesByName[info.TblName]
		if !ok {
			continue
		}

		tableRowids, err := btree.CollectTableRowids(ctx.Cache, table.RootPage)
		if err != nil {
			return nil, fmt.Errorf("%s: index %q: %w", v.Name(), info.Name, err)
		}
		indexRowids, err := btree.CollectIndexRowids(ctx.Cache, info.RootPage)
		if err != nil {
			return nil, fmt.Errorf("%s: index %q: %w", v.Name(), info.Name, err)
		}

		tableSet := make(map[int64]struct{}, len(tableRowids))
		for _, r := range tableRowids {
			tableSet[r.Rowid] = struct{}{}
		}
		indexSet := make(map[int64]struct{}, len(indexRowids))
		for _, r := range indexRowids {
			indexSet[r.Rowid] = struct{}{}
		}

		var missing, dangling []int64
		for rowid := range tableSet {
			if _, ok := indexSet[rowid]; !ok {
				missing = append(missing, rowid)
			}
		}
		for rowid := range indexSet {
			if _, ok := tableSet[rowid]; !ok {
				dangling = append(dangling, rowid)
			}
		}
		if len(missing) == 0 && len(dangling) == 0 {
			continue
		}

		sampleCap := ctx.Config.sampleCap()
		msg := fmt.Sprintf("index %q on table %q: %d missing, %d dangling — missing=%s dangling=%s",
			info.Name, info.TblName, len(missing), len(dangling),
			sampleInt64s(missing, sampleCap), sampleInt64s(dangling, sampleCap))

		issues = append(issues, ValidationIssue{
			ValidatorName: v.Name(),
			Severity:      SeverityError,
			Message:       msg,
			Location:      Location{Kind: LocationIndex, Name: info.Name},
			CommitIndex:   ctx.CommitIndex,
		})
	}
	return issues, nil
}

// sampleInt64s renders up to cap values followed by a truncation marker
// when more were supplied (spec §4.8: "at most 10 sample values ... a
// sentinel marking truncation").
func sampleInt64s(vals []int64, cap int) string {
	if len(vals) == 0 {
		return "[]"
	}
	n := len(vals)
	truncated := n > cap
	if truncated {
		n = cap
	}
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", vals[i])
	}
	if truncated {
		b.WriteString(", ...")
	}
	b.WriteByte(']')
	return b.String()
}
