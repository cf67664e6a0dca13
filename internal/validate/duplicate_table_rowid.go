package validate

import "fmt"

// DuplicateTableRowid flags any table B-tree where a rowid occurs more than
// once (spec §4.8). This would never happen in a correctly operating
// engine: rowids are the table's primary key.
type DuplicateTableRowid struct{}

func (DuplicateTableRowid) Name() string { return "DuplicateTableRowid" }

func (DuplicateTableRowid) Enabled(cfg *Config) bool {
	return cfg == nil || !cfg.DisableDuplicateTableRowid
}

func (v DuplicateTableRowid) Validate(ctx *Context) ([]ValidationIssue, error) {
	catalog, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.Name(), err)
	}

	var issues []ValidationIssue
	for _, info := range catalog {
		if !info.IsTable {
			continue
		}
		rowids, err := collectTableRowidsFor(ctx, info.RootPage)
		if err != nil {
			return nil, fmt.Errorf("%s: table %q: %w", v.Name(), info.Name, err)
		}

		byRowid := make(map[int64][]rowidOccurrence)
		for _, r := range rowids {
			byRowid[r.Rowid] = append(byRowid[r.Rowid], rowidOccurrence{location: r.Location})
		}

		var dups []RowidDuplicate
		for rowid, occs := range byRowid {
			if len(occs) < 2 {
				continue
			}
			dups = append(dups, RowidDuplicate{
				Rowid:     rowid,
				Locations: occurrenceLocations(occs),
				IntraPage: allSamePage(occs),
			})
		}
		if len(dups) == 0 {
			continue
		}

		issues = append(issues, ValidationIssue{
			ValidatorName: v.Name(),
			Severity:      SeverityError,
			Message:       fmt.Sprintf("table %q has %d duplicated rowid value(s)", info.Name, len(dups)),
			Location:      Location{Kind: LocationTable, Name: info.Name},
			CommitIndex:   ctx.CommitIndex,
			DuplicateDetails: &DuplicateDetails{
				Rowid: dups,
			},
		})
	}
	return issues, nil
}
