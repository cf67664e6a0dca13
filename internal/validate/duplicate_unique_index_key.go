package validate

import (
	"fmt"

	"github.com/lattice-data/walguard/internal/btree"
)

// DuplicateUniqueIndexKey flags any unique index B-tree where a key occurs
// more than once (spec §4.8). Non-unique indexes are skipped: duplicates
// are legal there.
type DuplicateUniqueIndexKey struct{}

func (DuplicateUniqueIndexKey) Name() string { return "DuplicateUniqueIndexKey" }

func (DuplicateUniqueIndexKey) Enabled(cfg *Config) bool {
	return cfg == nil || !cfg.DisableDuplicateUniqueIndexKey
}

func (v DuplicateUniqueIndexKey) Validate(ctx *Context) ([]ValidationIssue, error) {
	catalog, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.Name(), err)
	}

	var issues []ValidationIssue
	for _, info := range catalog {
		if info.IsTable || !info.IsUnique {
			continue
		}
		keys, err := btree.CollectIndexKeys(ctx.Cache, info.RootPage)
		if err != nil {
			return nil, fmt.Errorf("%s: index %q: %w", v.Name(), info.Name, err)
		}

		byKey := make(map[string][]rowidOccurrence)
		for _, k := range keys {
			s := string(k.Key)
			byKey[s] = append(byKey[s], rowidOccurrence{location: k.Location})
		}

		var dups []IndexKeyDuplicate
		for s, occs := range byKey {
			if len(occs) < 2 {
				continue
			}
			dups = append(dups, IndexKeyDuplicate{
				Key:       []byte(s),
				Locations: occurrenceLocations(occs),
			})
		}
		if len(dups) == 0 {
			continue
		}

		issues = append(issues, ValidationIssue{
			ValidatorName: v.Name(),
			Severity:      SeverityError,
			Message:       fmt.Sprintf("unique index %q has %d duplicated key(s)", info.Name, len(dups)),
			Location:      Location{Kind: LocationIndex, Name: info.Name},
			CommitIndex:   ctx.CommitIndex,
			DuplicateDetails: &DuplicateDetails{
				IndexKeys: dups,
			},
		})
	}
	return issues, nil
}
