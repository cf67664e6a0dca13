package validate

import "github.com/lattice-data/walguard/internal/btree"

type rowidOccurrence struct {
	location btree.RowidLocation
}

func occurrenceLocations(occs []rowidOccurrence) []btree.RowidLocation {
	locs := make([]btree.RowidLocation, len(occs))
	for i, o := range occs {
		locs[i] = o.location
	}
	return locs
}

func allSamePage(occs []rowidOccurrence) bool {
	if len(occs) == 0 {
		return false
	}
	first := occs[0].location.PageNumber
	for _, o := range occs[1:] {
		if o.location.PageNumber != first {
			return false
		}
	}
	return true
}

func collectTableRowidsFor(ctx *Context, rootPage uint32) ([]btree.RowidEntry, error) {
	return btree.CollectTableRowids(ctx.Cache, rootPage)
}
