// Package validate implements the pluggable validator framework and the
// three concrete structural checks (spec §4.8): duplicate table rowids,
// duplicate unique-index keys, and table/index cross-checking.
package validate

import (
	"fmt"

	"github.com/lattice-data/walguard/internal/btree"
)

// Severity classifies a ValidationIssue (spec §3).
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "Unknown"
	}
}

// LocationKind tags what a Location refers to (spec §3).
type LocationKind int

const (
	LocationDatabase LocationKind = iota
	LocationTable
	LocationIndex
	LocationPage
)

// Location identifies where an issue was observed.
type Location struct {
	Kind     LocationKind
	Name     string // table or index name, when Kind is Table or Index
	PageNum  uint32 // set when Kind is Page
}

func (l Location) String() string {
	switch l.Kind {
	case LocationTable:
		return fmt.Sprintf("table %q", l.Name)
	case LocationIndex:
		return fmt.Sprintf("index %q", l.Name)
	case LocationPage:
		return fmt.Sprintf("page %d", l.PageNum)
	default:
		return "database"
	}
}

// RowidDuplicate is one duplicated rowid and every location it was observed
// at (spec §3 duplicate_details).
type RowidDuplicate struct {
	Rowid       int64
	Locations   []btree.RowidLocation
	IntraPage   bool // true when every occurrence shares one page
}

// IndexKeyDuplicate is one duplicated index key and every location it was
// observed at.
type IndexKeyDuplicate struct {
	Key       []byte
	Locations []btree.RowidLocation
}

// DuplicateDetails carries whichever kind of duplicate list an issue
// reports; exactly one of the two slices is populated.
type DuplicateDetails struct {
	Rowid     []RowidDuplicate
	IndexKeys []IndexKeyDuplicate
}

// ValidationIssue is one structural finding (spec §3).
type ValidationIssue struct {
	ValidatorName    string
	Severity         Severity
	Message          string
	Location         Location
	CommitIndex      *int // nil for the base-state pass
	DuplicateDetails *DuplicateDetails
}
