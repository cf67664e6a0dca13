// Package walguard is an offline forensic validator for a single-file
// embedded relational database with a write-ahead log.
//
// Given a base database file and its companion WAL file, Validate
// reconstructs the logical view of the database (base pages overlaid by
// WAL frames) at every committed transaction boundary, walks every B-tree
// discoverable through the schema catalog, and reports structural
// invariants a correct engine would never violate: duplicate primary keys,
// duplicate unique-index keys, and divergence between a table's key set
// and the key set referenced by its indexes.
//
// # Basic usage
//
//	// A nil config selects the default configuration; a nil logger disables tracing.
//	rpt, err := walguard.Validate(context.Background(), "app.db", "app.db-wal", nil, nil)
//	if err != nil {
//	    // a checksum mismatch or other fatal error aborted the run
//	}
//	if rpt.HasIssues() {
//	    fmt.Print(rpt.Summary())
//	}
//
// Validate is strictly read-only: it never creates or modifies any file.
package walguard

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lattice-data/walguard/internal/btree"
	"github.com/lattice-data/walguard/internal/overlay"
	"github.com/lattice-data/walguard/internal/page"
	"github.com/lattice-data/walguard/internal/report"
	"github.com/lattice-data/walguard/internal/validate"
	"github.com/lattice-data/walguard/internal/varint"
	"github.com/lattice-data/walguard/internal/wal"
)

// Re-exported types so callers need import only this package for the
// common path. Finer-grained control (a custom PageSource, etc.) lives in
// the internal packages, which only code inside this module can import.
type (
	Config          = validate.Config
	Report          = report.Report
	ValidationIssue = validate.ValidationIssue
	Severity        = validate.Severity
)

// Validate runs one full validation pass: base state, then once per WAL
// commit (spec §2 data flow, §5 "passes over the WAL are ordered: base
// pass, then commit 0 pass, then commit 1 pass, etc."). ctx is honored
// between passes so a long-running scan over a pathological WAL can be
// cancelled; no individual page read is itself cancellable. logger may be
// nil; when set, pass boundaries are traced at Debug level (spec §10.2).
func Validate(ctx context.Context, dbPath, walPath string, cfg *validate.Config, logger *logrus.Logger) (*Report, error) {
	if cfg == nil {
		cfg = validate.DefaultConfig()
	}

	dbReader, err := page.NewFileReader(dbPath, 0)
	if err != nil {
		return nil, fmt.Errorf("open database file: %w", err)
	}
	defer dbReader.Close()

	dbHeader, err := dbReader.ReadDbHeader()
	if err != nil {
		return nil, fmt.Errorf("parse database header: %w", err)
	}

	cache := overlay.New(dbReader, dbHeader.PageSize, dbHeader.DeclaredPages)
	enc := varint.TextEncoding(dbHeader.TextEncoding)
	if enc == 0 {
		enc = varint.EncodingUTF8
	}
	driver := validate.NewDriver(cfg, enc)
	rpt := report.New()
	rpt.PageSize = dbHeader.PageSize
	rpt.BasePageCount = dbHeader.DeclaredPages

	rpt.LogPassBoundary(logger, "base", nil)
	baseIssues, err := driver.RunPass(cache, nil)
	if err != nil {
		return rpt, fmt.Errorf("base-state pass: %w", err)
	}
	rpt.AddIssues(baseIssues)
	if catalog, err := (&validate.Context{Cache: cache, TextEncoding: enc}).Catalog(); err == nil {
		countCatalog(rpt, catalog)
	}

	walFile, exists, err := wal.Open(walPath, dbHeader.PageSize)
	if err != nil {
		return rpt, fmt.Errorf("open WAL file: %w", err)
	}
	if !exists {
		return rpt, nil
	}
	defer walFile.Close()

	iter := walFile.Iterator()
	for {
		select {
		case <-ctx.Done():
			return rpt, ctx.Err()
		default:
		}

		commit, err := iter.Next()
		if err != nil {
			return rpt, fmt.Errorf("WAL replay: %w", err)
		}
		if commit == nil {
			break
		}
		cache.Apply(commit)

		commitIndex := commit.Index
		rpt.LogPassBoundary(logger, "commit", &commitIndex)
		issues, err := driver.RunPass(cache, &commitIndex)
		if err != nil {
			return rpt, fmt.Errorf("commit %d pass: %w", commit.Index, err)
		}
		rpt.AddIssues(issues)
		rpt.CommitsProcessed++
	}

	if dangling := iter.DanglingFrames(); dangling > 0 {
		rpt.AddIssues([]validate.ValidationIssue{{
			ValidatorName: "IncompleteCommit",
			Severity:      validate.SeverityInfo,
			Message:       fmt.Sprintf("WAL ended with %d frame(s) belonging to an uncommitted transaction; they were discarded", dangling),
			Location:      validate.Location{Kind: validate.LocationDatabase},
		}})
	}

	return rpt, nil
}

func countCatalog(rpt *Report, catalog []btree.BTreeInfo) {
	for _, info := range catalog {
		if info.IsTable {
			rpt.TablesScanned++
		} else {
			rpt.IndexesScanned++
		}
	}
}
