package validate

import (
	"testing"

	"github.com/lattice-data/walguard/internal/varint"
)

func schemaRow(typ, name, tblName string, rootpage int64, sql string) []byte {
	return encodeRecord([]recordCol{
		textCol(typ), textCol(name), textCol(tblName), intCol(rootpage), textCol(sql),
	})
}

func TestDuplicateTableRowidDetectsDuplicates(t *testing.T) {
	schema := buildLeafPage(512, 1, pageTypeTableLeaf, [][]byte{
		tableLeafCell(1, schemaRow("table", "t", "t", 2, "CREATE TABLE t(id)")),
	})
	// Table B-tree at page 2 with the rowid 5 appearing twice, on the same page.
	table := buildLeafPage(512, 2, pageTypeTableLeaf, [][]byte{
		tableLeafCell(5, encodeRecord([]recordCol{intCol(1)})),
		tableLeafCell(5, encodeRecord([]recordCol{intCol(2)})),
		tableLeafCell(6, encodeRecord([]recordCol{intCol(3)})),
	})

	src := &fakeSource{pages: map[uint32][]byte{1: schema, 2: table}}
	ctx := NewContext(src, varint.EncodingUTF8, nil, DefaultConfig())

	v := DuplicateTableRowid{}
	issues, err := v.Validate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 {
		t.Fatalf("len(issues)=%d, want 1", len(issues))
	}
	iss := issues[0]
	if iss.Severity != SeverityError {
		t.Errorf("Severity=%v, want Error", iss.Severity)
	}
	if iss.DuplicateDetails == nil || len(iss.DuplicateDetails.Rowid) != 1 {
		t.Fatalf("DuplicateDetails=%+v", iss.DuplicateDetails)
	}
	dup := iss.DuplicateDetails.Rowid[0]
	if dup.Rowid != 5 || !dup.IntraPage {
		t.Errorf("dup=%+v, want Rowid=5 IntraPage=true", dup)
	}
}

func TestDuplicateTableRowidCleanTable(t *testing.T) {
	schema := buildLeafPage(512, 1, pageTypeTableLeaf, [][]byte{
		tableLeafCell(1, schemaRow("table", "t", "t", 2, "CREATE TABLE t(id)")),
	})
	table := buildLeafPage(512, 2, pageTypeTableLeaf, [][]byte{
		tableLeafCell(1, encodeRecord([]recordCol{intCol(1)})),
		tableLeafCell(2, encodeRecord([]recordCol{intCol(2)})),
	})

	src := &fakeSource{pages: map[uint32][]byte{1: schema, 2: table}}
	ctx := NewContext(src, varint.EncodingUTF8, nil, DefaultConfig())

	v := DuplicateTableRowid{}
	issues, err := v.Validate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("len(issues)=%d, want 0 for a clean table", len(issues))
	}
}

func TestDuplicateTableRowidDisabledByConfig(t *testing.T) {
	v := DuplicateTableRowid{}
	if v.Enabled(&Config{DisableDuplicateTableRowid: true}) {
		t.Error("expected Enabled=false when disabled by config")
	}
	if !v.Enabled(nil) {
		t.Error("expected Enabled=true for a nil config")
	}
}
