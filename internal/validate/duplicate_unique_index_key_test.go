package validate

import (
	"testing"

	"github.com/lattice-data/walguard/internal/varint"
)

func TestDuplicateUniqueIndexKeyDetectsDuplicates(t *testing.T) {
	schema := buildLeafPage(512, 1, pageTypeTableLeaf, [][]byte{
		tableLeafCell(1, schemaRow("table", "t", "t", 2, "CREATE TABLE t(id, v)")),
		tableLeafCell(2, schemaRow("index", "idx_v", "t", 3, "CREATE UNIQUE INDEX idx_v ON t(v)")),
	})
	// Index B-tree at page 3: two entries with the same key column (100),
	// different rowids, so the keys (which exclude the trailing rowid
	// column) collide.
	index := buildLeafPage(512, 3, pageTypeIndexLeaf, [][]byte{
		indexLeafCell(encodeRecord([]recordCol{intCol(100), intCol(1)})),
		indexLeafCell(encodeRecord([]recordCol{intCol(100), intCol(2)})),
		indexLeafCell(encodeRecord([]recordCol{intCol(200), intCol(3)})),
	})

	src := &fakeSource{pages: map[uint32][]byte{1: schema, 3: index}}
	ctx := NewContext(src, varint.EncodingUTF8, nil, DefaultConfig())

	v := DuplicateUniqueIndexKey{}
	issues, err := v.Validate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 {
		t.Fatalf("len(issues)=%d, want 1", len(issues))
	}
	if issues[0].DuplicateDetails == nil || len(issues[0].DuplicateDetails.IndexKeys) != 1 {
		t.Fatalf("DuplicateDetails=%+v", issues[0].DuplicateDetails)
	}
}

func TestDuplicateUniqueIndexKeySkipsNonUnique(t *testing.T) {
	schema := buildLeafPage(512, 1, pageTypeTableLeaf, [][]byte{
		tableLeafCell(1, schemaRow("table", "t", "t", 2, "CREATE TABLE t(id, v)")),
		tableLeafCell(2, schemaRow("index", "idx_v", "t", 3, "CREATE INDEX idx_v ON t(v)")),
	})
	index := buildLeafPage(512, 3, pageTypeIndexLeaf, [][]byte{
		indexLeafCell(encodeRecord([]recordCol{intCol(100), intCol(1)})),
		indexLeafCell(encodeRecord([]recordCol{intCol(100), intCol(2)})),
	})

	src := &fakeSource{pages: map[uint32][]byte{1: schema, 3: index}}
	ctx := NewContext(src, varint.EncodingUTF8, nil, DefaultConfig())

	v := DuplicateUniqueIndexKey{}
	issues, err := v.Validate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Errorf("len(issues)=%d, want 0 (non-unique index, duplicates are legal)", len(issues))
	}
}
