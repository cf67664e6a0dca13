package btree

import (
	"encoding/binary"
	"testing"

	"github.com/lattice-data/walguard/internal/walerr"
)

func buildLeafPage(pageSize int, pageNum uint32, cells [][]byte) []byte {
	buf := make([]byte, pageSize)
	bodyOffset := 0
	if pageNum == 1 {
		bodyOffset = 100
	}
	buf[bodyOffset] = byte(PageTypeTableLeaf)

	contentStart := pageSize
	pointers := make([]uint16, len(cells))
	for i := len(cells) - 1; i >= 0; i-- {
		contentStart -= len(cells[i])
		copy(buf[contentStart:], cells[i])
		pointers[i] = uint16(contentStart)
	}

	binary.BigEndian.PutUint16(buf[bodyOffset+3:bodyOffset+5], uint16(len(cells)))
	binary.BigEndian.PutUint16(buf[bodyOffset+5:bodyOffset+7], uint16(contentStart))

	ptrStart := bodyOffset + 8
	for i, p := range pointers {
		binary.BigEndian.PutUint16(buf[ptrStart+i*2:ptrStart+i*2+2], p)
	}
	return buf
}

func buildInteriorPage(pageSize int, rightChild uint32, cellCount uint16) []byte {
	buf := make([]byte, pageSize)
	buf[0] = byte(PageTypeTableInterior)
	binary.BigEndian.PutUint16(buf[3:5], cellCount)
	binary.BigEndian.PutUint16(buf[5:7], uint16(pageSize))
	binary.BigEndian.PutUint32(buf[8:12], rightChild)
	return buf
}

func TestParseLeafPageOnPageOneAppliesOffset(t *testing.T) {
	cells := [][]byte{[]byte("cellA"), []byte("cellB")}
	buf := buildLeafPage(512, 1, cells)

	p, err := Parse(buf, 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Header.Type != PageTypeTableLeaf {
		t.Errorf("Type=%v, want TableLeaf", p.Header.Type)
	}
	if int(p.Header.CellCount) != len(cells) {
		t.Errorf("CellCount=%d, want %d", p.Header.CellCount, len(cells))
	}
	if len(p.CellPointers) != len(cells) {
		t.Fatalf("len(CellPointers)=%d, want %d", len(p.CellPointers), len(cells))
	}

	got, err := p.CellBytes(0)
	if err != nil {
		t.Fatal(err)
	}
	if string(got[:len("cellA")]) != "cellA" {
		t.Errorf("CellBytes(0)=%q, want prefix cellA", got)
	}
}

func TestParseInteriorPageHas12ByteHeader(t *testing.T) {
	buf := buildInteriorPage(512, 77, 0)
	p, err := Parse(buf, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Header.Type.IsInterior() {
		t.Error("expected interior page type")
	}
	if p.Header.RightChild != 77 {
		t.Errorf("RightChild=%d, want 77", p.Header.RightChild)
	}
}

func TestParseInvalidPageType(t *testing.T) {
	buf := make([]byte, 512)
	buf[0] = 0xFF
	_, err := Parse(buf, 2)
	if err == nil {
		t.Fatal("expected an error for an invalid page type")
	}
}

func TestParseCellPointerOutOfBounds(t *testing.T) {
	buf := make([]byte, 512)
	buf[0] = byte(PageTypeTableLeaf)
	binary.BigEndian.PutUint16(buf[3:5], 1)
	binary.BigEndian.PutUint16(buf[5:7], 500)
	// Cell pointer array entry points past the end of the page.
	binary.BigEndian.PutUint16(buf[8:10], 9999)

	_, err := Parse(buf, 2)
	if err != walerr.ErrCellPointerOutOfBounds {
		t.Errorf("err=%v, want ErrCellPointerOutOfBounds", err)
	}
}

func TestCellBytesIndexOutOfRange(t *testing.T) {
	buf := buildLeafPage(512, 2, [][]byte{[]byte("only")})
	p, err := Parse(buf, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.CellBytes(5); err != walerr.ErrCellPointerOutOfBounds {
		t.Errorf("err=%v, want ErrCellPointerOutOfBounds", err)
	}
}
