// Package btree implements the type-aware SQLite B-tree traversal: page
// header and cell pointer parsing, the four cell shapes, schema-catalog
// discovery, and the table/index scanners (spec §3 BTreePageHeader/Cell,
// §4.6, §4.7).
package btree

import (
	"encoding/binary"
	"fmt"

	"github.com/lattice-data/walguard/internal/page"
	"github.com/lattice-data/walguard/internal/walerr"
)

// PageType identifies the kind of B-tree page (spec §3).
type PageType byte

const (
	PageTypeIndexInterior PageType = 0x02
	PageTypeTableInterior PageType = 0x05
	PageTypeIndexLeaf     PageType = 0x0A
	PageTypeTableLeaf     PageType = 0x0D
)

func (t PageType) IsLeaf() bool     { return t == PageTypeIndexLeaf || t == PageTypeTableLeaf }
func (t PageType) IsInterior() bool { return t == PageTypeIndexInterior || t == PageTypeTableInterior }
func (t PageType) IsTable() bool    { return t == PageTypeTableInterior || t == PageTypeTableLeaf }
func (t PageType) IsIndex() bool    { return t == PageTypeIndexInterior || t == PageTypeIndexLeaf }

func (t PageType) valid() bool {
	switch t {
	case PageTypeIndexInterior, PageTypeTableInterior, PageTypeIndexLeaf, PageTypeTableLeaf:
		return true
	default:
		return false
	}
}

// Header is the decoded B-tree page header (8 bytes for leaves, 12 for
// interior pages, spec §3/§4.6).
type Header struct {
	Type              PageType
	FirstFreeblock    uint16
	CellCount         uint16
	CellContentStart  int // normalized: 0 in the on-disk field means 65536
	FragmentedBytes   byte
	RightChild        uint32 // only meaningful for interior pages
	bodyOffset        int    // offset of this header within the page buffer
	headerSize        int
}

// ParsedPage bundles a page's header with its cell pointer array, both
// already adjusted for the 100-byte database header prefix that sits in
// front of page 1's B-tree header.
type ParsedPage struct {
	Header       Header
	CellPointers []uint16 // offsets are relative to the start of the page
	buf          []byte
}

// Parse decodes the B-tree page header and cell pointer array from buf,
// which must be a full page-sized buffer. pageNum selects the 100-byte
// offset adjustment for page 1 (spec §4.6).
func Parse(buf []byte, pageNum uint32) (*ParsedPage, error) {
	bodyOffset := 0
	if pageNum == 1 {
		bodyOffset = page.DBHeaderPrefixSize
	}
	if len(buf) < bodyOffset+8 {
		return nil, walerr.ErrUnexpectedEOF
	}

	pt := PageType(buf[bodyOffset])
	if !pt.valid() {
		return nil, fmt.Errorf("%w: 0x%02x", walerr.ErrInvalidPageType, buf[bodyOffset])
	}

	headerSize := 8
	if pt.IsInterior() {
		headerSize = 12
	}
	if len(buf) < bodyOffset+headerSize {
		return nil, walerr.ErrUnexpectedEOF
	}

	h := Header{
		Type:             pt,
		FirstFreeblock:   binary.BigEndian.Uint16(buf[bodyOffset+1 : bodyOffset+3]),
		CellCount:        binary.BigEndian.Uint16(buf[bodyOffset+3 : bodyOffset+5]),
		FragmentedBytes:  buf[bodyOffset+7],
		bodyOffset:       bodyOffset,
		headerSize:       headerSize,
	}
	rawContentStart := binary.BigEndian.Uint16(buf[bodyOffset+5 : bodyOffset+7])
	if rawContentStart == 0 {
		h.CellContentStart = 65536
	} else {
		h.CellContentStart = int(rawContentStart)
	}
	if pt.IsInterior() {
		h.RightChild = binary.BigEndian.Uint32(buf[bodyOffset+8 : bodyOffset+12])
	}

	ptrStart := bodyOffset + headerSize
	ptrEnd := ptrStart + int(h.CellCount)*2
	if len(buf) < ptrEnd {
		return nil, walerr.ErrUnexpectedEOF
	}
	pointers := make([]uint16, h.CellCount)
	for i := 0; i < int(h.CellCount); i++ {
		off := ptrStart + i*2
		ptr := binary.BigEndian.Uint16(buf[off : off+2])
		if int(ptr) >= len(buf) {
			return nil, walerr.ErrCellPointerOutOfBounds
		}
		pointers[i] = ptr
	}

	return &ParsedPage{Header: h, CellPointers: pointers, buf: buf}, nil
}

// CellBytes returns the page bytes starting at the i'th cell pointer,
// running to the end of the page buffer (cells have no declared length
// prefix at this layer — each cell shape parser determines its own
// extent).
func (p *ParsedPage) CellBytes(i int) ([]byte, error) {
	if i < 0 || i >= len(p.CellPointers) {
		return nil, walerr.ErrCellPointerOutOfBounds
	}
	off := int(p.CellPointers[i])
	if off >= len(p.buf) {
		return nil, walerr.ErrCellPointerOutOfBounds
	}
	return p.buf[off:], nil
}
