package btree

import (
	"encoding/binary"

	"github.com/lattice-data/walguard/internal/varint"
	"github.com/lattice-data/walguard/internal/walerr"
)

// TableLeafCell is a table B-tree leaf cell: varint payload length, varint
// rowid, then payload bytes (spec §3). Payload is truncated to whatever is
// actually present in the cell; Truncated reports whether the declared
// length exceeded that (an overflow-page cell, which this tool never
// follows — spec §1 Non-goals).
type TableLeafCell struct {
	PayloadLen uint64
	Rowid      int64
	Payload    []byte
	Truncated  bool
}

// ParseTableLeafCell decodes a table-leaf cell starting at cell[0].
func ParseTableLeafCell(cell []byte) (TableLeafCell, error) {
	payloadLen, n1, err := varint.Decode(cell)
	if err != nil {
		return TableLeafCell{}, err
	}
	rowidU, n2, err := varint.Decode(cell[n1:])
	if err != nil {
		return TableLeafCell{}, err
	}
	start := n1 + n2
	if start > len(cell) {
		return TableLeafCell{}, walerr.ErrUnexpectedEOF
	}
	avail := cell[start:]
	truncated := uint64(len(avail)) < payloadLen
	payload := avail
	if !truncated {
		payload = avail[:payloadLen]
	}
	return TableLeafCell{PayloadLen: payloadLen, Rowid: int64(rowidU), Payload: payload, Truncated: truncated}, nil
}

// TableInteriorCell is a table B-tree interior cell: 4-byte left-child page
// number, varint rowid (used only for navigation and ignored by this tool).
type TableInteriorCell struct {
	LeftChild uint32
	Rowid     int64
}

// ParseTableInteriorCell decodes a table-interior cell starting at cell[0].
func ParseTableInteriorCell(cell []byte) (TableInteriorCell, error) {
	if len(cell) < 4 {
		return TableInteriorCell{}, walerr.ErrUnexpectedEOF
	}
	leftChild := binary.BigEndian.Uint32(cell[0:4])
	rowidU, _, err := varint.Decode(cell[4:])
	if err != nil {
		return TableInteriorCell{}, err
	}
	return TableInteriorCell{LeftChild: leftChild, Rowid: int64(rowidU)}, nil
}

// IndexLeafCell is an index B-tree leaf cell: varint payload length, then
// payload bytes (a record whose last column is the referenced rowid).
type IndexLeafCell struct {
	PayloadLen uint64
	Payload    []byte
	Truncated  bool
}

// ParseIndexLeafCell decodes an index-leaf cell starting at cell[0].
func ParseIndexLeafCell(cell []byte) (IndexLeafCell, error) {
	payloadLen, n, err := varint.Decode(cell)
	if err != nil {
		return IndexLeafCell{}, err
	}
	avail := cell[n:]
	truncated := uint64(len(avail)) < payloadLen
	payload := avail
	if !truncated {
		payload = avail[:payloadLen]
	}
	return IndexLeafCell{PayloadLen: payloadLen, Payload: payload, Truncated: truncated}, nil
}

// IndexInteriorCell is an index B-tree interior cell: 4-byte left-child page
// number, varint payload length, then payload bytes.
type IndexInteriorCell struct {
	LeftChild  uint32
	PayloadLen uint64
	Payload    []byte
	Truncated  bool
}

// ParseIndexInteriorCell decodes an index-interior cell starting at cell[0].
func ParseIndexInteriorCell(cell []byte) (IndexInteriorCell, error) {
	if len(cell) < 4 {
		return IndexInteriorCell{}, walerr.ErrUnexpectedEOF
	}
	leftChild := binary.BigEndian.Uint32(cell[0:4])
	payloadLen, n, err := varint.Decode(cell[4:])
	if err != nil {
		return IndexInteriorCell{}, err
	}
	avail := cell[4+n:]
	truncated := uint64(len(avail)) < payloadLen
	payload := avail
	if !truncated {
		payload = avail[:payloadLen]
	}
	return IndexInteriorCell{LeftChild: leftChild, PayloadLen: payloadLen, Payload: payload, Truncated: truncated}, nil
}
