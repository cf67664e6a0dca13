package btree

import (
	"github.com/lattice-data/walguard/internal/varint"
	"github.com/lattice-data/walguard/internal/walerr"
)

// RowidLocation pinpoints a single cell that produced a rowid or index key
// (spec §3): the page it was read from, its cell-pointer index within that
// page, and — when the page came from the WAL overlay rather than the base
// file — the frame that last wrote it.
type RowidLocation struct {
	PageNumber uint32
	CellIndex  int
	FrameIndex *int
}

// RowidEntry is one rowid collected from a table B-tree.
type RowidEntry struct {
	Rowid    int64
	Location RowidLocation
}

// IndexKeyEntry is one index key collected from an index B-tree.
type IndexKeyEntry struct {
	Key      []byte
	Location RowidLocation
}

// IndexRowidEntry is the referenced rowid (the index record's last column)
// collected from an index B-tree.
type IndexRowidEntry struct {
	Rowid    int64
	Location RowidLocation
}

func frameIndexOf(src PageSource, pn uint32) *int {
	if fi, ok := src.FrameIndex(pn); ok {
		v := fi
		return &v
	}
	return nil
}

// walkTablePages performs the iterative DFS of spec §4.7 over a table
// B-tree rooted at root, invoking leaf once per table-leaf page visited.
func walkTablePages(src PageSource, root uint32, leaf func(pn uint32, pp *ParsedPage) error) error {
	stack := []uint32{root}
	for len(stack) > 0 {
		pn := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		buf, err := src.GetPage(pn)
		if err != nil {
			return err
		}
		pp, err := Parse(buf, pn)
		if err != nil {
			return err
		}

		switch pp.Header.Type {
		case PageTypeTableInterior:
			for i := range pp.CellPointers {
				cellBuf, err := pp.CellBytes(i)
				if err != nil {
					continue
				}
				c, err := ParseTableInteriorCell(cellBuf)
				if err != nil {
					continue
				}
				stack = append(stack, c.LeftChild)
			}
			stack = append(stack, pp.Header.RightChild)
		case PageTypeTableLeaf:
			if err := leaf(pn, pp); err != nil {
				return err
			}
		}
		// Any other page type reached here is ignored (spec §4.7).
	}
	return nil
}

// walkIndexPages is walkTablePages' counterpart for index B-trees.
func walkIndexPages(src PageSource, root uint32, leaf func(pn uint32, pp *ParsedPage) error) error {
	stack := []uint32{root}
	for len(stack) > 0 {
		pn := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		buf, err := src.GetPage(pn)
		if err != nil {
			return err
		}
		pp, err := Parse(buf, pn)
		if err != nil {
			return err
		}

		switch pp.Header.Type {
		case PageTypeIndexInterior:
			for i := range pp.CellPointers {
				cellBuf, err := pp.CellBytes(i)
				if err != nil {
					continue
				}
				c, err := ParseIndexInteriorCell(cellBuf)
				if err != nil {
					continue
				}
				stack = append(stack, c.LeftChild)
			}
			stack = append(stack, pp.Header.RightChild)
		case PageTypeIndexLeaf:
			if err := leaf(pn, pp); err != nil {
				return err
			}
		}
	}
	return nil
}

// CollectTableRowids collects every rowid reachable from the table B-tree
// rooted at rootPage (spec §4.7 "Table rowid collection").
func CollectTableRowids(src PageSource, rootPage uint32) ([]RowidEntry, error) {
	var out []RowidEntry
	err := walkTablePages(src, rootPage, func(pn uint32, pp *ParsedPage) error {
		frameIdx := frameIndexOf(src, pn)
		for i := range pp.CellPointers {
			cellBuf, err := pp.CellBytes(i)
			if err != nil {
				continue
			}
			cell, err := ParseTableLeafCell(cellBuf)
			if err != nil {
				continue
			}
			out = append(out, RowidEntry{
				Rowid:    cell.Rowid,
				Location: RowidLocation{PageNumber: pn, CellIndex: i, FrameIndex: frameIdx},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CollectIndexKeys collects every index key reachable from the index
// B-tree rooted at rootPage (spec §4.7 "Index key collection"). Cells whose
// payload is truncated (indicating the record overflowed onto pages this
// tool never follows) are skipped.
func CollectIndexKeys(src PageSource, rootPage uint32) ([]IndexKeyEntry, error) {
	var out []IndexKeyEntry
	err := walkIndexPages(src, rootPage, func(pn uint32, pp *ParsedPage) error {
		frameIdx := frameIndexOf(src, pn)
		for i := range pp.CellPointers {
			cellBuf, err := pp.CellBytes(i)
			if err != nil {
				continue
			}
			cell, err := ParseIndexLeafCell(cellBuf)
			if err != nil || cell.Truncated {
				continue
			}
			key, err := indexKeyPrefix(cell.Payload)
			if err != nil {
				continue
			}
			out = append(out, IndexKeyEntry{
				Key:      key,
				Location: RowidLocation{PageNumber: pn, CellIndex: i, FrameIndex: frameIdx},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CollectIndexRowids collects the referenced rowid (the last column) of
// every record reachable from the index B-tree rooted at rootPage (spec
// §4.7 "Index rowid collection").
func CollectIndexRowids(src PageSource, rootPage uint32) ([]IndexRowidEntry, error) {
	var out []IndexRowidEntry
	err := walkIndexPages(src, rootPage, func(pn uint32, pp *ParsedPage) error {
		frameIdx := frameIndexOf(src, pn)
		for i := range pp.CellPointers {
			cellBuf, err := pp.CellBytes(i)
			if err != nil {
				continue
			}
			cell, err := ParseIndexLeafCell(cellBuf)
			if err != nil || cell.Truncated {
				continue
			}
			rowid, err := lastColumnAsRowid(cell.Payload)
			if err != nil {
				continue
			}
			out = append(out, IndexRowidEntry{
				Rowid:    rowid,
				Location: RowidLocation{PageNumber: pn, CellIndex: i, FrameIndex: frameIdx},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// indexKeyPrefix computes payload[0 : header_size + sum of non-last column
// sizes] — the index key, excluding the trailing rowid column (spec §4.7).
func indexKeyPrefix(payload []byte) ([]byte, error) {
	rh, err := varint.DecodeRecordHeader(payload)
	if err != nil {
		return nil, err
	}
	size := int(rh.HeaderLen)
	if len(rh.SerialTypes) > 0 {
		for _, st := range rh.SerialTypes[:len(rh.SerialTypes)-1] {
			size += varint.SerialTypeSize(st)
		}
	}
	if size > len(payload) {
		return nil, walerr.ErrUnexpectedEOF
	}
	out := make([]byte, size)
	copy(out, payload[:size])
	return out, nil
}

// lastColumnAsRowid decodes the final column of an index record as a signed
// integer — the rowid the index entry refers to (spec §4.7).
func lastColumnAsRowid(payload []byte) (int64, error) {
	rh, err := varint.DecodeRecordHeader(payload)
	if err != nil {
		return 0, err
	}
	if len(rh.SerialTypes) == 0 {
		return 0, walerr.ErrUnexpectedEOF
	}
	lastType := rh.SerialTypes[len(rh.SerialTypes)-1]
	cursor := int(rh.HeaderLen)
	for _, st := range rh.SerialTypes[:len(rh.SerialTypes)-1] {
		cursor += varint.SerialTypeSize(st)
	}
	size := varint.SerialTypeSize(lastType)
	if cursor+size > len(payload) {
		return 0, walerr.ErrUnexpectedEOF
	}
	return varint.DecodeSignedInt(payload[cursor:cursor+size], lastType)
}
