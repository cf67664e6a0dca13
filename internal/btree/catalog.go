package btree

import (
	"strings"

	"github.com/lattice-data/walguard/internal/varint"
	"github.com/lattice-data/walguard/internal/walerr"
)

// BTreeInfo is a decoded schema-catalog row (spec §3).
type BTreeInfo struct {
	RootPage uint32
	Name     string
	TblName  string
	SQL      string
	IsTable  bool
	IsUnique bool
}

// PageSource is the minimal contract the scanner needs over a page cache:
// random-access page reads plus the overlay's per-page frame attribution.
// *overlay.Cache satisfies this.
type PageSource interface {
	GetPage(pageNum uint32) ([]byte, error)
	FrameIndex(pageNum uint32) (int, bool)
}

// DiscoverBTrees walks the B-tree rooted at page 1 and decodes every schema
// row, returning one BTreeInfo per table and per index (spec §4.7 "Catalog
// discovery"). enc governs how the catalog's TEXT columns are decoded.
func DiscoverBTrees(src PageSource, enc varint.TextEncoding) ([]BTreeInfo, error) {
	var result []BTreeInfo
	stack := []uint32{1}
	for len(stack) > 0 {
		pn := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		buf, err := src.GetPage(pn)
		if err != nil {
			return nil, err
		}
		pp, err := Parse(buf, pn)
		if err != nil {
			return nil, err
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
			for i := range pp.CellPointers {
				cellBuf, err := pp.CellBytes(i)
				if err != nil {
					continue
				}
				cell, err := ParseTableLeafCell(cellBuf)
				if err != nil || cell.Truncated {
					continue
				}
				info, ok, err := decodeSchemaRow(cell.Payload, enc)
				if err != nil {
					continue
				}
				if ok {
					result = append(result, info)
				}
			}
		default:
			// Page 1's root B-tree is always a table B-tree; an index page
			// here would indicate a corrupt catalog, which we simply skip.
		}
	}
	return result, nil
}

// decodeSchemaRow decodes a schema_catalog row's first five columns
// (type, name, tbl_name, rootpage, sql — spec §3) and classifies it.
// ok is false for rows that are not a table or index, or carry rootpage<=0.
func decodeSchemaRow(payload []byte, enc varint.TextEncoding) (BTreeInfo, bool, error) {
	rh, err := varint.DecodeRecordHeader(payload)
	if err != nil {
		return BTreeInfo{}, false, err
	}
	if len(rh.SerialTypes) < 5 {
		return BTreeInfo{}, false, nil
	}

	values := make([]varint.Value, 5)
	cursor := int(rh.HeaderLen)
	for i := 0; i < 5; i++ {
		if cursor > len(payload) {
			return BTreeInfo{}, false, walerr.ErrUnexpectedEOF
		}
		v, n, err := varint.DecodeValue(payload[cursor:], rh.SerialTypes[i], enc)
		if err != nil {
			return BTreeInfo{}, false, err
		}
		values[i] = v
		cursor += n
	}

	typ := values[0].Text
	if typ != "table" && typ != "index" {
		return BTreeInfo{}, false, nil
	}
	root := values[3].Int
	if root <= 0 {
		return BTreeInfo{}, false, nil
	}

	info := BTreeInfo{
		RootPage: uint32(root),
		Name:     values[1].Text,
		TblName:  values[2].Text,
		SQL:      values[4].Text,
		IsTable:  typ == "table",
	}
	if typ == "index" {
		info.IsUnique = strings.HasPrefix(info.Name, "sqlite_autoindex_") ||
			strings.Contains(strings.ToUpper(info.SQL), "UNIQUE")
	}
	return info, true, nil
}
