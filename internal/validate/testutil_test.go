package validate

import (
	"encoding/binary"

	"github.com/lattice-data/walguard/internal/varint"
)

type fakeSource struct {
	pages map[uint32][]byte
}

func (f *fakeSource) GetPage(n uint32) ([]byte, error) { return f.pages[n], nil }

func (f *fakeSource) FrameIndex(n uint32) (int, bool) { return 0, false }

type recordCol struct {
	isInt  bool
	isText bool
	intVal int64
	text   string
}

func intCol(v int64) recordCol   { return recordCol{isInt: true, intVal: v} }
func textCol(s string) recordCol { return recordCol{isText: true, text: s} }

// encodeRecord builds a minimal SQLite record payload. Integers are always
// encoded as 4-byte (serial type 4).
func encodeRecord(cols []recordCol) []byte {
	var serialTypes []uint64
	var body []byte
	for _, c := range cols {
		if c.isInt {
			serialTypes = append(serialTypes, 4)
			body = append(body,
				byte(c.intVal>>24), byte(c.intVal>>16), byte(c.intVal>>8), byte(c.intVal))
		} else {
			serialTypes = append(serialTypes, uint64(13+2*len(c.text)))
			body = append(body, []byte(c.text)...)
		}
	}
	var headerBody []byte
	for _, st := range serialTypes {
		headerBody = append(headerBody, varint.Encode(st)...)
	}
	headerLen := uint64(1 + len(headerBody))
	header := append(varint.Encode(headerLen), headerBody...)
	return append(header, body...)
}

func tableLeafCell(rowid int64, payload []byte) []byte {
	cell := append(varint.Encode(uint64(len(payload))), varint.Encode(uint64(rowid))...)
	return append(cell, payload...)
}

func indexLeafCell(payload []byte) []byte {
	return append(varint.Encode(uint64(len(payload))), payload...)
}

// buildLeafPage lays out cells back-to-front from the end of a page-sized
// buffer and writes the matching cell-pointer array, mirroring the on-disk
// B-tree leaf page layout (spec §3).
func buildLeafPage(pageSize int, pageNum uint32, pageType byte, cells [][]byte) []byte {
	buf := make([]byte, pageSize)
	bodyOffset := 0
	if pageNum == 1 {
		bodyOffset = 100
	}
	buf[bodyOffset] = pageType

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

const (
	pageTypeTableLeaf byte = 0x0D
	pageTypeIndexLeaf byte = 0x0A
)
