// Package page exposes the fixed-page-size view of the base database file
// and the on-disk database header (spec §3 Page/DbHeader, §4.2, §6).
package page

import (
	"encoding/binary"
	"fmt"

	"github.com/lattice-data/walguard/internal/walerr"
)

// DBHeaderPrefixSize is the length of the database header that sits in
// front of page 1's B-tree header.
const DBHeaderPrefixSize = 100

var dbMagic = []byte("SQLite format 3\x00")

// MinPageSize and MaxPageSize bound the declared page size (spec §3):
// a power of two in [512, 65536], where the on-disk value 1 denotes 65536.
const (
	MinPageSize = 512
	MaxPageSize = 65536
)

// DbHeader is the parsed first 100 bytes of page 1 (spec §3, §6).
type DbHeader struct {
	PageSize       uint32
	DeclaredPages  uint32
	SchemaCookie   uint32
	TextEncoding   uint32
}

// ParseDbHeader decodes the 100-byte database header. buf must be at least
// DBHeaderPrefixSize bytes.
func ParseDbHeader(buf []byte) (DbHeader, error) {
	if len(buf) < DBHeaderPrefixSize {
		return DbHeader{}, walerr.ErrUnexpectedEOF
	}
	if string(buf[0:16]) != string(dbMagic) {
		return DbHeader{}, walerr.ErrBadMagic
	}
	rawPageSize := binary.BigEndian.Uint16(buf[16:18])
	pageSize, err := NormalizePageSize(rawPageSize)
	if err != nil {
		return DbHeader{}, err
	}
	return DbHeader{
		PageSize:      pageSize,
		DeclaredPages: binary.BigEndian.Uint32(buf[28:32]),
		SchemaCookie:  binary.BigEndian.Uint32(buf[40:44]),
		TextEncoding:  binary.BigEndian.Uint32(buf[56:60]),
	}, nil
}

// NormalizePageSize applies the "1 means 65536" convention and validates
// that the result is a power of two within range.
func NormalizePageSize(raw uint16) (uint32, error) {
	size := uint32(raw)
	if raw == 1 {
		size = 65536
	}
	if size < MinPageSize || size > MaxPageSize || size&(size-1) != 0 {
		return 0, fmt.Errorf("%w: %d", walerr.ErrInvalidPageSize, size)
	}
	return size, nil
}

// Reader is the minimal random-access interface the core requires over the
// base database file (spec §6, an external collaborator — only its
// contract is specified here). ReadPage(n) must return exactly
// page-size bytes at file offset (n-1)*page_size, or ErrPageNotFound if
// n==0 or the page lies beyond EOF.
type Reader interface {
	ReadPage(pageNum uint32) ([]byte, error)
}
