// Package varint decodes the variable-length integer and record-header
// formats used throughout SQLite table and index cells (spec §4.1).
package varint

import (
	"github.com/lattice-data/walguard/internal/walerr"
)

// Decode reads a SQLite-style varint from the front of buf: up to nine
// bytes, base-128 big-endian with a continuation bit on bytes 1..8; the
// ninth byte (if reached) contributes all 8 bits and terminates
// unconditionally. Returns the decoded value and the number of bytes
// consumed (always in [1,9]).
func Decode(buf []byte) (value uint64, n int, err error) {
	if len(buf) == 0 {
		return 0, 0, walerr.ErrUnexpectedEOF
	}
	var v uint64
	limit := 9
	if len(buf) < limit {
		limit = len(buf)
	}
	for i := 0; i < limit; i++ {
		b := buf[i]
		if i == 8 {
			// Ninth byte: all 8 bits, unconditional terminator.
			v = (v << 8) | uint64(b)
			return v, 9, nil
		}
		v = (v << 7) | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	// Ran out of buffer before seeing a terminating byte.
	return 0, 0, walerr.ErrUnexpectedEOF
}

// Encode produces the canonical varint encoding of v. It is the inverse of
// Decode and exists primarily to exercise the round-trip invariant in
// spec §8 property 1 (encode then decode reproduces n, bytes_read in
// [1,9]).
func Encode(v uint64) []byte {
	if v&(uint64(0xff)<<56) != 0 {
		// Top byte occupied: the 9-byte form is mandatory. The last byte
		// carries a full 8 bits unconditionally; the first eight each
		// carry 7 bits with the continuation bit always set.
		var p [9]byte
		p[8] = byte(v)
		v >>= 8
		for i := 7; i >= 0; i-- {
			p[i] = byte(v&0x7f) | 0x80
			v >>= 7
		}
		return p[:]
	}
	var buf [9]byte
	n := 0
	for {
		buf[n] = byte(v&0x7f) | 0x80
		n++
		v >>= 7
		if v == 0 {
			break
		}
	}
	buf[0] &^= 0x80 // least-significant group (built first, emitted last) terminates
	out := make([]byte, n)
	for i, j := 0, n-1; j >= 0; j, i = j-1, i+1 {
		out[i] = buf[j]
	}
	return out
}

// SerialTypeSize returns the on-disk byte width of a column given its
// serial type code (spec §4.1): 0..9 are table-driven, even n>=12 is a
// blob of (n-12)/2 bytes, odd n>=13 is text of (n-13)/2 bytes.
func SerialTypeSize(serialType uint64) int {
	switch {
	case serialType <= 9:
		return serialTypeSizeTable[serialType]
	case serialType >= 12 && serialType%2 == 0:
		return int((serialType - 12) / 2)
	case serialType >= 13 && serialType%2 == 1:
		return int((serialType - 13) / 2)
	default:
		return 0
	}
}

var serialTypeSizeTable = [10]int{
	0: 0, // NULL
	1: 1, // 8-bit int
	2: 2, // 16-bit int
	3: 3, // 24-bit int
	4: 4, // 32-bit int
	5: 6, // 48-bit int
	6: 8, // 64-bit int
	7: 8, // 64-bit float
	8: 0, // integer constant 0
	9: 0, // integer constant 1
}

// IsText reports whether serialType denotes a text column.
func IsText(serialType uint64) bool {
	return serialType >= 13 && serialType%2 == 1
}

// IsBlob reports whether serialType denotes a blob column.
func IsBlob(serialType uint64) bool {
	return serialType >= 12 && serialType%2 == 0
}

// RecordHeader is the decoded header of a record payload: the serial type
// of each column, in column order, and the header's own byte length
// (including the leading varint that encodes that length).
type RecordHeader struct {
	SerialTypes []uint64
	HeaderLen   uint64
}

// DecodeRecordHeader reads the header-length varint H, then decodes serial
// type varints until the cursor reaches H (spec §4.1).
func DecodeRecordHeader(payload []byte) (RecordHeader, error) {
	h, n, err := Decode(payload)
	if err != nil {
		return RecordHeader{}, err
	}
	if h < uint64(n) || h > uint64(len(payload)) {
		return RecordHeader{}, walerr.ErrUnexpectedEOF
	}
	var types []uint64
	cursor := n
	for uint64(cursor) < h {
		st, consumed, err := Decode(payload[cursor:])
		if err != nil {
			return RecordHeader{}, err
		}
		types = append(types, st)
		cursor += consumed
	}
	return RecordHeader{SerialTypes: types, HeaderLen: h}, nil
}

// DecodeSignedInt interprets data as a big-endian, sign-extended integer
// whose width is dictated by serialType (spec §4.1). Serial types 8 and 9
// are the zero-width constants 0 and 1.
func DecodeSignedInt(data []byte, serialType uint64) (int64, error) {
	switch serialType {
	case 8:
		return 0, nil
	case 9:
		return 1, nil
	}
	width := SerialTypeSize(serialType)
	if len(data) < width {
		return 0, walerr.ErrUnexpectedEOF
	}
	data = data[:width]
	if width == 0 {
		return 0, nil
	}
	var uval uint64
	for _, b := range data {
		uval = (uval << 8) | uint64(b)
	}
	if width == 8 {
		// Casting the full 64-bit pattern to int64 sign-extends correctly.
		return int64(uval), nil
	}
	bits := uint(width * 8)
	signBit := uint64(1) << (bits - 1)
	if uval&signBit != 0 {
		uval -= uint64(1) << bits
	}
	return int64(uval), nil
}
