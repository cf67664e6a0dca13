// Package wal parses the write-ahead log header and frames, computes the
// rolling per-frame checksum, and exposes a lazy iterator over commits
// (spec §3 WalHeader/Frame/Commit, §4.3, §4.4).
package wal

import (
	"encoding/binary"
	"fmt"

	"github.com/lattice-data/walguard/internal/walerr"
)

// HeaderSize is the fixed length of the WAL file header.
const HeaderSize = 32

// FrameHeaderSize is the fixed length of a single frame header, preceding
// its page-sized payload.
const FrameHeaderSize = 24

const (
	magicBigEndian    = 0x377f0682
	magicLittleEndian = 0x377f0683
)

// Header is the decoded 32-byte WAL header (spec §3).
type Header struct {
	Magic            uint32
	FormatVersion    uint32
	PageSize         uint32
	CheckpointSeq    uint32
	Salt1            uint32
	Salt2            uint32
	Checksum1        uint32
	Checksum2        uint32
	BigEndianChecksum bool
	raw              [HeaderSize]byte
}

// ParseHeader decodes the fixed 32-byte WAL header and validates the
// magic and the embedded self-checksum (spec §3, §4.3).
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, walerr.ErrUnexpectedEOF
	}
	magic := binary.BigEndian.Uint32(buf[0:4])
	var bigEndian bool
	switch magic {
	case magicBigEndian:
		bigEndian = true
	case magicLittleEndian:
		bigEndian = false
	default:
		return Header{}, walerr.ErrBadMagic
	}

	h := Header{
		Magic:             magic,
		FormatVersion:     binary.BigEndian.Uint32(buf[4:8]),
		PageSize:          binary.BigEndian.Uint32(buf[8:12]),
		CheckpointSeq:     binary.BigEndian.Uint32(buf[12:16]),
		Salt1:             binary.BigEndian.Uint32(buf[16:20]),
		Salt2:             binary.BigEndian.Uint32(buf[20:24]),
		Checksum1:         binary.BigEndian.Uint32(buf[24:28]),
		Checksum2:         binary.BigEndian.Uint32(buf[28:32]),
		BigEndianChecksum: bigEndian,
	}
	copy(h.raw[:], buf[:HeaderSize])

	s0, s1 := Checksum(0, 0, buf[0:24], bigEndian)
	if s0 != h.Checksum1 || s1 != h.Checksum2 {
		return Header{}, fmt.Errorf("%w: WAL header self-checksum", walerr.ErrBadMagic)
	}
	return h, nil
}

// Checksum implements the rolling checksum function from spec §4.3: data's
// length must be a multiple of 8. Each 8-byte chunk is split into two
// 32-bit words (v0, v1) in the chosen endianness, then
// s0 += v0 + s1; s1 += v1 + s0, all wrapping 32-bit arithmetic. Trailing
// bytes that don't complete a chunk are ignored.
func Checksum(s0, s1 uint32, data []byte, bigEndian bool) (uint32, uint32) {
	n := len(data) - len(data)%8
	for i := 0; i < n; i += 8 {
		var v0, v1 uint32
		if bigEndian {
			v0 = binary.BigEndian.Uint32(data[i : i+4])
			v1 = binary.BigEndian.Uint32(data[i+4 : i+8])
		} else {
			v0 = binary.LittleEndian.Uint32(data[i : i+4])
			v1 = binary.LittleEndian.Uint32(data[i+4 : i+8])
		}
		s0 += v0 + s1
		s1 += v1 + s0
	}
	return s0, s1
}
