package wal

import "testing"

func TestChecksumKnownValue(t *testing.T) {
	// Two 4-byte words of zero, big-endian: s0 = 1+0+2 = 3; s1 = 2+0+3 = 5.
	data := make([]byte, 8)
	s0, s1 := Checksum(1, 2, data, true)
	if s0 != 3 || s1 != 5 {
		t.Errorf("s0=%d s1=%d, want 3 5", s0, s1)
	}
}

func TestChecksumIsPure(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	a0, a1 := Checksum(10, 20, data, true)
	b0, b1 := Checksum(10, 20, data, true)
	if a0 != b0 || a1 != b1 {
		t.Errorf("checksum not pure: (%d,%d) != (%d,%d)", a0, a1, b0, b1)
	}
}

func TestChecksumTrailingBytesIgnored(t *testing.T) {
	full := []byte{0, 0, 0, 1, 0, 0, 0, 2}
	withTrailer := append(append([]byte{}, full...), 0xff, 0xff, 0xff)
	s0a, s1a := Checksum(0, 0, full, true)
	s0b, s1b := Checksum(0, 0, withTrailer, true)
	if s0a != s0b || s1a != s1b {
		t.Errorf("trailing partial chunk changed the result: (%d,%d) vs (%d,%d)", s0a, s1a, s0b, s1b)
	}
}

func TestChecksumEndiannessDiffers(t *testing.T) {
	data := []byte{0, 0, 0, 1, 0, 0, 0, 2}
	be0, be1 := Checksum(0, 0, data, true)
	le0, le1 := Checksum(0, 0, data, false)
	if be0 == le0 && be1 == le1 {
		t.Error("expected big-endian and little-endian checksums to differ for non-symmetric data")
	}
}
