package wal

import (
	"encoding/binary"
	"testing"
)

func buildFrameHeaderBytes(pageNumber, dbSizeAfter, salt1, salt2, cksum1, cksum2 uint32) []byte {
	buf := make([]byte, FrameHeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], pageNumber)
	binary.BigEndian.PutUint32(buf[4:8], dbSizeAfter)
	binary.BigEndian.PutUint32(buf[8:12], salt1)
	binary.BigEndian.PutUint32(buf[12:16], salt2)
	binary.BigEndian.PutUint32(buf[16:20], cksum1)
	binary.BigEndian.PutUint32(buf[20:24], cksum2)
	return buf
}

func TestParseFrameHeaderFields(t *testing.T) {
	buf := buildFrameHeaderBytes(7, 42, 100, 200, 0xdead, 0xbeef)
	h := ParseFrameHeader(buf)
	if h.PageNumber != 7 || h.DBSizeAfter != 42 || h.Salt1 != 100 || h.Salt2 != 200 {
		t.Errorf("unexpected header: %+v", h)
	}
	if h.Checksum1 != 0xdead || h.Checksum2 != 0xbeef {
		t.Errorf("unexpected checksums: %+v", h)
	}
}

func TestFrameHeaderIsCommit(t *testing.T) {
	commit := ParseFrameHeader(buildFrameHeaderBytes(1, 5, 1, 1, 0, 0))
	if !commit.IsCommit() {
		t.Error("expected IsCommit()=true when DBSizeAfter != 0")
	}

	nonCommit := ParseFrameHeader(buildFrameHeaderBytes(1, 0, 1, 1, 0, 0))
	if nonCommit.IsCommit() {
		t.Error("expected IsCommit()=false when DBSizeAfter == 0")
	}
}
