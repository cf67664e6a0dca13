package wal

import (
	"io"

	"github.com/lattice-data/walguard/internal/walerr"
)

// Commit is a maximal, non-empty run of frames ending in a commit-marked
// frame (spec §3).
type Commit struct {
	Index       int
	Frames      []Frame
	DBSizeAfter uint32
}

// Source is the minimal interface the commit iterator needs over the WAL
// file: a sequential, offset-addressable byte source. *os.File satisfies
// this via io.ReaderAt.
type Source interface {
	io.ReaderAt
}

// CommitIterator yields commits lazily from a WAL file in order, verifying
// per-frame rolling checksums and salts as it goes (spec §4.4).
type CommitIterator struct {
	src         Source
	header      Header
	pageSize    int
	frameIndex  int
	commitIndex int
	s0, s1      uint32
	pending     []Frame
	finished    bool

	// danglingFrames counts frames belonging to an in-progress
	// transaction that was dropped when the WAL ended mid-commit. Used by
	// the driver to emit the Info-level incomplete-commit issue (§12.1).
	danglingFrames int
}

// NewCommitIterator constructs an iterator positioned at the first frame.
// The running checksum seed is the checksum of the raw 32-byte WAL header
// over bytes [0,24) with seed (0,0) (spec §4.4).
func NewCommitIterator(src Source, header Header) *CommitIterator {
	s0, s1 := Checksum(0, 0, header.raw[0:24], header.BigEndianChecksum)
	return &CommitIterator{
		src:      src,
		header:   header,
		pageSize: int(header.PageSize),
		s0:       s0,
		s1:       s1,
	}
}

// Next returns the next commit, or (nil, nil) when the WAL is exhausted
// cleanly (truncation or salt rotation — spec §4.4 step 1/2, non-erroring).
// A checksum mismatch returns a fatal, non-nil error; the iterator must not
// be called again afterward.
func (it *CommitIterator) Next() (*Commit, error) {
	if it.finished {
		return nil, nil
	}
	for {
		frame, ok, err := it.readFrame()
		if err != nil {
			return nil, err
		}
		if !ok {
			it.finished = true
			it.danglingFrames = len(it.pending)
			// An in-progress transaction's partial frames are dropped
			// silently (spec §4.4 step 1, §9 open question).
			return nil, nil
		}

		it.pending = append(it.pending, frame)
		it.frameIndex++

		if frame.Header.IsCommit() {
			commit := &Commit{
				Index:       it.commitIndex,
				Frames:      it.pending,
				DBSizeAfter: frame.Header.DBSizeAfter,
			}
			it.pending = nil
			it.commitIndex++
			return commit, nil
		}
	}
}

// readFrame reads and validates one frame. ok is false when the iterator
// hit a clean stopping point (short read or salt mismatch), in which case
// err is always nil.
func (it *CommitIterator) readFrame() (Frame, bool, error) {
	offset := int64(HeaderSize) + int64(it.frameIndex)*int64(FrameHeaderSize+it.pageSize)

	hdrBuf := make([]byte, FrameHeaderSize)
	if n, err := it.src.ReadAt(hdrBuf, offset); err != nil || n < FrameHeaderSize {
		return Frame{}, false, nil // short read: in-progress writer, stop cleanly
	}

	dataBuf := make([]byte, it.pageSize)
	if n, err := it.src.ReadAt(dataBuf, offset+FrameHeaderSize); err != nil || n < it.pageSize {
		return Frame{}, false, nil
	}

	fh := ParseFrameHeader(hdrBuf)
	if fh.Salt1 != it.header.Salt1 || fh.Salt2 != it.header.Salt2 {
		return Frame{}, false, nil // prior generation or invalid: stop cleanly
	}

	ts0, ts1 := Checksum(it.s0, it.s1, hdrBuf[0:8], it.header.BigEndianChecksum)
	ts0, ts1 = Checksum(ts0, ts1, dataBuf, it.header.BigEndianChecksum)
	if ts0 != fh.Checksum1 || ts1 != fh.Checksum2 {
		return Frame{}, false, &walerr.ChecksumMismatchError{FrameIndex: it.frameIndex}
	}
	it.s0, it.s1 = ts0, ts1

	return Frame{Index: it.frameIndex, Header: fh, Data: dataBuf}, true, nil
}

// FrameCount returns the number of frames consumed so far, including any
// trailing uncommitted frames that DanglingFrames reports as dropped.
func (it *CommitIterator) FrameCount() int {
	return it.frameIndex
}

// DanglingFrames returns the number of frames belonging to a trailing,
// never-committed transaction that the iterator silently dropped. Zero
// means the WAL ended cleanly on a commit boundary (or was empty).
func (it *CommitIterator) DanglingFrames() int {
	return it.danglingFrames
}
