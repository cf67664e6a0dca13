package wal

import (
	"fmt"
	"os"

	"github.com/lattice-data/walguard/internal/walerr"
)

// File wraps an opened WAL file together with its parsed header.
type File struct {
	f      *os.File
	Header Header
}

// Open reads and validates a WAL file's header. A missing or empty
// (zero-byte) WAL is a valid case: Open returns (nil, false, nil) so the
// caller can treat it as "zero frames, zero commits" without error
// (spec §8 boundary case).
func Open(path string, expectedPageSize uint32) (*File, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open WAL file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, false, fmt.Errorf("stat WAL file: %w", err)
	}
	if fi.Size() == 0 {
		f.Close()
		return nil, false, nil
	}

	hdrBuf := make([]byte, HeaderSize)
	if _, err := f.ReadAt(hdrBuf, 0); err != nil {
		f.Close()
		return nil, false, fmt.Errorf("read WAL header: %w", err)
	}
	header, err := ParseHeader(hdrBuf)
	if err != nil {
		f.Close()
		return nil, false, err
	}
	if expectedPageSize != 0 && header.PageSize != expectedPageSize {
		f.Close()
		return nil, false, fmt.Errorf("%w: WAL declares %d, database declares %d", walerr.ErrPageSizeMismatch, header.PageSize, expectedPageSize)
	}

	return &File{f: f, Header: header}, true, nil
}

// Iterator returns a fresh CommitIterator over this WAL file.
func (w *File) Iterator() *CommitIterator {
	return NewCommitIterator(w.f, w.Header)
}

// Close releases the underlying file handle.
func (w *File) Close() error {
	return w.f.Close()
}
