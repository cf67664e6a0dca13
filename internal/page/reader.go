package page

import (
	"fmt"
	"io"
	"os"

	"github.com/lattice-data/walguard/internal/walerr"
)

// FileReader implements Reader over an *os.File opened read-only against
// the base database file. It is the reference implementation of the
// external collaborator described in spec §6 — the core never requires
// more than this.
type FileReader struct {
	f        *os.File
	pageSize uint32
}

// NewFileReader opens path read-only and wraps it as a page-sized reader.
// pageSize may be 0 if the caller intends to call ReadDbHeader first to
// discover it from the file itself.
func NewFileReader(path string, pageSize uint32) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database file: %w", err)
	}
	return &FileReader{f: f, pageSize: pageSize}, nil
}

// ReadDbHeader reads and parses the fixed 100-byte database header
// directly (independent of the page size, which it has not been told yet)
// and adopts the page size it declares for subsequent ReadPage calls.
func (r *FileReader) ReadDbHeader() (DbHeader, error) {
	buf := make([]byte, DBHeaderPrefixSize)
	if _, err := r.f.ReadAt(buf, 0); err != nil {
		return DbHeader{}, fmt.Errorf("read database header: %w", err)
	}
	h, err := ParseDbHeader(buf)
	if err != nil {
		return DbHeader{}, err
	}
	r.pageSize = h.PageSize
	return h, nil
}

// ReadPage returns exactly pageSize bytes at offset (n-1)*pageSize, or
// ErrPageNotFound if n==0 or the range lies beyond EOF (spec §4.2).
func (r *FileReader) ReadPage(n uint32) ([]byte, error) {
	if n == 0 {
		return nil, walerr.ErrPageNotFound
	}
	offset := int64(n-1) * int64(r.pageSize)
	buf := make([]byte, r.pageSize)
	read, err := r.f.ReadAt(buf, offset)
	if err != nil {
		if err == io.EOF && read == 0 {
			return nil, walerr.ErrPageNotFound
		}
		if err == io.ErrUnexpectedEOF || (err == io.EOF && read > 0) {
			// Partial final page: treat as not found, the page may still
			// exist fully in the WAL.
			return nil, walerr.ErrPageNotFound
		}
		return nil, fmt.Errorf("read page %d: %w", n, err)
	}
	return buf, nil
}

// Close releases the underlying file handle.
func (r *FileReader) Close() error {
	return r.f.Close()
}
