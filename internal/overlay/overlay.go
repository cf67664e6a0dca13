// Package overlay maintains the page-level overlay on top of the base
// database: the latest-writer-wins mapping from page number to the most
// recent WAL frame that touched it (spec §3 Overlay, §4.5).
package overlay

import (
	"github.com/lattice-data/walguard/internal/page"
	"github.com/lattice-data/walguard/internal/wal"
	"github.com/lattice-data/walguard/internal/walerr"
)

type entry struct {
	data       []byte
	frameIndex int
}

// Cache is the page cache / overlay described in spec §4.5: it serves
// pages from the overlay when present, falling back to the base reader
// (substituting a zero page when the base reader reports ErrPageNotFound,
// since a page number first appearing in the WAL need not exist in the
// base file).
type Cache struct {
	pageSize      uint32
	basePageCount uint32
	reader        page.Reader
	overlay       map[uint32]entry
}

// New constructs a page cache over reader, with the base file's declared
// page size and page count (from the DB header).
func New(reader page.Reader, pageSize, basePageCount uint32) *Cache {
	return &Cache{
		pageSize:      pageSize,
		basePageCount: basePageCount,
		reader:        reader,
		overlay:       make(map[uint32]entry),
	}
}

// GetPage returns the current page payload: the overlay entry if present,
// else the base reader's page, else a zero-filled page.
func (c *Cache) GetPage(n uint32) ([]byte, error) {
	if e, ok := c.overlay[n]; ok {
		return e.data, nil
	}
	buf, err := c.reader.ReadPage(n)
	if err != nil {
		if err == walerr.ErrPageNotFound {
			return make([]byte, c.pageSize), nil
		}
		return nil, err
	}
	return buf, nil
}

// FrameIndex returns the overlay's recorded frame index for page n, or
// (0, false) if the page has not been touched by any applied commit.
func (c *Cache) FrameIndex(n uint32) (int, bool) {
	e, ok := c.overlay[n]
	if !ok {
		return 0, false
	}
	return e.frameIndex, true
}

// Apply overwrites the overlay with every frame in commit, in file order,
// so that the overlay always reflects the latest applied frame per page
// (spec §4.5 invariant — never a mix of versions from different commits).
func (c *Cache) Apply(commit *wal.Commit) {
	for _, f := range commit.Frames {
		c.overlay[f.Header.PageNumber] = entry{data: f.Data, frameIndex: f.Index}
	}
}

// EffectivePageCount returns max(basePageCount, max(overlay page numbers)).
func (c *Cache) EffectivePageCount() uint32 {
	max := c.basePageCount
	for n := range c.overlay {
		if n > max {
			max = n
		}
	}
	return max
}

// PageSize returns the page size this cache was constructed with.
func (c *Cache) PageSize() uint32 {
	return c.pageSize
}
