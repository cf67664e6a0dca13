package validate

import (
	"github.com/lattice-data/walguard/internal/btree"
	"github.com/lattice-data/walguard/internal/varint"
)

// Context is the per-pass state exposed to validators (spec §4.8): the
// mutable page cache, the current commit index (nil for the base-state
// pass), and the run's configuration. The schema catalog is discovered
// lazily and cached for the lifetime of this Context, since BTreeInfo
// lists must be recomputed fresh for every pass (spec §3 "recomputed per
// commit").
type Context struct {
	Cache        btree.PageSource
	TextEncoding varint.TextEncoding
	CommitIndex  *int
	Config       *Config

	catalog     []btree.BTreeInfo
	catalogErr  error
	catalogDone bool
}

// NewContext constructs a Context for one validation pass.
func NewContext(cache btree.PageSource, enc varint.TextEncoding, commitIndex *int, cfg *Config) *Context {
	return &Context{Cache: cache, TextEncoding: enc, CommitIndex: commitIndex, Config: cfg}
}

// Catalog returns the schema-catalog discovery result for this pass,
// discovering it on first use and caching the result.
func (c *Context) Catalog() ([]btree.BTreeInfo, error) {
	if !c.catalogDone {
		c.catalog, c.catalogErr = btree.DiscoverBTrees(c.Cache, c.TextEncoding)
		c.catalogDone = true
	}
	return c.catalog, c.catalogErr
}

// IsBaseState reports whether this pass is the pre-WAL base state.
func (c *Context) IsBaseState() bool {
	return c.CommitIndex == nil
}
