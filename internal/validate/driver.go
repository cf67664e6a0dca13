package validate

import (
	"fmt"

	"github.com/lattice-data/walguard/internal/btree"
	"github.com/lattice-data/walguard/internal/varint"
)

// Driver instantiates the enabled validators once per run and invokes each
// at the base state, then after every commit, accumulating issues across
// all passes (spec §4.8, §5 "passes over the WAL are ordered").
type Driver struct {
	validators []Validator
	config     *Config
	enc        varint.TextEncoding
}

// NewDriver builds a Driver over the validators enabled by cfg. A nil cfg
// is equivalent to DefaultConfig.
func NewDriver(cfg *Config, enc varint.TextEncoding) *Driver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	d := &Driver{config: cfg, enc: enc}
	for _, vtor := range AllValidators() {
		if vtor.Enabled(cfg) {
			d.validators = append(d.validators, vtor)
		}
	}
	return d
}

// RunPass runs every enabled validator once against cache, tagging emitted
// issues with commitIndex (nil for the base-state pass).
func (d *Driver) RunPass(cache btree.PageSource, commitIndex *int) ([]ValidationIssue, error) {
	ctx := NewContext(cache, d.enc, commitIndex, d.config)
	var all []ValidationIssue
	for _, vtor := range d.validators {
		issues, err := vtor.Validate(ctx)
		if err != nil {
			return all, fmt.Errorf("pass failed: %w", err)
		}
		all = append(all, issues...)
	}
	return all, nil
}
