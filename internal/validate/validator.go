package validate

// Validator is the pluggable check contract (spec §4.8): a stable name, an
// enablement predicate over the run's configuration, and the check itself.
// Validators are stateless across calls — any per-pass state lives in the
// Context, not the Validator.
type Validator interface {
	Name() string
	Enabled(cfg *Config) bool
	Validate(ctx *Context) ([]ValidationIssue, error)
}

// AllValidators returns the three built-in checks in a stable order.
func AllValidators() []Validator {
	return []Validator{
		DuplicateTableRowid{},
		DuplicateUniqueIndexKey{},
		IndexIntegrity{},
	}
}
