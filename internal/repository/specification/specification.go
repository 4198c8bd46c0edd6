package specification

import "gorm.io/gorm"

// Specification is a composable query predicate. Repositories apply each one
// to the base query in order, so callers can mix filters and ordering freely.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
