package specification

import "gorm.io/gorm"

// Specification narrows or shapes a query. Implementations are small value types.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// All applies each specification in order.
type All []Specification

func (s All) Apply(db *gorm.DB) *gorm.DB {
	for _, spec := range s {
		db = spec.Apply(db)
	}
	return db
}
