package continent

import (
	"github.com/biter777/countries"
)

// Standardizer maps a free-form country name to an ISO 3166 alpha-2 code.
type Standardizer interface {
	Alpha2(name string) (string, bool)
}

// LibraryStandardizer resolves names through the biter777/countries alias
// database, then through the short names of a country table.
type LibraryStandardizer struct {
	table *Table
}

// NewLibraryStandardizer creates a standardizer backed by the given table.
func NewLibraryStandardizer(table *Table) *LibraryStandardizer {
	return &LibraryStandardizer{table: table}
}

func (s *LibraryStandardizer) Alpha2(name string) (string, bool) {
	if code := countries.ByName(name); code != countries.Unknown {
		if a2 := code.Alpha2(); len(a2) == 2 {
			return a2, true
		}
	}
	if ci, ok := s.table.ByName(name); ok {
		return ci.ISO, true
	}
	return "", false
}
