// Package filter derives read-only views over an enriched eruption table.
//
// A Predicate constrains rows by year range, VEI set, and category set. An
// unset dimension places no constraint. Vacuous constraints (an inverted year
// range or an empty set) produce empty results rather than errors, and
// predicates compose: Apply(Apply(t, a), b) equals Apply(t, And(a, b)).
package filter

import (
	"maps"
	"math"
	"slices"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// YearRange is an inclusive range of start years. Min > Max matches nothing.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool {
	return r.Min <= year && year <= r.Max
}

// Empty reports whether the range matches no year.
func (r YearRange) Empty() bool {
	return r.Min > r.Max
}

func (r YearRange) intersect(o YearRange) YearRange {
	return YearRange{Min: max(r.Min, o.Min), Max: min(r.Max, o.Max)}
}

// VEISet is an explicit enumeration of allowed VEI values. Rows without a VEI
// match only when Unknown is set.
type VEISet struct {
	values  map[float64]struct{}
	Unknown bool
}

// NewVEISet creates a set of allowed VEI values.
func NewVEISet(values []float64, includeUnknown bool) VEISet {
	s := VEISet{values: make(map[float64]struct{}, len(values)), Unknown: includeUnknown}
	for _, v := range values {
		if !math.IsNaN(v) {
			s.values[v] = struct{}{}
		}
	}
	return s
}

// Contains reports whether a row's VEI is allowed. NaN counts as unknown.
func (s VEISet) Contains(vei *float64) bool {
	if vei == nil || math.IsNaN(*vei) {
		return s.Unknown
	}
	_, ok := s.values[*vei]
	return ok
}

// Values returns the allowed known VEIs in ascending order.
func (s VEISet) Values() []float64 {
	return slices.Sorted(maps.Keys(s.values))
}

// Empty reports whether the set allows nothing.
func (s VEISet) Empty() bool {
	return len(s.values) == 0 && !s.Unknown
}

func (s VEISet) intersect(o VEISet) VEISet {
	out := VEISet{values: make(map[float64]struct{}), Unknown: s.Unknown && o.Unknown}
	for v := range s.values {
		if _, ok := o.values[v]; ok {
			out.values[v] = struct{}{}
		}
	}
	return out
}

// CategorySet is an explicit enumeration of allowed eruption categories.
type CategorySet struct {
	values map[domain.Category]struct{}
}

// NewCategorySet creates a set of allowed categories.
func NewCategorySet(categories ...domain.Category) CategorySet {
	s := CategorySet{values: make(map[domain.Category]struct{}, len(categories))}
	for _, c := range categories {
		s.values[c] = struct{}{}
	}
	return s
}

// Contains reports whether c is allowed.
func (s CategorySet) Contains(c domain.Category) bool {
	_, ok := s.values[c]
	return ok
}

// Values returns the allowed categories in sorted order.
func (s CategorySet) Values() []domain.Category {
	return slices.Sorted(maps.Keys(s.values))
}

func (s CategorySet) intersect(o CategorySet) CategorySet {
	out := CategorySet{values: make(map[domain.Category]struct{})}
	for c := range s.values {
		if o.Contains(c) {
			out.values[c] = struct{}{}
		}
	}
	return out
}

// Predicate is a conjunction of optional constraints. A nil field places no
// constraint on that dimension.
type Predicate struct {
	Years      *YearRange
	VEI        *VEISet
	Categories *CategorySet
}

// MatchNone returns a predicate that no row satisfies. Callers use it for
// malformed filter input.
func MatchNone() Predicate {
	return Predicate{Years: &YearRange{Min: 1, Max: 0}}
}

// Match reports whether row satisfies every constraint.
func (p Predicate) Match(row domain.EnrichedEruption) bool {
	if p.Years != nil && !p.Years.Contains(row.StartYear) {
		return false
	}
	if p.VEI != nil && !p.VEI.Contains(row.VEI) {
		return false
	}
	if p.Categories != nil && !p.Categories.Contains(row.Category) {
		return false
	}
	return true
}

// And returns the conjunction of a and b.
func And(a, b Predicate) Predicate {
	var out Predicate
	switch {
	case a.Years != nil && b.Years != nil:
		y := a.Years.intersect(*b.Years)
		out.Years = &y
	case a.Years != nil:
		out.Years = a.Years
	default:
		out.Years = b.Years
	}
	switch {
	case a.VEI != nil && b.VEI != nil:
		v := a.VEI.intersect(*b.VEI)
		out.VEI = &v
	case a.VEI != nil:
		out.VEI = a.VEI
	default:
		out.VEI = b.VEI
	}
	switch {
	case a.Categories != nil && b.Categories != nil:
		c := a.Categories.intersect(*b.Categories)
		out.Categories = &c
	case a.Categories != nil:
		out.Categories = a.Categories
	default:
		out.Categories = b.Categories
	}
	return out
}

// Apply returns the rows satisfying p, in their original order. The input is
// never modified; the result is a new slice.
func Apply(rows []domain.EnrichedEruption, p Predicate) []domain.EnrichedEruption {
	out := make([]domain.EnrichedEruption, 0, len(rows))
	if (p.Years != nil && p.Years.Empty()) || (p.VEI != nil && p.VEI.Empty()) {
		return out
	}
	for _, row := range rows {
		if p.Match(row) {
			out = append(out, row)
		}
	}
	return out
}

// DefaultPredicate is the initial view over rows: the full year span and every
// known VEI present, with unknown VEI excluded.
func DefaultPredicate(rows []domain.EnrichedEruption) Predicate {
	b := ComputeBounds(rows)
	if b.Years == nil {
		return Predicate{}
	}
	veis := NewVEISet(b.VEIs, false)
	return Predicate{Years: b.Years, VEI: &veis}
}
