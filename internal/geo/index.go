package geo

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// Index answers point-in-polygon queries over a fixed polygon set.
//
// Each part of a multi-polygon is inserted under its own bounding box so that
// countries spanning the antimeridian do not become world-sized candidates.
// Containment is boundary-inclusive on outer rings; a point lying exactly on a
// hole's edge counts as outside (orb/planar semantics).
type Index struct {
	tree  rtree.RTreeG[int]
	polys []domain.CountryPolygon
}

// NewIndex builds an R-tree over the polygons' part bounds.
func NewIndex(polys []domain.CountryPolygon) *Index {
	ix := &Index{polys: polys}
	for i, p := range polys {
		for _, part := range p.Geometry {
			b := part.Bound()
			ix.tree.Insert([2]float64{b.Min[0], b.Min[1]}, [2]float64{b.Max[0], b.Max[1]}, i)
		}
	}
	return ix
}

// Len returns the number of indexed polygons.
func (ix *Index) Len() int {
	return len(ix.polys)
}

// Candidates returns the polygons whose part bounds contain pt, in original
// polygon order and without duplicates.
func (ix *Index) Candidates(pt orb.Point) []int {
	var out []int
	ix.tree.Search([2]float64(pt), [2]float64(pt), func(_, _ [2]float64, i int) bool {
		out = append(out, i)
		return true
	})
	slices.Sort(out)
	return slices.Compact(out)
}

// Locate returns the index of the first polygon, in original order, that
// contains pt, or -1 if none does. Overlapping polygons are a data artifact;
// taking the first one is an arbitrary but stable rule.
func (ix *Index) Locate(pt orb.Point) int {
	for _, i := range ix.Candidates(pt) {
		if planar.MultiPolygonContains(ix.polys[i].Geometry, pt) {
			return i
		}
	}
	return -1
}
