package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

func TestIndexLocate(t *testing.T) {
	france := country("France", "FRA", "FR", orb.Polygon{box(-5, 42, 8, 51)})
	// Overlaps the northern strip of Spain.
	disputed := country("Disputed", "-99", "-99", orb.Polygon{box(-2, 42, 2, 44)})
	holed := country("Holed", "HOL", "HO", orb.Polygon{box(20, 20, 30, 30), box(24, 24, 26, 26)})
	fiji := country("Fiji", "FJI", "FJ",
		orb.Polygon{box(177, -19, 180, -16)},
		orb.Polygon{box(-180, -19, -178, -16)},
	)

	ix := NewIndex([]domain.CountryPolygon{spain(), france, disputed, holed, fiji})
	assert.Equal(t, 5, ix.Len())

	tests := []struct {
		name string
		pt   orb.Point
		want int
	}{
		{"inside spain", orb.Point{-3, 40}, 0},
		{"inside france only", orb.Point{2, 48}, 1},
		{"overlap takes first in order", orb.Point{0, 43}, 0},
		{"outer boundary counts as inside", orb.Point{-9.5, 40}, 0},
		{"corner counts as inside", orb.Point{3.3, 36}, 0},
		{"open ocean", orb.Point{0, 0}, -1},
		{"polygon body", orb.Point{22, 22}, 3},
		{"inside hole", orb.Point{25, 25}, -1},
		{"east of antimeridian", orb.Point{178, -17}, 4},
		{"west of antimeridian", orb.Point{-179, -17}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ix.Locate(tt.pt))
		})
	}
}

func TestIndexCandidates_SortedAndUnique(t *testing.T) {
	multi := country("Multi", "", "",
		orb.Polygon{box(0, 0, 10, 10)},
		orb.Polygon{box(1, 1, 9, 9)},
	)
	ix := NewIndex([]domain.CountryPolygon{
		country("Later", "", "", orb.Polygon{box(0, 0, 10, 10)}),
		multi,
	})
	assert.Equal(t, []int{0, 1}, ix.Candidates(orb.Point{5, 5}))
	assert.Empty(t, ix.Candidates(orb.Point{50, 50}))
}

func TestIndex_Empty(t *testing.T) {
	ix := NewIndex(nil)
	assert.Equal(t, 0, ix.Len())
	assert.Equal(t, -1, ix.Locate(orb.Point{0, 0}))
}
