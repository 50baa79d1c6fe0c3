package filter

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func row(name string, year int, vei *float64, cat domain.Category) domain.EnrichedEruption {
	return domain.EnrichedEruption{
		EruptionRecord: domain.EruptionRecord{VolcanoName: name, StartYear: year, VEI: vei, Category: cat},
		Continent:      domain.Unknown,
	}
}

func names(rows []domain.EnrichedEruption) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.VolcanoName
	}
	return out
}

func sampleRows() []domain.EnrichedEruption {
	return []domain.EnrichedEruption{
		row("Krakatau", 1883, ptr(6.0), domain.CategoryConfirmed),
		row("Tambora", 1815, ptr(7.0), domain.CategoryConfirmed),
		row("Vesuvius", 79, ptr(5.0), domain.CategoryConfirmed),
		row("Hekla", 1947, ptr(4.0), domain.CategoryConfirmed),
		row("Santorini", -1610, ptr(7.0), domain.CategoryConfirmed),
		row("Mystery", 1850, nil, domain.CategoryUncertain),
		row("Hoax", 1900, ptr(2.0), domain.CategoryDiscredited),
		row("Pelee", 1902, ptr(4.0), domain.CategoryConfirmed),
	}
}

func TestApply_YearAndVEI(t *testing.T) {
	rows := []domain.EnrichedEruption{
		row("A", 1850, ptr(4.0), domain.CategoryConfirmed),
		row("B", 1950, ptr(5.0), domain.CategoryConfirmed),
	}
	veis := NewVEISet([]float64{4, 5}, false)
	p := Predicate{Years: &YearRange{Min: 1800, Max: 1900}, VEI: &veis}

	assert.Equal(t, []string{"A"}, names(Apply(rows, p)))
}

func TestApply(t *testing.T) {
	knownOnly := NewVEISet([]float64{4, 5, 6, 7}, false)
	withUnknown := NewVEISet([]float64{4}, true)
	empty := NewVEISet(nil, false)
	confirmed := NewCategorySet(domain.CategoryConfirmed)

	tests := []struct {
		name string
		p    Predicate
		want []string
	}{
		{"no constraints", Predicate{}, []string{"Krakatau", "Tambora", "Vesuvius", "Hekla", "Santorini", "Mystery", "Hoax", "Pelee"}},
		{"inclusive year bounds", Predicate{Years: &YearRange{Min: 1815, Max: 1883}}, []string{"Krakatau", "Tambora", "Mystery"}},
		{"negative years", Predicate{Years: &YearRange{Min: -2000, Max: 0}}, []string{"Santorini"}},
		{"unknown vei excluded", Predicate{VEI: &knownOnly}, []string{"Krakatau", "Tambora", "Vesuvius", "Hekla", "Santorini", "Pelee"}},
		{"unknown vei included", Predicate{VEI: &withUnknown}, []string{"Hekla", "Mystery", "Pelee"}},
		{"empty vei set", Predicate{VEI: &empty}, []string{}},
		{"inverted year range", Predicate{Years: &YearRange{Min: 1900, Max: 1800}}, []string{}},
		{"category", Predicate{Categories: &confirmed, Years: &YearRange{Min: 1900, Max: 2000}}, []string{"Hekla", "Pelee"}},
		{"match none", MatchNone(), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Apply(sampleRows(), tt.p)))
		})
	}
}

func TestApply_DoesNotModifyBase(t *testing.T) {
	base := sampleRows()
	snapshot := sampleRows()
	veis := NewVEISet([]float64{7}, false)

	out := Apply(base, Predicate{VEI: &veis})
	out[0].VolcanoName = "changed"

	assert.Empty(t, cmp.Diff(snapshot, base))
}

func TestVEISet_NaNIsUnknown(t *testing.T) {
	s := NewVEISet([]float64{math.NaN(), 3}, false)
	assert.Equal(t, []float64{3}, s.Values())
	assert.False(t, s.Contains(ptr(math.NaN())))

	s.Unknown = true
	assert.True(t, s.Contains(ptr(math.NaN())))
	assert.True(t, s.Contains(nil))
}

func TestAnd_Composable(t *testing.T) {
	v1 := NewVEISet([]float64{4, 5, 6, 7}, true)
	v2 := NewVEISet([]float64{2, 4, 7}, true)
	v3 := NewVEISet([]float64{4}, false)
	cats := NewCategorySet(domain.CategoryConfirmed, domain.CategoryUncertain)
	cats2 := NewCategorySet(domain.CategoryUncertain)

	predicates := []Predicate{
		{},
		{Years: &YearRange{Min: 1800, Max: 1950}},
		{Years: &YearRange{Min: 1900, Max: 2000}},
		{Years: &YearRange{Min: 1950, Max: 1800}},
		{VEI: &v1},
		{VEI: &v2},
		{VEI: &v3, Years: &YearRange{Min: 0, Max: 3000}},
		{Categories: &cats},
		{Categories: &cats2, VEI: &v2},
		MatchNone(),
	}

	rows := sampleRows()
	for i, p1 := range predicates {
		for j, p2 := range predicates {
			sequential := Apply(Apply(rows, p1), p2)
			combined := Apply(rows, And(p1, p2))
			assert.Equal(t, names(sequential), names(combined), "p%d then p%d", i, j)
		}
	}
}

func TestDefaultPredicate(t *testing.T) {
	rows := sampleRows()
	p := DefaultPredicate(rows)

	assert.Equal(t, &YearRange{Min: -1610, Max: 1947}, p.Years)
	assert.Equal(t, []float64{2, 4, 5, 6, 7}, p.VEI.Values())
	assert.False(t, p.VEI.Unknown)
	assert.Nil(t, p.Categories)

	assert.NotContains(t, names(Apply(rows, p)), "Mystery")
	assert.Len(t, Apply(rows, p), len(rows)-1)
}

func TestDefaultPredicate_Empty(t *testing.T) {
	assert.Equal(t, Predicate{}, DefaultPredicate(nil))
}
