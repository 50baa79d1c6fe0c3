package filter

import (
	"cmp"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// OtherCountry is the bucket for countries below the summary threshold.
const OtherCountry = "Other"

// UnknownVEI is the VEI bucket key for rows without a VEI.
const UnknownVEI = "unknown"

// Count is one bucket of a grouped count.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Summary holds grouped counts over a view.
type Summary struct {
	Total       int     `json:"total"`
	ByContinent []Count `json:"by_continent"`
	ByCountry   []Count `json:"by_country"`
	ByVEI       []Count `json:"by_vei"`
	ByCategory  []Count `json:"by_category"`
	Bounds      Bounds  `json:"bounds"`
}

// Bounds is the extent of a view: its year span, the distinct known VEIs, and
// the categories present.
type Bounds struct {
	Years      *YearRange        `json:"years"`
	VEIs       []float64         `json:"veis"`
	Categories []domain.Category `json:"categories"`
}

// ComputeBounds scans rows for their extent. Years is nil for an empty view.
func ComputeBounds(rows []domain.EnrichedEruption) Bounds {
	var b Bounds
	veis := make(map[float64]struct{})
	cats := make(map[domain.Category]struct{})
	for _, row := range rows {
		if b.Years == nil {
			b.Years = &YearRange{Min: row.StartYear, Max: row.StartYear}
		} else {
			b.Years.Min = min(b.Years.Min, row.StartYear)
			b.Years.Max = max(b.Years.Max, row.StartYear)
		}
		if row.VEI != nil && !math.IsNaN(*row.VEI) {
			veis[*row.VEI] = struct{}{}
		}
		cats[row.Category] = struct{}{}
	}
	b.VEIs = slices.Sorted(maps.Keys(veis))
	b.Categories = slices.Sorted(maps.Keys(cats))
	return b
}

// Summarize groups rows by continent, country, VEI, and category. Countries
// with fewer than minPerCountry rows are folded into OtherCountry; rows with
// no country are counted under Unknown.
func Summarize(rows []domain.EnrichedEruption, minPerCountry int) Summary {
	continents := make(map[domain.Continent]int)
	countries := make(map[string]int)
	veis := make(map[string]int)
	categories := make(map[domain.Category]int)

	for _, row := range rows {
		continents[row.Continent]++
		country := string(domain.Unknown)
		if row.Country != nil {
			country = *row.Country
		}
		countries[country]++
		veis[veiKey(row.VEI)]++
		categories[row.Category]++
	}

	return Summary{
		Total:       len(rows),
		ByContinent: continentCounts(continents),
		ByCountry:   countryCounts(countries, minPerCountry),
		ByVEI:       veiCounts(veis),
		ByCategory:  categoryCounts(categories),
		Bounds:      ComputeBounds(rows),
	}
}

// continentCounts lists the seven continents in legend order, then Unknown
// when present.
func continentCounts(m map[domain.Continent]int) []Count {
	out := make([]Count, 0, 8)
	for _, c := range domain.Continents() {
		out = append(out, Count{Key: string(c), Count: m[c]})
	}
	if n := m[domain.Unknown]; n > 0 {
		out = append(out, Count{Key: string(domain.Unknown), Count: n})
	}
	return out
}

func countryCounts(m map[string]int, minPerCountry int) []Count {
	var out []Count
	other, unknown := 0, m[string(domain.Unknown)]
	for name, n := range m {
		switch {
		case name == string(domain.Unknown):
		case n < minPerCountry:
			other += n
		default:
			out = append(out, Count{Key: name, Count: n})
		}
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	if other > 0 {
		out = append(out, Count{Key: OtherCountry, Count: other})
	}
	if unknown > 0 {
		out = append(out, Count{Key: string(domain.Unknown), Count: unknown})
	}
	return out
}

func veiCounts(m map[string]int) []Count {
	var known []float64
	for k := range m {
		if v, err := strconv.ParseFloat(k, 64); err == nil {
			known = append(known, v)
		}
	}
	slices.Sort(known)

	out := make([]Count, 0, len(m))
	for _, v := range known {
		k := veiKey(&v)
		out = append(out, Count{Key: k, Count: m[k]})
	}
	if n := m[UnknownVEI]; n > 0 {
		out = append(out, Count{Key: UnknownVEI, Count: n})
	}
	return out
}

func categoryCounts(m map[domain.Category]int) []Count {
	out := make([]Count, 0, len(m))
	for _, c := range []domain.Category{domain.CategoryConfirmed, domain.CategoryUncertain, domain.CategoryDiscredited} {
		if n := m[c]; n > 0 {
			out = append(out, Count{Key: string(c), Count: n})
		}
	}
	return out
}

func veiKey(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return UnknownVEI
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
