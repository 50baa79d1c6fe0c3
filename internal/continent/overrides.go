package continent

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

//go:embed dataset_names.yaml
var datasetNames []byte

// Overrides is a curated country name to continent table. Lookups are exact.
type Overrides map[string]domain.Continent

// DefaultOverrides returns the built-in overrides for abbreviated, disputed,
// and historical names that appear in Natural Earth derived boundary sets and
// that standard country databases either miss or place differently. The
// long-form ADMIN names of the geo-countries GeoJSON are merged in from an
// embedded YAML document.
func DefaultOverrides() Overrides {
	names, err := parseOverrideDoc(datasetNames)
	if err != nil {
		panic(fmt.Sprintf("continent: embedded dataset names: %v", err))
	}
	return builtinOverrides().Merge(names)
}

func builtinOverrides() Overrides {
	return Overrides{
		// Natural Earth abbreviations.
		"Dem. Rep. Congo":        domain.Africa,
		"Central African Rep.":   domain.Africa,
		"Eq. Guinea":             domain.Africa,
		"S. Sudan":               domain.Africa,
		"W. Sahara":              domain.Africa,
		"eSwatini":               domain.Africa,
		"Côte d'Ivoire":          domain.Africa,
		"Bosnia and Herz.":       domain.Europe,
		"Dominican Rep.":         domain.NorthAmerica,
		"Falkland Is.":           domain.SouthAmerica,
		"Solomon Is.":            domain.Oceania,
		"Fr. S. Antarctic Lands": domain.Antarctica,
		"Timor-Leste":            domain.Oceania,

		// Disputed or partially recognized territories.
		"Kosovo":           domain.Europe,
		"N. Cyprus":        domain.Europe,
		"Northern Cyprus":  domain.Europe,
		"Somaliland":       domain.Africa,
		"Western Sahara":   domain.Africa,
		"Siachen Glacier":  domain.Asia,
		"Taiwan":           domain.Asia,
		"Palestine":        domain.Asia,
		"Antarctica":       domain.Antarctica,

		"French Southern and Antarctic Lands": domain.Antarctica,

		// Historical names.
		"Zaire":          domain.Africa,
		"Swaziland":      domain.Africa,
		"Burma":          domain.Asia,
		"East Timor":     domain.Oceania,
		"Czechoslovakia": domain.Europe,
		"Yugoslavia":     domain.Europe,
		"USSR":           domain.Europe,
		"Soviet Union":   domain.Europe,
		"Macedonia":      domain.Europe,

		// Transcontinental countries placed by their capital.
		"Russia": domain.Europe,
		"Turkey": domain.Asia,
		"Egypt":  domain.Africa,
	}
}

// Digest identifies the table's contents independent of map order.
func (o Overrides) Digest() string {
	h := sha256.New()
	for _, name := range slices.Sorted(maps.Keys(o)) {
		fmt.Fprintf(h, "%d:%s=%s\n", len(name), name, o[name])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Merge returns a copy of o with entries from other taking precedence.
func (o Overrides) Merge(other Overrides) Overrides {
	out := make(Overrides, len(o)+len(other))
	maps.Copy(out, o)
	maps.Copy(out, other)
	return out
}

// LoadOverrides reads a YAML mapping of country name to continent name and
// merges it over DefaultOverrides. Every value must be one of the seven
// canonical continent names.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	return ParseOverrides(data)
}

// ParseOverrides is LoadOverrides over an in-memory document.
func ParseOverrides(data []byte) (Overrides, error) {
	extra, err := parseOverrideDoc(data)
	if err != nil {
		return nil, err
	}
	return DefaultOverrides().Merge(extra), nil
}

func parseOverrideDoc(data []byte) (Overrides, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse overrides: %w", err)
	}

	out := make(Overrides, len(raw))
	for name, value := range raw {
		c, ok := domain.ParseContinent(value)
		if !ok {
			return nil, fmt.Errorf("override %q: unknown continent %q", name, value)
		}
		out[name] = c
	}
	return out, nil
}
