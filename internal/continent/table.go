package continent

import (
	"bufio"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

//go:embed countries.tsv
var countryInfo string

// continentCodes maps geonames continent codes to display names.
var continentCodes = map[string]domain.Continent{
	"AF": domain.Africa,
	"AS": domain.Asia,
	"EU": domain.Europe,
	"NA": domain.NorthAmerica,
	"SA": domain.SouthAmerica,
	"OC": domain.Oceania,
	"AN": domain.Antarctica,
}

// CountryInfo is one row of the country to continent code table.
type CountryInfo struct {
	ISO       string
	ISO3      string
	Country   string
	Continent domain.Continent
}

// Table indexes country info by alpha-2 code and by lower-cased country name.
type Table struct {
	byISO  map[string]CountryInfo
	byName map[string]CountryInfo
	digest string
}

var builtinTable = mustParseTable(countryInfo)

// BuiltinTable returns the embedded country to continent code table.
func BuiltinTable() *Table {
	return builtinTable
}

// ParseTable reads a tab-separated table with columns ISO, ISO3, Country and
// Continent code. Blank lines and lines starting with '#' are skipped.
func ParseTable(r io.Reader) (*Table, error) {
	t := &Table{
		byISO:  make(map[string]CountryInfo),
		byName: make(map[string]CountryInfo),
	}

	h := sha256.New()
	scanner := bufio.NewScanner(io.TeeReader(r, h))
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: want 4 fields, got %d", line, len(fields))
		}
		cont, ok := continentCodes[fields[3]]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown continent code %q", line, fields[3])
		}

		ci := CountryInfo{ISO: fields[0], ISO3: fields[1], Country: fields[2], Continent: cont}
		t.byISO[ci.ISO] = ci
		t.byName[strings.ToLower(ci.Country)] = ci
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read country table: %w", err)
	}
	t.digest = hex.EncodeToString(h.Sum(nil))
	return t, nil
}

func mustParseTable(s string) *Table {
	t, err := ParseTable(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("continent: embedded country table: %v", err))
	}
	return t
}

// ByAlpha2 looks up a country by its ISO 3166 alpha-2 code.
func (t *Table) ByAlpha2(code string) (CountryInfo, bool) {
	ci, ok := t.byISO[strings.ToUpper(code)]
	return ci, ok
}

// ByName looks up a country by its geonames short name, case-insensitively.
func (t *Table) ByName(name string) (CountryInfo, bool) {
	ci, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]
	return ci, ok
}

// Len returns the number of countries in the table.
func (t *Table) Len() int {
	return len(t.byISO)
}

// Digest is the sha256 of the table's source text.
func (t *Table) Digest() string {
	return t.digest
}
