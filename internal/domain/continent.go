package domain

// Continent is a display continent name.
type Continent string

const (
	Africa       Continent = "Africa"
	Asia         Continent = "Asia"
	Europe       Continent = "Europe"
	NorthAmerica Continent = "North America"
	SouthAmerica Continent = "South America"
	Oceania      Continent = "Oceania"
	Antarctica   Continent = "Antarctica"

	// Unknown is the sentinel for rows without a resolvable continent.
	Unknown Continent = "Unknown"
)

// Continents returns the seven canonical continents in legend order.
func Continents() []Continent {
	return []Continent{Africa, Asia, Europe, NorthAmerica, SouthAmerica, Oceania, Antarctica}
}

// ParseContinent matches one of the seven canonical names exactly.
func ParseContinent(s string) (Continent, bool) {
	for _, c := range Continents() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Outcome records which resolution step produced a continent.
type Outcome string

const (
	// OutcomeResolved: exact hit in the override table.
	OutcomeResolved Outcome = "resolved"
	// OutcomeFallback: resolved through country-name standardization.
	OutcomeFallback Outcome = "fallback"
	// OutcomeUnresolved: no country, or neither step could place it.
	OutcomeUnresolved Outcome = "unresolved"
)
