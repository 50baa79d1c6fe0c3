package domain

import "time"

// GeoStatus describes how an eruption fared in the spatial join.
type GeoStatus string

const (
	GeoMatched            GeoStatus = "matched"
	GeoUnmatched          GeoStatus = "unmatched"
	GeoMissingCoordinates GeoStatus = "missing_coordinates"
	GeoMalformed          GeoStatus = "malformed"
)

// EnrichedEruption is an EruptionRecord annotated with country and continent.
type EnrichedEruption struct {
	EruptionRecord

	Country          *string   `json:"country"`
	ISO3             *string   `json:"iso3"`
	ISO2             *string   `json:"iso2"`
	Continent        Continent `json:"continent"`
	ContinentOutcome Outcome   `json:"continent_outcome"`
	GeoStatus        GeoStatus `json:"geo_status"`
}

// Stats summarizes a pipeline run.
type Stats struct {
	Rows             int               `json:"rows"`
	Polygons         int               `json:"polygons"`
	DroppedPolygons  int               `json:"dropped_polygons"`
	GeoStatus        map[GeoStatus]int `json:"geo_status"`
	ContinentOutcome map[Outcome]int   `json:"continent_outcome"`
}

// EnrichedTable is the read-only result of one enrichment run. Rows are in the
// same order as the input eruptions.
type EnrichedTable struct {
	Fingerprint string             `json:"fingerprint"`
	BuiltAt     time.Time          `json:"built_at"`
	Rows        []EnrichedEruption `json:"rows"`
	Stats       Stats              `json:"stats"`
}

// FallbackRate is the share of rows whose continent came from the
// standardization step or could not be resolved at all.
func (s Stats) FallbackRate() float64 {
	if s.Rows == 0 {
		return 0
	}
	return float64(s.ContinentOutcome[OutcomeFallback]+s.ContinentOutcome[OutcomeUnresolved]) / float64(s.Rows)
}
