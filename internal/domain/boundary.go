package domain

import (
	"strings"

	"github.com/paulmach/orb"
)

// CountryPolygon is one country's boundary, possibly multi-part.
type CountryPolygon struct {
	Name     string
	ISO3     *string
	ISO2     *string
	Geometry orb.MultiPolygon
}

// BoundarySet is a polygon dataset sharing a single declared CRS.
type BoundarySet struct {
	CRS      string
	Polygons []CountryPolygon
}

// NormalizeISO trims and upper-cases an ISO 3166 code. Natural Earth uses "-99"
// for disputed or unrecognized territories; that and blank values become nil.
func NormalizeISO(code string) *string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == "-99" {
		return nil
	}
	return &code
}
