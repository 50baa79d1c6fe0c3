package geo

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// CRS is a coordinate reference system the join knows how to handle.
type CRS int

const (
	// Geographic is longitude/latitude in degrees (EPSG:4326, OGC:CRS84).
	Geographic CRS = iota + 1
	// WebMercator is spherical pseudo-Mercator in metres (EPSG:3857).
	WebMercator
)

func (c CRS) String() string {
	switch c {
	case Geographic:
		return "EPSG:4326"
	case WebMercator:
		return "EPSG:3857"
	default:
		return "unknown"
	}
}

// ParseCRS resolves a CRS identifier. Accepts short codes ("EPSG:4326"), OGC
// URNs ("urn:ogc:def:crs:OGC:1.3:CRS84") and opengis.net URLs; only the trailing
// code is significant. Returns ErrMissingCRS for an empty identifier and
// ErrReprojection for anything it does not know.
func ParseCRS(id string) (CRS, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, domain.ErrMissingCRS
	}

	code := strings.ToLower(id)
	if i := strings.LastIndexAny(code, ":/"); i >= 0 {
		code = code[i+1:]
	}

	switch code {
	case "4326", "crs84", "wgs84":
		return Geographic, nil
	case "3857", "900913", "3785", "102100", "102113":
		return WebMercator, nil
	default:
		return 0, fmt.Errorf("crs %q: %w", id, domain.ErrReprojection)
	}
}
