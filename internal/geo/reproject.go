package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// Reproject transforms polygons from one CRS into another with a single forward
// transform. The input is never modified; an identity transform returns it as-is.
func Reproject(polys []domain.CountryPolygon, from, to CRS) ([]domain.CountryPolygon, error) {
	if from == to {
		return polys, nil
	}

	var proj orb.Projection
	switch {
	case from == WebMercator && to == Geographic:
		proj = project.Mercator.ToWGS84
	default:
		return nil, fmt.Errorf("%s to %s: %w", from, to, domain.ErrReprojection)
	}

	out := make([]domain.CountryPolygon, len(polys))
	for i, p := range polys {
		p.Geometry = project.MultiPolygon(p.Geometry.Clone(), proj)
		out[i] = p
	}
	return out, nil
}

// validatePolygon checks that a polygon is non-empty and lies within
// geographic bounds.
func validatePolygon(p domain.CountryPolygon) error {
	if len(p.Geometry) == 0 {
		return fmt.Errorf("polygon %q has no parts: %w", p.Name, domain.ErrMalformedGeometry)
	}
	for _, part := range p.Geometry {
		if len(part) == 0 || len(part[0]) < 4 {
			return fmt.Errorf("polygon %q has a degenerate ring: %w", p.Name, domain.ErrMalformedGeometry)
		}
		for _, ring := range part {
			for _, pt := range ring {
				if err := domain.ValidateCoordinates(pt.Lat(), pt.Lon()); err != nil {
					return fmt.Errorf("polygon %q: %w", p.Name, err)
				}
			}
		}
	}
	return nil
}
