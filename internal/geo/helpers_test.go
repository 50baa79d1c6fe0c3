package geo

import (
	"io"
	"log/slog"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// box returns a closed rectangular ring.
func box(minLon, minLat, maxLon, maxLat float64) orb.Ring {
	return orb.Ring{
		{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
	}
}

func country(name, iso3, iso2 string, parts ...orb.Polygon) domain.CountryPolygon {
	return domain.CountryPolygon{
		Name:     name,
		ISO3:     domain.NormalizeISO(iso3),
		ISO2:     domain.NormalizeISO(iso2),
		Geometry: orb.MultiPolygon(parts),
	}
}

func spain() domain.CountryPolygon {
	return country("Spain", "ESP", "ES", orb.Polygon{box(-9.5, 36, 3.3, 43.8)})
}

func eruption(name string, year int, lat, lon float64) domain.EruptionRecord {
	return domain.EruptionRecord{
		VolcanoName: name,
		StartYear:   year,
		Category:    domain.CategoryConfirmed,
		Latitude:    &lat,
		Longitude:   &lon,
	}
}
