package file

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// Property keys tried in order for each attribute. The first set follows the
// datasets/geo-countries layout, the rest Natural Earth.
var (
	nameKeys = []string{"name", "ADMIN", "admin", "NAME", "name_long"}
	iso3Keys = []string{"ISO3166-1-Alpha-3", "ISO_A3", "iso_a3", "ADM0_A3"}
	iso2Keys = []string{"ISO3166-1-Alpha-2", "ISO_A2", "iso_a2"}
)

// LoadBoundaries reads a country boundary GeoJSON FeatureCollection.
func LoadBoundaries(path, defaultCRS string, logger *slog.Logger) (domain.BoundarySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.BoundarySet{}, fmt.Errorf("read boundaries: %w", err)
	}
	return ParseBoundaries(data, defaultCRS, logger)
}

// ParseBoundaries decodes a FeatureCollection into a BoundarySet. The CRS is
// taken from the legacy "crs" member when present, else defaultCRS; it is left
// empty when neither is set. Features that are not (multi)polygons or have no
// name are skipped with a warning.
func ParseBoundaries(data []byte, defaultCRS string, logger *slog.Logger) (domain.BoundarySet, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return domain.BoundarySet{}, fmt.Errorf("parse boundaries: %w", err)
	}

	set := domain.BoundarySet{CRS: crsName(fc.ExtraMembers)}
	if set.CRS == "" {
		set.CRS = defaultCRS
	}

	for i, f := range fc.Features {
		name := firstProperty(f.Properties, nameKeys)
		if name == "" {
			logger.Warn("skipping unnamed boundary feature", "index", i)
			continue
		}

		var geom orb.MultiPolygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			geom = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			geom = g
		default:
			logger.Warn("skipping non-polygon boundary feature", "country", name, "geometry", geometryType(f.Geometry))
			continue
		}

		set.Polygons = append(set.Polygons, domain.CountryPolygon{
			Name:     name,
			ISO3:     domain.NormalizeISO(firstProperty(f.Properties, iso3Keys)),
			ISO2:     domain.NormalizeISO(firstProperty(f.Properties, iso2Keys)),
			Geometry: geom,
		})
	}

	logger.Info("boundaries loaded", "polygons", len(set.Polygons), "features", len(fc.Features), "crs", set.CRS)
	return set, nil
}

// crsName extracts {"crs": {"type": "name", "properties": {"name": ...}}}.
func crsName(members geojson.Properties) string {
	crs, ok := members["crs"].(map[string]any)
	if !ok {
		return ""
	}
	props, ok := crs["properties"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := props["name"].(string)
	return name
}

func firstProperty(props geojson.Properties, keys []string) string {
	for _, k := range keys {
		if v := props.MustString(k, ""); v != "" {
			return v
		}
	}
	return ""
}

func geometryType(g orb.Geometry) string {
	if g == nil {
		return "null"
	}
	return g.GeoJSONType()
}
