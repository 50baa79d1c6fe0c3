package geo

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// PointCRS is the frame eruption coordinates are recorded in.
const PointCRS = Geographic

// Point is an eruption location prepared for the join. Status is empty for
// usable points and explains why the point is skipped otherwise.
type Point struct {
	Coord  orb.Point
	Status domain.GeoStatus
	Err    error
}

// Usable reports whether the point takes part in the spatial join.
func (p Point) Usable() bool {
	return p.Status == ""
}

// Table holds eruption points and country polygons, each tagged with its CRS.
// Points are in input order; Points[i] belongs to eruptions[i].
type Table struct {
	Points     []Point
	Polygons   []domain.CountryPolygon
	PointCRS   CRS
	PolygonCRS CRS
}

// NewTable converts eruptions and boundaries into a common representation.
// Rows with blank coordinates or out-of-range values are kept but flagged; only
// an unusable boundary CRS is an error.
func NewTable(eruptions []domain.EruptionRecord, boundaries domain.BoundarySet) (*Table, error) {
	polyCRS, err := ParseCRS(boundaries.CRS)
	if err != nil {
		return nil, fmt.Errorf("boundary crs: %w", err)
	}

	points := make([]Point, len(eruptions))
	for i, e := range eruptions {
		points[i] = newPoint(i, e)
	}

	return &Table{
		Points:     points,
		Polygons:   boundaries.Polygons,
		PointCRS:   PointCRS,
		PolygonCRS: polyCRS,
	}, nil
}

func newPoint(row int, e domain.EruptionRecord) Point {
	if !e.HasCoordinates() {
		return Point{Status: domain.GeoMissingCoordinates}
	}
	lat, lon := *e.Latitude, *e.Longitude
	if err := domain.ValidateCoordinates(lat, lon); err != nil {
		return Point{
			Status: domain.GeoMalformed,
			Err:    &domain.GeometryError{Row: row, Lat: lat, Lon: lon, Err: err},
		}
	}
	return Point{Coord: orb.Point{lon, lat}}
}

// Issues returns the geometry errors of every malformed point.
func (t *Table) Issues() []error {
	var issues []error
	for _, p := range t.Points {
		if p.Err != nil {
			issues = append(issues, p.Err)
		}
	}
	return issues
}
