package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

func TestNewTable(t *testing.T) {
	eruptions := []domain.EruptionRecord{
		eruption("Teide", 1909, 28.27, -16.64),
		{VolcanoName: "Unknown Seamount", StartYear: 1950},
		eruption("Broken", 2000, 95, 10),
		eruption("NaN", 2001, math.NaN(), 10),
	}
	boundaries := domain.BoundarySet{CRS: "EPSG:4326", Polygons: []domain.CountryPolygon{spain()}}

	table, err := NewTable(eruptions, boundaries)
	require.NoError(t, err)

	require.Len(t, table.Points, 4)
	assert.Equal(t, Geographic, table.PointCRS)
	assert.Equal(t, Geographic, table.PolygonCRS)
	assert.Len(t, table.Polygons, 1)

	assert.True(t, table.Points[0].Usable())
	assert.Equal(t, orb.Point{-16.64, 28.27}, table.Points[0].Coord, "points are (lon, lat)")

	assert.Equal(t, domain.GeoMissingCoordinates, table.Points[1].Status)
	assert.NoError(t, table.Points[1].Err)

	assert.Equal(t, domain.GeoMalformed, table.Points[2].Status)
	assert.Equal(t, domain.GeoMalformed, table.Points[3].Status)

	issues := table.Issues()
	require.Len(t, issues, 2)
	var gerr *domain.GeometryError
	require.True(t, errors.As(issues[0], &gerr))
	assert.Equal(t, 2, gerr.Row)
	assert.ErrorIs(t, issues[1], domain.ErrMalformedGeometry)
}

func TestNewTable_OnlyLongitude(t *testing.T) {
	rec := domain.EruptionRecord{VolcanoName: "Half", Longitude: ptr(10.0)}
	table, err := NewTable([]domain.EruptionRecord{rec}, domain.BoundarySet{CRS: "EPSG:4326"})
	require.NoError(t, err)
	assert.Equal(t, domain.GeoMissingCoordinates, table.Points[0].Status)
}

func TestNewTable_CRSErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := NewTable(nil, domain.BoundarySet{})
		assert.ErrorIs(t, err, domain.ErrMissingCRS)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewTable(nil, domain.BoundarySet{CRS: "EPSG:2154"})
		assert.ErrorIs(t, err, domain.ErrReprojection)
	})
}
