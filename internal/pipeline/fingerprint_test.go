package pipeline_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/eruption-atlas/internal/pipeline"
)

func TestFingerprint(t *testing.T) {
	base := pipeline.Fingerprint(testEruptions(), testBoundaries())
	assert.Len(t, base, 64)
	assert.Equal(t, base, pipeline.Fingerprint(testEruptions(), testBoundaries()), "deterministic")

	t.Run("eruption coordinate", func(t *testing.T) {
		e := testEruptions()
		e[0].Latitude = ptr(40.0001)
		assert.NotEqual(t, base, pipeline.Fingerprint(e, testBoundaries()))
	})

	t.Run("null vs zero vei", func(t *testing.T) {
		e := testEruptions()
		e[1].VEI = ptr(0.0)
		assert.NotEqual(t, base, pipeline.Fingerprint(e, testBoundaries()))
	})

	t.Run("row order", func(t *testing.T) {
		e := testEruptions()
		e[0], e[1] = e[1], e[0]
		assert.NotEqual(t, base, pipeline.Fingerprint(e, testBoundaries()))
	})

	t.Run("boundary crs", func(t *testing.T) {
		b := testBoundaries()
		b.CRS = "OGC:CRS84"
		assert.NotEqual(t, base, pipeline.Fingerprint(testEruptions(), b))
	})

	t.Run("polygon vertex", func(t *testing.T) {
		b := testBoundaries()
		b.Polygons[0].Geometry = orb.MultiPolygon{{box(-9.5, 36, 3.4, 43.8)}}
		assert.NotEqual(t, base, pipeline.Fingerprint(testEruptions(), b))
	})

	t.Run("field boundaries", func(t *testing.T) {
		a := testEruptions()[:1]
		b := testEruptions()[:1]
		a[0].VolcanoName, a[0].EvidenceMethod = "ab", "c"
		b[0].VolcanoName, b[0].EvidenceMethod = "a", "bc"
		assert.NotEqual(t, pipeline.Fingerprint(a, testBoundaries()), pipeline.Fingerprint(b, testBoundaries()))
	})
}
