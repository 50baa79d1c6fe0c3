package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// Fingerprint identifies an (eruptions, boundaries) input pair. Any change to a
// field or coordinate of either dataset produces a different fingerprint.
func Fingerprint(eruptions []domain.EruptionRecord, boundaries domain.BoundarySet) string {
	h := sha256.New()
	w := fingerprintWriter{h: h}

	w.putInt(len(eruptions))
	for _, e := range eruptions {
		w.putStr(e.ID)
		w.putStr(e.VolcanoName)
		w.putInt(e.StartYear)
		w.putOptFloat(e.VEI)
		w.putOptStr(e.VEIModifier)
		w.putStr(string(e.Category))
		w.putStr(e.EvidenceMethod)
		w.putOptFloat(e.Latitude)
		w.putOptFloat(e.Longitude)
	}

	w.putStr(boundaries.CRS)
	w.putInt(len(boundaries.Polygons))
	for _, p := range boundaries.Polygons {
		w.putStr(p.Name)
		w.putOptStr(p.ISO3)
		w.putOptStr(p.ISO2)
		w.putMultiPolygon(p.Geometry)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// TableKey combines an input fingerprint with the enricher's configuration
// key. An empty enricherKey leaves the input fingerprint unchanged.
func TableKey(eruptions []domain.EruptionRecord, boundaries domain.BoundarySet, enricherKey string) string {
	fp := Fingerprint(eruptions, boundaries)
	if enricherKey == "" {
		return fp
	}
	h := sha256.New()
	w := fingerprintWriter{h: h}
	w.putStr(fp)
	w.putStr(enricherKey)
	return hex.EncodeToString(h.Sum(nil))
}

// fingerprintWriter length-prefixes every value so adjacent fields cannot
// collide.
type fingerprintWriter struct {
	h   hash.Hash
	buf []byte
}

func (w *fingerprintWriter) write(tag byte, b []byte) {
	w.buf = append(w.buf[:0], tag)
	w.buf = strconv.AppendInt(w.buf, int64(len(b)), 10)
	w.buf = append(w.buf, ':')
	w.buf = append(w.buf, b...)
	w.h.Write(w.buf)
}

func (w *fingerprintWriter) putStr(s string) { w.write('s', []byte(s)) }

func (w *fingerprintWriter) putInt(n int) { w.write('i', strconv.AppendInt(nil, int64(n), 10)) }

func (w *fingerprintWriter) putFloat(f float64) { w.write('f', strconv.AppendFloat(nil, f, 'g', -1, 64)) }

func (w *fingerprintWriter) putOptStr(s *string) {
	if s == nil {
		w.write('n', nil)
		return
	}
	w.putStr(*s)
}

func (w *fingerprintWriter) putOptFloat(f *float64) {
	if f == nil {
		w.write('n', nil)
		return
	}
	w.putFloat(*f)
}

func (w *fingerprintWriter) putMultiPolygon(mp orb.MultiPolygon) {
	w.putInt(len(mp))
	for _, poly := range mp {
		w.putInt(len(poly))
		for _, ring := range poly {
			w.putInt(len(ring))
			for _, pt := range ring {
				w.putFloat(pt[0])
				w.putFloat(pt[1])
			}
		}
	}
}
