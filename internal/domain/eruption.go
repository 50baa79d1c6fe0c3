package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// Category is the GVP eruption category.
type Category string

const (
	CategoryConfirmed   Category = "Confirmed Eruption"
	CategoryUncertain   Category = "Uncertain Eruption"
	CategoryDiscredited Category = "Discredited Eruption"
)

// ParseCategory normalizes a category label. Accepts the full GVP label or the
// short form ("Confirmed", "uncertain", ...). Returns false for anything else.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, " eruption")
	switch s {
	case "confirmed":
		return CategoryConfirmed, true
	case "uncertain":
		return CategoryUncertain, true
	case "discredited":
		return CategoryDiscredited, true
	default:
		return "", false
	}
}

// EruptionRecord is one historical eruption as loaded from the GVP export.
// Records are immutable once loaded; enrichment wraps them.
type EruptionRecord struct {
	ID             string   `json:"id"`
	VolcanoName    string   `json:"volcano_name"`
	StartYear      int      `json:"start_year"`
	VEI            *float64 `json:"vei"`
	VEIModifier    *string  `json:"vei_modifier"`
	Category       Category `json:"eruption_category"`
	EvidenceMethod string   `json:"evidence_method"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (r EruptionRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// ValidateCoordinates returns ErrMalformedGeometry if lat/lon are NaN or out of range.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return fmt.Errorf("coordinate is NaN: %w", ErrMalformedGeometry)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %g outside [-90, 90]: %w", lat, ErrMalformedGeometry)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %g outside [-180, 180]: %w", lon, ErrMalformedGeometry)
	}
	return nil
}

// ValidateVEI checks that a VEI value lies on the 0–8 scale.
func ValidateVEI(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 8 {
		return fmt.Errorf("vei %g outside [0, 8]", v)
	}
	return nil
}

// GenerateID produces a deterministic ID from the record's identifying fields.
func GenerateID(volcano string, startYear int, lat, lon *float64, category Category) string {
	input := fmt.Sprintf("%s|%d|%s|%s|%s", volcano, startYear, fmtCoord(lat), fmtCoord(lon), category)
	hash := sha256.Sum256([]byte(input))
	return "eruption-" + hex.EncodeToString(hash[:8])
}

func fmtCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.4f", *v)
}
