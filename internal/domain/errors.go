package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedGeometry marks a coordinate outside its valid range. Affected
	// rows are excluded from spatial matching, never fatal to the pipeline.
	ErrMalformedGeometry = errors.New("malformed geometry")

	// ErrMissingCRS is returned when a boundary source declares no coordinate
	// reference system.
	ErrMissingCRS = errors.New("missing coordinate reference system")

	// ErrReprojection is returned when a declared CRS is unknown or cannot be
	// transformed into the point frame.
	ErrReprojection = errors.New("reprojection failed")
)

// GeometryError describes a malformed coordinate on a specific input row.
type GeometryError struct {
	Row int
	Lat float64
	Lon float64
	Err error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("row %d (lat=%g, lon=%g): %v", e.Row, e.Lat, e.Lon, e.Err)
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}
