// Package file loads the eruption and boundary datasets from disk.
package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// GVP export column names.
const (
	colVolcanoName    = "Volcano Name"
	colStartYear      = "Start Year"
	colVEI            = "VEI"
	colVEIModifier    = "VEI Modifier"
	colCategory       = "Eruption Category"
	colEvidenceMethod = "Evidence Method (dating)"
	colLatitude       = "Latitude"
	colLongitude      = "Longitude"
)

var requiredColumns = []string{colVolcanoName, colStartYear, colCategory, colLatitude, colLongitude}

// LoadEruptions reads a GVP eruption CSV export. skipRows preamble lines are
// discarded before the header.
func LoadEruptions(path string, skipRows int, logger *slog.Logger) ([]domain.EruptionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open eruptions: %w", err)
	}
	defer f.Close()
	return ReadEruptions(f, skipRows, logger)
}

// ReadEruptions parses eruption rows. Rows with no volcano name, an
// unparseable start year, or an unknown category are skipped with a warning.
// Blank or unparseable VEI and coordinates become nil; out-of-range
// coordinates are kept so the spatial join can flag them.
func ReadEruptions(r io.Reader, skipRows int, logger *slog.Logger) ([]domain.EruptionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	for i := range skipRows {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("skip preamble line %d: %w", i+1, err)
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, c := range requiredColumns {
		if _, ok := colIdx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	var records []domain.EruptionRecord
	skipped := 0
	for line := skipRows + 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		rec, err := parseEruption(row, colIdx, logger)
		if err != nil {
			logger.Warn("skipping eruption row", "line", line, "error", err)
			skipped++
			continue
		}
		records = append(records, rec)
	}

	logger.Info("eruptions loaded", "rows", len(records), "skipped", skipped)
	return records, nil
}

func parseEruption(row []string, colIdx map[string]int, logger *slog.Logger) (domain.EruptionRecord, error) {
	name := get(row, colIdx, colVolcanoName)
	if name == "" {
		return domain.EruptionRecord{}, errors.New("missing volcano name")
	}

	year, err := strconv.Atoi(get(row, colIdx, colStartYear))
	if err != nil {
		return domain.EruptionRecord{}, fmt.Errorf("start year: %w", err)
	}

	category, ok := domain.ParseCategory(get(row, colIdx, colCategory))
	if !ok {
		return domain.EruptionRecord{}, fmt.Errorf("unknown eruption category %q", get(row, colIdx, colCategory))
	}

	rec := domain.EruptionRecord{
		VolcanoName:    name,
		StartYear:      year,
		Category:       category,
		EvidenceMethod: get(row, colIdx, colEvidenceMethod),
		Latitude:       optFloat(get(row, colIdx, colLatitude)),
		Longitude:      optFloat(get(row, colIdx, colLongitude)),
	}

	if vei := optFloat(get(row, colIdx, colVEI)); vei != nil {
		if err := domain.ValidateVEI(*vei); err != nil {
			logger.Warn("dropping invalid vei", "volcano", name, "year", year, "error", err)
		} else {
			rec.VEI = vei
		}
	}
	if mod := get(row, colIdx, colVEIModifier); mod != "" {
		rec.VEIModifier = &mod
	}

	rec.ID = domain.GenerateID(rec.VolcanoName, rec.StartYear, rec.Latitude, rec.Longitude, rec.Category)
	return rec, nil
}

func get(row []string, colIdx map[string]int, col string) string {
	i, ok := colIdx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
