package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

func newEnrichCmd(opts *options) *cobra.Command {
	var out string
	var audit bool

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Run the spatial join and continent resolution and report the outcome",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.enrich(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			renderStats(w, r.table)
			if audit {
				renderAudit(w, r.components.Resolver.Audit())
			}

			if out == "" {
				return nil
			}
			if err := writeTable(out, w, r.table); err != nil {
				return err
			}
			r.logger.Info("enriched table written", "path", out, "rows", len(r.table.Rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the enriched table as JSON to this path (- for stdout)")
	cmd.Flags().BoolVar(&audit, "audit", false, "list every country name by resolution outcome")
	return cmd
}

func writeTable(path string, stdout io.Writer, t *domain.EnrichedTable) error {
	w := stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode enriched table: %w", err)
	}
	return nil
}

func renderStats(w io.Writer, t *domain.EnrichedTable) {
	s := t.Stats
	fmt.Fprintf(w, "fingerprint: %s\nrows: %d  polygons: %d  dropped polygons: %d  fallback rate: %s\n",
		t.Fingerprint, s.Rows, s.Polygons, s.DroppedPolygons, percent(
			s.ContinentOutcome[domain.OutcomeFallback]+s.ContinentOutcome[domain.OutcomeUnresolved], s.Rows))

	fmt.Fprintf(w, "\nSpatial join\n")
	table := newTable(w, "Status", "Rows")
	for _, st := range []domain.GeoStatus{domain.GeoMatched, domain.GeoUnmatched, domain.GeoMissingCoordinates, domain.GeoMalformed} {
		table.Append([]string{string(st), strconv.Itoa(s.GeoStatus[st])})
	}
	table.Render()

	fmt.Fprintf(w, "\nContinent resolution\n")
	table = newTable(w, "Outcome", "Rows")
	for _, o := range []domain.Outcome{domain.OutcomeResolved, domain.OutcomeFallback, domain.OutcomeUnresolved} {
		table.Append([]string{string(o), strconv.Itoa(s.ContinentOutcome[o])})
	}
	table.Render()
}

func renderAudit(w io.Writer, audit map[domain.Outcome][]string) {
	fmt.Fprintf(w, "\nCountry names by outcome\n")
	table := newTable(w, "Outcome", "Countries", "Names")
	for _, o := range []domain.Outcome{domain.OutcomeResolved, domain.OutcomeFallback, domain.OutcomeUnresolved} {
		names := audit[o]
		table.Append([]string{string(o), strconv.Itoa(len(names)), strings.Join(names, ", ")})
	}
	table.Render()
}
