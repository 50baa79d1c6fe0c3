package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// errValidation signals that validate found problems under --strict.
var errValidation = errors.New("validation failed")

func newValidateCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check input data quality: dropped polygons, bad coordinates, unresolved countries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.enrich(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			s := r.table.Stats

			checks := []struct {
				name  string
				count int
			}{
				{"dropped polygons", s.DroppedPolygons},
				{"malformed coordinates", s.GeoStatus[domain.GeoMalformed]},
				{"missing coordinates", s.GeoStatus[domain.GeoMissingCoordinates]},
				{"unmatched points", s.GeoStatus[domain.GeoUnmatched]},
				{"unresolved country names", len(r.components.Resolver.Audit()[domain.OutcomeUnresolved])},
			}

			w := cmd.OutOrStdout()
			table := newTable(w, "Check", "Count", "Result")
			problems := 0
			for _, c := range checks {
				result := "ok"
				if c.count > 0 {
					result = "warn"
					problems++
				}
				table.Append([]string{c.name, strconv.Itoa(c.count), result})
			}
			table.Render()

			for _, name := range r.components.Resolver.Audit()[domain.OutcomeUnresolved] {
				r.logger.Warn("country name did not resolve to a continent", "country", name)
			}

			if strict && problems > 0 {
				return fmt.Errorf("%w: %d checks reported problems", errValidation, problems)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any check reports problems")
	return cmd
}
