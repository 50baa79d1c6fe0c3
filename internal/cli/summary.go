package cli

import (
	"fmt"
	"math"
	"strconv"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/filter"
)

type summaryFlags struct {
	yearMin       int
	yearMax       int
	veis          []float64
	unknownVEI    bool
	categories    []string
	minPerCountry int
}

func newSummaryCmd(opts *options) *cobra.Command {
	f := &summaryFlags{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Filter the enriched table and print grouped counts",
		Long: "Filter the enriched table and print counts by continent, country, VEI, and category.\n" +
			"Without filter flags the default view applies: every year and every known VEI.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.enrich(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			p, err := f.predicate(cmd, r.table.Rows)
			if err != nil {
				return err
			}
			rows := filter.Apply(r.table.Rows, p)
			s := filter.Summarize(rows, f.minPerCountry)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d of %d eruptions match\n", s.Total, len(r.table.Rows))
			if s.Bounds.Years != nil {
				fmt.Fprintf(w, "years %d to %d\n", s.Bounds.Years.Min, s.Bounds.Years.Max)
			}
			renderCounts(w, "By continent", s.ByContinent, s.Total)
			renderCounts(w, "By country", s.ByCountry, s.Total)
			renderCounts(w, "By VEI", s.ByVEI, s.Total)
			renderCounts(w, "By category", s.ByCategory, s.Total)
			return nil
		},
	}

	minPerCountry := 20
	if v, err := strconv.Atoi(sharedcfg.EnvOrDefault("MIN_ERUPTIONS_PER_COUNTRY", "")); err == nil && v >= 0 {
		minPerCountry = v
	}

	cmd.Flags().IntVar(&f.yearMin, "year-min", math.MinInt, "earliest start year (inclusive)")
	cmd.Flags().IntVar(&f.yearMax, "year-max", math.MaxInt, "latest start year (inclusive)")
	cmd.Flags().Float64SliceVar(&f.veis, "vei", nil, "VEI values to include")
	cmd.Flags().BoolVar(&f.unknownVEI, "unknown-vei", false, "include eruptions without a VEI")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "eruption categories to include (confirmed, uncertain, discredited)")
	cmd.Flags().IntVar(&f.minPerCountry, "min-per-country", minPerCountry, "fold countries with fewer eruptions into \"Other\"")
	return cmd
}

// predicate starts from the default view and narrows it by whichever filter
// flags were set.
func (f *summaryFlags) predicate(cmd *cobra.Command, rows []domain.EnrichedEruption) (filter.Predicate, error) {
	p := filter.DefaultPredicate(rows)
	flags := cmd.Flags()

	if flags.Changed("year-min") || flags.Changed("year-max") {
		p.Years = &filter.YearRange{Min: f.yearMin, Max: f.yearMax}
	}
	if flags.Changed("vei") || flags.Changed("unknown-vei") {
		set := filter.NewVEISet(f.veis, f.unknownVEI)
		if !flags.Changed("vei") && p.VEI != nil {
			set = filter.NewVEISet(p.VEI.Values(), f.unknownVEI)
		}
		p.VEI = &set
	}
	if flags.Changed("category") {
		cats := make([]domain.Category, 0, len(f.categories))
		for _, s := range f.categories {
			c, ok := domain.ParseCategory(s)
			if !ok {
				return filter.Predicate{}, fmt.Errorf("unknown category %q", s)
			}
			cats = append(cats, c)
		}
		set := filter.NewCategorySet(cats...)
		p.Categories = &set
	}
	return p, nil
}
