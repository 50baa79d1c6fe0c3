// Package cli implements atlasctl, the offline companion to the eruption-atlas
// service. It runs the same enrichment over local files and prints tables.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/eruption-atlas/internal/app"
	"github.com/couchcryptid/eruption-atlas/internal/config"
	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/observability"
)

// ExitCode is the process exit status returned by Run.
type ExitCode int

const (
	exitCodeSuccess ExitCode = 0
	exitCodeError   ExitCode = 1
)

// options are the persistent flags shared by every subcommand.
type options struct {
	verbose    bool
	eruptions  string
	skipRows   int
	boundaries string
	defaultCRS string
	overrides  string
	workers    int
}

func (o *options) config() *config.Config {
	return &config.Config{
		EruptionsPath:          o.eruptions,
		EruptionsSkipRows:      o.skipRows,
		BoundariesPath:         o.boundaries,
		BoundariesDefaultCRS:   o.defaultCRS,
		ContinentOverridesPath: o.overrides,
		JoinWorkers:            o.workers,
	}
}

// run is the result of one enrichment over the configured files.
type run struct {
	logger     *slog.Logger
	inputs     *app.Inputs
	components *app.Components
	table      *domain.EnrichedTable
}

func (o *options) enrich(ctx context.Context, stderr io.Writer) (*run, error) {
	logger := observability.NewCLILogger(stderr, o.verbose)
	metrics := observability.NewUnregisteredMetrics()
	cfg := o.config()

	in, err := app.LoadInputs(cfg, logger, metrics)
	if err != nil {
		return nil, err
	}
	c := app.NewComponents(cfg, in.Overrides, nil, logger, metrics)
	table, err := c.Pipeline.Table(ctx, in.Eruptions, in.Boundaries)
	if err != nil {
		return nil, err
	}
	return &run{logger: logger, inputs: in, components: c, table: table}, nil
}

// NewRootCmd builds the atlasctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "atlasctl",
		Short:         "Enrich, summarize, and validate volcanic eruption data offline.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	workers := 4
	if v, err := strconv.Atoi(sharedcfg.EnvOrDefault("JOIN_WORKERS", "")); err == nil && v > 0 {
		workers = v
	}
	skipRows, err := strconv.Atoi(sharedcfg.EnvOrDefault("ERUPTIONS_SKIP_ROWS", "1"))
	if err != nil {
		skipRows = 1
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "set debug logging level")
	pf.StringVar(&opts.eruptions, "eruptions", sharedcfg.EnvOrDefault("ERUPTIONS_PATH", "data/eruptions.csv"), "GVP eruptions CSV export")
	pf.IntVar(&opts.skipRows, "skip-rows", skipRows, "preamble lines before the CSV header")
	pf.StringVar(&opts.boundaries, "boundaries", sharedcfg.EnvOrDefault("BOUNDARIES_PATH", "data/countries.geojson"), "country boundaries GeoJSON")
	pf.StringVar(&opts.defaultCRS, "default-crs", sharedcfg.EnvOrDefault("BOUNDARIES_DEFAULT_CRS", ""), "CRS to assume when the boundaries file declares none")
	pf.StringVar(&opts.overrides, "overrides", sharedcfg.EnvOrDefault("CONTINENT_OVERRIDES_PATH", ""), "YAML continent overrides merged over the built-in table")
	pf.IntVar(&opts.workers, "workers", workers, "spatial join workers")

	rootCmd.AddCommand(
		newEnrichCmd(opts),
		newSummaryCmd(opts),
		newValidateCmd(opts),
	)
	return rootCmd
}

// Run executes atlasctl against the process arguments.
func Run(ctx context.Context) ExitCode {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "error:", err)
		return exitCodeError
	}
	return exitCodeSuccess
}
