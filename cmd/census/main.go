package main

import (
	"census/internal/config"
	"census/internal/directive"
	"census/internal/engine"
	"census/internal/logging"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	dataPath   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "census <operations-file>",
		Short: "Run a file of query directives over the county demographics table",
		Long: `census loads the county demographics table and replays the directives
in the operations file, one per line, against a working subset of it.

Directives:
  display                     print every county in the subset
  filter-state:<ST>           keep counties in state ST
  filter-gt:<Field>:<value>   keep counties whose field is at least value
  filter-lt:<Field>:<value>   keep counties whose field is at most value
  population-total            print the subset's 2014 population
  population:<Field>          print the population in Field
  percent:<Field>             print Field as a percentage of the population

Fields are written Category.Label, e.g. Education.Percent High School or Higher.

The county table is read from data.path in the config (county_demographics.csv
by default), CENSUS_DATA_PATH, or --data. The repository's testdata directory
holds a small table and an operations file to try it with:

  census --data testdata/county_demographics.csv testdata/operations.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&opts.dataPath, "data", "", "path to the county CSV (overrides config)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, opts *options, opsPath string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.dataPath != "" {
		cfg.Data.Path = opts.dataPath
	}

	logger, err := logging.New(cfg.Logging, opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ops, err := os.Open(opsPath)
	if err != nil {
		return fmt.Errorf("please provide a valid operations file: %w", err)
	}
	defer ops.Close()

	store, err := engine.LoadCSV(cfg.Data.Path, logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d counties loaded\n", store.Len())

	directives, rejected, err := directive.Parse(ops)
	if err != nil {
		return err
	}
	for _, se := range rejected {
		fmt.Fprintln(out, se.Error())
	}
	for _, d := range directives {
		if f, err := d.Field(); err == nil && !directive.Catalogued(f) {
			logger.Warn("field is not in the catalogue", zap.Int("line", d.Line), zap.String("field", f.Raw))
		}
	}

	report := engine.NewExecutor(store, logger).Run(directives)
	logger.Debug("run complete",
		zap.Int("directives", len(directives)),
		zap.Int("rejected", len(rejected)),
		zap.Int("failed", report.Failures()),
		zap.Int("remaining", len(report.Final)))
	return engine.WriteReport(out, report)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
