package main

import (
	"census/internal/api"
	"census/internal/config"
	"census/internal/engine"
	"census/internal/logging"
	"fmt"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath  string
	writeConfig string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "census-server",
		Short: "Serve county summaries and directive runs over HTTP",
		Long: `census-server loads the county demographics table in the background and
serves it under /api. Routes answer 503 until the table is loaded.

With --write-config the effective configuration (defaults, config file and
CENSUS_* environment overrides) is written as YAML and the server does not start.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.writeConfig != "" {
				if err := cfg.Save(opts.writeConfig); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", opts.writeConfig)
				return nil
			}
			return serve(cfg, opts.verbose)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&opts.writeConfig, "write-config", "", "write the effective config to this path and exit")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config, verbose bool) error {
	logger, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request", zap.String("uri", v.URI), zap.Int("status", v.Status))
			return nil
		},
	}))

	// Routes answer 503 until the store is published.
	h := api.NewHandler(nil, logger)
	h.RegisterRoutes(e)

	go func() {
		logger.Info("loading county data", zap.String("path", cfg.Data.Path))
		t0 := time.Now()

		store, err := engine.LoadCSV(cfg.Data.Path, logger)
		if err != nil {
			logger.Fatal("county data failed to load", zap.Error(err))
		}
		h.SetStore(store)

		logger.Info("county data ready", zap.Int("counties", store.Len()), zap.Duration("took", time.Since(t0)))
	}()

	logger.Info("server ready", zap.String("addr", cfg.Server.Addr))
	return e.Start(cfg.Server.Addr)
}
