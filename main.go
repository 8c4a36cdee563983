package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flood-reports/config"
	"flood-reports/services"
	"flood-reports/storage"
	"flood-reports/utils"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	configFile string
	inputPath  string
	outputDir  string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "flood-reports",
	Short: "Flood-control project ETL and reporting",
	Long: `Reads the DPWH flood-control project dataset (CSV or XLSX), validates and
cleans it, fills missing coordinates, keeps the configured funding years and
writes three ranked reports plus a summary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(configFile)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		applyFlags(cmd, c)
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		l, err := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return eris.Wrap(err, "init logger")
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ./config.yaml)")
	flags.StringVar(&inputPath, "input", "", "input dataset, .csv or .xlsx")
	flags.StringVar(&outputDir, "output", "", "output directory")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(runCmd, validateCmd, menuCmd)
}

// applyFlags lets explicitly set flags win over file and environment values.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		c.Input.Path = inputPath
	}
	if flags.Changed("output") {
		c.Output.Dir = outputDir
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
}

func pipelineOptions(c *config.Config) services.PipelineOptions {
	return services.PipelineOptions{
		Window: services.YearRange{Start: c.Filter.StartYear, End: c.Filter.EndYear},
		Reports: services.ReportOptions{
			BaselineYear:          c.Reports.BaselineYear,
			MinContractorProjects: c.Reports.MinContractorProjects,
			TopContractors:        c.Reports.TopContractors,
		},
		Parallel: c.Reports.Parallel,
	}
}

func publishOptions(c *config.Config) services.PublishOptions {
	return services.PublishOptions{
		Dir:      c.Output.Dir,
		XLSX:     c.Output.XLSX,
		GeoJSON:  c.Output.GeoJSON,
		Manifest: c.Output.Manifest,
		Metrics:  c.Output.Metrics,
	}
}

// app is the wired pipeline, publisher and optional store for one command.
type app struct {
	pipeline  *services.Pipeline
	publisher *services.Publisher
	store     *storage.SQLStore
}

func newApp(ctx context.Context, c *config.Config) (*app, error) {
	metrics := utils.NewMetrics()
	a := &app{pipeline: services.NewPipeline(pipelineOptions(c), metrics, logger)}

	retry := &utils.RetryConfig{
		MaxAttempts: c.Store.MaxRetries,
		BaseDelay:   500 * time.Millisecond,
		Logger:      logger,
	}
	store, err := storage.OpenStore(ctx, c.Store.Driver, c.Store.DSN, retry)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	// A nil *SQLStore must not become a non-nil interface.
	var sink storage.RecordStore
	if store != nil {
		a.store = store
		sink = store
		logger.Info("store connected", zap.String("driver", store.Dialect()))
	}

	a.publisher, err = services.NewPublisher(publishOptions(c), sink, metrics, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
