package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"poolPulse/internal/config"
	"poolPulse/internal/output"
	"poolPulse/internal/pipeline"
	"poolPulse/internal/subgraph"
)

func main() {
	root := &cobra.Command{
		Use:          "poolpulse",
		Short:        "Liquidity pool analytics from subgraph snapshots",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Derive pool metrics and print them as JSON",
		RunE:  runPipeline,
	}
	addCommonFlags(runCmd.Flags(), config.DefaultDialect)
	runCmd.Flags().Int("page-size", 200, "number of top pools to analyse")
	runCmd.Flags().Int("offset", 0, "first record to print (dialect default when unset)")
	runCmd.Flags().Int("limit", 0, "records to print, 0 means all (dialect default when unset)")
	runCmd.Flags().Bool("allow-missing-blocks", false, "skip history for windows without a block instead of failing")
	root.AddCommand(runCmd)

	blocksCmd := &cobra.Command{
		Use:   "blocks",
		Short: "Resolve the one-day, two-day and one-week reference blocks",
		RunE:  runBlocks,
	}
	addCommonFlags(blocksCmd.Flags(), config.DefaultDialect)
	blocksCmd.Flags().Bool("allow-missing-blocks", false, "report windows without a block instead of failing")
	root.AddCommand(blocksCmd)

	priceCmd := &cobra.Command{
		Use:   "price",
		Short: "Print the reference ETH price now and one day back",
		RunE:  runPrice,
	}
	// Only the classic subgraph carries the ETH bundle.
	addCommonFlags(priceCmd.Flags(), "classic")
	root.AddCommand(priceCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(fs *pflag.FlagSet, dialect string) {
	fs.String("dialect", dialect, "pool schema (elastic, classic)")
	fs.String("block-url", "", "block index subgraph URL (dialect default when empty)")
	fs.String("pool-url", "", "pool subgraph URL (dialect default when empty)")
	fs.Duration("block-window", 10*time.Minute, "width of the timestamp window searched for a block")
	fs.Int("block-candidates", 0, "blocks fetched per window (dialect default when unset)")
	fs.Duration("http-timeout", 30*time.Second, "HTTP client timeout")
	fs.String("at", "", "reference time (unix seconds or RFC3339), default now")
	fs.Bool("pretty", false, "indent JSON output")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
}

// app bundles the loaded config and the components built from it.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	runner *pipeline.Runner
}

func setup(cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	dialect, err := subgraph.LookupDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	blockClient := subgraph.NewClient(cfg.BlockURL, httpClient, logger.Named("blocks"))
	poolClient := subgraph.NewClient(cfg.PoolURL, httpClient, logger.Named("pools"))

	resolver := subgraph.NewBlockResolver(blockClient, cfg.BlockWindow, cfg.BlockCandidates, logger)
	pools := subgraph.NewPoolClient(poolClient, dialect, cfg.PageSize)
	sink := output.NewJSONSink(os.Stdout, cfg.Pretty)

	runner := pipeline.NewRunner(pipeline.RunConfig{
		Dialect:            cfg.Dialect,
		Now:                cfg.ReferenceTime(time.Now),
		AllowMissingBlocks: cfg.AllowMissingBlocks,
		Offset:             cfg.Offset,
		Limit:              cfg.Limit,
	}, resolver, pools, sink, logger)

	return &app{cfg: cfg, logger: logger, runner: runner}, nil
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("poolpulse start",
		zap.String("dialect", a.cfg.Dialect),
		zap.String("block_url", a.cfg.BlockURL),
		zap.String("pool_url", a.cfg.PoolURL),
		zap.Int("page_size", a.cfg.PageSize),
		zap.Int("block_candidates", a.cfg.BlockCandidates),
		zap.Int("offset", a.cfg.Offset),
		zap.Int("limit", a.cfg.Limit),
		zap.Bool("allow_missing_blocks", a.cfg.AllowMissingBlocks),
	)

	if err := a.runner.Run(ctx); err != nil {
		return fmt.Errorf("run %s: %w", a.cfg.Dialect, err)
	}
	return nil
}

// newLogger builds the stderr JSON logger for a run, tagged with its dialect.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevel()
	if err := zcfg.Level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}

	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.InitialFields = map[string]interface{}{"dialect": cfg.Dialect}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named("poolpulse"), nil
}
