// Package pipeline runs one point-in-time pool analytics pass: resolve reference blocks,
// select the pool universe, fetch current and historical snapshots, derive metrics, emit.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"poolPulse/internal/metrics"
	"poolPulse/internal/model"
	"poolPulse/internal/output"
	"poolPulse/internal/subgraph"
	"poolPulse/internal/window"
)

const (
	labelOneDay  = "one_day"
	labelTwoDay  = "two_day"
	labelOneWeek = "one_week"
)

// RunConfig holds runtime settings for one pipeline pass.
type RunConfig struct {
	Dialect string
	// Now anchors the reference windows. Zero means wall-clock time.
	Now                time.Time
	AllowMissingBlocks bool
	// Offset and Limit select the emitted slice of the collection. Zero limit emits all.
	Offset int
	Limit  int
}

// Windows are the reference instants of a run and their resolved blocks.
type Windows struct {
	Timestamps model.Timestamps `json:"timestamps"`
	OneDay     model.BlockRef   `json:"one_day"`
	TwoDay     model.BlockRef   `json:"two_day"`
	OneWeek    model.BlockRef   `json:"one_week"`
}

// Runner drives a pipeline pass over a block source and a pool source.
type Runner struct {
	cfg    RunConfig
	blocks BlockSource
	pools  PoolSource
	sink   output.Sink
	logger *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, blocks BlockSource, pools PoolSource, sink output.Sink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		blocks: blocks,
		pools:  pools,
		sink:   sink,
		logger: logger,
	}
}

// Run executes the configured dialect and emits the selected slice of its collection.
func (r *Runner) Run(ctx context.Context) error {
	if r.sink == nil {
		return fmt.Errorf("output sink is nil")
	}

	switch r.cfg.Dialect {
	case subgraph.DialectElastic:
		records, err := r.RunElastic(ctx)
		if err != nil {
			return err
		}
		return r.emit(output.Preview(records, r.cfg.Offset, r.cfg.Limit), len(records))
	case subgraph.DialectClassic:
		records, err := r.RunClassic(ctx)
		if err != nil {
			return err
		}
		return r.emit(output.Preview(records, r.cfg.Offset, r.cfg.Limit), len(records))
	default:
		return fmt.Errorf("unknown dialect: %q", r.cfg.Dialect)
	}
}

// RunElastic derives metrics for the elastic pool universe, in universe order.
func (r *Runner) RunElastic(ctx context.Context) ([]model.ElasticPoolMetrics, error) {
	if err := r.checkSources(); err != nil {
		return nil, err
	}

	windows, err := r.ResolveWindows(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := r.universe(ctx)
	if err != nil {
		return nil, err
	}

	snaps, err := fetchSnapshots(ctx, ids, windows, r.pools.ElasticPools, r.pools.ElasticPoolsAt)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshots: %w", err)
	}
	r.logSnapshots(len(snaps.current), len(snaps.oneDay), len(snaps.twoDay), len(snaps.oneWeek))

	current := make(map[string]model.ElasticPool, len(snaps.current))
	for _, pool := range snaps.current {
		current[strings.ToLower(pool.ID)] = pool
	}

	records := make([]model.ElasticPoolMetrics, 0, len(ids))
	for _, id := range ids {
		pool, ok := current[id]
		if !ok {
			r.logger.Debug("pool missing from current snapshot", zap.String("pool", id))
			continue
		}
		records = append(records, metrics.DeriveElastic(pool, metrics.ElasticHistory{
			OneDay:  lookup(snaps.oneDay, id),
			TwoDay:  lookup(snaps.twoDay, id),
			OneWeek: lookup(snaps.oneWeek, id),
		}, windows.OneDay.Number))
	}
	return records, nil
}

// RunClassic derives metrics for the classic pool universe, in universe order.
func (r *Runner) RunClassic(ctx context.Context) ([]model.ClassicPoolMetrics, error) {
	if err := r.checkSources(); err != nil {
		return nil, err
	}

	price := r.ReferencePrice(ctx)

	windows, err := r.ResolveWindows(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := r.universe(ctx)
	if err != nil {
		return nil, err
	}

	snaps, err := fetchSnapshots(ctx, ids, windows, r.pools.ClassicPools, r.pools.ClassicPoolsAt)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshots: %w", err)
	}
	r.logSnapshots(len(snaps.current), len(snaps.oneDay), len(snaps.twoDay), len(snaps.oneWeek))

	current := make(map[string]model.ClassicPool, len(snaps.current))
	for _, pool := range snaps.current {
		current[strings.ToLower(pool.ID)] = pool
	}

	records := make([]model.ClassicPoolMetrics, 0, len(ids))
	for _, id := range ids {
		pool, ok := current[id]
		if !ok {
			r.logger.Debug("pool missing from current snapshot", zap.String("pool", id))
			continue
		}
		records = append(records, metrics.DeriveClassic(pool, metrics.ClassicHistory{
			OneDay:  lookup(snaps.oneDay, id),
			TwoDay:  lookup(snaps.twoDay, id),
			OneWeek: lookup(snaps.oneWeek, id),
		}, price.Price, windows.OneDay.Number))
	}
	return records, nil
}

// ResolveWindows computes the one-day, two-day and one-week instants and their blocks.
func (r *Runner) ResolveWindows(ctx context.Context) (Windows, error) {
	if r.blocks == nil {
		return Windows{}, fmt.Errorf("block source is nil")
	}

	ts := window.Compute(r.clock())
	refs, err := r.blocks.Resolve(ctx, ts.Slice())
	if err != nil {
		return Windows{}, fmt.Errorf("resolve blocks: %w", err)
	}
	if len(refs) != 3 {
		return Windows{}, fmt.Errorf("resolve blocks: expected 3 refs, got %d", len(refs))
	}

	windows := Windows{Timestamps: ts, OneDay: refs[0], TwoDay: refs[1], OneWeek: refs[2]}
	for _, item := range []struct {
		label string
		ref   model.BlockRef
	}{
		{labelOneDay, windows.OneDay},
		{labelTwoDay, windows.TwoDay},
		{labelOneWeek, windows.OneWeek},
	} {
		if item.ref.Found {
			continue
		}
		if !r.cfg.AllowMissingBlocks {
			return Windows{}, fmt.Errorf("%w: %s window starting %d", ErrBlockNotFound, item.label, item.ref.Timestamp)
		}
		r.logger.Warn("window has no block, history skipped",
			zap.String("window", item.label),
			zap.Int64("timestamp", item.ref.Timestamp),
		)
	}

	r.logger.Info("windows resolved",
		zap.Uint64("one_day_block", windows.OneDay.Number),
		zap.Uint64("two_day_block", windows.TwoDay.Number),
		zap.Uint64("one_week_block", windows.OneWeek.Number),
	)
	return windows, nil
}

func (r *Runner) universe(ctx context.Context) ([]string, error) {
	ids, err := r.pools.TopPoolIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("select pools: %w", err)
	}
	if len(ids) == 0 {
		r.logger.Warn("pool universe is empty")
	}
	r.logger.Info("pool universe selected", zap.Int("pools", len(ids)))
	return ids, nil
}

func (r *Runner) emit(records any, total int) error {
	if err := r.sink.Emit(records); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	r.logger.Info("run complete",
		zap.String("dialect", r.cfg.Dialect),
		zap.Int("pools", total),
		zap.Int("offset", r.cfg.Offset),
		zap.Int("limit", r.cfg.Limit),
	)
	return nil
}

func (r *Runner) logSnapshots(current, oneDay, twoDay, oneWeek int) {
	r.logger.Info("snapshots fetched",
		zap.Int("current", current),
		zap.Int(labelOneDay, oneDay),
		zap.Int(labelTwoDay, twoDay),
		zap.Int(labelOneWeek, oneWeek),
	)
}

func (r *Runner) checkSources() error {
	if r.blocks == nil {
		return fmt.Errorf("block source is nil")
	}
	if r.pools == nil {
		return fmt.Errorf("pool source is nil")
	}
	return nil
}

func (r *Runner) clock() time.Time {
	if r.cfg.Now.IsZero() {
		return time.Now()
	}
	return r.cfg.Now
}
