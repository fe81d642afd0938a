package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"poolPulse/internal/model"
	"poolPulse/internal/output"
	"poolPulse/internal/subgraph"
	"poolPulse/internal/window"
)

const (
	poolA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	poolB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	poolC = "0xcccccccccccccccccccccccccccccccccccccccc"
)

var runAt = time.Date(2024, 1, 10, 12, 0, 30, 0, time.UTC)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

type fakeBlocks struct {
	refs map[int64]uint64
	err  error

	mu    sync.Mutex
	calls [][]int64
}

func newFakeBlocks() *fakeBlocks {
	ts := window.Compute(runAt)
	return &fakeBlocks{refs: map[int64]uint64{
		ts.OneDay:  1001,
		ts.TwoDay:  1002,
		ts.OneWeek: 1007,
	}}
}

func (f *fakeBlocks) Resolve(_ context.Context, timestamps []int64) ([]model.BlockRef, error) {
	f.mu.Lock()
	f.calls = append(f.calls, timestamps)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.BlockRef, 0, len(timestamps))
	for _, ts := range timestamps {
		number, ok := f.refs[ts]
		out = append(out, model.BlockRef{Timestamp: ts, Number: number, Found: ok})
	}
	return out, nil
}

type fakePools struct {
	ids       []string
	elastic   []model.ElasticPool
	elasticAt map[uint64][]model.ElasticPoolHistory
	classic   []model.ClassicPool
	classicAt map[uint64][]model.ClassicPoolHistory
	bundle    *model.Bundle
	bundleAt  map[uint64]model.Bundle
	errAt     map[uint64]error
	bundleErr error

	mu      sync.Mutex
	atCalls []uint64
}

func (f *fakePools) TopPoolIDs(context.Context) ([]string, error) {
	return f.ids, nil
}

func (f *fakePools) ElasticPools(context.Context, []string) ([]model.ElasticPool, error) {
	return f.elastic, nil
}

func (f *fakePools) ElasticPoolsAt(_ context.Context, block uint64, _ []string) ([]model.ElasticPoolHistory, error) {
	if err := f.recordAt(block); err != nil {
		return nil, err
	}
	return f.elasticAt[block], nil
}

func (f *fakePools) ClassicPools(context.Context, []string) ([]model.ClassicPool, error) {
	return f.classic, nil
}

func (f *fakePools) ClassicPoolsAt(_ context.Context, block uint64, _ []string) ([]model.ClassicPoolHistory, error) {
	if err := f.recordAt(block); err != nil {
		return nil, err
	}
	return f.classicAt[block], nil
}

func (f *fakePools) Bundle(_ context.Context, block *uint64) (model.Bundle, bool, error) {
	if f.bundleErr != nil {
		return model.Bundle{}, false, f.bundleErr
	}
	if block == nil {
		if f.bundle == nil {
			return model.Bundle{}, false, nil
		}
		return *f.bundle, true, nil
	}
	bundle, ok := f.bundleAt[*block]
	return bundle, ok, nil
}

func (f *fakePools) recordAt(block uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.atCalls = append(f.atCalls, block)
	return f.errAt[block]
}

type captureSink struct {
	records any
	calls   int
}

func (s *captureSink) Emit(records any) error {
	s.records = records
	s.calls++
	return nil
}

func elasticFixture() *fakePools {
	token0 := model.Token{Symbol: "USDC"}
	token1 := model.Token{Symbol: "WETH"}
	return &fakePools{
		ids: []string{poolB, poolA, poolC},
		elastic: []model.ElasticPool{
			{ID: poolA, Token0: token0, Token1: token1, VolumeUSD: dec("150"), FeesUSD: dec("15"), TotalValueLockedUSD: dec("1000"), CreatedAtBlockNumber: dec("10")},
			{ID: poolB, Token0: token1, Token1: token0, VolumeUSD: dec("300"), FeesUSD: dec("3"), TotalValueLockedUSD: dec("500"), CreatedAtBlockNumber: dec("10")},
		},
		elasticAt: map[uint64][]model.ElasticPoolHistory{
			1001: {
				{ID: poolA, VolumeUSD: dec("100"), FeesUSD: dec("10"), TotalValueLockedUSD: dec("800")},
				{ID: poolB, VolumeUSD: dec("200"), FeesUSD: dec("2"), TotalValueLockedUSD: dec("500")},
			},
			1002: {
				{ID: poolA, VolumeUSD: dec("80"), FeesUSD: dec("8")},
			},
			1007: {
				{ID: poolA, VolumeUSD: dec("20")},
			},
		},
	}
}

func newTestRunner(cfg RunConfig, blocks BlockSource, pools PoolSource, sink output.Sink) *Runner {
	if cfg.Now.IsZero() {
		cfg.Now = runAt
	}
	return NewRunner(cfg, blocks, pools, sink, zap.NewNop())
}

func TestRunElasticJoinsInUniverseOrder(t *testing.T) {
	pools := elasticFixture()
	runner := newTestRunner(RunConfig{Dialect: subgraph.DialectElastic}, newFakeBlocks(), pools, nil)

	records, err := runner.RunElastic(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, poolB, records[0].ID)
	assert.Equal(t, poolA, records[1].ID)

	a := records[1]
	assert.Equal(t, 50.0, a.OneDayVolumeUSD)
	assert.InDelta(t, 150.0, a.VolumeChangeUSD, 1e-9)
	assert.Equal(t, 130.0, a.OneWeekVolumeUSD)
	assert.InDelta(t, 25.0, a.TotalValueLockedChangeUSD, 1e-9)
	assert.Equal(t, "USDC/WETH", a.Name)

	b := records[0]
	assert.Equal(t, 100.0, b.OneDayVolumeUSD)
	assert.Equal(t, 300.0, b.OneWeekVolumeUSD)
	assert.Equal(t, "WETH/USDC", b.Name)

	assert.ElementsMatch(t, []uint64{1001, 1002, 1007}, pools.atCalls)
}

func TestRunElasticHistoricalFailureFailsBatch(t *testing.T) {
	boom := errors.New("boom")
	pools := elasticFixture()
	pools.errAt = map[uint64]error{1002: boom}
	runner := newTestRunner(RunConfig{Dialect: subgraph.DialectElastic}, newFakeBlocks(), pools, nil)

	records, err := runner.RunElastic(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "two_day pools at block 1002")
	assert.Nil(t, records)
}

func TestRunElasticMissingBlock(t *testing.T) {
	blocks := newFakeBlocks()
	delete(blocks.refs, window.Compute(runAt).TwoDay)
	runner := newTestRunner(RunConfig{Dialect: subgraph.DialectElastic}, blocks, elasticFixture(), nil)

	_, err := runner.RunElastic(context.Background())
	require.ErrorIs(t, err, ErrBlockNotFound)
	assert.Contains(t, err.Error(), labelTwoDay)
}

func TestRunElasticAllowMissingBlock(t *testing.T) {
	blocks := newFakeBlocks()
	delete(blocks.refs, window.Compute(runAt).TwoDay)
	pools := elasticFixture()
	runner := newTestRunner(RunConfig{Dialect: subgraph.DialectElastic, AllowMissingBlocks: true}, blocks, pools, nil)

	records, err := runner.RunElastic(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	a := records[1]
	assert.Equal(t, 50.0, a.OneDayVolumeUSD)
	assert.InDelta(t, -50.0, a.VolumeChangeUSD, 1e-9)
	assert.ElementsMatch(t, []uint64{1001, 1007}, pools.atCalls)
}

func TestResolveWindows(t *testing.T) {
	blocks := newFakeBlocks()
	runner := newTestRunner(RunConfig{}, blocks, &fakePools{}, nil)

	windows, err := runner.ResolveWindows(context.Background())
	require.NoError(t, err)

	ts := window.Compute(runAt)
	assert.Equal(t, ts, windows.Timestamps)
	assert.Equal(t, model.BlockRef{Timestamp: ts.OneDay, Number: 1001, Found: true}, windows.OneDay)
	assert.Equal(t, uint64(1002), windows.TwoDay.Number)
	assert.Equal(t, uint64(1007), windows.OneWeek.Number)
	require.Len(t, blocks.calls, 1)
	assert.Equal(t, ts.Slice(), blocks.calls[0])
}

func TestResolveWindowsPropagatesError(t *testing.T) {
	blocks := newFakeBlocks()
	blocks.err = errors.New("index down")
	runner := newTestRunner(RunConfig{}, blocks, &fakePools{}, nil)

	_, err := runner.ResolveWindows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index down")
}

func classicFixture() *fakePools {
	token0 := model.Token{Symbol: "KNC"}
	token1 := model.Token{Symbol: "USDT"}
	return &fakePools{
		ids: []string{poolA},
		classic: []model.ClassicPool{
			{ID: poolA, Token0: token0, Token1: token1, VolumeUSD: dec("150"), FeeUSD: dec("1"), ReserveUSD: decimal.NewNullDecimal(dec("1000")), TrackedReserveETH: dec("2")},
		},
		classicAt: map[uint64][]model.ClassicPoolHistory{
			1001: {{ID: poolA, VolumeUSD: dec("100"), FeeUSD: dec("0.5"), ReserveUSD: dec("800")}},
		},
		bundle:   &model.Bundle{ID: "1", ETHPrice: dec("2000")},
		bundleAt: map[uint64]model.Bundle{1001: {ID: "1", ETHPrice: dec("1600")}},
	}
}

func TestRunClassicUsesReferencePrice(t *testing.T) {
	runner := newTestRunner(RunConfig{Dialect: subgraph.DialectClassic}, newFakeBlocks(), classicFixture(), nil)

	records, err := runner.RunClassic(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 4000.0, rec.TrackedReserveUSD)
	assert.Equal(t, 50.0, rec.OneDayVolumeUSD)
	assert.InDelta(t, 25.0, rec.LiquidityChangeUSD, 1e-9)
	assert.InDelta(t, 18.25, float64(rec.BaseAPY), 1e-9)
	assert.Equal(t, "KNC/USDT", rec.Name)
}

func TestRunClassicContinuesWithoutPrice(t *testing.T) {
	pools := classicFixture()
	pools.bundleErr = errors.New("bundle down")
	runner := newTestRunner(RunConfig{Dialect: subgraph.DialectClassic}, newFakeBlocks(), pools, nil)

	records, err := runner.RunClassic(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].TrackedReserveUSD)
}

func TestReferencePrice(t *testing.T) {
	runner := newTestRunner(RunConfig{}, newFakeBlocks(), classicFixture(), nil)

	price := runner.ReferencePrice(context.Background())
	assert.Equal(t, 2000.0, price.Price)
	assert.Equal(t, 1600.0, price.PriceOneDay)
	assert.InDelta(t, 25.0, price.ChangePct, 1e-9)
}

func TestReferencePriceFallbacks(t *testing.T) {
	t.Run("missing past bundle uses current", func(t *testing.T) {
		pools := classicFixture()
		pools.bundleAt = nil
		runner := newTestRunner(RunConfig{}, newFakeBlocks(), pools, nil)

		price := runner.ReferencePrice(context.Background())
		assert.Equal(t, model.ReferencePrice{Price: 2000, PriceOneDay: 2000}, price)
	})

	t.Run("block error yields zero", func(t *testing.T) {
		blocks := newFakeBlocks()
		blocks.err = errors.New("index down")
		runner := newTestRunner(RunConfig{}, blocks, classicFixture(), nil)

		assert.Equal(t, model.ReferencePrice{}, runner.ReferencePrice(context.Background()))
	})

	t.Run("missing block yields zero", func(t *testing.T) {
		blocks := newFakeBlocks()
		blocks.refs = nil
		runner := newTestRunner(RunConfig{}, blocks, classicFixture(), nil)

		assert.Equal(t, model.ReferencePrice{}, runner.ReferencePrice(context.Background()))
	})

	t.Run("no bundles yields zero", func(t *testing.T) {
		pools := classicFixture()
		pools.bundle = nil
		pools.bundleAt = nil
		runner := newTestRunner(RunConfig{}, newFakeBlocks(), pools, nil)

		assert.Equal(t, model.ReferencePrice{}, runner.ReferencePrice(context.Background()))
	})
}

func TestRunEmitsPreview(t *testing.T) {
	sink := &captureSink{}
	runner := newTestRunner(RunConfig{Dialect: subgraph.DialectElastic, Offset: 1, Limit: 1}, newFakeBlocks(), elasticFixture(), sink)

	require.NoError(t, runner.Run(context.Background()))
	require.Equal(t, 1, sink.calls)

	records, ok := sink.records.([]model.ElasticPoolMetrics)
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, poolA, records[0].ID)
}

func TestRunEmitsFullClassicCollection(t *testing.T) {
	sink := &captureSink{}
	runner := newTestRunner(RunConfig{Dialect: subgraph.DialectClassic}, newFakeBlocks(), classicFixture(), sink)

	require.NoError(t, runner.Run(context.Background()))

	records, ok := sink.records.([]model.ClassicPoolMetrics)
	require.True(t, ok)
	assert.Len(t, records, 1)
}

func TestRunRejectsUnknownDialect(t *testing.T) {
	runner := newTestRunner(RunConfig{Dialect: "stable"}, newFakeBlocks(), &fakePools{}, &captureSink{})

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
}
