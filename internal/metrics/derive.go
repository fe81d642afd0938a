package metrics

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"poolPulse/internal/model"
)

// ElasticHistory groups the historical snapshots of one elastic pool. Nil means the pool
// had no record at that block.
type ElasticHistory struct {
	OneDay  *model.ElasticPoolHistory
	TwoDay  *model.ElasticPoolHistory
	OneWeek *model.ElasticPoolHistory
}

// ClassicHistory groups the historical snapshots of one classic pool.
type ClassicHistory struct {
	OneDay  *model.ClassicPoolHistory
	TwoDay  *model.ClassicPoolHistory
	OneWeek *model.ClassicPoolHistory
}

// DeriveElastic computes the analytics of an elastic pool. oneDayBlock is the block
// resolved for the one-day-back instant.
func DeriveElastic(pool model.ElasticPool, hist ElasticHistory, oneDayBlock uint64) model.ElasticPoolMetrics {
	volume := toFloat(pool.VolumeUSD)

	var oneDayVolume, oneDayFees, twoDayVolume, twoDayFees float64
	oneDayTVL := math.NaN()
	if hist.OneDay != nil {
		oneDayVolume = toFloat(hist.OneDay.VolumeUSD)
		oneDayFees = toFloat(hist.OneDay.FeesUSD)
		oneDayTVL = toFloat(hist.OneDay.TotalValueLockedUSD)
	}
	if hist.TwoDay != nil {
		twoDayVolume = toFloat(hist.TwoDay.VolumeUSD)
		twoDayFees = toFloat(hist.TwoDay.FeesUSD)
	}

	out := model.ElasticPoolMetrics{ElasticPool: pool}
	out.OneDayVolumeUSD, out.VolumeChangeUSD = TwoPeriodChange(volume, oneDayVolume, twoDayVolume)
	out.OneDayFeeUSD, _ = TwoPeriodChange(toFloat(pool.FeesUSD), oneDayFees, twoDayFees)

	if hist.OneWeek != nil {
		out.OneWeekVolumeUSD = volume - toFloat(hist.OneWeek.VolumeUSD)
	} else {
		out.OneWeekVolumeUSD = volume
	}

	tvl := toFloat(pool.TotalValueLockedUSD)
	out.TotalValueLockedChangeUSD = PercentChange(tvl, oneDayTVL)

	// Pools younger than the one-day window count their whole history as new volume.
	// Any other pool without a one-day record falls back to the same lifetime value.
	if hist.OneDay == nil && createdAfter(pool.CreatedAtBlockNumber, oneDayBlock) {
		out.OneDayVolumeUSD = volume
	}
	if hist.OneDay == nil {
		out.OneDayVolumeUSD = volume
	}
	if hist.OneWeek == nil {
		out.OneWeekVolumeUSD = volume
	}

	out.Name = pairName(pool.Token0, pool.Token1)
	out.Tokens = []string{pool.Token0.Symbol, pool.Token1.Symbol}
	out.AverageAPR = model.Ratio(AnnualizedYield(out.OneDayFeeUSD, tvl))
	out.SCAddress = pool.ID
	out.TVL = pool.TotalValueLockedUSD

	return out
}

// DeriveClassic computes the analytics of a classic pool. ethPrice converts the tracked
// ETH reserve into USD.
func DeriveClassic(pool model.ClassicPool, hist ClassicHistory, ethPrice float64, oneDayBlock uint64) model.ClassicPoolMetrics {
	volume := toFloat(pool.VolumeUSD)

	var d1, d2 model.ClassicPoolHistory
	oneDayReserve := math.NaN()
	if hist.OneDay != nil {
		d1 = *hist.OneDay
		oneDayReserve = toFloat(d1.ReserveUSD)
	}
	if hist.TwoDay != nil {
		d2 = *hist.TwoDay
	}

	out := model.ClassicPoolMetrics{ClassicPool: pool}
	out.OneDayVolumeUSD, out.VolumeChangeUSD = TwoPeriodChange(volume, toFloat(d1.VolumeUSD), toFloat(d2.VolumeUSD))
	out.OneDayFeeUSD, _ = TwoPeriodChange(toFloat(pool.FeeUSD), toFloat(d1.FeeUSD), toFloat(d2.FeeUSD))
	out.OneDayVolumeUntracked, out.VolumeChangeUntracked = TwoPeriodChange(
		toFloat(pool.UntrackedVolumeUSD), toFloat(d1.UntrackedVolumeUSD), toFloat(d2.UntrackedVolumeUSD))
	out.OneDayFeeUntracked, _ = TwoPeriodChange(
		toFloat(pool.UntrackedFeeUSD), toFloat(d1.UntrackedFeeUSD), toFloat(d2.UntrackedFeeUSD))

	if hist.OneWeek != nil {
		out.OneWeekVolumeUSD = volume - toFloat(hist.OneWeek.VolumeUSD)
	} else {
		out.OneWeekVolumeUSD = volume
	}

	reserve := math.NaN()
	if pool.ReserveUSD.Valid {
		reserve = toFloat(pool.ReserveUSD.Decimal)
	}
	out.TrackedReserveUSD = toFloat(pool.TrackedReserveETH) * ethPrice
	out.LiquidityChangeUSD = PercentChange(reserve, oneDayReserve)

	// The classic schema carries no creation block, so only the lifetime fallback applies.
	if hist.OneDay == nil {
		out.OneDayVolumeUSD = volume
	}
	if hist.OneWeek == nil {
		out.OneWeekVolumeUSD = volume
	}

	out.Name = pairName(pool.Token0, pool.Token1)
	out.Tokens = []string{pool.Token0.Symbol, pool.Token1.Symbol}
	// The tracked reserve only stands in for a reserve the subgraph did not report.
	// A reported zero reserve stays and the yield goes non-finite.
	yieldBase := out.TrackedReserveUSD
	if pool.ReserveUSD.Valid {
		yieldBase = reserve
	}
	out.BaseAPY = model.Ratio(AnnualizedYield(orElse(out.OneDayFeeUSD, out.OneDayFeeUntracked), yieldBase))
	out.SCAddress = pool.ID
	out.TVL = pool.ReserveUSD

	return out
}

func pairName(token0, token1 model.Token) string {
	return token0.Symbol + "/" + token1.Symbol
}

func createdAfter(createdAt decimal.Decimal, block uint64) bool {
	return createdAt.GreaterThan(decimal.NewFromBigInt(new(big.Int).SetUint64(block), 0))
}

func toFloat(value decimal.Decimal) float64 {
	return value.InexactFloat64()
}
