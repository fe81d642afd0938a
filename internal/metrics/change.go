// Package metrics derives volume, fee, liquidity and yield analytics from pool snapshots.
// It performs no I/O.
package metrics

import "math"

const (
	daysPerYear = 365
	percent     = 100
)

// PercentChange returns (now-prior)/prior*100, or 0 when the result is NaN or infinite.
func PercentChange(now, prior float64) float64 {
	change := (now - prior) / prior * percent
	return finiteOrZero(change)
}

// TwoPeriodChange returns the change over the latest period (now-oneDay) and the percent
// change of that change against the period before it (oneDay-twoDay). The second value is
// 0 when it is NaN or infinite.
func TwoPeriodChange(now, oneDay, twoDay float64) (float64, float64) {
	currentChange := now - oneDay
	previousChange := oneDay - twoDay

	adjusted := (currentChange - previousChange) / previousChange * percent
	return currentChange, finiteOrZero(adjusted)
}

// AnnualizedYield scales a one-day fee to a yearly percentage of tvl.
// Division by zero is not guarded: a zero tvl yields +Inf, or NaN when the fee is zero too.
func AnnualizedYield(oneDayFee, tvl float64) float64 {
	return oneDayFee * daysPerYear * percent / tvl
}

func finiteOrZero(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// orElse returns fallback when value is 0 or NaN.
func orElse(value, fallback float64) float64 {
	if value == 0 || math.IsNaN(value) {
		return fallback
	}
	return value
}
