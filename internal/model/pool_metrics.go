package model

import "github.com/shopspring/decimal"

// ElasticPoolMetrics is a current elastic pool enriched with derived analytics.
type ElasticPoolMetrics struct {
	ElasticPool
	OneDayVolumeUSD           float64         `json:"oneDayVolumeUSD"`
	OneWeekVolumeUSD          float64         `json:"oneWeekVolumeUSD"`
	OneDayFeeUSD              float64         `json:"oneDayFeeUSD"`
	VolumeChangeUSD           float64         `json:"volumeChangeUSD"`
	TotalValueLockedChangeUSD float64         `json:"totalValueLockedChangeUSD"`
	Name                      string          `json:"name"`
	Tokens                    []string        `json:"tokens"`
	AverageAPR                Ratio           `json:"averageAPR"`
	SCAddress                 string          `json:"scAddress"`
	TVL                       decimal.Decimal `json:"tvl"`
}

// ClassicPoolMetrics is a current classic pool enriched with derived analytics.
type ClassicPoolMetrics struct {
	ClassicPool
	OneDayVolumeUSD       float64         `json:"oneDayVolumeUSD"`
	OneWeekVolumeUSD      float64         `json:"oneWeekVolumeUSD"`
	OneDayFeeUSD          float64         `json:"oneDayFeeUSD"`
	OneDayFeeUntracked    float64         `json:"oneDayFeeUntracked"`
	VolumeChangeUSD       float64         `json:"volumeChangeUSD"`
	OneDayVolumeUntracked float64         `json:"oneDayVolumeUntracked"`
	VolumeChangeUntracked float64         `json:"volumeChangeUntracked"`
	TrackedReserveUSD     float64         `json:"trackedReserveUSD"`
	LiquidityChangeUSD    float64         `json:"liquidityChangeUSD"`
	Name                  string          `json:"name"`
	Tokens                []string        `json:"tokens"`
	BaseAPY               Ratio           `json:"baseAPY"`
	SCAddress             string          `json:"scAddress"`
	TVL                   decimal.NullDecimal `json:"tvl"`
}
