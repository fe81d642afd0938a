package model

import "github.com/shopspring/decimal"

// ElasticPool is the current state of a concentrated-liquidity pool.
type ElasticPool struct {
	ID                     string          `json:"id"`
	FeeTier                decimal.Decimal `json:"feeTier"`
	Liquidity              decimal.Decimal `json:"liquidity"`
	ReinvestL              decimal.Decimal `json:"reinvestL"`
	SqrtPrice              decimal.Decimal `json:"sqrtPrice"`
	Tick                   decimal.Decimal `json:"tick"`
	Token0                 Token           `json:"token0"`
	Token1                 Token           `json:"token1"`
	Token0Price            decimal.Decimal `json:"token0Price"`
	Token1Price            decimal.Decimal `json:"token1Price"`
	VolumeUSD              decimal.Decimal `json:"volumeUSD"`
	FeesUSD                decimal.Decimal `json:"feesUSD"`
	TxCount                decimal.Decimal `json:"txCount"`
	TotalValueLockedToken0 decimal.Decimal `json:"totalValueLockedToken0"`
	TotalValueLockedToken1 decimal.Decimal `json:"totalValueLockedToken1"`
	TotalValueLockedUSD    decimal.Decimal `json:"totalValueLockedUSD"`
	CreatedAtBlockNumber   decimal.Decimal `json:"createdAtBlockNumber"`
}

// ElasticPoolHistory is the reduced pool record fetched at a historical block.
type ElasticPoolHistory struct {
	ID                   string          `json:"id"`
	TotalValueLockedUSD  decimal.Decimal `json:"totalValueLockedUSD"`
	TotalValueLockedETH  decimal.Decimal `json:"totalValueLockedETH"`
	VolumeUSD            decimal.Decimal `json:"volumeUSD"`
	FeesUSD              decimal.Decimal `json:"feesUSD"`
	CreatedAtBlockNumber decimal.Decimal `json:"createdAtBlockNumber"`
}

func (p ElasticPoolHistory) PoolID() string { return p.ID }

// ClassicPool is the current state of an amplified AMM pool.
type ClassicPool struct {
	ID                 string          `json:"id"`
	TxCount            decimal.Decimal `json:"txCount"`
	Token0             Token           `json:"token0"`
	Token1             Token           `json:"token1"`
	Amp                decimal.Decimal `json:"amp"`
	Reserve0           decimal.Decimal `json:"reserve0"`
	Reserve1           decimal.Decimal `json:"reserve1"`
	VReserve0          decimal.Decimal `json:"vReserve0"`
	VReserve1          decimal.Decimal `json:"vReserve1"`
	ReserveUSD         decimal.NullDecimal `json:"reserveUSD"`
	TotalSupply        decimal.Decimal `json:"totalSupply"`
	TrackedReserveETH  decimal.Decimal `json:"trackedReserveETH"`
	ReserveETH         decimal.Decimal `json:"reserveETH"`
	VolumeUSD          decimal.Decimal `json:"volumeUSD"`
	FeeUSD             decimal.Decimal `json:"feeUSD"`
	UntrackedVolumeUSD decimal.Decimal `json:"untrackedVolumeUSD"`
	UntrackedFeeUSD    decimal.Decimal `json:"untrackedFeeUSD"`
	Token0Price        decimal.Decimal `json:"token0Price"`
	Token1Price        decimal.Decimal `json:"token1Price"`
	Token0PriceMin     decimal.Decimal `json:"token0PriceMin"`
	Token0PriceMax     decimal.Decimal `json:"token0PriceMax"`
	Token1PriceMin     decimal.Decimal `json:"token1PriceMin"`
	Token1PriceMax     decimal.Decimal `json:"token1PriceMax"`
	CreatedAtTimestamp decimal.Decimal `json:"createdAtTimestamp"`
}

// ClassicPoolHistory is the reduced pool record fetched at a historical block.
type ClassicPoolHistory struct {
	ID                 string          `json:"id"`
	ReserveUSD         decimal.Decimal `json:"reserveUSD"`
	TrackedReserveETH  decimal.Decimal `json:"trackedReserveETH"`
	VolumeUSD          decimal.Decimal `json:"volumeUSD"`
	FeeUSD             decimal.Decimal `json:"feeUSD"`
	UntrackedVolumeUSD decimal.Decimal `json:"untrackedVolumeUSD"`
	UntrackedFeeUSD    decimal.Decimal `json:"untrackedFeeUSD"`
}

func (p ClassicPoolHistory) PoolID() string { return p.ID }
