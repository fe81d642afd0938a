package subgraph

import "fmt"

// Dialect describes how one pool subgraph schema is ranked and selected.
type Dialect struct {
	Name string
	// RankField orders the pool universe.
	RankField string
	// CurrentOrderField orders the current snapshot query.
	CurrentOrderField string
	// HistoryOrderField orders the historical snapshot queries.
	HistoryOrderField string
	CurrentFields     string
	HistoryFields     string
}

const (
	DialectElastic = "elastic"
	DialectClassic = "classic"
)

const elasticCurrentFields = `
      id
      feeTier
      liquidity
      reinvestL
      sqrtPrice
      tick
      token0 {
        id
        symbol
        name
        decimals
        derivedETH
      }
      token1 {
        id
        symbol
        name
        decimals
        derivedETH
      }
      token0Price
      token1Price
      volumeUSD
      feesUSD
      txCount
      totalValueLockedToken0
      totalValueLockedToken1
      totalValueLockedUSD
      createdAtBlockNumber`

const elasticHistoryFields = `
      id
      totalValueLockedUSD
      totalValueLockedETH
      volumeUSD
      feesUSD
      createdAtBlockNumber`

const classicCurrentFields = `
      id
      txCount
      token0 {
        id
        symbol
        name
        totalLiquidity
        derivedETH
      }
      token1 {
        id
        symbol
        name
        totalLiquidity
        derivedETH
      }
      amp
      reserve0
      reserve1
      vReserve0
      vReserve1
      reserveUSD
      totalSupply
      trackedReserveETH
      reserveETH
      volumeUSD
      feeUSD
      untrackedVolumeUSD
      untrackedFeeUSD
      token0Price
      token1Price
      token0PriceMin
      token0PriceMax
      token1PriceMin
      token1PriceMax
      createdAtTimestamp`

const classicHistoryFields = `
      id
      reserveUSD
      trackedReserveETH
      volumeUSD
      feeUSD
      untrackedVolumeUSD
      untrackedFeeUSD`

// Elastic is the concentrated-liquidity pool schema.
var Elastic = Dialect{
	Name:              DialectElastic,
	RankField:         "totalValueLockedUSD",
	CurrentOrderField: "totalValueLockedUSD",
	HistoryOrderField: "totalValueLockedUSD",
	CurrentFields:     elasticCurrentFields,
	HistoryFields:     elasticHistoryFields,
}

// Classic is the amplified AMM pool schema.
var Classic = Dialect{
	Name:              DialectClassic,
	RankField:         "trackedReserveETH",
	CurrentOrderField: "reserveETH",
	HistoryOrderField: "trackedReserveETH",
	CurrentFields:     classicCurrentFields,
	HistoryFields:     classicHistoryFields,
}

// LookupDialect returns the dialect registered under name.
func LookupDialect(name string) (Dialect, error) {
	switch name {
	case DialectElastic:
		return Elastic, nil
	case DialectClassic:
		return Classic, nil
	default:
		return Dialect{}, fmt.Errorf("unknown dialect: %s", name)
	}
}
