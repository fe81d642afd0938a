package model

import "github.com/shopspring/decimal"

// Token is a pool constituent as reported by the pool subgraph.
type Token struct {
	ID             string           `json:"id"`
	Symbol         string           `json:"symbol"`
	Name           string           `json:"name"`
	Decimals       *decimal.Decimal `json:"decimals,omitempty"`
	TotalLiquidity *decimal.Decimal `json:"totalLiquidity,omitempty"`
	DerivedETH     decimal.Decimal  `json:"derivedETH"`
}
