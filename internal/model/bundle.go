package model

import "github.com/shopspring/decimal"

// Bundle is the global pricing record of the classic subgraph.
type Bundle struct {
	ID       string          `json:"id"`
	ETHPrice decimal.Decimal `json:"ethPrice"`
}

// ReferencePrice is the base-asset price now, one day back, and the percent change between them.
type ReferencePrice struct {
	Price       float64 `json:"price"`
	PriceOneDay float64 `json:"price_one_day"`
	ChangePct   float64 `json:"change_pct"`
}
