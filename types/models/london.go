package models

import (
	"html/template"
	"math/big"
	"time"
)

// LondonPageData is a struct to hold info for the fee market (london) page
type LondonPageData struct {
	Mode       string                 `json:"mode"`
	Modes      []*LondonPageChartMode `json:"modes"`
	ChartJSON  template.JS            `json:"chart"`
	HasBlocks  bool                   `json:"has_blocks"`
	HasSupply  bool                   `json:"has_supply"`
	Blocks     []*LondonPageDataBlock `json:"blocks"`
	TotalBurnt *big.Int               `json:"total_burnt"`
}

type LondonPageChartMode struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	IsActive bool   `json:"active"`
}

type LondonPageDataBlock struct {
	Number      uint64    `json:"number"`
	Hash        []byte    `json:"hash"`
	Ts          time.Time `json:"ts"`
	GasUsed     uint64    `json:"gas_used"`
	GasTarget   uint64    `json:"gas_target"`
	OverTarget  bool      `json:"over_target"`
	BaseFee     uint64    `json:"base_fee"`
	BurntFees   *big.Int  `json:"burnt_fees"`
	BlockReward *big.Int  `json:"block_reward"`
	UncleReward *big.Int  `json:"uncle_reward"`
	FeeReward   *big.Int  `json:"fee_reward"`
}
