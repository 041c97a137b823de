package models

import (
	"time"
)

// IndexPageData is a struct to hold info for the main web page
type IndexPageData struct {
	NetworkName string `json:"netname"`

	HasConsensus bool      `json:"has_consensus"`
	GenesisTime  time.Time `json:"genesis_time"`
	CurrentSlot  uint64    `json:"current_slot"`
	CurrentEpoch uint64    `json:"current_epoch"`

	HasExecution      bool                  `json:"has_execution"`
	LatestBlockNumber uint64                `json:"latest_block"`
	LatestBlocks      []*IndexPageDataBlock `json:"blocks"`
}

type IndexPageDataBlock struct {
	Number   uint64    `json:"number"`
	Hash     []byte    `json:"hash"`
	Ts       time.Time `json:"ts"`
	GasUsed  uint64    `json:"gas_used"`
	GasLimit uint64    `json:"gas_limit"`
}
