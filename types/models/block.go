package models

import (
	"math/big"
	"time"
)

// BlockPageData is a struct to hold info for the execution block page
type BlockPageData struct {
	Number           uint64    `json:"number"`
	Hash             []byte    `json:"hash"`
	ParentHash       []byte    `json:"parent_hash"`
	Ts               time.Time `json:"ts"`
	FeeRecipient     []byte    `json:"fee_recipient"`
	GasUsed          uint64    `json:"gas_used"`
	GasLimit         uint64    `json:"gas_limit"`
	GasTarget        uint64    `json:"gas_target"`
	OverGasTarget    bool      `json:"over_gas_target"`
	HasBaseFee       bool      `json:"has_base_fee"`
	BaseFee          uint64    `json:"base_fee"`
	BurntFees        *big.Int  `json:"burnt_fees"`
	TransactionCount uint64    `json:"tx_count"`
	UncleCount       uint64    `json:"uncle_count"`
	Size             uint64    `json:"size"`
	ExtraData        []byte    `json:"extra_data"`
	StateRoot        []byte    `json:"state_root"`
	Nonce            uint64    `json:"nonce"`

	// from ots_getBlockDetails, nil if unsupported by the node
	BlockReward *big.Int `json:"block_reward"`
	UncleReward *big.Int `json:"uncle_reward"`
	TotalFees   *big.Int `json:"total_fees"`
}

// BlockTxsPageData is a struct to hold info for the block transactions page
type BlockTxsPageData struct {
	Number       uint64                `json:"number"`
	Hash         []byte                `json:"hash"`
	Ts           time.Time             `json:"ts"`
	Transactions []*BlockTxsPageDataTx `json:"transactions"`
}

type BlockTxsPageDataTx struct {
	Index    uint64   `json:"index"`
	Hash     []byte   `json:"hash"`
	Type     uint8    `json:"type"`
	From     []byte   `json:"from"`
	To       []byte   `json:"to"`
	IsCreate bool     `json:"is_create"`
	Value    *big.Int `json:"value"`
	Nonce    uint64   `json:"nonce"`
	GasLimit uint64   `json:"gas_limit"`
	Method   []byte   `json:"method"`
}
