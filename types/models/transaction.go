package models

import (
	"math/big"
)

// TransactionPageData is a struct to hold info for the transaction page
type TransactionPageData struct {
	Hash              []byte                    `json:"hash"`
	Tab               string                    `json:"tab"`
	Pending           bool                      `json:"pending"`
	HasReceipt        bool                      `json:"has_receipt"`
	Success           bool                      `json:"success"`
	BlockNumber       uint64                    `json:"block_number"`
	BlockHash         []byte                    `json:"block_hash"`
	TransactionIndex  uint64                    `json:"tx_index"`
	Type              uint8                     `json:"type"`
	From              []byte                    `json:"from"`
	To                []byte                    `json:"to"`
	ContractAddress   []byte                    `json:"contract_address"`
	Value             *big.Int                  `json:"value"`
	Nonce             uint64                    `json:"nonce"`
	GasLimit          uint64                    `json:"gas_limit"`
	GasUsed           uint64                    `json:"gas_used"`
	EffectiveGasPrice *big.Int                  `json:"effective_gas_price"`
	TransactionFee    *big.Int                  `json:"tx_fee"`
	InputData         []byte                    `json:"input_data"`
	LogsCount         uint64                    `json:"logs_count"`
	Logs              []*TransactionPageDataLog `json:"logs"`
}

type TransactionPageDataLog struct {
	Index   uint64   `json:"index"`
	Address []byte   `json:"address"`
	Topics  [][]byte `json:"topics"`
	Data    []byte   `json:"data"`
}
