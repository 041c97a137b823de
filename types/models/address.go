package models

import (
	"math/big"
)

// AddressPageData is a struct to hold info for the address page
type AddressPageData struct {
	Address    []byte   `json:"address"`
	Tab        string   `json:"tab"`
	Balance    *big.Int `json:"balance"`
	Nonce      uint64   `json:"nonce"`
	IsContract bool     `json:"is_contract"`
	CodeSize   uint64   `json:"code_size"`
	Code       []byte   `json:"code"`
}
