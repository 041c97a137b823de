package models

// FaucetsPageData is a struct to hold the configured faucet list
type FaucetsPageData struct {
	Faucets []*FaucetsPageDataFaucet `json:"faucets"`
}

type FaucetsPageDataFaucet struct {
	Url  string `json:"url"`
	Host string `json:"host"`
}
