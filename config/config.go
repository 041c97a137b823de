package config

import (
	_ "embed"
)

// explorer config
//
//go:embed default.config.yml
var DefaultConfigYml string

// chain presets
//
//go:embed mainnet.preset.yml
var MainnetPresetYml string

//go:embed minimal.preset.yml
var MinimalPresetYml string

// known chain configs
//
//go:embed mainnet.chain.yml
var MainnetChainYml string
