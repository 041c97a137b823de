package utils

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ethpandaops/slotscope/config"
	"github.com/ethpandaops/slotscope/types"
)

// Config is the globally accessible configuration
var Config *types.Config

// ReadConfig will process a configuration
func ReadConfig(cfg *types.Config, path string) error {
	err := readConfigFile(cfg, path)
	if err != nil {
		return err
	}

	err = readConfigEnv(cfg)
	if err != nil {
		return fmt.Errorf("error reading config from environment: %w", err)
	}

	chainConfig, err := readChainConfig(cfg.Chain.Name, cfg.Chain.ConfigPath)
	if err != nil {
		return err
	}
	cfg.Chain.Config = *chainConfig
	if cfg.Chain.Config.ConfigName != "" {
		cfg.Chain.Name = cfg.Chain.Config.ConfigName
	}

	if cfg.Chain.Config.SlotsPerEpoch == 0 {
		return fmt.Errorf("invalid chain config: SLOTS_PER_EPOCH must not be 0")
	}
	if cfg.Chain.Config.SecondsPerSlot == 0 {
		return fmt.Errorf("invalid chain config: SECONDS_PER_SLOT must not be 0")
	}

	if cfg.Frontend.SiteName == "" {
		cfg.Frontend.SiteName = "slotscope"
	}
	if cfg.Frontend.LondonChartBlocks <= 0 {
		cfg.Frontend.LondonChartBlocks = 30
	}

	log.WithFields(log.Fields{
		"configName":     cfg.Chain.Config.ConfigName,
		"presetBase":     cfg.Chain.Config.PresetBase,
		"slotsPerEpoch":  cfg.Chain.Config.SlotsPerEpoch,
		"secondsPerSlot": cfg.Chain.Config.SecondsPerSlot,
		"beaconApi":      GetRedactedUrl(cfg.BeaconApi.Endpoint),
		"executionApi":   GetRedactedUrl(cfg.ExecutionApi.Endpoint),
	}).Infof("did init config")

	return nil
}

func readChainConfig(chainName string, configPath string) (*types.ChainConfig, error) {
	var chainConfig types.ChainConfig
	if configPath == "" {
		switch chainName {
		case "mainnet", "":
			if err := yaml.Unmarshal([]byte(config.MainnetChainYml), &chainConfig); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("tried to set known chain-config, but unknown chain-name: %v", chainName)
		}
	} else {
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("error opening Chain Config file %v: %w", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		err = decoder.Decode(&chainConfig)
		if err != nil {
			return nil, fmt.Errorf("error decoding Chain Config file %v: %w", configPath, err)
		}
	}

	if chainConfig.PresetBase == "" {
		return &chainConfig, nil
	}

	// load preset and let the chain config override it
	var chainPreset types.ChainConfig
	var err error
	switch chainConfig.PresetBase {
	case "mainnet":
		err = yaml.Unmarshal([]byte(config.MainnetPresetYml), &chainPreset)
	case "minimal":
		err = yaml.Unmarshal([]byte(config.MinimalPresetYml), &chainPreset)
	default:
		return nil, fmt.Errorf("tried to use unknown chain-preset: %v", chainConfig.PresetBase)
	}
	if err != nil {
		return nil, err
	}

	err = mergo.Merge(&chainPreset, chainConfig, mergo.WithOverride)
	if err != nil {
		return nil, fmt.Errorf("error merging chain preset: %w", err)
	}

	return &chainPreset, nil
}

func readConfigFile(cfg *types.Config, path string) error {
	if path == "" {
		return yaml.Unmarshal([]byte(config.DefaultConfigYml), cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening config file %v: %v", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(cfg)
	if err != nil {
		return fmt.Errorf("error decoding config file %v: %v", path, err)
	}

	return nil
}

func readConfigEnv(cfg *types.Config) error {
	return envconfig.Process("", cfg)
}
