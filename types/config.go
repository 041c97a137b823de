package types

import "time"

// Config is a struct to hold the configuration data
type Config struct {
	Logging struct {
		OutputLevel  string `yaml:"outputLevel" envconfig:"LOGGING_OUTPUT_LEVEL"`
		OutputStderr bool   `yaml:"outputStderr" envconfig:"LOGGING_OUTPUT_STDERR"`

		FilePath  string `yaml:"filePath" envconfig:"LOGGING_FILE_PATH"`
		FileLevel string `yaml:"fileLevel" envconfig:"LOGGING_FILE_LEVEL"`
	} `yaml:"logging"`

	Server struct {
		Port string `yaml:"port" envconfig:"FRONTEND_SERVER_PORT"`
		Host string `yaml:"host" envconfig:"FRONTEND_SERVER_HOST"`
	} `yaml:"server"`

	Chain struct {
		Name        string `yaml:"name" envconfig:"CHAIN_NAME"`
		DisplayName string `yaml:"displayName" envconfig:"CHAIN_DISPLAY_NAME"`
		ConfigPath  string `yaml:"configPath" envconfig:"CHAIN_CONFIG_PATH"`
		TokenSymbol string `yaml:"tokenSymbol" envconfig:"CHAIN_TOKEN_SYMBOL"`

		Config ChainConfig `yaml:"-"`
	} `yaml:"chain"`

	Frontend struct {
		Enabled bool `yaml:"enabled" envconfig:"FRONTEND_ENABLED"`
		Debug   bool `yaml:"debug" envconfig:"FRONTEND_DEBUG"`
		Pprof   bool `yaml:"pprof" envconfig:"FRONTEND_PPROF"`
		Minify  bool `yaml:"minify" envconfig:"FRONTEND_MINIFY"`

		SiteDomain      string `yaml:"siteDomain" envconfig:"FRONTEND_SITE_DOMAIN"`
		SiteName        string `yaml:"siteName" envconfig:"FRONTEND_SITE_NAME"`
		SiteSubtitle    string `yaml:"siteSubtitle" envconfig:"FRONTEND_SITE_SUBTITLE"`
		SiteDescription string `yaml:"siteDescription" envconfig:"FRONTEND_SITE_DESCRIPTION"`

		PageCallTimeout  time.Duration `yaml:"pageCallTimeout" envconfig:"FRONTEND_PAGE_CALL_TIMEOUT"`
		HttpReadTimeout  time.Duration `yaml:"httpReadTimeout" envconfig:"FRONTEND_HTTP_READ_TIMEOUT"`
		HttpWriteTimeout time.Duration `yaml:"httpWriteTimeout" envconfig:"FRONTEND_HTTP_WRITE_TIMEOUT"`
		HttpIdleTimeout  time.Duration `yaml:"httpIdleTimeout" envconfig:"FRONTEND_HTTP_IDLE_TIMEOUT"`
		DisablePageCache bool          `yaml:"disablePageCache" envconfig:"FRONTEND_DISABLE_PAGE_CACHE"`

		LondonChartBlocks int      `yaml:"londonChartBlocks" envconfig:"FRONTEND_LONDON_CHART_BLOCKS"`
		Faucets           []string `yaml:"faucets" envconfig:"FRONTEND_FAUCETS"`

		ValidatorNamesYaml      string `yaml:"validatorNamesYaml" envconfig:"FRONTEND_VALIDATOR_NAMES_YAML"`
		ValidatorNamesInventory string `yaml:"validatorNamesInventory" envconfig:"FRONTEND_VALIDATOR_NAMES_INVENTORY"`
	} `yaml:"frontend"`

	RateLimit struct {
		Enabled    bool `yaml:"enabled" envconfig:"RATELIMIT_ENABLED"`
		ProxyCount uint `yaml:"proxyCount" envconfig:"RATELIMIT_PROXY_COUNT"`
		Rate       uint `yaml:"rate" envconfig:"RATELIMIT_RATE"`
		Burst      uint `yaml:"burst" envconfig:"RATELIMIT_BURST"`
	} `yaml:"rateLimit"`

	BeaconApi struct {
		Endpoint       string            `yaml:"endpoint" envconfig:"BEACONAPI_ENDPOINT"`
		Headers        map[string]string `yaml:"headers"`
		RequestTimeout time.Duration     `yaml:"requestTimeout" envconfig:"BEACONAPI_REQUEST_TIMEOUT"`

		LocalCacheSize   int    `yaml:"localCacheSize" envconfig:"BEACONAPI_LOCAL_CACHE_SIZE"`
		RedisCacheAddr   string `yaml:"redisCacheAddr" envconfig:"BEACONAPI_REDIS_CACHE_ADDR"`
		RedisCachePrefix string `yaml:"redisCachePrefix" envconfig:"BEACONAPI_REDIS_CACHE_PREFIX"`
	} `yaml:"beaconapi"`

	ExecutionApi struct {
		Endpoint string            `yaml:"endpoint" envconfig:"EXECUTIONAPI_ENDPOINT"`
		Headers  map[string]string `yaml:"headers"`
	} `yaml:"executionapi"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" envconfig:"METRICS_ENABLED"`
		Public  bool   `yaml:"public" envconfig:"METRICS_PUBLIC"`
		Host    string `yaml:"host" envconfig:"METRICS_HOST"`
		Port    string `yaml:"port" envconfig:"METRICS_PORT"`
	} `yaml:"metrics"`
}

// ChainConfig holds the consensus chain parameters the explorer derives slot & epoch math from.
type ChainConfig struct {
	PresetBase             string `yaml:"PRESET_BASE"`
	ConfigName             string `yaml:"CONFIG_NAME"`
	SlotsPerEpoch          uint64 `yaml:"SLOTS_PER_EPOCH"`
	SecondsPerSlot         uint64 `yaml:"SECONDS_PER_SLOT"`
	SyncCommitteeSize      uint64 `yaml:"SYNC_COMMITTEE_SIZE"`
	MaxCommitteesPerSlot   uint64 `yaml:"MAX_COMMITTEES_PER_SLOT"`
	DepositChainID         uint64 `yaml:"DEPOSIT_CHAIN_ID"`
	DepositNetworkID       uint64 `yaml:"DEPOSIT_NETWORK_ID"`
	DepositContractAddress string `yaml:"DEPOSIT_CONTRACT_ADDRESS"`
}
