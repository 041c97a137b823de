package rpctypes

type StandardV1GenesisResponse struct {
	Data struct {
		GenesisTime           BigIntStr   `json:"genesis_time"`
		GenesisValidatorsRoot BytesHexStr `json:"genesis_validators_root"`
		GenesisForkVersion    BytesHexStr `json:"genesis_fork_version"`
	} `json:"data"`
}

type StandardV2BeaconBlockResponse struct {
	Version             string            `json:"version"`
	ExecutionOptimistic bool              `json:"execution_optimistic"`
	Finalized           bool              `json:"finalized"`
	Data                SignedBeaconBlock `json:"data"`
}

type StandardV1BlockRootResponse struct {
	ExecutionOptimistic bool `json:"execution_optimistic"`
	Finalized           bool `json:"finalized"`
	Data                struct {
		Root BytesHexStr `json:"root"`
	} `json:"data"`
}

type StandardV1StateValidatorResponse struct {
	ExecutionOptimistic bool           `json:"execution_optimistic"`
	Finalized           bool           `json:"finalized"`
	Data                ValidatorEntry `json:"data"`
}

type StandardV1CommitteesResponse struct {
	ExecutionOptimistic bool        `json:"execution_optimistic"`
	Finalized           bool        `json:"finalized"`
	Data                []Committee `json:"data"`
}
