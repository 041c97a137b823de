package models

import (
	"time"

	"github.com/ethpandaops/slotscope/types"
)

type SlotStatus uint8

const (
	// SlotStatusUnavailable covers missed slots as well as slots the beacon node could not serve
	SlotStatusUnavailable SlotStatus = iota
	SlotStatusProposed
	SlotStatusUnconfigured
)

func (s SlotStatus) String() string {
	switch s {
	case SlotStatusProposed:
		return "Proposed"
	case SlotStatusUnconfigured:
		return "Unconfigured"
	}
	return "Unavailable"
}

// SlotPageData is a struct to hold info for the slot details page
type SlotPageData struct {
	Slot         uint64             `json:"slot"`
	Epoch        uint64             `json:"epoch"`
	PreviousSlot uint64             `json:"prev_slot"`
	NextSlot     uint64             `json:"next_slot"`
	HasPrevious  bool               `json:"has_prev"`
	HasNext      bool               `json:"has_next"`
	Tab          string             `json:"tab"`
	Status       SlotStatus         `json:"status"`
	Ts           time.Time          `json:"time"`
	HasTs        bool               `json:"has_ts"`
	Version      string             `json:"version"`
	Finalized    bool               `json:"finalized"`
	Proposer     uint64             `json:"proposer"`
	ProposerName string             `json:"proposer_name"`
	BlockRoot    []byte             `json:"blockroot"`
	Block        *SlotPageBlockData `json:"block"`
}

type SlotPageBlockData struct {
	ParentRoot             []byte  `json:"parentroot"`
	StateRoot              []byte  `json:"stateroot"`
	Signature              []byte  `json:"signature"`
	RandaoReveal           []byte  `json:"randaoreveal"`
	Graffiti               []byte  `json:"graffiti"`
	Eth1dataDepositroot    []byte  `json:"eth1data_depositroot"`
	Eth1dataDepositcount   uint64  `json:"eth1data_depositcount"`
	Eth1dataBlockhash      []byte  `json:"eth1data_blockhash"`
	HasSyncAggregate       bool    `json:"has_syncaggregate"`
	SyncAggregateBits      []byte  `json:"syncaggregate_bits"`
	SyncAggregateSignature []byte  `json:"syncaggregate_signature"`
	SyncAggParticipation   float64 `json:"syncaggregate_participation"`
	HasAttestations        bool    `json:"has_attestations"`
	AttestationsCount      uint64  `json:"attestations_count"`
	DepositsCount          uint64  `json:"deposits_count"`
	VoluntaryExitsCount    uint64  `json:"voluntaryexits_count"`
	ProposerSlashingsCount uint64  `json:"proposer_slashings_count"`
	AttesterSlashingsCount uint64  `json:"attester_slashings_count"`

	ExecutionData *SlotPageExecutionData `json:"execution_data"`
	Attestations  []*SlotPageAttestation `json:"attestations"`
}

type SlotPageExecutionData struct {
	ParentHash        []byte    `json:"parent_hash"`
	FeeRecipient      []byte    `json:"fee_recipient"`
	BlockHash         []byte    `json:"block_hash"`
	BlockNumber       uint64    `json:"block_number"`
	GasLimit          uint64    `json:"gas_limit"`
	GasUsed           uint64    `json:"gas_used"`
	Timestamp         uint64    `json:"timestamp"`
	Time              time.Time `json:"time"`
	BaseFeePerGas     uint64    `json:"base_fee_per_gas"`
	TransactionsCount uint64    `json:"transactions_count"`
}

type CommitteeStatus uint8

const (
	CommitteeStatusReady CommitteeStatus = iota
	CommitteeStatusLoading
	CommitteeStatusUnavailable
)

type SlotPageAttestation struct {
	Index              uint64                 `json:"index"`
	Slot               uint64                 `json:"slot"`
	CommitteeIndex     uint64                 `json:"committeeindex"`
	AggregationBits    []byte                 `json:"aggregationbits"`
	IncludedValidators uint64                 `json:"included_validators"`
	CommitteeSize      uint64                 `json:"committee_size"`
	CommitteeStatus    CommitteeStatus        `json:"committee_status"`
	Validators         []types.NamedValidator `json:"validators"`
	BeaconBlockRoot    []byte                 `json:"beaconblockroot"`
	SourceEpoch        uint64                 `json:"source_epoch"`
	SourceRoot         []byte                 `json:"source_root"`
	TargetEpoch        uint64                 `json:"target_epoch"`
	TargetRoot         []byte                 `json:"target_root"`
	Signature          []byte                 `json:"signature"`
}
