package models

import (
	"time"
)

// EpochPageData is a struct to hold info for the epoch page
type EpochPageData struct {
	Epoch         uint64    `json:"epoch"`
	PreviousEpoch uint64    `json:"prev_epoch"`
	NextEpoch     uint64    `json:"next_epoch"`
	HasPrevious   bool      `json:"has_prev"`
	HasNext       bool      `json:"has_next"`
	Ts            time.Time `json:"ts"`
	HasTs         bool      `json:"has_ts"`
	Resolved      bool      `json:"resolved"`
	Finalized     bool      `json:"finalized"`

	ProposedCount         uint64  `json:"proposed_count"`
	UnavailableCount      uint64  `json:"unavailable_count"`
	AttestationCount      uint64  `json:"attestation_count"`
	DepositCount          uint64  `json:"deposit_count"`
	ExitCount             uint64  `json:"exit_count"`
	ProposerSlashingCount uint64  `json:"proposer_slashing_count"`
	AttesterSlashingCount uint64  `json:"attester_slashing_count"`
	VotingParticipation   float64 `json:"voting_participation"`
	SyncParticipation     float64 `json:"sync_participation"`
	HasSyncParticipation  bool    `json:"has_sync_participation"`

	Slots []*EpochPageDataSlot `json:"slots"`
}

type EpochPageDataSlot struct {
	Slot                  uint64     `json:"slot"`
	Status                SlotStatus `json:"status"`
	Ts                    time.Time  `json:"ts"`
	HasTs                 bool       `json:"has_ts"`
	Proposer              uint64     `json:"proposer"`
	ProposerName          string     `json:"proposer_name"`
	BlockRoot             []byte     `json:"block_root"`
	AttestationCount      uint64     `json:"attestation_count"`
	DepositCount          uint64     `json:"deposit_count"`
	ExitCount             uint64     `json:"exit_count"`
	ProposerSlashingCount uint64     `json:"proposer_slashing_count"`
	AttesterSlashingCount uint64     `json:"attester_slashing_count"`
	VotedBits             uint64     `json:"voted_bits"`
	TotalBits             uint64     `json:"total_bits"`
	SyncParticipation     float64    `json:"sync_participation"`
	HasSyncAggregate      bool       `json:"has_sync_aggregate"`
}
