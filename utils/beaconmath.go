package utils

import (
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/holiman/uint256"
)

// ChainSpec holds the slot timing parameters of a consensus chain.
type ChainSpec struct {
	SlotsPerEpoch  uint64
	SecondsPerSlot uint64
}

// CurrentChainSpec returns the chain spec of the loaded configuration
func CurrentChainSpec() ChainSpec {
	return ChainSpec{
		SlotsPerEpoch:  Config.Chain.Config.SlotsPerEpoch,
		SecondsPerSlot: Config.Chain.Config.SecondsPerSlot,
	}
}

// EpochOfSlot returns the corresponding epoch of a slot
func (cs ChainSpec) EpochOfSlot(slot uint64) uint64 {
	return slot / cs.SlotsPerEpoch
}

// EpochStartSlot returns the first slot of an epoch
func (cs ChainSpec) EpochStartSlot(epoch uint64) uint64 {
	return epoch * cs.SlotsPerEpoch
}

// MaxEpoch returns the last epoch whose slots are all representable as uint64
func (cs ChainSpec) MaxEpoch() uint64 {
	if cs.SlotsPerEpoch == 0 {
		return 0
	}
	return (math.MaxUint64 - (cs.SlotsPerEpoch - 1)) / cs.SlotsPerEpoch
}

// EpochSlots yields the slots of an epoch, newest first.
// Epochs beyond MaxEpoch yield nothing.
func (cs ChainSpec) EpochSlots(epoch uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		if cs.SlotsPerEpoch == 0 || epoch > cs.MaxEpoch() {
			return
		}
		firstSlot := cs.EpochStartSlot(epoch)
		for offset := cs.SlotsPerEpoch; offset > 0; offset-- {
			if !yield(firstSlot + offset - 1) {
				return
			}
		}
	}
}

// SlotTimestamp returns genesis + slot * SECONDS_PER_SLOT
func (cs ChainSpec) SlotTimestamp(genesisTime *uint256.Int, slot uint64) (*uint256.Int, error) {
	return addScaled(genesisTime, slot, cs.SecondsPerSlot)
}

// EpochTimestamp returns genesis + epoch * SLOTS_PER_EPOCH * SECONDS_PER_SLOT
func (cs ChainSpec) EpochTimestamp(genesisTime *uint256.Int, epoch uint64) (*uint256.Int, error) {
	epochDuration, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(cs.SlotsPerEpoch), uint256.NewInt(cs.SecondsPerSlot))
	if overflow {
		return nil, fmt.Errorf("epoch duration overflow")
	}
	if !epochDuration.IsUint64() {
		return nil, fmt.Errorf("epoch duration exceeds uint64")
	}
	return addScaled(genesisTime, epoch, epochDuration.Uint64())
}

func addScaled(base *uint256.Int, index uint64, factor uint64) (*uint256.Int, error) {
	if base == nil {
		return nil, fmt.Errorf("missing genesis time")
	}
	offset, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(index), uint256.NewInt(factor))
	if overflow {
		return nil, fmt.Errorf("timestamp offset overflow")
	}
	result, overflow := new(uint256.Int).AddOverflow(base, offset)
	if overflow {
		return nil, fmt.Errorf("timestamp overflow")
	}
	return result, nil
}

// latest instant that still marshals to RFC 3339 (9999-12-31T23:59:59Z)
const maxTimestamp = 253402300799

// TimestampToTime converts a unix timestamp to time.Time, clamping values beyond year 9999
func TimestampToTime(ts *uint256.Int) time.Time {
	if ts == nil {
		return time.Time{}
	}
	if !ts.IsUint64() || ts.Uint64() > maxTimestamp {
		return time.Unix(maxTimestamp, 0).UTC()
	}
	return time.Unix(int64(ts.Uint64()), 0).UTC()
}
