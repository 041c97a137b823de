package utils

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochSlots(t *testing.T) {
	tests := []struct {
		name     string
		spec     ChainSpec
		epoch    uint64
		expected []uint64
	}{
		{
			name:     "genesis epoch",
			spec:     ChainSpec{SlotsPerEpoch: 4, SecondsPerSlot: 12},
			epoch:    0,
			expected: []uint64{3, 2, 1, 0},
		},
		{
			name:     "minimal preset",
			spec:     ChainSpec{SlotsPerEpoch: 8, SecondsPerSlot: 6},
			epoch:    3,
			expected: []uint64{31, 30, 29, 28, 27, 26, 25, 24},
		},
		{
			name:     "last representable epoch",
			spec:     ChainSpec{SlotsPerEpoch: 4, SecondsPerSlot: 12},
			epoch:    math.MaxUint64 / 4,
			expected: []uint64{math.MaxUint64, math.MaxUint64 - 1, math.MaxUint64 - 2, math.MaxUint64 - 3},
		},
		{
			name:     "start slot overflows",
			spec:     ChainSpec{SlotsPerEpoch: 32, SecondsPerSlot: 12},
			epoch:    1 << 59,
			expected: nil,
		},
		{
			name:     "max uint64 epoch",
			spec:     ChainSpec{SlotsPerEpoch: 32, SecondsPerSlot: 12},
			epoch:    math.MaxUint64,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slices.Collect(tt.spec.EpochSlots(tt.epoch)))
		})
	}
}

func TestMaxEpoch(t *testing.T) {
	spec := ChainSpec{SlotsPerEpoch: 32, SecondsPerSlot: 12}
	assert.Equal(t, uint64(1<<59-1), spec.MaxEpoch())
	assert.Equal(t, uint64(math.MaxUint64), spec.EpochStartSlot(spec.MaxEpoch())+31)

	assert.Equal(t, uint64(math.MaxUint64), ChainSpec{SlotsPerEpoch: 1}.MaxEpoch())
	assert.Equal(t, uint64(0), ChainSpec{}.MaxEpoch())
}

func TestEpochSlotsMainnet(t *testing.T) {
	spec := ChainSpec{SlotsPerEpoch: 32, SecondsPerSlot: 12}

	slots := slices.Collect(spec.EpochSlots(5))
	require.Len(t, slots, 32)
	assert.Equal(t, uint64(191), slots[0])
	assert.Equal(t, uint64(160), slots[31])

	for _, slot := range slots {
		assert.Equal(t, uint64(5), spec.EpochOfSlot(slot))
	}
	assert.Equal(t, uint64(160), spec.EpochStartSlot(5))
	assert.Equal(t, uint64(6), spec.EpochOfSlot(192))

	// early break stops the iteration
	count := 0
	for range spec.EpochSlots(5) {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestSlotAndEpochTimestamps(t *testing.T) {
	spec := ChainSpec{SlotsPerEpoch: 32, SecondsPerSlot: 12}
	genesis := uint256.NewInt(1606824023)

	ts, err := spec.SlotTimestamp(genesis, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(1606825223), ts.Uint64())

	ts, err = spec.EpochTimestamp(genesis, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(1606825943), ts.Uint64())

	// no uint64 truncation for huge genesis times
	ts, err = spec.SlotTimestamp(uint256.NewInt(^uint64(0)), 1)
	require.NoError(t, err)
	assert.Equal(t, "18446744073709551627", ts.Dec())

	_, err = spec.SlotTimestamp(nil, 1)
	assert.Error(t, err)

	maxInt := new(uint256.Int).SetAllOne()
	_, err = spec.SlotTimestamp(maxInt, 1)
	assert.Error(t, err)
}

func TestTimestampToTime(t *testing.T) {
	assert.True(t, TimestampToTime(nil).IsZero())
	assert.Equal(t, time.Date(2020, 12, 1, 12, 0, 23, 0, time.UTC), TimestampToTime(uint256.NewInt(1606824023)))

	clamped := TimestampToTime(uint256.NewInt(^uint64(0)))
	assert.Equal(t, 9999, clamped.Year())
	_, err := clamped.MarshalJSON()
	assert.NoError(t, err)

	assert.Equal(t, clamped, TimestampToTime(new(uint256.Int).SetAllOne()))
}
