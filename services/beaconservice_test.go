package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/slotscope/cache"
	"github.com/ethpandaops/slotscope/clients/consensus/rpc"
	"github.com/ethpandaops/slotscope/utils"
)

type mockBeaconNode struct {
	mutex     sync.Mutex
	responses map[string]string
	calls     map[string]int
}

func newMockBeaconNode(responses map[string]string) *mockBeaconNode {
	return &mockBeaconNode{
		responses: responses,
		calls:     map[string]int{},
	}
}

func (m *mockBeaconNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := r.URL.RequestURI()
	m.calls[key]++

	body, found := m.responses[key]
	if !found {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":500,"message":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func (m *mockBeaconNode) callCount(path string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.calls[path]
}

var mainnetSpec = utils.ChainSpec{SlotsPerEpoch: 32, SecondsPerSlot: 12}

func newTestBeaconService(t *testing.T, node *mockBeaconNode) *BeaconService {
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)

	client := rpc.NewBeaconClient("test", srv.URL, nil, time.Second)
	fetchCache := NewFetchCache(client.FetchJSON, cache.NewTieredCacheWithRemote(1, nil), time.Second)
	return NewBeaconService(client, fetchCache, mainnetSpec)
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func TestBeaconServiceUnconfigured(t *testing.T) {
	bs := NewBeaconService(nil, nil, mainnetSpec)
	ctx := context.Background()

	assert.False(t, bs.IsConfigured())
	assert.Equal(t, LoadStatusUnconfigured, bs.GetGenesis(ctx).Status)
	assert.Equal(t, LoadStatusUnconfigured, bs.GetSlot(ctx, 1).Status)
	assert.Equal(t, LoadStatusUnconfigured, bs.GetBlockRoot(ctx, 1).Status)
	assert.Equal(t, LoadStatusUnconfigured, bs.GetValidator(ctx, 1).Status)
	assert.Equal(t, LoadStatusUnconfigured, bs.GetCommittee(ctx, 1, 0).Status)
	assert.Equal(t, LoadStatusUnconfigured, bs.LookupCommittee(1, 0).Status)
	assert.Equal(t, LoadStatusUnconfigured, bs.GetSlotTimestamp(ctx, uint64Ptr(1)).Status)
	assert.Equal(t, LoadStatusUnconfigured, bs.GetEpochTimestamp(ctx, uint64Ptr(1)).Status)
	assert.Nil(t, bs.GetSlot(ctx, 1).Get())
}

func TestBeaconServiceTimestamps(t *testing.T) {
	node := newMockBeaconNode(map[string]string{
		"/eth/v1/beacon/genesis": `{"data":{"genesis_time":"18446744073709551615","genesis_validators_root":"0x4b363db94e286120d76eb905340fdd4e54bfe9f06bf33ff6cf5ad27f511bfe95","genesis_fork_version":"0x00000000"}}`,
	})
	bs := newTestBeaconService(t, node)
	ctx := context.Background()

	tests := []struct {
		name     string
		result   func() LoadResult[uint256.Int]
		expected string
	}{
		{
			name:     "slot 0",
			result:   func() LoadResult[uint256.Int] { return bs.GetSlotTimestamp(ctx, uint64Ptr(0)) },
			expected: "18446744073709551615",
		},
		{
			name:     "slot 10000000 beyond uint64",
			result:   func() LoadResult[uint256.Int] { return bs.GetSlotTimestamp(ctx, uint64Ptr(10_000_000)) },
			expected: "18446744073829551615",
		},
		{
			name:     "epoch 0",
			result:   func() LoadResult[uint256.Int] { return bs.GetEpochTimestamp(ctx, uint64Ptr(0)) },
			expected: "18446744073709551615",
		},
		{
			name:     "epoch 5",
			result:   func() LoadResult[uint256.Int] { return bs.GetEpochTimestamp(ctx, uint64Ptr(5)) },
			expected: "18446744073709553535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.result()
			require.Equal(t, LoadStatusReady, result.Status)
			assert.Equal(t, tt.expected, result.Value.Dec())
		})
	}

	assert.Equal(t, 1, node.callCount("/eth/v1/beacon/genesis"))
	assert.Equal(t, LoadStatusPending, bs.GetSlotTimestamp(ctx, nil).Status)
	assert.Equal(t, LoadStatusPending, bs.GetEpochTimestamp(ctx, nil).Status)
}

func TestBeaconServiceTimestampWithoutGenesis(t *testing.T) {
	bs := newTestBeaconService(t, newMockBeaconNode(map[string]string{}))

	result := bs.GetSlotTimestamp(context.Background(), uint64Ptr(100))
	assert.Equal(t, LoadStatusFailed, result.Status)
	assert.Nil(t, result.Get())
}

func TestBeaconServiceSlot(t *testing.T) {
	node := newMockBeaconNode(map[string]string{
		"/eth/v2/beacon/blocks/200": `{"version":"phase0","data":{"message":{"slot":"200","proposer_index":"17","body":{"graffiti":"0x00","attestations":[],"deposits":[],"unknown_field":{"x":1}}},"signature":"0x01"}}`,
	})
	bs := newTestBeaconService(t, node)
	ctx := context.Background()

	result := bs.GetSlot(ctx, 200)
	require.True(t, result.IsReady())
	assert.Equal(t, uint64(17), uint64(result.Value.Data.Message.ProposerIndex))
	require.NotNil(t, result.Value.Data.Message.Body.Attestations)
	assert.Len(t, *result.Value.Data.Message.Body.Attestations, 0)
	assert.Nil(t, result.Value.Data.Message.Body.SyncAggregate)
	assert.NotEmpty(t, result.Raw)

	// upstream failure
	failed := bs.GetSlot(ctx, 201)
	assert.Equal(t, LoadStatusFailed, failed.Status)
	assert.Nil(t, failed.Get())

	// the failure is retried, the success is not
	bs.GetSlot(ctx, 201)
	bs.GetSlot(ctx, 200)
	assert.Equal(t, 2, node.callCount("/eth/v2/beacon/blocks/201"))
	assert.Equal(t, 1, node.callCount("/eth/v2/beacon/blocks/200"))
}

func TestBeaconServiceDecodeFailure(t *testing.T) {
	node := newMockBeaconNode(map[string]string{
		"/eth/v1/beacon/states/head/validators/3": `{"data":{"index":"3","balance":{"unexpected":true}}}`,
	})
	bs := newTestBeaconService(t, node)

	result := bs.GetValidator(context.Background(), 3)
	assert.Equal(t, LoadStatusFailed, result.Status)
}

func TestBeaconServiceCommittee(t *testing.T) {
	committeePath := "/eth/v1/beacon/states/head/committees?epoch=6&slot=200&index=2"
	node := newMockBeaconNode(map[string]string{
		committeePath: `{"execution_optimistic":false,"data":[{"index":"2","slot":"200","validators":["5","9","12"]}]}`,
	})
	bs := newTestBeaconService(t, node)

	lookup := bs.LookupCommittee(200, 2)
	assert.Equal(t, LoadStatusPending, lookup.Status)

	require.Eventually(t, func() bool {
		return bs.LookupCommittee(200, 2).IsReady()
	}, time.Second, 5*time.Millisecond)

	result := bs.GetCommittee(context.Background(), 200, 2)
	require.True(t, result.IsReady())
	require.Len(t, result.Value.Data, 1)
	assert.Len(t, result.Value.Data[0].Validators, 3)
	assert.Equal(t, uint64(12), uint64(result.Value.Data[0].Validators[2]))
	assert.Equal(t, 1, node.callCount(committeePath))
}
