package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ethpandaops/ethwallclock"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/cache"
	"github.com/ethpandaops/slotscope/clients/consensus/rpc"
	"github.com/ethpandaops/slotscope/rpctypes"
	"github.com/ethpandaops/slotscope/utils"
)

var beaconLogger = logrus.StandardLogger().WithField("module", "beacon")

type BeaconService struct {
	client      *rpc.BeaconClient
	fetchCache  *FetchCache
	chainSpec   utils.ChainSpec
	genesisTime atomic.Pointer[uint256.Int]
	wallclock   atomic.Pointer[ethwallclock.EthereumBeaconChain]
}

var GlobalBeaconService *BeaconService

// StartBeaconService is used to start the global beaconchain service
func StartBeaconService() error {
	if GlobalBeaconService != nil {
		return nil
	}

	var client *rpc.BeaconClient
	var fetchCache *FetchCache
	if utils.Config.BeaconApi.Endpoint != "" {
		client = rpc.NewBeaconClient("beacon", utils.Config.BeaconApi.Endpoint, utils.Config.BeaconApi.Headers, utils.Config.BeaconApi.RequestTimeout)

		cachePrefix := fmt.Sprintf("%srpc-", utils.Config.BeaconApi.RedisCachePrefix)
		tieredCache, err := cache.NewTieredCache(utils.Config.BeaconApi.LocalCacheSize, utils.Config.BeaconApi.RedisCacheAddr, cachePrefix)
		if err != nil {
			return err
		}

		fetchCache = NewFetchCache(client.FetchJSON, tieredCache, utils.Config.BeaconApi.RequestTimeout)
		beaconLogger.Infof("using %v api at %v", client.GetName(), utils.GetRedactedUrl(client.GetEndpoint()))
	} else {
		beaconLogger.Warnf("no beacon api endpoint configured, consensus pages are disabled")
	}

	GlobalBeaconService = NewBeaconService(client, fetchCache, utils.CurrentChainSpec())
	return nil
}

// NewBeaconService creates a beacon service. A nil client turns all accessors into unconfigured results.
func NewBeaconService(client *rpc.BeaconClient, fetchCache *FetchCache, chainSpec utils.ChainSpec) *BeaconService {
	return &BeaconService{
		client:     client,
		fetchCache: fetchCache,
		chainSpec:  chainSpec,
	}
}

func (bs *BeaconService) IsConfigured() bool {
	return bs.client != nil
}

func (bs *BeaconService) GetChainSpec() utils.ChainSpec {
	return bs.chainSpec
}

func loadBeaconResult[T any](ctx context.Context, bs *BeaconService, url string) LoadResult[T] {
	body, err := bs.fetchCache.Load(ctx, url)
	if err != nil {
		return LoadResult[T]{Status: LoadStatusFailed}
	}
	return decodeBeaconResult[T](url, body)
}

func decodeBeaconResult[T any](url string, body []byte) LoadResult[T] {
	value := new(T)
	err := json.Unmarshal(body, value)
	if err != nil {
		beaconLogger.WithError(err).Warnf("failed decoding response of %v", utils.GetRedactedUrl(url))
		return LoadResult[T]{Status: LoadStatusFailed, Raw: body}
	}
	return LoadResult[T]{
		Status: LoadStatusReady,
		Value:  value,
		Raw:    body,
	}
}

func (bs *BeaconService) GetGenesis(ctx context.Context) LoadResult[rpctypes.StandardV1GenesisResponse] {
	if bs.client == nil {
		return LoadResult[rpctypes.StandardV1GenesisResponse]{Status: LoadStatusUnconfigured}
	}
	result := loadBeaconResult[rpctypes.StandardV1GenesisResponse](ctx, bs, bs.client.GenesisURL())
	if result.IsReady() {
		genesisTime := result.Value.Data.GenesisTime.Int
		bs.genesisTime.CompareAndSwap(nil, &genesisTime)
	}
	return result
}

func (bs *BeaconService) GetSlot(ctx context.Context, slot uint64) LoadResult[rpctypes.StandardV2BeaconBlockResponse] {
	if bs.client == nil {
		return LoadResult[rpctypes.StandardV2BeaconBlockResponse]{Status: LoadStatusUnconfigured}
	}
	return loadBeaconResult[rpctypes.StandardV2BeaconBlockResponse](ctx, bs, bs.client.BlockURL(slot))
}

func (bs *BeaconService) GetBlockRoot(ctx context.Context, slot uint64) LoadResult[rpctypes.StandardV1BlockRootResponse] {
	if bs.client == nil {
		return LoadResult[rpctypes.StandardV1BlockRootResponse]{Status: LoadStatusUnconfigured}
	}
	return loadBeaconResult[rpctypes.StandardV1BlockRootResponse](ctx, bs, bs.client.BlockRootURL(slot))
}

func (bs *BeaconService) GetValidator(ctx context.Context, index uint64) LoadResult[rpctypes.StandardV1StateValidatorResponse] {
	if bs.client == nil {
		return LoadResult[rpctypes.StandardV1StateValidatorResponse]{Status: LoadStatusUnconfigured}
	}
	return loadBeaconResult[rpctypes.StandardV1StateValidatorResponse](ctx, bs, bs.client.ValidatorURL(index))
}

// GetCommittee loads the committee of a slot, the epoch filter is derived from the slot.
func (bs *BeaconService) GetCommittee(ctx context.Context, slot uint64, committeeIndex uint64) LoadResult[rpctypes.StandardV1CommitteesResponse] {
	if bs.client == nil {
		return LoadResult[rpctypes.StandardV1CommitteesResponse]{Status: LoadStatusUnconfigured}
	}
	return loadBeaconResult[rpctypes.StandardV1CommitteesResponse](ctx, bs, bs.committeeURL(slot, committeeIndex))
}

// LookupCommittee returns the committee if it has been loaded before, otherwise a pending result while it loads in background.
func (bs *BeaconService) LookupCommittee(slot uint64, committeeIndex uint64) LoadResult[rpctypes.StandardV1CommitteesResponse] {
	if bs.client == nil {
		return LoadResult[rpctypes.StandardV1CommitteesResponse]{Status: LoadStatusUnconfigured}
	}
	url := bs.committeeURL(slot, committeeIndex)
	body, ready := bs.fetchCache.Lookup(url)
	if !ready {
		return LoadResult[rpctypes.StandardV1CommitteesResponse]{Status: LoadStatusPending}
	}
	return decodeBeaconResult[rpctypes.StandardV1CommitteesResponse](url, body)
}

func (bs *BeaconService) committeeURL(slot uint64, committeeIndex uint64) string {
	return bs.client.CommitteeURL(bs.chainSpec.EpochOfSlot(slot), slot, committeeIndex)
}

func (bs *BeaconService) getGenesisTime(ctx context.Context) (*uint256.Int, LoadStatus) {
	if genesisTime := bs.genesisTime.Load(); genesisTime != nil {
		return genesisTime, LoadStatusReady
	}
	genesis := bs.GetGenesis(ctx)
	if !genesis.IsReady() {
		return nil, genesis.Status
	}
	return bs.genesisTime.Load(), LoadStatusReady
}

// GetWallclock returns the slot clock of the chain, nil while the genesis is unknown
func (bs *BeaconService) GetWallclock(ctx context.Context) *ethwallclock.EthereumBeaconChain {
	if wallclock := bs.wallclock.Load(); wallclock != nil {
		return wallclock
	}
	genesisTime, status := bs.getGenesisTime(ctx)
	if status != LoadStatusReady {
		return nil
	}

	wallclock := ethwallclock.NewEthereumBeaconChain(utils.TimestampToTime(genesisTime), time.Duration(bs.chainSpec.SecondsPerSlot)*time.Second, bs.chainSpec.SlotsPerEpoch)
	if !bs.wallclock.CompareAndSwap(nil, wallclock) {
		wallclock.Stop()
		return bs.wallclock.Load()
	}
	return wallclock
}

// GetSlotTimestamp returns the unix timestamp of a slot. A nil slot yields a pending result.
func (bs *BeaconService) GetSlotTimestamp(ctx context.Context, slot *uint64) LoadResult[uint256.Int] {
	if bs.client == nil {
		return LoadResult[uint256.Int]{Status: LoadStatusUnconfigured}
	}
	if slot == nil {
		return LoadResult[uint256.Int]{Status: LoadStatusPending}
	}
	genesisTime, status := bs.getGenesisTime(ctx)
	if status != LoadStatusReady {
		return LoadResult[uint256.Int]{Status: status}
	}
	timestamp, err := bs.chainSpec.SlotTimestamp(genesisTime, *slot)
	if err != nil {
		beaconLogger.WithError(err).Warnf("failed computing timestamp of slot %v", *slot)
		return LoadResult[uint256.Int]{Status: LoadStatusFailed}
	}
	return LoadResult[uint256.Int]{Status: LoadStatusReady, Value: timestamp}
}

// GetEpochTimestamp returns the unix timestamp of the first slot of an epoch. A nil epoch yields a pending result.
func (bs *BeaconService) GetEpochTimestamp(ctx context.Context, epoch *uint64) LoadResult[uint256.Int] {
	if bs.client == nil {
		return LoadResult[uint256.Int]{Status: LoadStatusUnconfigured}
	}
	if epoch == nil {
		return LoadResult[uint256.Int]{Status: LoadStatusPending}
	}
	genesisTime, status := bs.getGenesisTime(ctx)
	if status != LoadStatusReady {
		return LoadResult[uint256.Int]{Status: status}
	}
	timestamp, err := bs.chainSpec.EpochTimestamp(genesisTime, *epoch)
	if err != nil {
		beaconLogger.WithError(err).Warnf("failed computing timestamp of epoch %v", *epoch)
		return LoadResult[uint256.Int]{Status: LoadStatusFailed}
	}
	return LoadResult[uint256.Int]{Status: LoadStatusReady, Value: timestamp}
}

// CheckConnection queries the beacon node, returns nil status if no endpoint is configured.
func (bs *BeaconService) CheckConnection(ctx context.Context) (*rpc.NodeStatus, error) {
	if bs.client == nil {
		return nil, nil
	}
	return bs.client.CheckConnection(ctx)
}
