package services

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ethpandaops/slotscope/charts"
	"github.com/ethpandaops/slotscope/clients/execution/rpc"
	"github.com/ethpandaops/slotscope/utils"
)

var executionLogger = logrus.StandardLogger().WithField("module", "execution")

var ErrExecutionUnconfigured = errors.New("no execution api endpoint configured")

// ExecutionClient is the subset of the execution rpc client used by the execution service.
type ExecutionClient interface {
	GetClientVersion(ctx context.Context) (string, error)
	GetLatestBlockNumber(ctx context.Context) (uint64, error)
	GetHeaderByNumber(ctx context.Context, number uint64) (*types.Header, error)
	GetBlockByNumber(ctx context.Context, number uint64) (*types.Block, error)
	GetBlockByHash(ctx context.Context, hash common.Hash) (*types.Block, error)
	GetTransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error)
	GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	GetBalanceAt(ctx context.Context, wallet common.Address, blockNumber *big.Int) (*big.Int, error)
	GetNonceAt(ctx context.Context, wallet common.Address, blockNumber *big.Int) (uint64, error)
	GetCodeAt(ctx context.Context, wallet common.Address, blockNumber *big.Int) ([]byte, error)
	GetBlockDetails(ctx context.Context, number uint64) (*rpc.BlockDetails, error)
	GetBlockIssuance(ctx context.Context, number uint64) (*rpc.BlockIssuance, error)
}

type ExecutionService struct {
	client ExecutionClient
}

var GlobalExecutionService *ExecutionService

// StartExecutionService is used to start the global execution service
func StartExecutionService(ctx context.Context) error {
	if GlobalExecutionService != nil {
		return nil
	}

	var client ExecutionClient
	if utils.Config.ExecutionApi.Endpoint != "" {
		rpcClient := rpc.NewExecutionClient("execution", utils.Config.ExecutionApi.Endpoint, utils.Config.ExecutionApi.Headers)
		err := rpcClient.Initialize(ctx)
		if err != nil {
			return err
		}
		client = rpcClient
	} else {
		executionLogger.Warnf("no execution api endpoint configured, execution pages are disabled")
	}

	GlobalExecutionService = NewExecutionService(client)
	return nil
}

func NewExecutionService(client ExecutionClient) *ExecutionService {
	return &ExecutionService{
		client: client,
	}
}

func (es *ExecutionService) IsConfigured() bool {
	return es.client != nil
}

// CheckConnection returns the client version of the execution node
func (es *ExecutionService) CheckConnection(ctx context.Context) (string, error) {
	if es.client == nil {
		return "", ErrExecutionUnconfigured
	}
	if _, err := es.client.GetLatestBlockNumber(ctx); err != nil {
		return "", err
	}
	return es.client.GetClientVersion(ctx)
}

func (es *ExecutionService) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	if es.client == nil {
		return 0, ErrExecutionUnconfigured
	}
	return es.client.GetLatestBlockNumber(ctx)
}

func (es *ExecutionService) GetBlockByNumber(ctx context.Context, number uint64) (*types.Block, error) {
	if es.client == nil {
		return nil, ErrExecutionUnconfigured
	}
	return es.client.GetBlockByNumber(ctx, number)
}

func (es *ExecutionService) GetBlockByHash(ctx context.Context, hash common.Hash) (*types.Block, error) {
	if es.client == nil {
		return nil, ErrExecutionUnconfigured
	}
	return es.client.GetBlockByHash(ctx, hash)
}

// GetBlockDetails returns the otterscan block details, nil if the node does not support them.
func (es *ExecutionService) GetBlockDetails(ctx context.Context, number uint64) *rpc.BlockDetails {
	if es.client == nil {
		return nil
	}
	details, err := es.client.GetBlockDetails(ctx, number)
	if err != nil {
		executionLogger.WithError(err).Debugf("ots_getBlockDetails unavailable for block %v", number)
		return nil
	}
	return details
}

type TransactionDetails struct {
	Transaction *types.Transaction
	Pending     bool
	Receipt     *types.Receipt
	From        *common.Address
}

func (es *ExecutionService) GetTransaction(ctx context.Context, txHash common.Hash) (*TransactionDetails, error) {
	if es.client == nil {
		return nil, ErrExecutionUnconfigured
	}

	tx, pending, err := es.client.GetTransactionByHash(ctx, txHash)
	if err != nil {
		return nil, err
	}

	details := &TransactionDetails{
		Transaction: tx,
		Pending:     pending,
	}

	if signer := types.LatestSignerForChainID(tx.ChainId()); signer != nil {
		if from, err := types.Sender(signer, tx); err == nil {
			details.From = &from
		}
	}

	if !pending {
		receipt, err := es.client.GetTransactionReceipt(ctx, txHash)
		if err != nil {
			executionLogger.WithError(err).Warnf("failed loading receipt of tx %v", txHash.Hex())
		} else {
			details.Receipt = receipt
		}
	}

	return details, nil
}

type AddressDetails struct {
	Address common.Address
	Balance *big.Int
	Nonce   uint64
	Code    []byte
}

func (es *ExecutionService) GetAddress(ctx context.Context, address common.Address) (*AddressDetails, error) {
	if es.client == nil {
		return nil, ErrExecutionUnconfigured
	}

	details := &AddressDetails{
		Address: address,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		balance, err := es.client.GetBalanceAt(gctx, address, nil)
		details.Balance = balance
		return err
	})
	g.Go(func() error {
		nonce, err := es.client.GetNonceAt(gctx, address, nil)
		details.Nonce = nonce
		return err
	})
	g.Go(func() error {
		code, err := es.client.GetCodeAt(gctx, address, nil)
		details.Code = code
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetChartBlocks loads the latest count blocks, newest first.
// Issuance totals stay nil when the node does not serve erigon_watchTheBurn.
func (es *ExecutionService) GetChartBlocks(ctx context.Context, count int) ([]*charts.ChartBlock, error) {
	if es.client == nil {
		return nil, ErrExecutionUnconfigured
	}

	latest, err := es.client.GetLatestBlockNumber(ctx)
	if err != nil {
		return nil, err
	}

	if uint64(count) > latest+1 {
		count = int(latest + 1)
	}

	blocks := make([]*charts.ChartBlock, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := 0; i < count; i++ {
		number := latest - uint64(i)
		g.Go(func() error {
			block, err := es.loadChartBlock(gctx, number)
			if err != nil {
				return err
			}
			blocks[i] = block
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (es *ExecutionService) loadChartBlock(ctx context.Context, number uint64) (*charts.ChartBlock, error) {
	header, err := es.client.GetHeaderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	block := &charts.ChartBlock{
		Number:    number,
		Hash:      header.Hash(),
		Timestamp: header.Time,
		GasUsed:   header.GasUsed,
		GasLimit:  header.GasLimit,
		BaseFee:   header.BaseFee,
	}

	issuance, err := es.client.GetBlockIssuance(ctx, number)
	if err != nil {
		executionLogger.WithError(err).Debugf("erigon_watchTheBurn unavailable for block %v", number)
	} else if issuance != nil {
		block.TotalIssued = hexBigToInt(issuance.TotalIssued)
		block.TotalBurnt = hexBigToInt(issuance.TotalBurnt)
		block.BlockReward = hexBigToInt(issuance.BlockReward)
		block.UncleReward = hexBigToInt(issuance.UncleReward)
		block.FeeReward = hexBigToInt(issuance.Tips)
	}

	return block, nil
}

func hexBigToInt(v *hexutil.Big) *big.Int {
	if v == nil {
		return nil
	}
	return v.ToInt()
}
