package rpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

type ExecutionClient struct {
	name      string
	endpoint  string
	headers   map[string]string
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// BlockIssuance is the per block issuance summary returned by erigon_watchTheBurn.
type BlockIssuance struct {
	BlockReward *hexutil.Big `json:"blockReward"`
	UncleReward *hexutil.Big `json:"uncleReward"`
	Issuance    *hexutil.Big `json:"issuance"`
	Burnt       *hexutil.Big `json:"burnt"`
	TotalIssued *hexutil.Big `json:"totalIssued"`
	TotalBurnt  *hexutil.Big `json:"totalBurnt"`
	Tips        *hexutil.Big `json:"tips"`
}

// BlockDetails is the subset of the otterscan ots_getBlockDetails response used by the block page.
type BlockDetails struct {
	Block struct {
		TransactionCount uint64 `json:"transactionCount"`
	} `json:"block"`
	Issuance struct {
		BlockReward *hexutil.Big `json:"blockReward"`
		UncleReward *hexutil.Big `json:"uncleReward"`
		Issuance    *hexutil.Big `json:"issuance"`
	} `json:"issuance"`
	TotalFees *hexutil.Big `json:"totalFees"`
}

// NewExecutionClient is used to create a new execution client
func NewExecutionClient(name, endpoint string, headers map[string]string) *ExecutionClient {
	return &ExecutionClient{
		name:     name,
		endpoint: endpoint,
		headers:  headers,
	}
}

func (ec *ExecutionClient) GetName() string {
	return ec.name
}

func (ec *ExecutionClient) Initialize(ctx context.Context) error {
	if ec.ethClient != nil {
		return nil
	}

	rpcClient, err := rpc.DialContext(ctx, ec.endpoint)
	if err != nil {
		return err
	}

	for hKey, hVal := range ec.headers {
		rpcClient.SetHeader(hKey, hVal)
	}

	ec.rpcClient = rpcClient
	ec.ethClient = ethclient.NewClient(rpcClient)

	return nil
}

func (ec *ExecutionClient) Close() {
	if ec.rpcClient != nil {
		ec.rpcClient.Close()
	}
}

func (ec *ExecutionClient) GetClientVersion(ctx context.Context) (string, error) {
	var result string
	err := ec.rpcClient.CallContext(ctx, &result, "web3_clientVersion")

	return result, err
}

func (ec *ExecutionClient) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	return ec.ethClient.BlockNumber(ctx)
}

func (ec *ExecutionClient) GetHeaderByNumber(ctx context.Context, number uint64) (*types.Header, error) {
	return ec.ethClient.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
}

func (ec *ExecutionClient) GetBlockByNumber(ctx context.Context, number uint64) (*types.Block, error) {
	return ec.ethClient.BlockByNumber(ctx, new(big.Int).SetUint64(number))
}

func (ec *ExecutionClient) GetBlockByHash(ctx context.Context, hash common.Hash) (*types.Block, error) {
	return ec.ethClient.BlockByHash(ctx, hash)
}

func (ec *ExecutionClient) GetTransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error) {
	return ec.ethClient.TransactionByHash(ctx, txHash)
}

func (ec *ExecutionClient) GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return ec.ethClient.TransactionReceipt(ctx, txHash)
}

func (ec *ExecutionClient) GetBalanceAt(ctx context.Context, wallet common.Address, blockNumber *big.Int) (*big.Int, error) {
	return ec.ethClient.BalanceAt(ctx, wallet, blockNumber)
}

func (ec *ExecutionClient) GetNonceAt(ctx context.Context, wallet common.Address, blockNumber *big.Int) (uint64, error) {
	return ec.ethClient.NonceAt(ctx, wallet, blockNumber)
}

func (ec *ExecutionClient) GetCodeAt(ctx context.Context, wallet common.Address, blockNumber *big.Int) ([]byte, error) {
	return ec.ethClient.CodeAt(ctx, wallet, blockNumber)
}

// GetBlockDetails calls the otterscan ots_getBlockDetails extension.
func (ec *ExecutionClient) GetBlockDetails(ctx context.Context, number uint64) (*BlockDetails, error) {
	var result *BlockDetails
	err := ec.rpcClient.CallContext(ctx, &result, "ots_getBlockDetails", hexutil.Uint64(number))
	return result, err
}

// GetBlockIssuance calls the erigon erigon_watchTheBurn extension.
func (ec *ExecutionClient) GetBlockIssuance(ctx context.Context, number uint64) (*BlockIssuance, error) {
	var result *BlockIssuance
	err := ec.rpcClient.CallContext(ctx, &result, "erigon_watchTheBurn", hexutil.Uint64(number))
	return result, err
}
