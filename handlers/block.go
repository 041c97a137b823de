package handlers

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/charts"
	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types/models"
)

// Block will return the execution "block" page using a go template, the id may be a block number or hash
func Block(w http.ResponseWriter, r *http.Request) {
	var blockTemplateFiles = append(layoutTemplateFiles,
		"block/block.html",
	)
	var pageTemplate = templates.GetTemplate(blockTemplateFiles...)

	blockId := routeVar(r, "id")
	var blockNumber *uint64
	var blockHash *common.Hash
	if strings.HasPrefix(blockId, "0x") {
		hashBytes, err := hexutil.Decode(blockId)
		if err != nil || len(hashBytes) != common.HashLength {
			NotFound(w, r)
			return
		}
		hash := common.BytesToHash(hashBytes)
		blockHash = &hash
	} else {
		number, err := strconv.ParseUint(blockId, 10, 64)
		if err != nil {
			NotFound(w, r)
			return
		}
		blockNumber = &number
	}

	pageData, pageError := getBlockPageData(blockNumber, blockHash)
	if pageError != nil {
		handlePageError(w, r, pageError)
		return
	}
	if pageData == nil {
		NotFound(w, r)
		return
	}

	data := InitPageData(w, r, "blockchain", "/block", fmt.Sprintf("Block #%v", pageData.Number), blockTemplateFiles)
	data.Data = pageData
	w.Header().Set("Content-Type", "text/html")
	if handleTemplateError(w, r, "block.go", "Block", "", pageTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}

func getBlockPageData(blockNumber *uint64, blockHash *common.Hash) (*models.BlockPageData, error) {
	pageData := &models.BlockPageData{}
	var pageCacheKey string
	if blockHash != nil {
		pageCacheKey = fmt.Sprintf("block:%v", blockHash.Hex())
	} else {
		pageCacheKey = fmt.Sprintf("block:%v", *blockNumber)
	}
	pageRes, pageErr := services.GlobalFrontendCache.ProcessCachedPage(pageCacheKey, true, pageData, func(pageCall *services.FrontendCacheProcessingPage) interface{} {
		pageData, cacheTimeout := buildBlockPageData(pageCall.CallCtx, blockNumber, blockHash)
		pageCall.CacheTimeout = cacheTimeout
		return pageData
	})
	if pageErr == nil && pageRes != nil {
		resData, resOk := pageRes.(*models.BlockPageData)
		if !resOk {
			return nil, ErrInvalidPageModel
		}
		pageData = resData
	}
	return pageData, pageErr
}

func loadExecutionBlock(ctx context.Context, blockNumber *uint64, blockHash *common.Hash) (*ethtypes.Block, error) {
	if blockHash != nil {
		return services.GlobalExecutionService.GetBlockByHash(ctx, *blockHash)
	}
	return services.GlobalExecutionService.GetBlockByNumber(ctx, *blockNumber)
}

func buildBlockPageData(ctx context.Context, blockNumber *uint64, blockHash *common.Hash) (*models.BlockPageData, time.Duration) {
	logrus.Debugf("block page called: %v / %v", blockNumber, blockHash)

	block, err := loadExecutionBlock(ctx, blockNumber, blockHash)
	if err != nil || block == nil {
		logrus.WithError(err).Debugf("block not found")
		return nil, 0
	}

	pageData := &models.BlockPageData{
		Number:           block.NumberU64(),
		Hash:             block.Hash().Bytes(),
		ParentHash:       block.ParentHash().Bytes(),
		Ts:               time.Unix(int64(block.Time()), 0).UTC(),
		FeeRecipient:     block.Coinbase().Bytes(),
		GasUsed:          block.GasUsed(),
		GasLimit:         block.GasLimit(),
		GasTarget:        charts.GasTarget(block.GasLimit()),
		OverGasTarget:    charts.IsOverGasTarget(block.GasUsed(), block.GasLimit()),
		TransactionCount: uint64(len(block.Transactions())),
		UncleCount:       uint64(len(block.Uncles())),
		Size:             block.Size(),
		ExtraData:        block.Extra(),
		StateRoot:        block.Root().Bytes(),
		Nonce:            block.Nonce(),
	}

	if baseFee := block.BaseFee(); baseFee != nil {
		pageData.HasBaseFee = true
		pageData.BaseFee = baseFee.Uint64()
		pageData.BurntFees = new(big.Int).Mul(new(big.Int).SetUint64(block.GasUsed()), baseFee)
	}

	if details := services.GlobalExecutionService.GetBlockDetails(ctx, pageData.Number); details != nil {
		if details.Issuance.BlockReward != nil {
			pageData.BlockReward = details.Issuance.BlockReward.ToInt()
		}
		if details.Issuance.UncleReward != nil {
			pageData.UncleReward = details.Issuance.UncleReward.ToInt()
		}
		if details.TotalFees != nil {
			pageData.TotalFees = details.TotalFees.ToInt()
		}
	}

	// blocks near the head can still be reorged
	return pageData, 1 * time.Minute
}
