package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types/models"
)

// BlockTxs will return the transaction list of an execution block
func BlockTxs(w http.ResponseWriter, r *http.Request) {
	var blockTxsTemplateFiles = append(layoutTemplateFiles,
		"block/txs.html",
	)
	var pageTemplate = templates.GetTemplate(blockTxsTemplateFiles...)

	blockNumber, isValid := parseUintVar(r, "number")
	if !isValid {
		NotFound(w, r)
		return
	}

	pageData, pageError := getBlockTxsPageData(blockNumber)
	if pageError != nil {
		handlePageError(w, r, pageError)
		return
	}
	if pageData == nil {
		NotFound(w, r)
		return
	}

	data := InitPageData(w, r, "blockchain", "/block", fmt.Sprintf("Transactions of Block #%v", blockNumber), blockTxsTemplateFiles)
	data.Data = pageData
	w.Header().Set("Content-Type", "text/html")
	if handleTemplateError(w, r, "block_txs.go", "BlockTxs", "", pageTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}

func getBlockTxsPageData(blockNumber uint64) (*models.BlockTxsPageData, error) {
	pageData := &models.BlockTxsPageData{}
	pageCacheKey := fmt.Sprintf("block_txs:%v", blockNumber)
	pageRes, pageErr := services.GlobalFrontendCache.ProcessCachedPage(pageCacheKey, true, pageData, func(pageCall *services.FrontendCacheProcessingPage) interface{} {
		pageData, cacheTimeout := buildBlockTxsPageData(pageCall.CallCtx, blockNumber)
		pageCall.CacheTimeout = cacheTimeout
		return pageData
	})
	if pageErr == nil && pageRes != nil {
		resData, resOk := pageRes.(*models.BlockTxsPageData)
		if !resOk {
			return nil, ErrInvalidPageModel
		}
		pageData = resData
	}
	return pageData, pageErr
}

func buildBlockTxsPageData(ctx context.Context, blockNumber uint64) (*models.BlockTxsPageData, time.Duration) {
	logrus.Debugf("block txs page called: %v", blockNumber)

	block, err := services.GlobalExecutionService.GetBlockByNumber(ctx, blockNumber)
	if err != nil || block == nil {
		logrus.WithError(err).Debugf("block %v not found", blockNumber)
		return nil, 0
	}

	pageData := &models.BlockTxsPageData{
		Number:       block.NumberU64(),
		Hash:         block.Hash().Bytes(),
		Ts:           time.Unix(int64(block.Time()), 0).UTC(),
		Transactions: make([]*models.BlockTxsPageDataTx, 0, len(block.Transactions())),
	}

	for idx, tx := range block.Transactions() {
		txData := &models.BlockTxsPageDataTx{
			Index:    uint64(idx),
			Hash:     tx.Hash().Bytes(),
			Type:     tx.Type(),
			Value:    tx.Value(),
			Nonce:    tx.Nonce(),
			GasLimit: tx.Gas(),
		}
		if to := tx.To(); to != nil {
			txData.To = to.Bytes()
		} else {
			txData.IsCreate = true
		}
		if from, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(tx.ChainId()), tx); err == nil {
			txData.From = from.Bytes()
		}
		if data := tx.Data(); len(data) >= 4 {
			txData.Method = data[:4]
		}
		pageData.Transactions = append(pageData.Transactions, txData)
	}

	return pageData, 1 * time.Minute
}
