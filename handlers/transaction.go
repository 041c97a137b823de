package handlers

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types/models"
)

// Transaction will return the "tx" page using a go template
func Transaction(w http.ResponseWriter, r *http.Request) {
	var txTemplateFiles = append(layoutTemplateFiles,
		"transaction/transaction.html",
	)
	var pageTemplate = templates.GetTemplate(txTemplateFiles...)

	hashBytes, err := hexutil.Decode(routeVar(r, "hash"))
	if err != nil || len(hashBytes) != common.HashLength {
		NotFound(w, r)
		return
	}
	txHash := common.BytesToHash(hashBytes)
	tab := routeTab(r, "overview")

	pageData, pageError := getTransactionPageData(txHash, tab)
	if pageError != nil {
		handlePageError(w, r, pageError)
		return
	}
	if pageData == nil {
		NotFound(w, r)
		return
	}

	data := InitPageData(w, r, "blockchain", "/tx", fmt.Sprintf("Transaction %v", txHash.TerminalString()), txTemplateFiles)
	data.Data = pageData
	w.Header().Set("Content-Type", "text/html")
	if handleTemplateError(w, r, "transaction.go", "Transaction", tab, pageTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}

func getTransactionPageData(txHash common.Hash, tab string) (*models.TransactionPageData, error) {
	pageData := &models.TransactionPageData{}
	pageCacheKey := fmt.Sprintf("tx:%v:%v", txHash.Hex(), tab)
	pageRes, pageErr := services.GlobalFrontendCache.ProcessCachedPage(pageCacheKey, true, pageData, func(pageCall *services.FrontendCacheProcessingPage) interface{} {
		pageData, cacheTimeout := buildTransactionPageData(pageCall.CallCtx, txHash, tab)
		pageCall.CacheTimeout = cacheTimeout
		return pageData
	})
	if pageErr == nil && pageRes != nil {
		resData, resOk := pageRes.(*models.TransactionPageData)
		if !resOk {
			return nil, ErrInvalidPageModel
		}
		pageData = resData
	}
	return pageData, pageErr
}

func buildTransactionPageData(ctx context.Context, txHash common.Hash, tab string) (*models.TransactionPageData, time.Duration) {
	logrus.Debugf("tx page called: %v (%v)", txHash.Hex(), tab)

	details, err := services.GlobalExecutionService.GetTransaction(ctx, txHash)
	if err != nil {
		logrus.WithError(err).Debugf("tx %v not found", txHash.Hex())
		return nil, 0
	}

	tx := details.Transaction
	pageData := &models.TransactionPageData{
		Hash:      txHash.Bytes(),
		Tab:       tab,
		Pending:   details.Pending,
		Type:      tx.Type(),
		Value:     tx.Value(),
		Nonce:     tx.Nonce(),
		GasLimit:  tx.Gas(),
		InputData: tx.Data(),
	}
	if details.From != nil {
		pageData.From = details.From.Bytes()
	}
	if to := tx.To(); to != nil {
		pageData.To = to.Bytes()
	}

	if receipt := details.Receipt; receipt != nil {
		pageData.HasReceipt = true
		pageData.Success = receipt.Status == ethtypes.ReceiptStatusSuccessful
		pageData.BlockNumber = receipt.BlockNumber.Uint64()
		pageData.BlockHash = receipt.BlockHash.Bytes()
		pageData.TransactionIndex = uint64(receipt.TransactionIndex)
		pageData.GasUsed = receipt.GasUsed
		pageData.LogsCount = uint64(len(receipt.Logs))
		if receipt.ContractAddress != (common.Address{}) {
			pageData.ContractAddress = receipt.ContractAddress.Bytes()
		}
		if receipt.EffectiveGasPrice != nil {
			pageData.EffectiveGasPrice = receipt.EffectiveGasPrice
			pageData.TransactionFee = new(big.Int).Mul(receipt.EffectiveGasPrice, new(big.Int).SetUint64(receipt.GasUsed))
		}

		if tab == "logs" {
			pageData.Logs = make([]*models.TransactionPageDataLog, len(receipt.Logs))
			for i, log := range receipt.Logs {
				logData := &models.TransactionPageDataLog{
					Index:   uint64(log.Index),
					Address: log.Address.Bytes(),
					Topics:  make([][]byte, len(log.Topics)),
					Data:    log.Data,
				}
				for j, topic := range log.Topics {
					logData.Topics[j] = topic.Bytes()
				}
				pageData.Logs[i] = logData
			}
		}
	}

	if pageData.Pending {
		return pageData, 0
	}
	return pageData, 10 * time.Minute
}
