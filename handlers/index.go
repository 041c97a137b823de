package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types/models"
	"github.com/ethpandaops/slotscope/utils"
)

const indexBlockCount = 8

// Index will return the main "index" page using a go template
func Index(w http.ResponseWriter, r *http.Request) {
	var indexTemplateFiles = append(layoutTemplateFiles,
		"index/index.html",
	)
	var pageTemplate = templates.GetTemplate(indexTemplateFiles...)

	pageData, pageError := getIndexPageData()
	if pageError != nil {
		handlePageError(w, r, pageError)
		return
	}

	data := InitPageData(w, r, "blockchain", "/", "", indexTemplateFiles)
	data.Data = pageData
	w.Header().Set("Content-Type", "text/html")
	if handleTemplateError(w, r, "index.go", "Index", "", pageTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}

func getIndexPageData() (*models.IndexPageData, error) {
	pageData := &models.IndexPageData{}
	pageRes, pageErr := services.GlobalFrontendCache.ProcessCachedPage("index", true, pageData, func(pageCall *services.FrontendCacheProcessingPage) interface{} {
		pageData, cacheTimeout := buildIndexPageData(pageCall.CallCtx)
		pageCall.CacheTimeout = cacheTimeout
		return pageData
	})
	if pageErr == nil && pageRes != nil {
		resData, resOk := pageRes.(*models.IndexPageData)
		if !resOk {
			return nil, ErrInvalidPageModel
		}
		pageData = resData
	}
	return pageData, pageErr
}

func buildIndexPageData(ctx context.Context) (*models.IndexPageData, time.Duration) {
	logrus.Debugf("index page called")

	pageData := &models.IndexPageData{
		NetworkName: utils.Config.Chain.DisplayName,
	}

	beaconService := services.GlobalBeaconService
	if genesisRes := beaconService.GetGenesis(ctx); genesisRes.IsReady() {
		pageData.HasConsensus = true
		pageData.GenesisTime = utils.TimestampToTime(&genesisRes.Value.Data.GenesisTime.Int)

		if wallclock := beaconService.GetWallclock(ctx); wallclock != nil {
			// fails before genesis
			if slot, epoch, err := wallclock.Now(); err == nil {
				pageData.CurrentSlot = slot.Number()
				pageData.CurrentEpoch = epoch.Number()
			}
		}
	}

	executionService := services.GlobalExecutionService
	if executionService.IsConfigured() {
		blocks, err := executionService.GetChartBlocks(ctx, indexBlockCount)
		if err != nil {
			logrus.WithError(err).Warnf("failed loading latest blocks")
		} else if len(blocks) > 0 {
			pageData.HasExecution = true
			pageData.LatestBlockNumber = blocks[0].Number
			pageData.LatestBlocks = make([]*models.IndexPageDataBlock, len(blocks))
			for i, block := range blocks {
				pageData.LatestBlocks[i] = &models.IndexPageDataBlock{
					Number:   block.Number,
					Hash:     block.Hash.Bytes(),
					Ts:       time.Unix(int64(block.Timestamp), 0).UTC(),
					GasUsed:  block.GasUsed,
					GasLimit: block.GasLimit,
				}
			}
		}
	}

	return pageData, 6 * time.Second
}
