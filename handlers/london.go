package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"math/big"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/charts"
	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types/models"
	"github.com/ethpandaops/slotscope/utils"
)

var londonChartModes = []struct {
	mode  charts.ChartMode
	label string
}{
	{charts.ChartModeCumulativeIssuance, "Cumulative issuance"},
	{charts.ChartModeGasUsage, "Gas usage"},
	{charts.ChartModeBurntFees, "Burnt fees"},
}

// London will return the fee market chart page using a go template
func London(w http.ResponseWriter, r *http.Request) {
	var londonTemplateFiles = append(layoutTemplateFiles,
		"london/london.html",
	)
	var pageTemplate = templates.GetTemplate(londonTemplateFiles...)

	mode := charts.ChartModeGasUsage
	if modeArg := r.URL.Query().Get("mode"); modeArg != "" {
		parsedMode, err := charts.ParseChartMode(modeArg)
		if err != nil {
			NotFound(w, r)
			return
		}
		mode = parsedMode
	}

	pageData, pageError := getLondonPageData(mode)
	if pageError != nil {
		handlePageError(w, r, pageError)
		return
	}

	data := InitPageData(w, r, "blockchain", "/special/london", "Fee Market", londonTemplateFiles)
	data.Data = pageData
	w.Header().Set("Content-Type", "text/html")
	if handleTemplateError(w, r, "london.go", "London", mode.String(), pageTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}

func getLondonPageData(mode charts.ChartMode) (*models.LondonPageData, error) {
	pageData := &models.LondonPageData{}
	pageCacheKey := fmt.Sprintf("london:%v", mode)
	pageRes, pageErr := services.GlobalFrontendCache.ProcessCachedPage(pageCacheKey, true, pageData, func(pageCall *services.FrontendCacheProcessingPage) interface{} {
		pageData, cacheTimeout := buildLondonPageData(pageCall.CallCtx, mode)
		pageCall.CacheTimeout = cacheTimeout
		return pageData
	})
	if pageErr == nil && pageRes != nil {
		resData, resOk := pageRes.(*models.LondonPageData)
		if !resOk {
			return nil, ErrInvalidPageModel
		}
		pageData = resData
	}
	return pageData, pageErr
}

func buildLondonPageData(ctx context.Context, mode charts.ChartMode) (*models.LondonPageData, time.Duration) {
	logrus.Debugf("london page called: %v", mode)

	pageData := &models.LondonPageData{
		Mode:  mode.String(),
		Modes: make([]*models.LondonPageChartMode, len(londonChartModes)),
	}
	for i, chartMode := range londonChartModes {
		pageData.Modes[i] = &models.LondonPageChartMode{
			Name:     chartMode.mode.String(),
			Label:    chartMode.label,
			IsActive: chartMode.mode == mode,
		}
	}

	blocks, err := services.GlobalExecutionService.GetChartBlocks(ctx, utils.Config.Frontend.LondonChartBlocks)
	if err != nil {
		logrus.WithError(err).Warnf("failed loading chart blocks")
		return pageData, 0
	}

	chart, err := charts.BuildChart(mode, blocks)
	if err != nil {
		logrus.WithError(err).Errorf("failed building %v chart", mode)
		return pageData, 0
	}
	chartJSON, err := json.Marshal(chart)
	if err != nil {
		logrus.WithError(err).Errorf("failed encoding %v chart", mode)
		return pageData, 0
	}
	pageData.ChartJSON = template.JS(chartJSON)
	pageData.HasBlocks = len(blocks) > 0

	pageData.Blocks = make([]*models.LondonPageDataBlock, len(blocks))
	for i, block := range blocks {
		blockData := &models.LondonPageDataBlock{
			Number:      block.Number,
			Hash:        block.Hash.Bytes(),
			Ts:          time.Unix(int64(block.Timestamp), 0).UTC(),
			GasUsed:     block.GasUsed,
			GasTarget:   charts.GasTarget(block.GasLimit),
			OverTarget:  charts.IsOverGasTarget(block.GasUsed, block.GasLimit),
			BlockReward: block.BlockReward,
			UncleReward: block.UncleReward,
			FeeReward:   block.FeeReward,
		}
		if block.BaseFee != nil {
			blockData.BaseFee = block.BaseFee.Uint64()
			blockData.BurntFees = new(big.Int).Mul(new(big.Int).SetUint64(block.GasUsed), block.BaseFee)
		}
		if block.TotalBurnt != nil && pageData.TotalBurnt == nil {
			pageData.HasSupply = true
			pageData.TotalBurnt = block.TotalBurnt
		}
		pageData.Blocks[i] = blockData
	}

	return pageData, 6 * time.Second
}
