package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types/models"
)

// Address will return the "address" page using a go template
func Address(w http.ResponseWriter, r *http.Request) {
	var addressTemplateFiles = append(layoutTemplateFiles,
		"address/address.html",
	)
	var pageTemplate = templates.GetTemplate(addressTemplateFiles...)

	addressStr := routeVar(r, "address")
	if !common.IsHexAddress(addressStr) {
		NotFound(w, r)
		return
	}
	address := common.HexToAddress(addressStr)
	tab := routeTab(r, "overview")

	pageData, pageError := getAddressPageData(address, tab)
	if pageError != nil {
		handlePageError(w, r, pageError)
		return
	}
	if pageData == nil {
		NotFound(w, r)
		return
	}

	data := InitPageData(w, r, "blockchain", "/address", fmt.Sprintf("Address %v", address.Hex()), addressTemplateFiles)
	data.Data = pageData
	w.Header().Set("Content-Type", "text/html")
	if handleTemplateError(w, r, "address.go", "Address", tab, pageTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}

func getAddressPageData(address common.Address, tab string) (*models.AddressPageData, error) {
	pageData := &models.AddressPageData{}
	pageCacheKey := fmt.Sprintf("address:%v:%v", address.Hex(), tab)
	pageRes, pageErr := services.GlobalFrontendCache.ProcessCachedPage(pageCacheKey, true, pageData, func(pageCall *services.FrontendCacheProcessingPage) interface{} {
		pageData, cacheTimeout := buildAddressPageData(pageCall.CallCtx, address, tab)
		pageCall.CacheTimeout = cacheTimeout
		return pageData
	})
	if pageErr == nil && pageRes != nil {
		resData, resOk := pageRes.(*models.AddressPageData)
		if !resOk {
			return nil, ErrInvalidPageModel
		}
		pageData = resData
	}
	return pageData, pageErr
}

func buildAddressPageData(ctx context.Context, address common.Address, tab string) (*models.AddressPageData, time.Duration) {
	logrus.Debugf("address page called: %v (%v)", address.Hex(), tab)

	details, err := services.GlobalExecutionService.GetAddress(ctx, address)
	if err != nil {
		logrus.WithError(err).Debugf("address %v unavailable", address.Hex())
		return nil, 0
	}

	pageData := &models.AddressPageData{
		Address:    address.Bytes(),
		Tab:        tab,
		Balance:    details.Balance,
		Nonce:      details.Nonce,
		IsContract: len(details.Code) > 0,
		CodeSize:   uint64(len(details.Code)),
	}
	if tab == "code" {
		pageData.Code = details.Code
	}

	return pageData, 12 * time.Second
}
