package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types/models"
)

// Validator will return the main "validator" page using a go template
func Validator(w http.ResponseWriter, r *http.Request) {
	var validatorTemplateFiles = append(layoutTemplateFiles,
		"validator/validator.html",
	)
	var pageTemplate = templates.GetTemplate(validatorTemplateFiles...)

	index, isValid := parseUintVar(r, "index")
	if !isValid {
		NotFound(w, r)
		return
	}

	pageData, pageError := getValidatorPageData(index)
	if pageError != nil {
		handlePageError(w, r, pageError)
		return
	}

	title := ""
	if pageData.Resolved {
		title = fmt.Sprintf("Validator #%v", index)
	}
	data := InitPageData(w, r, "blockchain", "/validator", title, validatorTemplateFiles)
	data.Data = pageData
	w.Header().Set("Content-Type", "text/html")
	if handleTemplateError(w, r, "validator.go", "Validator", "", pageTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}

func getValidatorPageData(index uint64) (*models.ValidatorPageData, error) {
	pageData := &models.ValidatorPageData{}
	pageCacheKey := fmt.Sprintf("validator:%v", index)
	pageRes, pageErr := services.GlobalFrontendCache.ProcessCachedPage(pageCacheKey, true, pageData, func(pageCall *services.FrontendCacheProcessingPage) interface{} {
		pageData, cacheTimeout := buildValidatorPageData(pageCall.CallCtx, index)
		pageCall.CacheTimeout = cacheTimeout
		return pageData
	})
	if pageErr == nil && pageRes != nil {
		resData, resOk := pageRes.(*models.ValidatorPageData)
		if !resOk {
			return nil, ErrInvalidPageModel
		}
		pageData = resData
	}
	return pageData, pageErr
}

func buildValidatorPageData(ctx context.Context, index uint64) (*models.ValidatorPageData, time.Duration) {
	logrus.Debugf("validator page called: %v", index)

	pageData := &models.ValidatorPageData{
		Index: index,
		Name:  services.GlobalValidatorNames.GetValidatorName(index),
	}

	validatorRes := services.GlobalBeaconService.GetValidator(ctx, index)
	if !validatorRes.IsReady() {
		return pageData, 0
	}

	// the head state url is cached like every other beacon response, the values reflect the first load
	entry := validatorRes.Value.Data
	pageData.Resolved = true
	pageData.Status = entry.Status
	pageData.Balance = uint64(entry.Balance)
	pageData.EffectiveBalance = uint64(entry.Validator.EffectiveBalance)
	pageData.PublicKey = entry.Validator.PubKey
	pageData.WithdrawalCredentials = entry.Validator.WithdrawalCredentials
	pageData.Slashed = entry.Validator.Slashed
	pageData.ActivationEligibilityEpoch = uint64(entry.Validator.ActivationEligibilityEpoch)
	pageData.ActivationEpoch = uint64(entry.Validator.ActivationEpoch)
	pageData.ExitEpoch = uint64(entry.Validator.ExitEpoch)
	pageData.WithdrawableEpoch = uint64(entry.Validator.WithdrawableEpoch)
	pageData.ShowActivation = pageData.ActivationEpoch != math.MaxUint64
	pageData.ShowExit = pageData.ExitEpoch != math.MaxUint64
	pageData.ShowWithdrawable = pageData.WithdrawableEpoch != math.MaxUint64

	return pageData, 5 * time.Minute
}
