package handlers

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types/models"
	"github.com/ethpandaops/slotscope/utils"
)

// Epoch will return the main "epoch" page using a go template
func Epoch(w http.ResponseWriter, r *http.Request) {
	var epochTemplateFiles = append(layoutTemplateFiles,
		"epoch/epoch.html",
	)
	var pageTemplate = templates.GetTemplate(epochTemplateFiles...)

	epoch, isValid := parseUintVar(r, "epoch")
	if !isValid || epoch > services.GlobalBeaconService.GetChainSpec().MaxEpoch() {
		NotFound(w, r)
		return
	}

	pageData, pageError := getEpochPageData(epoch)
	if pageError != nil {
		handlePageError(w, r, pageError)
		return
	}

	title := ""
	if pageData.Resolved {
		title = fmt.Sprintf("Epoch #%v", epoch)
	}
	data := InitPageData(w, r, "blockchain", "/epoch", title, epochTemplateFiles)
	data.Data = pageData
	w.Header().Set("Content-Type", "text/html")
	if handleTemplateError(w, r, "epoch.go", "Epoch", "", pageTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}

func getEpochPageData(epoch uint64) (*models.EpochPageData, error) {
	pageData := &models.EpochPageData{}
	pageCacheKey := fmt.Sprintf("epoch:%v", epoch)
	pageRes, pageErr := services.GlobalFrontendCache.ProcessCachedPage(pageCacheKey, true, pageData, func(pageCall *services.FrontendCacheProcessingPage) interface{} {
		pageData, cacheTimeout := buildEpochPageData(pageCall.CallCtx, epoch)
		pageCall.CacheTimeout = cacheTimeout
		return pageData
	})
	if pageErr == nil && pageRes != nil {
		resData, resOk := pageRes.(*models.EpochPageData)
		if !resOk {
			return nil, ErrInvalidPageModel
		}
		pageData = resData
	}
	return pageData, pageErr
}

func buildEpochPageData(ctx context.Context, epoch uint64) (*models.EpochPageData, time.Duration) {
	logrus.Debugf("epoch page called: %v", epoch)

	beaconService := services.GlobalBeaconService
	chainSpec := beaconService.GetChainSpec()

	pageData := &models.EpochPageData{
		Epoch:       epoch,
		HasPrevious: epoch > 0,
		HasNext:     epoch < chainSpec.MaxEpoch(),
	}
	if pageData.HasPrevious {
		pageData.PreviousEpoch = epoch - 1
	}
	if pageData.HasNext {
		pageData.NextEpoch = epoch + 1
	}

	if epochTs := beaconService.GetEpochTimestamp(ctx, &epoch); epochTs.IsReady() {
		pageData.Ts = utils.TimestampToTime(epochTs.Value)
		pageData.HasTs = true
	}

	slots := slices.Collect(chainSpec.EpochSlots(epoch))
	pageData.Slots = make([]*models.EpochPageDataSlot, len(slots))

	finalized := make([]bool, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, slot := range slots {
		g.Go(func() error {
			pageData.Slots[i], finalized[i] = buildEpochPageSlot(gctx, beaconService, slot)
			return nil
		})
	}
	g.Wait()

	votedBits := uint64(0)
	totalBits := uint64(0)
	syncSum := float64(0)
	syncCount := 0
	for i, slotData := range pageData.Slots {
		if slotData.Status != models.SlotStatusProposed {
			pageData.UnavailableCount++
			continue
		}

		pageData.Resolved = true
		pageData.Finalized = pageData.Finalized || finalized[i]
		pageData.ProposedCount++
		pageData.AttestationCount += slotData.AttestationCount
		pageData.DepositCount += slotData.DepositCount
		pageData.ExitCount += slotData.ExitCount
		pageData.ProposerSlashingCount += slotData.ProposerSlashingCount
		pageData.AttesterSlashingCount += slotData.AttesterSlashingCount
		votedBits += slotData.VotedBits
		totalBits += slotData.TotalBits
		if slotData.HasSyncAggregate {
			syncSum += slotData.SyncParticipation
			syncCount++
		}
	}
	if totalBits > 0 {
		pageData.VotingParticipation = float64(votedBits) / float64(totalBits)
	}
	if syncCount > 0 {
		pageData.SyncParticipation = syncSum / float64(syncCount)
		pageData.HasSyncParticipation = true
	}

	// missing slots might still show up, resolved slots never change
	cacheTimeout := 12 * time.Second
	if pageData.UnavailableCount == 0 {
		cacheTimeout = 30 * time.Minute
	}
	return pageData, cacheTimeout
}

func buildEpochPageSlot(ctx context.Context, beaconService *services.BeaconService, slot uint64) (*models.EpochPageDataSlot, bool) {
	slotData := &models.EpochPageDataSlot{
		Slot: slot,
	}

	if slotTs := beaconService.GetSlotTimestamp(ctx, &slot); slotTs.IsReady() {
		slotData.Ts = utils.TimestampToTime(slotTs.Value)
		slotData.HasTs = true
	}

	blockRes := beaconService.GetSlot(ctx, slot)
	switch blockRes.Status {
	case services.LoadStatusUnconfigured:
		slotData.Status = models.SlotStatusUnconfigured
		return slotData, false
	case services.LoadStatusReady:
		slotData.Status = models.SlotStatusProposed
	default:
		slotData.Status = models.SlotStatusUnavailable
		return slotData, false
	}

	block := blockRes.Value.Data.Message
	slotData.Proposer = uint64(block.ProposerIndex)
	slotData.ProposerName = services.GlobalValidatorNames.GetValidatorName(slotData.Proposer)
	slotData.DepositCount = uint64(len(block.Body.Deposits))
	slotData.ExitCount = uint64(len(block.Body.VoluntaryExits))
	slotData.ProposerSlashingCount = uint64(len(block.Body.ProposerSlashings))
	slotData.AttesterSlashingCount = uint64(len(block.Body.AttesterSlashings))

	if block.Body.Attestations != nil {
		slotData.AttestationCount = uint64(len(*block.Body.Attestations))
		for _, attestation := range *block.Body.Attestations {
			voted, total := utils.BitlistParticipation(attestation.AggregationBits)
			slotData.VotedBits += voted
			slotData.TotalBits += total
		}
	}

	if block.Body.SyncAggregate != nil {
		slotData.HasSyncAggregate = true
		slotData.SyncParticipation = utils.BitvectorParticipation(block.Body.SyncAggregate.SyncCommitteeBits)
	}

	if rootRes := beaconService.GetBlockRoot(ctx, slot); rootRes.IsReady() {
		slotData.BlockRoot = rootRes.Value.Data.Root
	}

	return slotData, blockRes.Value.Finalized
}
