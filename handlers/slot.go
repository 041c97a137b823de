package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/rpctypes"
	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types"
	"github.com/ethpandaops/slotscope/types/models"
	"github.com/ethpandaops/slotscope/utils"
)

// Slot will return the "slot" page using a go template.
// Unknown tabs fall back to the overview.
func Slot(w http.ResponseWriter, r *http.Request) {
	tab := routeTab(r, "overview")
	if tab != "attestations" {
		tab = "overview"
	}

	var slotTemplateFiles = append(layoutTemplateFiles,
		"slot/slot.html",
		"slot/overview.html",
		"slot/attestations.html",
	)
	var pageTemplate = templates.GetTemplate(slotTemplateFiles...)

	slot, isValid := parseUintVar(r, "slot")
	if !isValid {
		NotFound(w, r)
		return
	}

	pageData, pageError := getSlotPageData(slot, tab)
	if pageError != nil {
		handlePageError(w, r, pageError)
		return
	}

	title := ""
	if pageData.Status == models.SlotStatusProposed {
		title = fmt.Sprintf("Slot #%v", slot)
	}
	data := InitPageData(w, r, "blockchain", "/slot", title, slotTemplateFiles)
	data.Data = pageData
	w.Header().Set("Content-Type", "text/html")
	if handleTemplateError(w, r, "slot.go", "Slot", tab, pageTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}

func getSlotPageData(slot uint64, tab string) (*models.SlotPageData, error) {
	pageData := &models.SlotPageData{}
	pageCacheKey := fmt.Sprintf("slot:%v:%v", slot, tab)
	pageRes, pageErr := services.GlobalFrontendCache.ProcessCachedPage(pageCacheKey, true, pageData, func(pageCall *services.FrontendCacheProcessingPage) interface{} {
		pageData, cacheTimeout := buildSlotPageData(pageCall.CallCtx, slot, tab)
		pageCall.CacheTimeout = cacheTimeout
		return pageData
	})
	if pageErr == nil && pageRes != nil {
		resData, resOk := pageRes.(*models.SlotPageData)
		if !resOk {
			return nil, ErrInvalidPageModel
		}
		pageData = resData
	}
	return pageData, pageErr
}

func buildSlotPageData(ctx context.Context, slot uint64, tab string) (*models.SlotPageData, time.Duration) {
	logrus.Debugf("slot page called: %v (%v)", slot, tab)

	beaconService := services.GlobalBeaconService
	chainSpec := beaconService.GetChainSpec()

	pageData := &models.SlotPageData{
		Slot:        slot,
		Epoch:       chainSpec.EpochOfSlot(slot),
		HasPrevious: slot > 0,
		HasNext:     slot < math.MaxUint64,
		Tab:         tab,
	}
	if pageData.HasPrevious {
		pageData.PreviousSlot = slot - 1
	}
	if pageData.HasNext {
		pageData.NextSlot = slot + 1
	}

	if slotTs := beaconService.GetSlotTimestamp(ctx, &slot); slotTs.IsReady() {
		pageData.Ts = utils.TimestampToTime(slotTs.Value)
		pageData.HasTs = true
	}

	blockRes := beaconService.GetSlot(ctx, slot)
	switch blockRes.Status {
	case services.LoadStatusUnconfigured:
		pageData.Status = models.SlotStatusUnconfigured
		return pageData, 0
	case services.LoadStatusReady:
		pageData.Status = models.SlotStatusProposed
	default:
		pageData.Status = models.SlotStatusUnavailable
		return pageData, 12 * time.Second
	}

	pageData.Version = blockRes.Value.Version
	pageData.Finalized = blockRes.Value.Finalized
	block := blockRes.Value.Data
	pageData.Proposer = uint64(block.Message.ProposerIndex)
	pageData.ProposerName = services.GlobalValidatorNames.GetValidatorName(pageData.Proposer)

	if rootRes := beaconService.GetBlockRoot(ctx, slot); rootRes.IsReady() {
		pageData.BlockRoot = rootRes.Value.Data.Root
	}

	pageData.Block = buildSlotPageBlock(&block)

	committeesLoading := false
	if tab == "attestations" && block.Message.Body.Attestations != nil {
		pageData.Block.Attestations = make([]*models.SlotPageAttestation, len(*block.Message.Body.Attestations))
		for i, attestation := range *block.Message.Body.Attestations {
			attData := buildSlotPageAttestation(beaconService, uint64(i), &attestation)
			if attData.CommitteeStatus == models.CommitteeStatusLoading {
				committeesLoading = true
			}
			pageData.Block.Attestations[i] = attData
		}
	}

	// committees still loading in background must not be cached as loading
	if committeesLoading {
		return pageData, 0
	}
	return pageData, 30 * time.Minute
}

func buildSlotPageBlock(block *rpctypes.SignedBeaconBlock) *models.SlotPageBlockData {
	body := &block.Message.Body
	blockData := &models.SlotPageBlockData{
		ParentRoot:             block.Message.ParentRoot,
		StateRoot:              block.Message.StateRoot,
		Signature:              block.Signature,
		RandaoReveal:           body.RandaoReveal,
		Graffiti:               body.Graffiti,
		Eth1dataDepositroot:    body.Eth1Data.DepositRoot,
		Eth1dataDepositcount:   uint64(body.Eth1Data.DepositCount),
		Eth1dataBlockhash:      body.Eth1Data.BlockHash,
		DepositsCount:          uint64(len(body.Deposits)),
		VoluntaryExitsCount:    uint64(len(body.VoluntaryExits)),
		ProposerSlashingsCount: uint64(len(body.ProposerSlashings)),
		AttesterSlashingsCount: uint64(len(body.AttesterSlashings)),
	}

	if body.Attestations != nil {
		blockData.HasAttestations = true
		blockData.AttestationsCount = uint64(len(*body.Attestations))
	}

	if body.SyncAggregate != nil {
		blockData.HasSyncAggregate = true
		blockData.SyncAggregateBits = body.SyncAggregate.SyncCommitteeBits
		blockData.SyncAggregateSignature = body.SyncAggregate.SyncCommitteeSignature
		blockData.SyncAggParticipation = utils.BitvectorParticipation(body.SyncAggregate.SyncCommitteeBits)
	}

	if payload := body.ExecutionPayload; payload != nil {
		blockData.ExecutionData = &models.SlotPageExecutionData{
			ParentHash:        payload.ParentHash,
			FeeRecipient:      payload.FeeRecipient,
			BlockHash:         payload.BlockHash,
			BlockNumber:       uint64(payload.BlockNumber),
			GasLimit:          uint64(payload.GasLimit),
			GasUsed:           uint64(payload.GasUsed),
			Timestamp:         uint64(payload.Timestamp),
			Time:              time.Unix(int64(payload.Timestamp), 0).UTC(),
			BaseFeePerGas:     payload.BaseFeePerGas.Uint64(),
			TransactionsCount: uint64(len(payload.Transactions)),
		}
	}

	return blockData
}

// buildSlotPageAttestation resolves the committee without blocking, rows show a loading state until it is fetched
func buildSlotPageAttestation(beaconService *services.BeaconService, index uint64, attestation *rpctypes.Attestation) *models.SlotPageAttestation {
	attData := &models.SlotPageAttestation{
		Index:           index,
		Slot:            uint64(attestation.Data.Slot),
		CommitteeIndex:  uint64(attestation.Data.Index),
		AggregationBits: attestation.AggregationBits,
		BeaconBlockRoot: attestation.Data.BeaconBlockRoot,
		SourceEpoch:     uint64(attestation.Data.Source.Epoch),
		SourceRoot:      attestation.Data.Source.Root,
		TargetEpoch:     uint64(attestation.Data.Target.Epoch),
		TargetRoot:      attestation.Data.Target.Root,
		Signature:       attestation.Signature,
	}
	attData.IncludedValidators, attData.CommitteeSize = utils.BitlistParticipation(attestation.AggregationBits)

	committeeRes := beaconService.LookupCommittee(attData.Slot, attData.CommitteeIndex)
	switch committeeRes.Status {
	case services.LoadStatusPending:
		attData.CommitteeStatus = models.CommitteeStatusLoading
	case services.LoadStatusReady:
		attData.CommitteeStatus = models.CommitteeStatusReady
		for _, committee := range committeeRes.Value.Data {
			if uint64(committee.Index) != attData.CommitteeIndex || uint64(committee.Slot) != attData.Slot {
				continue
			}
			attData.Validators = make([]types.NamedValidator, len(committee.Validators))
			for i, validator := range committee.Validators {
				attData.Validators[i] = types.NamedValidator{
					Index: uint64(validator),
					Name:  services.GlobalValidatorNames.GetValidatorName(uint64(validator)),
				}
			}
		}
	default:
		attData.CommitteeStatus = models.CommitteeStatusUnavailable
	}

	return attData
}
