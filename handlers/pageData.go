package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/types"
	"github.com/ethpandaops/slotscope/utils"
)

var layoutTemplateFiles = []string{
	"_layout/layout.html",
	"_layout/header.html",
	"_layout/footer.html",
	"_layout/connection.html",
}

// InitPageData prepares the layout model. An empty title yields the plain site name.
func InitPageData(w http.ResponseWriter, r *http.Request, active, path, title string, mainTemplates []string) *types.PageData {
	fullTitle := fmt.Sprintf("%v | %v", title, utils.Config.Frontend.SiteName)
	if title == "" {
		fullTitle = utils.Config.Frontend.SiteName
	}

	buildTime, _ := time.Parse("2006-01-02T15:04:05Z", utils.Buildtime)
	siteDomain := utils.Config.Frontend.SiteDomain
	if siteDomain == "" {
		siteDomain = r.Host
	}

	data := &types.PageData{
		Meta: &types.Meta{
			Title:       fullTitle,
			Description: "slotscope makes the beacon chain and its execution layer browsable",
			Domain:      siteDomain,
			Path:        path,
			Templates:   strings.Join(mainTemplates, ","),
		},
		Active:              active,
		Data:                &types.Empty{},
		Version:             utils.GetExplorerVersion(),
		BuildTime:           fmt.Sprintf("%v", buildTime.Unix()),
		Year:                time.Now().UTC().Year(),
		ExplorerTitle:       utils.Config.Frontend.SiteName,
		ExplorerSubtitle:    utils.Config.Frontend.SiteSubtitle,
		TokenSymbol:         utils.Config.Chain.TokenSymbol,
		ChainName:           utils.Config.Chain.DisplayName,
		ChainSlotsPerEpoch:  utils.Config.Chain.Config.SlotsPerEpoch,
		ChainSecondsPerSlot: utils.Config.Chain.Config.SecondsPerSlot,
		Debug:               utils.Config.Frontend.Debug,
		MainMenuItems:       createMenuItems(active),
		Connection:          getConnectionPanel(),
	}

	if utils.Config.Frontend.SiteDescription != "" {
		data.Meta.Description = utils.Config.Frontend.SiteDescription
	}
	if data.TokenSymbol == "" {
		data.TokenSymbol = "ETH"
	}
	if data.Debug {
		data.DebugTemplates = mainTemplates
	}

	return data
}

// getConnectionPanel returns the panel model while a configured node fails its connection check
func getConnectionPanel() *types.ConnectionPanel {
	if services.GlobalConnectionStatus == nil {
		return nil
	}
	status := services.GlobalConnectionStatus.GetStatus()

	panel := &types.ConnectionPanel{}
	if status.Beacon.Configured && !status.Beacon.Connected {
		panel.BeaconError = status.Beacon.Error
	}
	if status.Execution.Configured && !status.Execution.Connected {
		panel.ExecutionError = status.Execution.Error
	}
	if panel.BeaconError == "" && panel.ExecutionError == "" {
		return nil
	}
	return panel
}

func createMenuItems(active string) []types.MainMenuItem {
	return []types.MainMenuItem{
		{
			Label:    "Blockchain",
			IsActive: active == "blockchain",
			Groups: []types.NavigationGroup{
				{
					Links: []types.NavigationLink{
						{
							Label: "Overview",
							Path:  "/",
							Icon:  "fa-home",
						},
					},
				},
				{
					Links: []types.NavigationLink{
						{
							Label: "Fee Market",
							Path:  "/special/london",
							Icon:  "fa-fire",
						},
					},
				},
			},
		},
		{
			Label:    "Faucets",
			Path:     "/faucets",
			IsActive: active == "faucets",
		},
	}
}

// used to handle errors constructed by Template.ExecuteTemplate correctly
func handleTemplateError(w http.ResponseWriter, r *http.Request, fileIdentifier string, functionIdentifier string, infoIdentifier string, err error) error {
	// ignore network related errors
	if err != nil && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, syscall.ETIMEDOUT) {
		logger.WithFields(logger.Fields{
			"file":       fileIdentifier,
			"function":   functionIdentifier,
			"info":       infoIdentifier,
			"error type": fmt.Sprintf("%T", err),
			"route":      r.URL.String(),
		}).WithError(err).Error("error executing template")
		http.Error(w, "Internal server error", http.StatusServiceUnavailable)
	}
	return err
}
